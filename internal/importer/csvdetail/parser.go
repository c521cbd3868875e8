// Package csvdetail reads the detail CSV written by the report export, as
// well as the same table after a round trip through a spreadsheet.
package csvdetail

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/dochazka/internal/encoding"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

const (
	colDate     = "Datum"
	colEmployee = "Zaměstnanec"
	colProject  = "Projekt"
	colDesc     = "Popis"
	colType     = "Typ"
	colHours    = "Hodiny"
)

var requiredCols = []string{colDate, colType, colHours}

var dateLayouts = []string{time.DateOnly, "2.1.2006"}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader, resolve func(name string, fileID uuid.UUID) (uuid.UUID, error)) ([]entry.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectComma(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := detectHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no timesheet header found: expected columns %s", strings.Join(requiredCols, ", "))
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1, resolve)
}

// detectComma picks ';' when the first line with any separator has more
// semicolons than commas, which is what a Czech spreadsheet locale writes.
func detectComma(data []byte) rune {
	for _, line := range bytes.Split(data, []byte("\n")) {
		semi, comma := bytes.Count(line, []byte(";")), bytes.Count(line, []byte(","))
		if semi+comma == 0 {
			continue
		}

		if semi > comma {
			return ';'
		}

		return ','
	}

	return ','
}

type colIndex map[string]int

func detectHeader(rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		found := true

		for _, name := range requiredCols {
			if _, ok := cols[name]; !ok {
				found = false
				break
			}
		}

		if found {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func parseRows(
	cols colIndex,
	rows [][]string,
	headerRowNum int,
	resolve func(name string, fileID uuid.UUID) (uuid.UUID, error),
) ([]entry.CreateParams, error) {
	var out []entry.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(cell(row, cols, colDate))
		if !ok {
			continue
		}

		t, err := entry.ParseWorkType(cell(row, cols, colType))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		hours, err := ParseHours(cell(row, cols, colHours))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid hours %q: %w", rowNum, cell(row, cols, colHours), err)
		}

		employeeID, err := resolve(cell(row, cols, colEmployee), uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params := entry.CreateParams{
			EmployeeID:  employeeID,
			Date:        date,
			Project:     cell(row, cols, colProject),
			Description: cell(row, cols, colDesc),
			Hours:       hours,
			Type:        t,
		}.Normalize()

		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		out = append(out, params)
	}

	return out, nil
}

func cell(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// parseDate returns false for empty or unparseable cells so footers and
// blank separator rows are skipped.
func parseDate(s string) (time.Time, bool) {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseHours accepts both "7.5" and the Czech "7,5".
func ParseHours(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Round(2).InexactFloat64(), nil
}
