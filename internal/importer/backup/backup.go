// Package backup restores entries from the JSON backup written by the report export.
package backup

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/export"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader, resolve func(name string, fileID uuid.UUID) (uuid.UUID, error)) ([]entry.CreateParams, error) {
	var records []export.BackupEntry
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}

	out := make([]entry.CreateParams, 0, len(records))

	for i, rec := range records {
		date, err := calendar.ParseDate(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}

		t, err := entry.ParseWorkType(string(rec.Type))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}

		employeeID, err := resolve("", rec.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}

		params := entry.CreateParams{
			EmployeeID:  employeeID,
			Date:        date,
			Project:     rec.Project,
			Description: rec.Description,
			Hours:       rec.Hours,
			Type:        t,
		}.Normalize()

		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}

		out = append(out, params)
	}

	return out, nil
}
