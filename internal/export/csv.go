package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

const (
	CategoryProductive = "Výkon"
	CategoryAbsence    = "Absence/Náhrada"
)

// DetailHeader is shared with the CSV importer.
var DetailHeader = []string{"Datum", "Zaměstnanec", "Projekt", "Popis", "Typ", "Hodiny", "Kategorie"}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func category(t entry.WorkType) string {
	if t.Productive() {
		return CategoryProductive
	}

	return CategoryAbsence
}

// WriteDetailCSV writes one row per entry.
func WriteDetailCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(DetailHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range r.Entries {
		row := []string{
			e.Date.Format(time.DateOnly),
			r.Names.Name(e.EmployeeID),
			e.Project,
			e.Description,
			e.Type.Label(),
			hours(e.Hours),
			category(e.Type),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteSummaryCSV writes the payroll summary: project lines, absence lines
// and totals, separated by blank rows.
func WriteSummaryCSV(w io.Writer, r *Report) error {
	a := r.Aggregate

	rows := [][]string{
		{"KATEGORIE", "NÁZEV", "BĚŽNÉ HODINY (bez přesčasů)", "PŘESČAS HODINY", "CELKEM HODINY"},
	}

	for _, p := range a.Projects {
		rows = append(rows, []string{"PROJEKT", p.Name, hours(p.Regular), hours(p.Overtime), hours(p.Total)})
	}

	rows = append(rows, []string{}, []string{"KATEGORIE", "TYP ABSENCE", "", "", "HODINY"})

	for _, t := range a.Absences() {
		rows = append(rows, []string{"ABSENCE", t.Label, "", "", hours(t.Hours)})
	}

	rows = append(rows,
		[]string{},
		[]string{"CELKEM", "ODPRACOVÁNO (Běžná)", "", "", hours(a.TotalRegularProductive)},
		[]string{"CELKEM", "PŘESČASY", "", "", hours(a.TotalOvertime)},
		[]string{"CELKEM", "ABSENCE", "", "", hours(a.TotalAbsence)},
		[]string{"CELKEM", "VŠE", "", "", hours(a.Total)},
	)

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}

// BackupEntry is the JSON backup record. The importer reads the same shape.
type BackupEntry struct {
	ID          uuid.UUID      `json:"id"`
	EmployeeID  uuid.UUID      `json:"employeeId"`
	Date        string         `json:"date"`
	Project     string         `json:"project"`
	Description string         `json:"description"`
	Hours       float64        `json:"hours"`
	Type        entry.WorkType `json:"type"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func WriteBackup(w io.Writer, entries []*entry.Entry) error {
	out := make([]BackupEntry, len(entries))
	for i, e := range entries {
		out[i] = BackupEntry{
			ID:          e.ID,
			EmployeeID:  e.EmployeeID,
			Date:        e.Date.Format(time.DateOnly),
			Project:     e.Project,
			Description: e.Description,
			Hours:       e.Hours,
			Type:        e.Type,
			CreatedAt:   e.CreatedAt,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}
