package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

var ErrUnknownEmployee = errors.New("unknown employee")

type Format string

const (
	FormatDetailCSV Format = "csv"
	FormatBackup    Format = "backup"
)

// Options controls how rows are attributed to employees. EmployeeID, when
// set, overrides whatever the file says. Otherwise an employee ID stored in
// the file is kept, and a name is looked up in Employees.
type Options struct {
	EmployeeID uuid.UUID
	Employees  map[string]uuid.UUID
}

// Importer parses a file. resolve maps the employee name or ID found in a
// row to the employee the entry belongs to.
type Importer interface {
	Parse(r io.Reader, resolve func(name string, fileID uuid.UUID) (uuid.UUID, error)) ([]entry.CreateParams, error)
}

func (o Options) resolve(name string, fileID uuid.UUID) (uuid.UUID, error) {
	if o.EmployeeID != uuid.Nil {
		return o.EmployeeID, nil
	}

	if fileID != uuid.Nil {
		return fileID, nil
	}

	for n, id := range o.Employees {
		if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(name)) {
			return id, nil
		}
	}

	return uuid.Nil, fmt.Errorf("%w %q", ErrUnknownEmployee, name)
}
