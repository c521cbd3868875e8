package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/importer/backup"
	"github.com/MrJamesThe3rd/dochazka/internal/importer/csvdetail"
)

type Service struct {
	csvImporter    Importer
	backupImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter:    csvdetail.NewParser(),
		backupImporter: backup.NewParser(),
	}
}

// DetectFormat guesses the format from a file name.
func DetectFormat(filename string) Format {
	if strings.HasSuffix(strings.ToLower(filename), ".json") {
		return FormatBackup
	}

	return FormatDetailCSV
}

func (s *Service) Import(format Format, r io.Reader, opts Options) ([]entry.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatDetailCSV:
		importer = s.csvImporter
	case FormatBackup:
		importer = s.backupImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return importer.Parse(r, opts.resolve)
}
