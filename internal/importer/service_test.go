package importer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/export"
	"github.com/MrJamesThe3rd/dochazka/internal/importer"
	"github.com/MrJamesThe3rd/dochazka/internal/importer/csvdetail"
)

var (
	jan  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	petr = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestService_Import_DetailCSV(t *testing.T) {
	svc := importer.NewService()
	opts := importer.Options{Employees: map[string]uuid.UUID{"Jan Novák": jan, "Petr Manažer": petr}}

	t.Run("ExportRoundTrip", func(t *testing.T) {
		in := `Datum,Zaměstnanec,Projekt,Popis,Typ,Hodiny,Kategorie
2024-04-02,Jan Novák,Website Redesign,"Layout, header",Běžná práce,7.5,Výkon
2024-04-02,Petr Manažer,,,Lékař,0.5,Absence/Náhrada
2024-04-03,jan novák,Website Redesign,Release,overtime,2,Výkon
`

		got, err := svc.Import(importer.FormatDetailCSV, strings.NewReader(in), opts)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, entry.CreateParams{
			EmployeeID: jan, Date: date(2024, 4, 2), Project: "Website Redesign",
			Description: "Layout, header", Hours: 7.5, Type: entry.TypeRegular,
		}, got[0])
		assert.Equal(t, petr, got[1].EmployeeID)
		assert.Equal(t, entry.TypeDoctor, got[1].Type)
		assert.Equal(t, jan, got[2].EmployeeID, "names match case-insensitively")
		assert.Equal(t, entry.TypeOvertime, got[2].Type)
	})

	t.Run("CzechSpreadsheet", func(t *testing.T) {
		in := "Výkaz práce duben\n\n" +
			"Datum;Zaměstnanec;Projekt;Popis;Typ;Hodiny\n" +
			"2. 4. 2024;Jan Novák;Internal Tool;Oprava;Běžná práce;7,25\n" +
			"03.04.2024;Jan Novák;Internal Tool;Ignored;Dovolená;8\n" +
			";;;;;\n" +
			"Celkem;;;;;15,25\n"

		encoded, err := charmap.Windows1250.NewEncoder().String(in)
		require.NoError(t, err)

		got, err := svc.Import(importer.FormatDetailCSV, strings.NewReader(encoded), opts)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, date(2024, 4, 2), got[0].Date)
		assert.InDelta(t, 7.25, got[0].Hours, 1e-9)
		assert.Equal(t, entry.TypeVacation, got[1].Type)
		assert.Empty(t, got[1].Project, "absences drop the project")
	})

	t.Run("EmployeeOverride", func(t *testing.T) {
		in := "Datum,Typ,Hodiny,Projekt\n2024-04-02,Běžná práce,8,Alpha\n"

		got, err := svc.Import(importer.FormatDetailCSV, strings.NewReader(in), importer.Options{EmployeeID: petr})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, petr, got[0].EmployeeID)
	})

	type testCase struct {
		name    string
		in      string
		wantErr string
	}

	tests := []testCase{
		{name: "No header", in: "foo,bar\n1,2\n", wantErr: "no timesheet header"},
		{name: "Unknown employee", in: "Datum,Zaměstnanec,Typ,Hodiny\n2024-04-02,Eva,Dovolená,8\n", wantErr: "row 2: unknown employee"},
		{name: "Bad type", in: "Datum,Zaměstnanec,Typ,Hodiny\n2024-04-02,Jan Novák,Siesta,8\n", wantErr: "row 2"},
		{name: "Bad hours", in: "Datum,Zaměstnanec,Typ,Hodiny\n2024-04-02,Jan Novák,Dovolená,osm\n", wantErr: "invalid hours"},
		{name: "Missing project", in: "Datum,Zaměstnanec,Typ,Hodiny\n2024-04-02,Jan Novák,Běžná práce,8\n", wantErr: "project is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(importer.FormatDetailCSV, strings.NewReader(tt.in), opts)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestService_Import_Backup(t *testing.T) {
	svc := importer.NewService()

	var buf bytes.Buffer
	require.NoError(t, export.WriteBackup(&buf, []*entry.Entry{
		{ID: uuid.New(), EmployeeID: jan, Date: date(2024, 4, 2), Project: "Alpha", Hours: 8, Type: entry.TypeRegular},
		{ID: uuid.New(), EmployeeID: petr, Date: date(2024, 4, 3), Hours: 8, Type: entry.TypeSickDay},
	}))

	got, err := svc.Import(importer.FormatBackup, bytes.NewReader(buf.Bytes()), importer.Options{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, jan, got[0].EmployeeID)
	assert.Equal(t, "Alpha", got[0].Project)
	assert.Equal(t, petr, got[1].EmployeeID)
	assert.Equal(t, entry.TypeSickDay, got[1].Type)

	_, err = svc.Import(importer.FormatBackup, strings.NewReader("{"), importer.Options{})
	assert.ErrorContains(t, err, "decoding backup")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, importer.FormatBackup, importer.DetectFormat("smartwork_backup.JSON"))
	assert.Equal(t, importer.FormatDetailCSV, importer.DetectFormat("vykaz_prace_detail.csv"))
}

func TestParseHours(t *testing.T) {
	type testCase struct {
		in   string
		want float64
	}

	for _, tt := range []testCase{
		{in: "8", want: 8},
		{in: "7.5", want: 7.5},
		{in: "7,5", want: 7.5},
		{in: " 0,25 ", want: 0.25},
		{in: "1,333", want: 1.33},
	} {
		got, err := csvdetail.ParseHours(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	_, err := csvdetail.ParseHours("")
	assert.Error(t, err)
}
