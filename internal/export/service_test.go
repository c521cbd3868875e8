package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dochazka/internal/aggregate"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

type fakeLister struct {
	entries []*entry.Entry
}

func (f *fakeLister) List(_ context.Context, filter entry.ListFilter) ([]*entry.Entry, error) {
	var out []*entry.Entry

	for _, e := range f.entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}

	return out, nil
}

type fakeNames aggregate.NameResolver

func (f fakeNames) Names(context.Context) (aggregate.NameResolver, error) {
	return aggregate.NameResolver(f), nil
}

type fakeRenderer struct {
	html string
}

func (f *fakeRenderer) RenderHTML(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-fake"), nil
}

var (
	jan    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	petr   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	april  = calendar.Month{Year: 2024, Month: time.April}
	fixed  = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	lister = &fakeLister{entries: []*entry.Entry{
		{EmployeeID: jan, Date: day(3), Project: "Website Redesign", Description: "Layout, header", Hours: 8, Type: entry.TypeRegular},
		{EmployeeID: jan, Date: day(2), Project: "Website Redesign", Description: "Wireframes", Hours: 6, Type: entry.TypeRegular},
		{EmployeeID: jan, Date: day(2), Project: "Website Redesign", Description: "Release", Hours: 2.5, Type: entry.TypeOvertime},
		{EmployeeID: jan, Date: day(4), Hours: 8, Type: entry.TypeVacation},
		{EmployeeID: petr, Date: day(2), Project: "Internal Tool", Hours: 8, Type: entry.TypeRegular},
		{EmployeeID: jan, Date: time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC), Project: "Internal Tool", Hours: 8, Type: entry.TypeRegular},
	}}
)

func day(d int) time.Time {
	return time.Date(2024, time.April, d, 0, 0, 0, 0, time.UTC)
}

func newService(renderer Renderer) *Service {
	names := fakeNames{jan: "Jan Novák", petr: "Petr Manažer"}

	return NewService(lister, names, validation.New(calendar.Czech(2000, 2100), 8, false), renderer, "mzdy@example.com").
		WithClock(func() time.Time { return fixed })
}

func TestService_Build(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	type testCase struct {
		name       string
		filter     Filter
		wantCount  int
		wantPeriod string
		wantName   string
		wantIssues bool
	}

	project := "Internal Tool"

	tests := []testCase{
		{name: "Everything", filter: Filter{}, wantCount: 6, wantPeriod: AllHistory, wantName: AllEmployees},
		{name: "One employee month", filter: Filter{EmployeeID: &jan, Month: april}, wantCount: 4, wantPeriod: "2024-04", wantName: "Jan Novák", wantIssues: true},
		{name: "Project across months", filter: Filter{Project: &project}, wantCount: 2, wantPeriod: AllHistory, wantName: AllEmployees},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := svc.Build(ctx, tt.filter)
			require.NoError(t, err)

			assert.Len(t, r.Entries, tt.wantCount)
			assert.Equal(t, tt.wantPeriod, r.Period)
			assert.Equal(t, tt.wantName, r.EmployeeName)
			assert.Equal(t, tt.wantIssues, len(r.Issues) > 0)

			for i := 1; i < len(r.Entries); i++ {
				assert.False(t, r.Entries[i].Date.Before(r.Entries[i-1].Date), "entries are date sorted")
			}
		})
	}
}

func TestWriteDetailCSV(t *testing.T) {
	r, err := newService(nil).Build(context.Background(), Filter{EmployeeID: &jan, Month: april})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDetailCSV(&buf, r))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, DetailHeader, rows[0])
	assert.Equal(t, []string{"2024-04-02", "Jan Novák", "Website Redesign", "Wireframes", "Běžná práce", "6", "Výkon"}, rows[1])
	assert.Equal(t, []string{"2024-04-02", "Jan Novák", "Website Redesign", "Release", "Přesčas", "2.5", "Výkon"}, rows[2])
	assert.Equal(t, "Layout, header", rows[3][3], "commas survive quoting")
	assert.Equal(t, []string{"2024-04-04", "Jan Novák", "", "", "Dovolená", "8", "Absence/Náhrada"}, rows[4])
}

func TestWriteSummaryCSV(t *testing.T) {
	r, err := newService(nil).Build(context.Background(), Filter{Month: april})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "PROJEKT,Internal Tool,8,0,8\n")
	assert.Contains(t, out, "PROJEKT,Website Redesign,14,2.5,16.5\n")
	assert.Contains(t, out, "ABSENCE,Dovolená,,,8\n")
	assert.Contains(t, out, "CELKEM,ODPRACOVÁNO (Běžná),,,22\n")
	assert.Contains(t, out, "CELKEM,VŠE,,,32.5\n")
	assert.Less(t, strings.Index(out, "Internal Tool"), strings.Index(out, "Website Redesign"))
}

func TestWriteBackup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBackup(&buf, lister.entries[:1]))

	var got []BackupEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2024-04-03", got[0].Date)
	assert.Equal(t, entry.TypeRegular, got[0].Type)
	assert.Equal(t, jan, got[0].EmployeeID)
}

func TestService_EmailDraft(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	t.Run("MonthWithIssues", func(t *testing.T) {
		r, err := svc.Build(ctx, Filter{EmployeeID: &jan, Month: april})
		require.NoError(t, err)

		email := svc.EmailDraft(r)
		assert.Equal(t, "mzdy@example.com", email.Recipient)
		assert.Equal(t, "Podklady pro mzdy - Jan Novák - 2024-04", email.Subject)
		assert.Contains(t, email.Body, "Automatická kontrola upozorňuje")
		assert.Contains(t, email.Body, "Prosím o kontrolu.")
		assert.True(t, strings.HasSuffix(email.Body, "Jan Novák\n"))
	})

	t.Run("AllHistory", func(t *testing.T) {
		r, err := svc.Build(ctx, Filter{})
		require.NoError(t, err)

		email := svc.EmailDraft(r)
		assert.Equal(t, "Podklady pro mzdy - Hromadný výkaz - Souhrn", email.Subject)
		assert.NotContains(t, email.Body, "Automatická kontrola")
	})
}

func TestService_RenderPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("Unavailable", func(t *testing.T) {
		svc := newService(nil)
		r, err := svc.Build(ctx, Filter{})
		require.NoError(t, err)

		_, err = svc.RenderPDF(ctx, r)
		assert.ErrorIs(t, err, ErrPDFUnavailable)
	})

	t.Run("Gotenberg", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)

			_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			require.NoError(t, err)

			part, err := multipart.NewReader(r.Body, params["boundary"]).NextPart()
			require.NoError(t, err)
			assert.Equal(t, "files", part.FormName())
			assert.Equal(t, "index.html", part.FileName())

			html, err := io.ReadAll(part)
			require.NoError(t, err)
			assert.Contains(t, string(html), "Výkaz práce: 2024-04")
			assert.Contains(t, string(html), "Podpis zaměstnance")

			_, _ = w.Write([]byte("%PDF-1.7"))
		}))
		defer srv.Close()

		svc := newService(NewGotenberg(srv.URL, time.Second))
		r, err := svc.Build(ctx, Filter{EmployeeID: &jan, Month: april})
		require.NoError(t, err)

		pdf, err := svc.RenderPDF(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7", string(pdf))
	})

	t.Run("GotenbergFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		g := NewGotenberg(srv.URL, time.Second)
		assert.Error(t, g.Ping(context.Background()))

		_, err := g.RenderHTML(context.Background(), "<html></html>")
		assert.ErrorContains(t, err, "status 503")
	})
}

func TestService_Bundle(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := newService(renderer)

	r, err := svc.Build(context.Background(), Filter{EmployeeID: &jan, Month: april})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Bundle(context.Background(), &buf, r))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{
		"vykaz_prace_Jan_Nov_k_2024-04.pdf",
		"vykaz_prace_souhrn.csv",
		"vykaz_prace_detail.csv",
		"email.txt",
	}, names)
	assert.Contains(t, renderer.html, "Jan Novák")
}
