package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dochazka/internal/assistant"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/ingest"
	"github.com/MrJamesThe3rd/dochazka/internal/job"
	jobstore "github.com/MrJamesThe3rd/dochazka/internal/job/store"
)

var ref = time.Date(2024, time.April, 3, 9, 30, 0, 0, time.UTC)

type fakeParser struct {
	candidates []assistant.Candidate
	err        error
	gotJobs    []assistant.JobRef
}

func (f *fakeParser) ParseEntries(_ context.Context, _ string, _ time.Time, jobs []assistant.JobRef) ([]assistant.Candidate, error) {
	f.gotJobs = jobs
	return f.candidates, f.err
}

type fakeCreator struct {
	got []entry.CreateParams
	err error
}

func (f *fakeCreator) CreateBatch(_ context.Context, params []entry.CreateParams) ([]*entry.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.got = params

	out := make([]*entry.Entry, len(params))
	for i, p := range params {
		out[i] = &entry.Entry{ID: uuid.New(), EmployeeID: p.EmployeeID, Date: p.Date, Hours: p.Hours, Type: p.Type}
	}

	return out, nil
}

func catalog(t *testing.T) *job.Service {
	t.Helper()

	svc := job.NewService(jobstore.NewMemory())

	_, err := svc.Create(context.Background(), "WEB-001", "Website Redesign")
	require.NoError(t, err)

	return svc
}

func ptr[T any](v T) *T { return &v }

func TestService_Normalize(t *testing.T) {
	employeeID := uuid.New()
	svc := ingest.NewService(nil, catalog(t), nil)

	type testCase struct {
		name      string
		candidate assistant.Candidate
		want      *entry.CreateParams
		reject    string
	}

	tests := []testCase{
		{
			name:      "Defaults",
			candidate: assistant.Candidate{Hours: ptr(8.0)},
			want: &entry.CreateParams{
				Date: time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC), Type: entry.TypeRegular,
				Project: "General", Description: "Work", Hours: 8,
			},
		},
		{
			name: "Project resolved through catalog",
			candidate: assistant.Candidate{
				Date: ptr("2024-04-02"), Project: ptr("web-001"), Hours: ptr(4.0), Type: ptr("Běžná práce"),
				Description: ptr(" landing page "),
			},
			want: &entry.CreateParams{
				Date: time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC), Type: entry.TypeRegular,
				Project: "Website Redesign", Description: "landing page", Hours: 4,
			},
		},
		{
			name:      "Absence drops project",
			candidate: assistant.Candidate{Project: ptr("Website Redesign"), Hours: ptr(2.0), Type: ptr("Lékař")},
			want: &entry.CreateParams{
				Date: time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC), Type: entry.TypeDoctor,
				Description: "Work", Hours: 2,
			},
		},
		{
			name:      "Bad date",
			candidate: assistant.Candidate{Date: ptr("yesterday"), Hours: ptr(8.0)},
			reject:    "unparseable date",
		},
		{
			name:      "Unknown type",
			candidate: assistant.Candidate{Hours: ptr(8.0), Type: ptr("Siesta")},
			reject:    "Siesta",
		},
		{
			name:      "Missing hours",
			candidate: assistant.Candidate{Type: ptr("vacation")},
			reject:    "hours are missing",
		},
		{
			name:      "Hours out of range",
			candidate: assistant.Candidate{Hours: ptr(30.0)},
			reject:    "hours must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Normalize(context.Background(), employeeID, []assistant.Candidate{tt.candidate}, ref)
			require.NoError(t, err)

			if tt.reject != "" {
				assert.Empty(t, got.Entries)
				require.Len(t, got.Rejects, 1)
				assert.Contains(t, got.Rejects[0].Reason, tt.reject)

				return
			}

			require.Empty(t, got.Rejects)
			require.Len(t, got.Entries, 1)

			want := *tt.want
			want.EmployeeID = employeeID
			assert.Equal(t, want, got.Entries[0])
		})
	}
}

func TestService_Parse(t *testing.T) {
	employeeID := uuid.New()

	parser := &fakeParser{candidates: []assistant.Candidate{
		{Hours: ptr(8.0), Project: ptr("Website")},
		{Hours: nil},
	}}
	svc := ingest.NewService(parser, catalog(t), nil)

	got, err := svc.Parse(context.Background(), employeeID, "celý den web", ref)
	require.NoError(t, err)

	assert.Equal(t, []assistant.JobRef{{Code: "WEB-001", Name: "Website Redesign"}}, parser.gotJobs)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "Website Redesign", got.Entries[0].Project)
	require.Len(t, got.Rejects, 1)
	assert.Equal(t, 1, got.Rejects[0].Index)

	t.Run("EmptyText", func(t *testing.T) {
		got, err := svc.Parse(context.Background(), employeeID, "   ", ref)
		require.NoError(t, err)
		assert.Empty(t, got.Entries)
	})

	t.Run("ParserError", func(t *testing.T) {
		failing := ingest.NewService(&fakeParser{err: assistant.ErrNotConfigured}, catalog(t), nil)

		_, err := failing.Parse(context.Background(), employeeID, "text", ref)
		assert.ErrorIs(t, err, assistant.ErrNotConfigured)
	})
}

func TestService_FromCalendarEvents(t *testing.T) {
	employeeID := uuid.New()
	svc := ingest.NewService(nil, catalog(t), nil)

	start := time.Date(2024, time.April, 4, 9, 0, 0, 0, time.UTC)

	got, err := svc.FromCalendarEvents(context.Background(), employeeID, []ingest.CalendarEvent{
		{Title: "WEB-001 review", Start: start, End: start.Add(90 * time.Minute)},
		{Title: "Standup", Start: start, End: start.Add(-time.Hour)},
	})
	require.NoError(t, err)

	require.Len(t, got.Entries, 1)
	assert.Equal(t, "Website Redesign", got.Entries[0].Project)
	assert.Equal(t, "WEB-001 review", got.Entries[0].Description)
	assert.InDelta(t, 1.5, got.Entries[0].Hours, 1e-9)
	assert.Equal(t, entry.TypeRegular, got.Entries[0].Type)

	require.Len(t, got.Rejects, 1)
	assert.Equal(t, 1, got.Rejects[0].Index)
}

func TestService_Accept(t *testing.T) {
	params := []entry.CreateParams{{EmployeeID: uuid.New(), Date: ref, Hours: 8, Type: entry.TypeVacation}}

	creator := &fakeCreator{}
	svc := ingest.NewService(nil, nil, creator)

	got, err := svc.Accept(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, params, creator.got)

	svc = ingest.NewService(nil, nil, &fakeCreator{err: errors.New("locked")})

	_, err = svc.Accept(context.Background(), params)
	assert.ErrorContains(t, err, "accepting entries: locked")
}
