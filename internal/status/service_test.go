package status_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	entrystore "github.com/MrJamesThe3rd/dochazka/internal/entry/store"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
	statusstore "github.com/MrJamesThe3rd/dochazka/internal/status/store"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

var (
	cal   = calendar.Czech(2000, 2100)
	april = calendar.Month{Year: 2024, Month: time.April}
	may   = calendar.Month{Year: 2024, Month: time.May}
	today = time.Date(2024, time.May, 6, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	statuses *status.Service
	entries  *entry.Service
}

func newFixture(policy status.Policy) fixture {
	entryRepo := entrystore.NewMemory()
	statuses := status.NewService(statusstore.NewMemory(), entryRepo, validation.New(cal, 8, false), policy).
		WithClock(func() time.Time { return today })

	return fixture{
		statuses: statuses,
		entries:  entry.NewService(entryRepo, statuses, cal),
	}
}

func fillMonth(t *testing.T, f fixture, employeeID uuid.UUID, m calendar.Month) {
	t.Helper()

	params := entry.CreateParams{
		EmployeeID: employeeID,
		Date:       m.Start(),
		Project:    "Alpha",
		Hours:      8,
		Type:       entry.TypeRegular,
	}

	_, err := f.entries.CreateRange(context.Background(), params, m.End())
	require.NoError(t, err)
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("BlockedByMissingDays", func(t *testing.T) {
		f := newFixture(status.Policy{BlockSubmitOnErrors: true})
		employeeID := uuid.New()

		_, issues, err := f.statuses.Submit(ctx, employeeID, april, status.RoleEmployee)

		var blocked *status.SubmissionBlockedError
		require.ErrorAs(t, err, &blocked)
		assert.Len(t, blocked.Issues, 21)
		assert.Len(t, issues, 21)

		st, err := f.statuses.Get(ctx, employeeID, april)
		require.NoError(t, err)
		assert.Equal(t, status.StatusDraft, st.Status)
	})

	t.Run("WarnOnly", func(t *testing.T) {
		f := newFixture(status.Policy{BlockSubmitOnErrors: false})
		employeeID := uuid.New()

		st, issues, err := f.statuses.Submit(ctx, employeeID, april, status.RoleEmployee)
		require.NoError(t, err)
		assert.Equal(t, status.StatusSubmitted, st.Status)
		assert.Len(t, issues, 21)
		assert.Equal(t, today, *st.SubmittedAt)
	})

	t.Run("CleanMonth", func(t *testing.T) {
		f := newFixture(status.Policy{BlockSubmitOnErrors: true})
		employeeID := uuid.New()
		fillMonth(t, f, employeeID, april)

		st, issues, err := f.statuses.Submit(ctx, employeeID, april, status.RoleEmployee)
		require.NoError(t, err)
		assert.Empty(t, issues)
		assert.Equal(t, status.StatusSubmitted, st.Status)
	})
}

func TestService_SubmitChecksTransitionFirst(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name  string
		steps []status.Status
	}

	tests := []testCase{
		{name: "AlreadySubmitted", steps: []status.Status{status.StatusSubmitted}},
		{name: "Approved", steps: []status.Status{status.StatusSubmitted, status.StatusApproved}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entryRepo := entrystore.NewMemory()
			statusRepo := statusstore.NewMemory()
			validator := validation.New(cal, 8, false)
			clock := func() time.Time { return today }

			lenient := status.NewService(statusRepo, entryRepo, validator, status.Policy{}).WithClock(clock)
			strict := status.NewService(statusRepo, entryRepo, validator, status.Policy{BlockSubmitOnErrors: true}).WithClock(clock)

			employeeID := uuid.New()

			for _, to := range tt.steps {
				_, _, err := lenient.Transition(ctx, employeeID, april, to, "", status.RoleManager)
				require.NoError(t, err)
			}

			_, issues, err := strict.Submit(ctx, employeeID, april, status.RoleEmployee)
			assert.ErrorIs(t, err, status.ErrInvalidTransition)
			assert.Empty(t, issues)

			var blocked *status.SubmissionBlockedError
			assert.False(t, errors.As(err, &blocked))
		})
	}
}

func TestService_EntryLock(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name       string
		steps      []status.Status
		wantLocked bool
	}

	tests := []testCase{
		{name: "Draft"},
		{name: "Submitted", steps: []status.Status{status.StatusSubmitted}, wantLocked: true},
		{name: "Approved", steps: []status.Status{status.StatusSubmitted, status.StatusApproved}, wantLocked: true},
		{name: "Rejected", steps: []status.Status{status.StatusSubmitted, status.StatusRejected}},
		{name: "Reopened", steps: []status.Status{status.StatusSubmitted, status.StatusRejected, status.StatusDraft}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(status.Policy{BlockSubmitOnErrors: true})
			employeeID := uuid.New()
			fillMonth(t, f, employeeID, april)

			for _, to := range tt.steps {
				_, _, err := f.statuses.Transition(ctx, employeeID, april, to, "checked", status.RoleManager)
				require.NoError(t, err)
			}

			existing, err := f.entries.ListMonth(ctx, employeeID, april)
			require.NoError(t, err)
			require.NotEmpty(t, existing)

			_, createErr := f.entries.Create(ctx, entry.CreateParams{
				EmployeeID: employeeID,
				Date:       time.Date(2024, time.April, 6, 0, 0, 0, 0, time.UTC),
				Project:    "Alpha",
				Hours:      2,
				Type:       entry.TypeOvertime,
			})
			_, replaceErr := f.entries.ReplaceDay(ctx, employeeID, existing[0].Date, nil, nil)
			deleteErr := f.entries.Delete(ctx, existing[1].ID)
			_, importErr := f.entries.ImportBatch(ctx, []entry.CreateParams{{
				EmployeeID: employeeID,
				Date:       time.Date(2024, time.April, 7, 0, 0, 0, 0, time.UTC),
				Hours:      4,
				Type:       entry.TypeSickDay,
			}})

			for _, err := range []error{createErr, replaceErr, deleteErr, importErr} {
				if tt.wantLocked {
					assert.ErrorIs(t, err, status.ErrLocked)
				} else {
					assert.NoError(t, err)
				}
			}
		})
	}
}

func TestService_VersionConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(status.Policy{})
	employeeID := uuid.New()

	fillMonth(t, f, employeeID, april)

	st, err := f.statuses.Get(ctx, employeeID, april)
	require.NoError(t, err)

	version := st.Version
	day := time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC)
	params := []entry.CreateParams{{Hours: 8, Type: entry.TypeVacation}}

	_, err = f.entries.ReplaceDay(ctx, employeeID, day, params, &version)
	require.NoError(t, err)

	// A second session still holding the old version loses.
	_, err = f.entries.ReplaceDay(ctx, employeeID, day, params, &version)
	assert.ErrorIs(t, err, status.ErrVersionConflict)

	st, err = f.statuses.Get(ctx, employeeID, april)
	require.NoError(t, err)
	assert.Equal(t, version+1, st.Version)
}

func TestService_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("ResetOnUnseenMonth", func(t *testing.T) {
		f := newFixture(status.Policy{ResetStatusOnUnseenMonth: true})
		employeeID := uuid.New()

		st, err := f.statuses.Current(ctx, employeeID, april)
		require.NoError(t, err)
		assert.Equal(t, status.StatusDraft, st.Status)

		fillMonth(t, f, employeeID, april)
		_, _, err = f.statuses.Submit(ctx, employeeID, april, status.RoleEmployee)
		require.NoError(t, err)

		st, err = f.statuses.Current(ctx, employeeID, april)
		require.NoError(t, err)
		assert.Equal(t, status.StatusSubmitted, st.Status, "staying on the month keeps its status")

		_, err = f.statuses.Current(ctx, employeeID, may)
		require.NoError(t, err)

		st, err = f.statuses.Current(ctx, employeeID, april)
		require.NoError(t, err)
		assert.Equal(t, status.StatusDraft, st.Status)
	})

	t.Run("PersistPerMonth", func(t *testing.T) {
		f := newFixture(status.Policy{})
		employeeID := uuid.New()

		fillMonth(t, f, employeeID, april)
		_, _, err := f.statuses.Submit(ctx, employeeID, april, status.RoleEmployee)
		require.NoError(t, err)

		_, err = f.statuses.Current(ctx, employeeID, may)
		require.NoError(t, err)

		st, err := f.statuses.Current(ctx, employeeID, april)
		require.NoError(t, err)
		assert.Equal(t, status.StatusSubmitted, st.Status)
	})
}

func TestService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	dbErr := errors.New("db error")

	type testCase struct {
		name      string
		setupMock func(repo *status.MockRepository)
		call      func(s *status.Service) error
		wantErr   error
	}

	tests := []testCase{
		{
			name: "GetFails",
			setupMock: func(repo *status.MockRepository) {
				repo.EXPECT().GetStatus(gomock.Any(), employeeID, april).Return(nil, dbErr)
			},
			call: func(s *status.Service) error {
				return s.CheckEditable(ctx, employeeID, april, nil)
			},
			wantErr: dbErr,
		},
		{
			name: "ConcurrentApproval",
			setupMock: func(repo *status.MockRepository) {
				repo.EXPECT().GetStatus(gomock.Any(), employeeID, april).
					Return(&status.MonthStatus{EmployeeID: employeeID, Month: april, Status: status.StatusSubmitted, Version: 7}, nil)
				repo.EXPECT().SaveStatus(gomock.Any(), gomock.Any(), int64(7)).Return(status.ErrVersionConflict)
			},
			call: func(s *status.Service) error {
				_, err := s.Approve(ctx, employeeID, april, "", status.RoleManager)
				return err
			},
			wantErr: status.ErrVersionConflict,
		},
		{
			name: "StaleExpectedVersion",
			setupMock: func(repo *status.MockRepository) {
				repo.EXPECT().GetStatus(gomock.Any(), employeeID, april).
					Return(&status.MonthStatus{EmployeeID: employeeID, Month: april, Status: status.StatusDraft, Version: 4}, nil)
			},
			call: func(s *status.Service) error {
				v := int64(3)
				return s.CheckEditable(ctx, employeeID, april, &v)
			},
			wantErr: status.ErrVersionConflict,
		},
		{
			name: "ListEntriesFails",
			call: func(s *status.Service) error {
				_, err := s.Issues(ctx, employeeID, april)
				return err
			},
			wantErr: dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := status.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			entries := status.NewMockEntryLister(ctrl)
			entries.EXPECT().ListEntries(gomock.Any(), gomock.Any()).Return(nil, dbErr).AnyTimes()

			svc := status.NewService(repo, entries, status.NewMockMonthValidator(ctrl), status.Policy{})

			assert.ErrorIs(t, tt.call(svc), tt.wantErr)
		})
	}
}
