package overview_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	employeestore "github.com/MrJamesThe3rd/dochazka/internal/employee/store"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/overview"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

type entriesFunc func(entry.ListFilter) []*entry.Entry

func (f entriesFunc) List(_ context.Context, filter entry.ListFilter) ([]*entry.Entry, error) {
	return f(filter), nil
}

type statusesFunc func(calendar.Month) []*status.MonthStatus

func (f statusesFunc) List(_ context.Context, m calendar.Month) ([]*status.MonthStatus, error) {
	return f(m), nil
}

func TestService_Team(t *testing.T) {
	ctx := context.Background()
	april := calendar.Month{Year: 2024, Month: time.April}

	employees := employee.NewService(employeestore.NewMemory())

	jan, err := employees.Create(ctx, employee.CreateParams{Name: "Jan Novák"})
	require.NoError(t, err)

	petr, err := employees.Create(ctx, employee.CreateParams{Name: "Petr Manažer", Role: status.RoleManager})
	require.NoError(t, err)

	d := func(day int) time.Time { return time.Date(2024, time.April, day, 0, 0, 0, 0, time.UTC) }

	entries := entriesFunc(func(filter entry.ListFilter) []*entry.Entry {
		assert.Equal(t, april.Start(), *filter.StartDate)
		assert.Equal(t, april.End(), *filter.EndDate)
		assert.Nil(t, filter.EmployeeID)

		return []*entry.Entry{
			{EmployeeID: jan.ID, Date: d(2), Hours: 8, Type: entry.TypeRegular, Project: "A"},
			{EmployeeID: jan.ID, Date: d(5), Hours: 4, Type: entry.TypeRegular, Project: "A"},
			{EmployeeID: jan.ID, Date: d(3), Hours: 4.8, Type: entry.TypeDoctor},
		}
	})

	submittedAt := d(30)
	statuses := statusesFunc(func(calendar.Month) []*status.MonthStatus {
		return []*status.MonthStatus{
			{EmployeeID: jan.ID, Month: april, Status: status.StatusSubmitted, SubmittedAt: &submittedAt},
		}
	})

	svc := overview.NewService(employees, entries, statuses, calendar.Czech(2000, 2100), 8)

	team, err := svc.Team(ctx, april)
	require.NoError(t, err)

	assert.Equal(t, 21, team.Workdays)
	require.Len(t, team.Rows, 2)

	got := team.Rows[0]
	assert.Equal(t, "Jan Novák", got.Name)
	assert.InDelta(t, 16.8, got.TotalHours, 1e-9)
	assert.Equal(t, 3, got.EntryCount)
	require.NotNil(t, got.LastEntry)
	assert.Equal(t, d(5), *got.LastEntry)
	assert.InDelta(t, 168, got.WorkFund, 1e-9)
	assert.InDelta(t, 10, got.Progress, 1e-9)
	assert.Equal(t, status.StatusSubmitted, got.Status)
	assert.Equal(t, &submittedAt, got.StatusSetAt)

	idle := team.Rows[1]
	assert.Equal(t, petr.ID, idle.EmployeeID)
	assert.Equal(t, status.RoleManager, idle.Role)
	assert.Zero(t, idle.TotalHours)
	assert.Nil(t, idle.LastEntry)
	assert.Equal(t, status.StatusDraft, idle.Status)
}
