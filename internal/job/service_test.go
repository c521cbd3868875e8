package job_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dochazka/internal/job"
	"github.com/MrJamesThe3rd/dochazka/internal/job/store"
)

func seed(t *testing.T) *job.Service {
	t.Helper()

	svc := job.NewService(store.NewMemory())
	ctx := context.Background()

	for _, j := range [][2]string{
		{"web-001", "Website Redesign"},
		{"INT-202", "Internal Tool"},
		{"MKT-101", "Marketing Campaign"},
	} {
		_, err := svc.Create(ctx, j[0], j[1])
		require.NoError(t, err)
	}

	return svc
}

func TestService_Resolve(t *testing.T) {
	svc := seed(t)

	type testCase struct {
		name string
		raw  string
		want string
	}

	tests := []testCase{
		{name: "By code", raw: "worked on WEB-001 all day", want: "Website Redesign"},
		{name: "By full name", raw: "internal tool bugfixes", want: "Internal Tool"},
		{name: "By partial name", raw: "marketing", want: "Marketing Campaign"},
		{name: "No match", raw: "gardening", want: ""},
		{name: "Empty", raw: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Resolve(context.Background(), tt.raw)
			require.NoError(t, err)

			if tt.want == "" {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestService_ProjectName(t *testing.T) {
	svc := seed(t)
	ctx := context.Background()

	name, err := svc.ProjectName(ctx, "web-001", "General")
	require.NoError(t, err)
	assert.Equal(t, "Website Redesign", name)

	name, err = svc.ProjectName(ctx, "Side project", "General")
	require.NoError(t, err)
	assert.Equal(t, "Side project", name)

	name, err = svc.ProjectName(ctx, "", "General")
	require.NoError(t, err)
	assert.Equal(t, "General", name)
}

func TestService_Lifecycle(t *testing.T) {
	svc := seed(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "WEB-001", "Duplicate")
	assert.ErrorIs(t, err, job.ErrDuplicate)

	_, err = svc.Create(ctx, "", "No code")
	assert.ErrorIs(t, err, job.ErrInvalidJob)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "INT-202", all[0].Code)

	require.NoError(t, svc.Deactivate(ctx, all[0].ID))

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	got, err := svc.Resolve(ctx, "Internal Tool")
	require.NoError(t, err)
	assert.Nil(t, got, "inactive jobs are not resolved")

	require.NoError(t, svc.Delete(ctx, all[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, all[0].ID), job.ErrNotFound)
}
