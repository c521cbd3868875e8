// Package app wires configuration, storage and the domain services that both
// the API server and the terminal client run on.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/MrJamesThe3rd/dochazka/internal/assistant"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/config"
	"github.com/MrJamesThe3rd/dochazka/internal/database"
	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	employeeStore "github.com/MrJamesThe3rd/dochazka/internal/employee/store"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	entryStore "github.com/MrJamesThe3rd/dochazka/internal/entry/store"
	"github.com/MrJamesThe3rd/dochazka/internal/export"
	"github.com/MrJamesThe3rd/dochazka/internal/importer"
	"github.com/MrJamesThe3rd/dochazka/internal/ingest"
	"github.com/MrJamesThe3rd/dochazka/internal/job"
	jobStore "github.com/MrJamesThe3rd/dochazka/internal/job/store"
	"github.com/MrJamesThe3rd/dochazka/internal/overview"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
	statusStore "github.com/MrJamesThe3rd/dochazka/internal/status/store"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

type Services struct {
	Calendar  *calendar.Calendar
	Validator *validation.Validator
	Employees *employee.Service
	Jobs      *job.Service
	Entries   *entry.Service
	Statuses  *status.Service
	Assistant *assistant.Client
	Ingest    *ingest.Service
	Importer  *importer.Service
	Exports   *export.Service
	Overview  *overview.Service
}

type repositories struct {
	employees employee.Repository
	jobs      job.Repository
	entries   entry.Repository
	statuses  status.Repository
}

// NewLogger returns the JSON logger used by every binary.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel})).
		With("app", cfg.App.Name)
}

// Build opens the configured storage and wires the services. The returned
// func releases the storage.
func Build(ctx context.Context, cfg *config.Config) (*Services, func(), error) {
	repos, closeFn, err := openRepositories(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := wire(cfg, repos)

	if cfg.Storage.Seed {
		if err := Seed(ctx, svc); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("seeding storage: %w", err)
		}
	}

	return svc, closeFn, nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	if cfg.Storage.Driver == "memory" {
		slog.Info("using in-memory storage")

		return memoryRepositories(), func() {}, nil
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return repositories{}, nil, fmt.Errorf("migrating database: %w", err)
	}

	return postgresRepositories(db), func() { db.Close() }, nil
}

func memoryRepositories() repositories {
	return repositories{
		employees: employeeStore.NewMemory(),
		jobs:      jobStore.NewMemory(),
		entries:   entryStore.NewMemory(),
		statuses:  statusStore.NewMemory(),
	}
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		employees: employeeStore.New(db),
		jobs:      jobStore.New(db),
		entries:   entryStore.New(db),
		statuses:  statusStore.New(db),
	}
}

// NewMemory wires the services on empty in-memory storage.
func NewMemory(cfg *config.Config) *Services {
	return wire(cfg, memoryRepositories())
}

func wire(cfg *config.Config, repos repositories) *Services {
	cal := calendar.Czech(cfg.Holidays.MinYear, cfg.Holidays.MaxYear)
	validator := validation.New(cal, cfg.Timesheet.StandardHours, cfg.Timesheet.ExemptAbsenceOnNonWorkday)

	var (
		employeeService = employee.NewService(repos.employees)
		jobService      = job.NewService(repos.jobs)
		statusService   = status.NewService(repos.statuses, repos.entries, validator, status.Policy{
			BlockSubmitOnErrors:      cfg.Timesheet.BlockSubmitOnErrors,
			ResetStatusOnUnseenMonth: cfg.Timesheet.ResetStatusOnUnseenMonth,
		})
		entryService    = entry.NewService(repos.entries, statusService, cal)
		assistantClient = assistant.NewClient(assistant.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Gemini.Timeout,
		})
	)

	// renderer must stay an untyped nil when Gotenberg is not configured.
	var renderer export.Renderer
	if cfg.Gotenberg.URL != "" {
		renderer = export.NewGotenberg(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout)
	}

	return &Services{
		Calendar:  cal,
		Validator: validator,
		Employees: employeeService,
		Jobs:      jobService,
		Entries:   entryService,
		Statuses:  statusService,
		Assistant: assistantClient,
		Ingest:    ingest.NewService(assistantClient, jobService, entryService),
		Importer:  importer.NewService(),
		Exports:   export.NewService(entryService, employeeService, validator, renderer, cfg.Report.Recipient),
		Overview:  overview.NewService(employeeService, entryService, statusService, cal, cfg.Timesheet.StandardHours),
	}
}

var (
	seedJobs = []struct{ code, name string }{
		{"WEB-001", "Website Redesign"},
		{"INT-202", "Internal Tool"},
		{"MKT-101", "Marketing Campaign"},
	}
	seedEmployees = []employee.CreateParams{
		{Name: "Jan Novák", Role: status.RoleEmployee},
		{Name: "Petr Manažer", Role: status.RoleManager},
	}
)

// Seed adds the demo jobs and employees to storage that has none.
func Seed(ctx context.Context, svc *Services) error {
	jobs, err := svc.Jobs.List(ctx, false)
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		for _, j := range seedJobs {
			if _, err := svc.Jobs.Create(ctx, j.code, j.name); err != nil {
				return fmt.Errorf("creating job %s: %w", j.code, err)
			}
		}
	}

	employees, err := svc.Employees.List(ctx)
	if err != nil {
		return err
	}

	if len(employees) == 0 {
		for _, e := range seedEmployees {
			if _, err := svc.Employees.Create(ctx, e); err != nil {
				return fmt.Errorf("creating employee %s: %w", e.Name, err)
			}
		}
	}

	slog.Info("storage seeded", "jobs", len(seedJobs), "employees", len(seedEmployees))

	return nil
}
