package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dochazka/internal/app"
	"github.com/MrJamesThe3rd/dochazka/internal/config"
	dochazkaHttp "github.com/MrJamesThe3rd/dochazka/internal/http"
	assistantHandler "github.com/MrJamesThe3rd/dochazka/internal/http/assistant"
	employeeHandler "github.com/MrJamesThe3rd/dochazka/internal/http/employee"
	exportHandler "github.com/MrJamesThe3rd/dochazka/internal/http/export"
	holidayHandler "github.com/MrJamesThe3rd/dochazka/internal/http/holiday"
	importHandler "github.com/MrJamesThe3rd/dochazka/internal/http/importcsv"
	jobHandler "github.com/MrJamesThe3rd/dochazka/internal/http/job"
	timesheetHandler "github.com/MrJamesThe3rd/dochazka/internal/http/timesheet"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(app.NewLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeStorage, err := app.Build(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up storage", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	if !svc.Assistant.Configured() {
		slog.Warn("GEMINI_API_KEY is not set, assistant endpoints will return 503")
	}

	if !svc.Exports.PDFAvailable() {
		slog.Warn("GOTENBERG_URL is not set, PDF reports are disabled")
	}

	router := dochazkaHttp.New(
		dochazkaHttp.Options{
			Timeout:           cfg.Server.Timeout,
			AllowedOrigins:    cfg.CORS.AllowedOrigins,
			AssistantRequests: cfg.RateLimit.AssistantRequests,
			AssistantWindow:   cfg.RateLimit.AssistantWindow,
		},
		dochazkaHttp.Handlers{
			Employees: employeeHandler.NewHandler(svc.Employees),
			Timesheet: timesheetHandler.NewHandler(svc.Entries, svc.Statuses, svc.Employees, svc.Calendar),
			Jobs:      jobHandler.NewHandler(svc.Jobs),
			Import:    importHandler.NewHandler(svc.Importer, svc.Entries, svc.Employees),
			Reports:   exportHandler.NewHandler(svc.Exports, svc.Overview),
			Assistant: assistantHandler.NewHandler(svc.Assistant, svc.Ingest, svc.Entries),
			Holidays:  holidayHandler.NewHandler(svc.Calendar),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", server.Addr, "storage", cfg.Storage.Driver)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
