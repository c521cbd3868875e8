package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/MrJamesThe3rd/dochazka/internal/http/assistant"
	"github.com/MrJamesThe3rd/dochazka/internal/http/employee"
	"github.com/MrJamesThe3rd/dochazka/internal/http/export"
	"github.com/MrJamesThe3rd/dochazka/internal/http/holiday"
	"github.com/MrJamesThe3rd/dochazka/internal/http/importcsv"
	"github.com/MrJamesThe3rd/dochazka/internal/http/job"
	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/http/respond"
	"github.com/MrJamesThe3rd/dochazka/internal/http/timesheet"
)

type Options struct {
	Timeout        time.Duration
	AllowedOrigins []string
	// AssistantRequests per AssistantWindow and client IP. Zero disables
	// the limit.
	AssistantRequests int
	AssistantWindow   time.Duration
}

type Handlers struct {
	Employees *employee.Handler
	Timesheet *timesheet.Handler
	Jobs      *job.Handler
	Import    *importcsv.Handler
	Reports   *export.Handler
	Assistant *assistant.Handler
	Holidays  *holiday.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "If-Match", request.RoleHeader},
		ExposedHeaders:   []string{"ETag", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(request.WithRole)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Employees.Routes(r)

			r.Route("/{employeeID}", func(r chi.Router) {
				h.Employees.ItemRoutes(r)
				h.Timesheet.Routes(r)
			})
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Jobs.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/reports", h.Reports.Routes)

		r.Route("/holidays", h.Holidays.Routes)

		r.Route("/assistant", func(r chi.Router) {
			if opts.AssistantRequests > 0 {
				r.Use(httprate.Limit(opts.AssistantRequests, opts.AssistantWindow,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
						respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many assistant requests"})
					}),
				))
			}

			h.Assistant.Routes(r)
		})
	})

	return router
}
