package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/aggregate"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/export"
	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/http/respond"
	"github.com/MrJamesThe3rd/dochazka/internal/overview"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

type Handler struct {
	svc      *export.Service
	overview *overview.Service
}

func NewHandler(svc *export.Service, overview *overview.Service) *Handler {
	return &Handler{svc: svc, overview: overview}
}

// Routes registers the report outputs. Every route takes the optional
// employee_id, project and month query parameters.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/email", h.email)
	r.Get("/detail.csv", h.detailCSV)
	r.Get("/summary.csv", h.summaryCSV)
	r.Get("/backup.json", h.backup)
	r.Get("/report.html", h.html)
	r.Get("/report.pdf", h.pdf)
	r.Get("/bundle.zip", h.bundle)
	r.Get("/team", h.team)
}

func filterFromQuery(r *http.Request) (export.Filter, error) {
	var f export.Filter

	q := r.URL.Query()

	if raw := q.Get("employee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("%w: invalid employee_id", request.ErrBadRequest)
		}

		f.EmployeeID = &id
	}

	if p := strings.TrimSpace(q.Get("project")); p != "" {
		f.Project = &p
	}

	if raw := q.Get("month"); raw != "" {
		m, err := calendar.ParseMonth(raw)
		if err != nil {
			return f, err
		}

		f.Month = m
	}

	return f, nil
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) (*export.Report, bool) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respond.Error(w, err)
		return nil, false
	}

	report, err := h.svc.Build(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return nil, false
	}

	return report, true
}

type summaryResponse struct {
	Period       string                  `json:"period"`
	EmployeeName string                  `json:"employee_name"`
	Aggregate    aggregate.Result        `json:"aggregate"`
	Issues       []validation.Issue      `json:"issues"`
	Counts       validation.Counts       `json:"counts"`
	Entries      []respond.EntryResponse `json:"entries"`
	PDFAvailable bool                    `json:"pdf_available"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{
		Period:       report.Period,
		EmployeeName: report.EmployeeName,
		Aggregate:    report.Aggregate,
		Issues:       report.Issues,
		Counts:       validation.Summary(report.Issues),
		Entries:      respond.Entries(report.Entries),
		PDFAvailable: h.svc.PDFAvailable(),
	})
}

func (h *Handler) email(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, h.svc.EmailDraft(report))
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// writeBuffered renders into memory first so a failure can still produce an
// error response instead of a truncated file.
func writeBuffered(w http.ResponseWriter, contentType, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		respond.Error(w, err)
		return
	}

	attachment(w, contentType, filename)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "file", filename, "error", err)
	}
}

func (h *Handler) detailCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	writeBuffered(w, "text/csv; charset=utf-8", report.Filename("vykaz_prace_detail", "csv"), func(buf *bytes.Buffer) error {
		return export.WriteDetailCSV(buf, report)
	})
}

func (h *Handler) summaryCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	writeBuffered(w, "text/csv; charset=utf-8", report.Filename("vykaz_prace_souhrn", "csv"), func(buf *bytes.Buffer) error {
		return export.WriteSummaryCSV(buf, report)
	})
}

func (h *Handler) backup(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	writeBuffered(w, "application/json", report.Filename("zaloha", "json"), func(buf *bytes.Buffer) error {
		return export.WriteBackup(buf, report.Entries)
	})
}

func (h *Handler) html(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	doc, err := export.RenderHTML(report)
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := w.Write([]byte(doc)); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	writeBuffered(w, "application/pdf", report.Filename("vykaz_prace", "pdf"), func(buf *bytes.Buffer) error {
		pdf, err := h.svc.RenderPDF(r.Context(), report)
		if err != nil {
			return err
		}

		_, err = buf.Write(pdf)

		return err
	})
}

func (h *Handler) bundle(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	writeBuffered(w, "application/zip", report.Filename("podklady", "zip"), func(buf *bytes.Buffer) error {
		return h.svc.Bundle(r.Context(), buf, report)
	})
}

func (h *Handler) team(w http.ResponseWriter, r *http.Request) {
	month, err := calendar.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	team, err := h.overview.Team(r.Context(), month)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, team)
}
