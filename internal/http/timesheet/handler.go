// Package timesheet serves one employee's month: entries, issues, totals and
// the approval status.
package timesheet

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/aggregate"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/http/respond"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

type Handler struct {
	entries   *entry.Service
	statuses  *status.Service
	employees *employee.Service
	calendar  *calendar.Calendar
}

func NewHandler(entries *entry.Service, statuses *status.Service, employees *employee.Service, cal *calendar.Calendar) *Handler {
	return &Handler{entries: entries, statuses: statuses, employees: employees, calendar: cal}
}

// Routes registers routes below /employees/{employeeID}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/entries/last", h.last)

	r.Route("/months/{month}", func(r chi.Router) {
		r.Get("/", h.month)
		r.Get("/issues", h.issues)
		r.Post("/status", h.setStatus)
		r.Post("/entries", h.createEntry)
		r.Post("/entries/range", h.createRange)
		r.Put("/days/{date}", h.replaceDay)
		r.Delete("/entries/{id}", h.deleteEntry)
	})
}

type holidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type monthResponse struct {
	EmployeeID string                  `json:"employee_id"`
	Month      calendar.Month          `json:"month"`
	Status     respond.StatusResponse  `json:"status"`
	Entries    []respond.EntryResponse `json:"entries"`
	Issues     []validation.Issue      `json:"issues"`
	Counts     validation.Counts       `json:"counts"`
	Aggregate  aggregate.Result        `json:"aggregate"`
	Workdays   int                     `json:"workdays"`
	Holidays   []holidayResponse       `json:"holidays"`
}

func setETag(w http.ResponseWriter, version int64) {
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(version, 10)))
}

func (h *Handler) month(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employeeID, month, err := h.params(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	emp, err := h.employees.Get(ctx, employeeID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	st, err := h.statuses.Current(ctx, employeeID, month)
	if err != nil {
		respond.Error(w, err)
		return
	}

	entries, err := h.entries.ListMonth(ctx, employeeID, month)
	if err != nil {
		respond.Error(w, err)
		return
	}

	issues, err := h.statuses.Issues(ctx, employeeID, month)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := monthResponse{
		EmployeeID: employeeID.String(),
		Month:      month,
		Status:     respond.Status(st),
		Entries:    respond.Entries(entries),
		Issues:     issues,
		Counts:     validation.Summary(issues),
		Aggregate:  aggregate.Aggregate(entries, aggregate.NameResolver{emp.ID: emp.Name}),
		Workdays:   len(h.calendar.Workdays(month)),
		Holidays:   []holidayResponse{},
	}

	for _, hol := range h.calendar.Holidays(month.Year) {
		if month.Contains(hol.Date) {
			resp.Holidays = append(resp.Holidays, holidayResponse{Date: hol.Date.Format(time.DateOnly), Name: hol.Name})
		}
	}

	setETag(w, st.Version)
	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) issues(w http.ResponseWriter, r *http.Request) {
	employeeID, month, err := h.params(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	issues, err := h.statuses.Issues(r.Context(), employeeID, month)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"issues": issues,
		"counts": validation.Summary(issues),
	})
}

type statusRequest struct {
	Status  status.Status `json:"status" validate:"required,oneof=draft submitted approved rejected"`
	Comment string        `json:"comment" validate:"max=2000"`
}

type statusResponse struct {
	respond.StatusResponse
	Issues []validation.Issue `json:"issues,omitempty"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, month, err := h.params(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req statusRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	st, issues, err := h.statuses.Transition(r.Context(), employeeID, month, req.Status, req.Comment, request.Role(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}

	setETag(w, st.Version)
	respond.JSON(w, http.StatusOK, statusResponse{StatusResponse: respond.Status(st), Issues: issues})
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	employeeID, month, err := h.params(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req request.EntryParams
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params, err := req.ToParams(employeeID, time.Time{})
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := inMonth(month, params.Date); err != nil {
		respond.Error(w, err)
		return
	}

	e, err := h.entries.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, respond.Entry(e))
}

type rangeRequest struct {
	request.EntryParams
	To string `json:"to" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) createRange(w http.ResponseWriter, r *http.Request) {
	employeeID, month, err := h.params(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req rangeRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params, err := req.ToParams(employeeID, time.Time{})
	if err != nil {
		respond.Error(w, err)
		return
	}

	to, err := calendar.ParseDate(req.To)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := inMonth(month, params.Date); err != nil {
		respond.Error(w, err)
		return
	}

	entries, err := h.entries.CreateRange(r.Context(), params, to)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, respond.Entries(entries))
}

type replaceDayRequest struct {
	Entries []request.EntryParams `json:"entries" validate:"dive"`
}

func (h *Handler) replaceDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employeeID, month, err := h.params(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	day, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := inMonth(month, day); err != nil {
		respond.Error(w, err)
		return
	}

	expected, err := request.IfMatch(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req replaceDayRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params := make([]entry.CreateParams, 0, len(req.Entries))

	for _, p := range req.Entries {
		cp, err := p.ToParams(employeeID, day)
		if err != nil {
			respond.Error(w, err)
			return
		}

		params = append(params, cp)
	}

	entries, err := h.entries.ReplaceDay(ctx, employeeID, day, params, expected)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if st, err := h.statuses.Get(ctx, employeeID, month); err == nil {
		setETag(w, st.Version)
	}

	respond.JSON(w, http.StatusOK, respond.Entries(entries))
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	employeeID, month, err := h.params(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	id, err := request.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	e, err := h.entries.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if e.EmployeeID != employeeID || !month.Contains(e.Date) {
		respond.Error(w, entry.ErrNotFound)
		return
	}

	if err := h.entries.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) last(w http.ResponseWriter, r *http.Request) {
	employeeID, err := request.UUIDParam(r, "employeeID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	e, err := h.entries.Last(r.Context(), employeeID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Entry(e))
}

func (h *Handler) params(r *http.Request) (uuid.UUID, calendar.Month, error) {
	id, err := request.UUIDParam(r, "employeeID")
	if err != nil {
		return uuid.Nil, calendar.Month{}, err
	}

	month, err := request.MonthParam(r)

	return id, month, err
}

func inMonth(m calendar.Month, date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", entry.ErrInvalidEntry)
	}

	if !m.Contains(date) {
		return fmt.Errorf("%w: %s is outside %s", entry.ErrInvalidEntry, date.Format(time.DateOnly), m)
	}

	return nil
}
