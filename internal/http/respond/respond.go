// Package respond writes JSON responses and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/assistant"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/export"
	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/importer"
	"github.com/MrJamesThe3rd/dochazka/internal/job"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error  string             `json:"error"`
	Issues []validation.Issue `json:"issues,omitempty"`
}

// Error writes err with the status code its kind maps to. Unknown errors
// are logged and hidden behind a generic message.
func Error(w http.ResponseWriter, err error) {
	var blocked *status.SubmissionBlockedError
	if errors.As(err, &blocked) {
		JSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Issues: blocked.Issues})
		return
	}

	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		JSON(w, code, errorResponse{Error: "internal error"})

		return
	}

	JSON(w, code, errorResponse{Error: err.Error()})
}

func StatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &verrs),
		errors.Is(err, request.ErrBadRequest),
		errors.Is(err, entry.ErrInvalidEntry),
		errors.Is(err, entry.ErrEmptyRange),
		errors.Is(err, calendar.ErrInvalidMonth),
		errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, employee.ErrInvalidEmployee),
		errors.Is(err, job.ErrInvalidJob),
		errors.Is(err, status.ErrCommentRequired),
		errors.Is(err, importer.ErrUnknownEmployee):
		return http.StatusBadRequest
	case errors.Is(err, status.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entry.ErrNotFound),
		errors.Is(err, employee.ErrNotFound),
		errors.Is(err, job.ErrNotFound),
		errors.Is(err, status.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, status.ErrInvalidTransition),
		errors.Is(err, status.ErrVersionConflict),
		errors.Is(err, job.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, status.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, assistant.ErrNotConfigured),
		errors.Is(err, export.ErrPDFUnavailable):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

type EntryResponse struct {
	ID          uuid.UUID      `json:"id"`
	EmployeeID  uuid.UUID      `json:"employee_id"`
	Date        string         `json:"date"`
	Project     string         `json:"project"`
	Description string         `json:"description"`
	Hours       float64        `json:"hours"`
	Type        entry.WorkType `json:"type"`
	TypeLabel   string         `json:"type_label"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

func Entry(e *entry.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Date:        e.Date.Format(time.DateOnly),
		Project:     e.Project,
		Description: e.Description,
		Hours:       e.Hours,
		Type:        e.Type,
		TypeLabel:   e.Type.Label(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func Entries(entries []*entry.Entry) []EntryResponse {
	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = Entry(e)
	}

	return resp
}

type StatusResponse struct {
	Month          calendar.Month `json:"month"`
	Status         status.Status  `json:"status"`
	ManagerComment string         `json:"manager_comment,omitempty"`
	SubmittedAt    *time.Time     `json:"submitted_at,omitempty"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`
	Version        int64          `json:"version"`
}

func Status(st *status.MonthStatus) StatusResponse {
	return StatusResponse{
		Month:          st.Month,
		Status:         st.Status,
		ManagerComment: st.ManagerComment,
		SubmittedAt:    st.SubmittedAt,
		ApprovedAt:     st.ApprovedAt,
		Version:        st.Version,
	}
}
