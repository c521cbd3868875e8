// Package request holds what every handler needs from an incoming request:
// the caller's role, path parameters and validated JSON bodies.
package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

const RoleHeader = "X-Role"

var ErrBadRequest = errors.New("bad request")

var validate = validator.New(validator.WithRequiredStructEnabled())

type roleKey struct{}

// WithRole reads the trusted role header into the request context. Missing
// or unknown values fall back to the employee role.
func WithRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := status.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(RoleHeader))))
		if !role.Valid() {
			role = status.RoleEmployee
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), roleKey{}, role)))
	})
}

func Role(ctx context.Context) status.Role {
	if role, ok := ctx.Value(roleKey{}).(status.Role); ok {
		return role
	}

	return status.RoleEmployee
}

// Decode reads a JSON body into v and runs its validate tags.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", ErrBadRequest, err)
	}

	if err := validate.Struct(v); err != nil {
		return err
	}

	return nil
}

func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}

	return id, nil
}

func MonthParam(r *http.Request) (calendar.Month, error) {
	return calendar.ParseMonth(chi.URLParam(r, "month"))
}

// EntryParams is the wire form of a new entry. Type accepts a code or the
// Czech label.
type EntryParams struct {
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Project     string  `json:"project" validate:"max=200"`
	Description string  `json:"description" validate:"max=1000"`
	Hours       float64 `json:"hours" validate:"gte=0,lte=24"`
	Type        string  `json:"type" validate:"required"`
}

// ToParams converts the DTO. fallbackDate is used when Date is empty.
func (p EntryParams) ToParams(employeeID uuid.UUID, fallbackDate time.Time) (entry.CreateParams, error) {
	t, err := entry.ParseWorkType(p.Type)
	if err != nil {
		return entry.CreateParams{}, err
	}

	date := fallbackDate

	if p.Date != "" {
		date, err = calendar.ParseDate(p.Date)
		if err != nil {
			return entry.CreateParams{}, err
		}
	}

	return entry.CreateParams{
		EmployeeID:  employeeID,
		Date:        date,
		Project:     p.Project,
		Description: p.Description,
		Hours:       p.Hours,
		Type:        t,
	}, nil
}

// FromParams is the inverse of ToParams, used to echo previews back.
func FromParams(p entry.CreateParams) EntryParams {
	return EntryParams{
		Date:        p.Date.Format(time.DateOnly),
		Project:     p.Project,
		Description: p.Description,
		Hours:       p.Hours,
		Type:        string(p.Type),
	}
}

// IfMatch parses the month version from an If-Match header. A missing
// header returns nil, meaning no version check.
func IfMatch(r *http.Request) (*int64, error) {
	raw := strings.Trim(strings.TrimSpace(r.Header.Get("If-Match")), `"`)
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)

	if raw == "" {
		return nil, nil
	}

	var v int64
	if _, err := fmt.Sscan(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: invalid If-Match %q", ErrBadRequest, raw)
	}

	return &v, nil
}
