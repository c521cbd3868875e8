package holiday

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/http/respond"
)

type Handler struct {
	calendar *calendar.Calendar
	now      func() time.Time
}

func NewHandler(cal *calendar.Calendar) *Handler {
	return &Handler{calendar: cal, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{date}", h.check)
}

type holidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// list returns the holidays of ?year=, defaulting to the current year.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	year := h.now().Year()

	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(w, fmt.Errorf("%w: invalid year %q", request.ErrBadRequest, raw))
			return
		}

		year = y
	}

	holidays := h.calendar.Holidays(year)

	resp := make([]holidayResponse, len(holidays))
	for i, hol := range holidays {
		resp[i] = holidayResponse{Date: hol.Date.Format(time.DateOnly), Name: hol.Name}
	}

	respond.JSON(w, http.StatusOK, resp)
}

type dayResponse struct {
	Date    string `json:"date"`
	Holiday bool   `json:"holiday"`
	Name    string `json:"name,omitempty"`
	Weekend bool   `json:"weekend"`
	Workday bool   `json:"workday"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	holiday, name := h.calendar.IsHoliday(date)

	respond.JSON(w, http.StatusOK, dayResponse{
		Date:    date.Format(time.DateOnly),
		Holiday: holiday,
		Name:    name,
		Weekend: calendar.IsWeekend(date),
		Workday: h.calendar.IsWorkday(date),
	})
}
