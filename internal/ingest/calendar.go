package ingest

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/assistant"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
)

type CalendarEvent struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FromCalendarEvents maps events to regular entries. The event title is
// matched against the job catalog and also becomes the description.
// Hours are the event duration rounded to a quarter hour.
func (s *Service) FromCalendarEvents(ctx context.Context, employeeID uuid.UUID, events []CalendarEvent) (*Preview, error) {
	candidates := make([]assistant.Candidate, len(events))

	for i, ev := range events {
		date := calendar.Truncate(ev.Start).Format(time.DateOnly)
		hours := math.Round(ev.End.Sub(ev.Start).Hours()*4) / 4
		title := strings.TrimSpace(ev.Title)

		candidates[i] = assistant.Candidate{
			Date:        &date,
			Project:     &title,
			Description: &title,
			Hours:       &hours,
		}
	}

	var ref time.Time
	if len(events) > 0 {
		ref = events[0].Start
	}

	return s.Normalize(ctx, employeeID, candidates, ref)
}
