package assistant

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/assistant"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/http/respond"
	"github.com/MrJamesThe3rd/dochazka/internal/ingest"
)

const maxAudioSize = 20 << 20

type Handler struct {
	client  *assistant.Client
	ingest  *ingest.Service
	entries *entry.Service
	now     func() time.Time
}

func NewHandler(client *assistant.Client, ingest *ingest.Service, entries *entry.Service) *Handler {
	return &Handler{client: client, ingest: ingest, entries: entries, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/parse", h.parse)
	r.Post("/accept", h.accept)
	r.Post("/transcribe", h.transcribe)
	r.Post("/analyze", h.analyze)
	r.Post("/calendar", h.calendar)
	r.Post("/help", h.help)
}

type previewResponse struct {
	Entries []request.EntryParams `json:"entries"`
	Rejects []ingest.Reject       `json:"rejects"`
}

func toPreviewResponse(p *ingest.Preview) previewResponse {
	resp := previewResponse{
		Entries: make([]request.EntryParams, 0, len(p.Entries)),
		Rejects: p.Rejects,
	}

	if resp.Rejects == nil {
		resp.Rejects = []ingest.Reject{}
	}

	for _, e := range p.Entries {
		resp.Entries = append(resp.Entries, request.FromParams(e))
	}

	return resp
}

type parseRequest struct {
	EmployeeID    uuid.UUID `json:"employee_id" validate:"required"`
	Text          string    `json:"text" validate:"max=10000"`
	ReferenceDate string    `json:"reference_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	ref := calendar.Truncate(h.now())

	if req.ReferenceDate != "" {
		d, err := calendar.ParseDate(req.ReferenceDate)
		if err != nil {
			respond.Error(w, err)
			return
		}

		ref = d
	}

	preview, err := h.ingest.Parse(r.Context(), req.EmployeeID, req.Text, ref)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toPreviewResponse(preview))
}

type acceptRequest struct {
	EmployeeID uuid.UUID             `json:"employee_id" validate:"required"`
	Entries    []request.EntryParams `json:"entries" validate:"required,min=1,dive"`
}

// accept stores the previewed entries the user confirmed.
func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params := make([]entry.CreateParams, 0, len(req.Entries))

	for _, e := range req.Entries {
		p, err := e.ToParams(req.EmployeeID, time.Time{})
		if err != nil {
			respond.Error(w, err)
			return
		}

		params = append(params, p)
	}

	entries, err := h.ingest.Accept(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, respond.Entries(entries))
}

// transcribe takes the multipart "audio" field and returns the dictated text.
func (h *Handler) transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioSize); err != nil {
		respond.Error(w, fmt.Errorf("%w: failed to parse form: %v", request.ErrBadRequest, err))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: audio field is required", request.ErrBadRequest))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		respond.Error(w, fmt.Errorf("reading audio: %w", err))
		return
	}

	if len(audio) == 0 {
		respond.Error(w, fmt.Errorf("%w: audio is empty", request.ErrBadRequest))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "audio/webm"
	}

	text, err := h.client.Transcribe(r.Context(), audio, mimeType)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"text": text})
}

type analyzeRequest struct {
	EmployeeID uuid.UUID      `json:"employee_id" validate:"required"`
	Month      calendar.Month `json:"month"`
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	if req.Month.IsZero() {
		respond.Error(w, fmt.Errorf("%w: month is required", calendar.ErrInvalidMonth))
		return
	}

	entries, err := h.entries.ListMonth(r.Context(), req.EmployeeID, req.Month)
	if err != nil {
		respond.Error(w, err)
		return
	}

	text, err := h.client.Analyze(r.Context(), entries)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"analysis": text})
}

type calendarRequest struct {
	EmployeeID uuid.UUID              `json:"employee_id" validate:"required"`
	Events     []ingest.CalendarEvent `json:"events" validate:"required,dive"`
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	var req calendarRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	preview, err := h.ingest.FromCalendarEvents(r.Context(), req.EmployeeID, req.Events)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toPreviewResponse(preview))
}

type helpRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}

func (h *Handler) help(w http.ResponseWriter, r *http.Request) {
	var req helpRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	answer, err := h.client.Help(r.Context(), strings.TrimSpace(req.Question))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"answer": answer})
}
