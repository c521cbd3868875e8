package job

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/http/respond"
	"github.com/MrJamesThe3rd/dochazka/internal/job"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

type Handler struct {
	svc *job.Service
}

func NewHandler(svc *job.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/resolve", h.resolve)

	r.Group(func(r chi.Router) {
		r.Use(managerOnly)
		r.Post("/", h.create)
		r.Patch("/{id}", h.setActive)
		r.Delete("/{id}", h.delete)
	})
}

func managerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if request.Role(r.Context()) != status.RoleManager {
			respond.Error(w, status.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type jobResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(j *job.Job) jobResponse {
	return jobResponse{ID: j.ID, Code: j.Code, Name: j.Name, Active: j.Active, CreatedAt: j.CreatedAt}
}

type createJobRequest struct {
	Code string `json:"code" validate:"required,max=50"`
	Name string `json:"name" validate:"required,max=200"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	j, err := h.svc.Create(r.Context(), req.Code, req.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(j))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	jobs, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		resp[i] = toResponse(j)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.Resolve(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	if j == nil {
		respond.Error(w, job.ErrNotFound)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(j))
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, err := request.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req setActiveRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	if *req.Active {
		err = h.svc.Activate(r.Context(), id)
	} else {
		err = h.svc.Deactivate(r.Context(), id)
	}

	if err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
