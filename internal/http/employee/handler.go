package employee

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/http/respond"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

type Handler struct {
	svc *employee.Service
}

func NewHandler(svc *employee.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the collection routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

// ItemRoutes registers routes below /{employeeID}.
func (h *Handler) ItemRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.Delete("/", h.delete)
}

type createEmployeeRequest struct {
	Name  string      `json:"name" validate:"required,max=200"`
	Role  status.Role `json:"role" validate:"omitempty,oneof=employee manager"`
	Email string      `json:"email" validate:"omitempty,email"`
}

type employeeResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Role      status.Role `json:"role"`
	Email     string      `json:"email,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func toResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{ID: e.ID, Name: e.Name, Role: e.Role, Email: e.Email, CreatedAt: e.CreatedAt}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if request.Role(r.Context()) != status.RoleManager {
		respond.Error(w, status.ErrForbidden)
		return
	}

	var req createEmployeeRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	e, err := h.svc.Create(r.Context(), employee.CreateParams{Name: req.Name, Role: req.Role, Email: req.Email})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]employeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = toResponse(e)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := request.UUIDParam(r, "employeeID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if request.Role(r.Context()) != status.RoleManager {
		respond.Error(w, status.ErrForbidden)
		return
	}

	id, err := request.UUIDParam(r, "employeeID")
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
