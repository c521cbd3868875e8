package importcsv

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/http/request"
	"github.com/MrJamesThe3rd/dochazka/internal/http/respond"
	"github.com/MrJamesThe3rd/dochazka/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc   *importer.Service
	entrySvc    *entry.Service
	employeeSvc *employee.Service
}

func NewHandler(importSvc *importer.Service, entrySvc *entry.Service, employeeSvc *employee.Service) *Handler {
	return &Handler{
		importSvc:   importSvc,
		entrySvc:    entrySvc,
		employeeSvc: employeeSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported int                     `json:"imported"`
	Entries  []respond.EntryResponse `json:"entries"`
}

type paramsDTO struct {
	EmployeeID uuid.UUID `json:"employee_id" validate:"required"`
	request.EntryParams
}

type conflictDTO struct {
	Incoming paramsDTO             `json:"incoming"`
	Existing respond.EntryResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []paramsDTO   `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type confirmRequest struct {
	Params []paramsDTO `json:"params" validate:"required,dive"`
}

// importFile reads the multipart "file" field. The optional "employee_id"
// field attributes every row to one employee; the optional "format" field
// overrides detection by file name.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, fmt.Errorf("%w: failed to parse form: %v", request.ErrBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: file field is required", request.ErrBadRequest))
		return
	}
	defer file.Close()

	opts, err := h.options(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.DetectFormat(header.Filename)
	}

	params, err := h.importSvc.Import(format, file, opts)
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: %v", request.ErrBadRequest, err))
		return
	}

	result, err := h.entrySvc.ImportBatch(ctx, params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]paramsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: respond.Entry(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) options(r *http.Request) (importer.Options, error) {
	var opts importer.Options

	if raw := r.FormValue("employee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return opts, fmt.Errorf("%w: invalid employee_id", request.ErrBadRequest)
		}

		if _, err := h.employeeSvc.Get(r.Context(), id); err != nil {
			return opts, err
		}

		opts.EmployeeID = id

		return opts, nil
	}

	names, err := h.employeeSvc.Names(r.Context())
	if err != nil {
		return opts, err
	}

	opts.Employees = make(map[string]uuid.UUID, len(names))
	for id, name := range names {
		opts.Employees[name] = id
	}

	return opts, nil
}

// confirmImport stores the rows the user kept after reviewing conflicts.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params := make([]entry.CreateParams, 0, len(req.Params))

	for _, p := range req.Params {
		cp, err := p.ToParams(p.EmployeeID, time.Time{})
		if err != nil {
			respond.Error(w, err)
			return
		}

		params = append(params, cp)
	}

	entries, err := h.entrySvc.CreateBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(entries))
}

func toSuccessResponse(entries []*entry.Entry) importSuccessResponse {
	return importSuccessResponse{
		Imported: len(entries),
		Entries:  respond.Entries(entries),
	}
}

func toParamsDTO(p entry.CreateParams) paramsDTO {
	return paramsDTO{EmployeeID: p.EmployeeID, EntryParams: request.FromParams(p)}
}
