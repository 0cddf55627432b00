package leaves

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/rbac"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Handler manages leave endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers leave routes. Any authenticated employee can file
// and follow requests; the service layer enforces edit rules.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny())
		r.Get("/", h.list)
		r.Get("/types", h.listTypes)
		r.Get("/{id}", h.get)
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermLeavesManage))
		r.Post("/types", h.createType)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var f Filters
	q := r.URL.Query()
	if raw := q.Get("request_status"); raw != "" {
		f.RequestStatus = &raw
	}
	if raw := q.Get("document_status"); raw != "" {
		f.DocumentStatus = &raw
	}
	for param, target := range map[string]**int64{"employee_id": &f.EmployeeID, "sector_id": &f.SectorID} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid "+param)
			return
		}
		*target = &id
	}

	out, err := h.service.List(r.Context(), f)
	if err != nil {
		h.respondError(w, "list leaves", err)
		return
	}
	if out == nil {
		out = []Leave{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid leave id")
		return
	}
	out, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get leave", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

type createRequest struct {
	StartDate   shared.Date `json:"start_date"`
	EndDate     shared.Date `json:"end_date"`
	LeaveTypeID int64       `json:"leave_type_id"`
	Reason      *string     `json:"reason"`
	File        *string     `json:"file"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.Create(r.Context(), principal.EmployeeID, NewLeave{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		LeaveTypeID: req.LeaveTypeID,
		Reason:      req.Reason,
		File:        req.File,
	})
	if err != nil {
		h.respondError(w, "create leave", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid leave id")
		return
	}
	var patch Patch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.Update(r.Context(), principal, id, patch)
	if err != nil {
		h.respondError(w, "update leave", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid leave id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete leave", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListTypes(r.Context())
	if err != nil {
		h.respondError(w, "list leave types", err)
		return
	}
	if out == nil {
		out = []LeaveType{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

type typeRequest struct {
	Type                  string `json:"type"`
	JustificationRequired bool   `json:"justification_required"`
}

func (h *Handler) createType(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateType(r.Context(), LeaveType{
		Type:                  req.Type,
		JustificationRequired: req.JustificationRequired,
	})
	if err != nil {
		h.respondError(w, "create leave type", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "resource not found")
		return
	}
	if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrForbidden) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
