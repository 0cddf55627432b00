package masterdata

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

// Handler manages reference data endpoints. Reads are open to any
// authenticated session; writes need the reference-data permission.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers reference data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny())
		r.Get("/sectors", h.listSectors)
		r.Get("/sectors/{id}", h.getSector)
		r.Get("/jobs", h.listJobs)
		r.Get("/jobs/{id}", h.getJob)
		r.Get("/shifts", h.listShifts)
		r.Get("/shifts/{id}", h.getShift)
		r.Get("/concepts", h.listConcepts)
		r.Get("/concepts/{id}", h.getConcept)
		r.Get("/abilities", h.listAbilities)
		r.Get("/abilities/{id}", h.getAbility)
		r.Get("/countries", h.listCountries)
		r.Get("/states", h.listStates)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermReferenceEdit))
		r.Post("/sectors", h.createSector)
		r.Patch("/sectors/{id}", h.updateSector)
		r.Delete("/sectors/{id}", h.deleteSector)
		r.Post("/jobs", h.createJob)
		r.Patch("/jobs/{id}", h.updateJob)
		r.Delete("/jobs/{id}", h.deleteJob)
		r.Post("/shifts", h.createShift)
		r.Patch("/shifts/{id}", h.updateShift)
		r.Delete("/shifts/{id}", h.deleteShift)
		r.Post("/concepts", h.createConcept)
		r.Patch("/concepts/{id}", h.updateConcept)
		r.Delete("/concepts/{id}", h.deleteConcept)
		r.Post("/abilities", h.createAbility)
		r.Patch("/abilities/{id}", h.updateAbility)
		r.Delete("/abilities/{id}", h.deleteAbility)
	})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "resource not found")
		return
	}
	if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrDuplicate) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) respondList(w http.ResponseWriter, op string, v any, err error) {
	if err != nil {
		h.respondError(w, op, err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

// --- Sectors ---

type sectorRequest struct {
	Name string `json:"name"`
}

func (h *Handler) listSectors(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListSectors(r.Context())
	if out == nil {
		out = []Sector{}
	}
	h.respondList(w, "list sectors", out, err)
}

func (h *Handler) getSector(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sector id")
		return
	}
	out, err := h.service.GetSector(r.Context(), id)
	h.respondList(w, "get sector", out, err)
}

func (h *Handler) createSector(w http.ResponseWriter, r *http.Request) {
	var req sectorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateSector(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, "create sector", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateSector(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sector id")
		return
	}
	var req sectorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateSector(r.Context(), id, req.Name)
	h.respondList(w, "update sector", out, err)
}

func (h *Handler) deleteSector(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sector id")
		return
	}
	if err := h.service.DeleteSector(r.Context(), id); err != nil {
		h.respondError(w, "delete sector", err)
		return
	}
	httpx.NoContent(w)
}

// --- Jobs ---

type jobRequest struct {
	Name     string `json:"name"`
	SectorID int64  `json:"sector_id"`
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListJobs(r.Context())
	if out == nil {
		out = []Job{}
	}
	h.respondList(w, "list jobs", out, err)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid job id")
		return
	}
	out, err := h.service.GetJob(r.Context(), id)
	h.respondList(w, "get job", out, err)
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateJob(r.Context(), req.Name, req.SectorID)
	if err != nil {
		h.respondError(w, "create job", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid job id")
		return
	}
	var req jobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateJob(r.Context(), id, req.Name, req.SectorID)
	h.respondList(w, "update job", out, err)
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid job id")
		return
	}
	if err := h.service.DeleteJob(r.Context(), id); err != nil {
		h.respondError(w, "delete job", err)
		return
	}
	httpx.NoContent(w)
}

// --- Shifts ---

type shiftRequest struct {
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	WorkingHours float64 `json:"working_hours"`
	WorkingDays  int     `json:"working_days"`
}

func (h *Handler) listShifts(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListShifts(r.Context())
	if out == nil {
		out = []Shift{}
	}
	h.respondList(w, "list shifts", out, err)
}

func (h *Handler) getShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid shift id")
		return
	}
	out, err := h.service.GetShift(r.Context(), id)
	h.respondList(w, "get shift", out, err)
}

func (h *Handler) createShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateShift(r.Context(), Shift{
		Description:  req.Description,
		Type:         req.Type,
		WorkingHours: req.WorkingHours,
		WorkingDays:  req.WorkingDays,
	})
	if err != nil {
		h.respondError(w, "create shift", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid shift id")
		return
	}
	var req shiftRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateShift(r.Context(), Shift{
		ID:           id,
		Description:  req.Description,
		Type:         req.Type,
		WorkingHours: req.WorkingHours,
		WorkingDays:  req.WorkingDays,
	})
	h.respondList(w, "update shift", out, err)
}

func (h *Handler) deleteShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid shift id")
		return
	}
	if err := h.service.DeleteShift(r.Context(), id); err != nil {
		h.respondError(w, "delete shift", err)
		return
	}
	httpx.NoContent(w)
}

// --- Concepts ---

type conceptRequest struct {
	Description string `json:"description"`
}

func (h *Handler) listConcepts(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListConcepts(r.Context())
	if out == nil {
		out = []Concept{}
	}
	h.respondList(w, "list concepts", out, err)
}

func (h *Handler) getConcept(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid concept id")
		return
	}
	out, err := h.service.GetConcept(r.Context(), id)
	h.respondList(w, "get concept", out, err)
}

func (h *Handler) createConcept(w http.ResponseWriter, r *http.Request) {
	var req conceptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateConcept(r.Context(), req.Description)
	if err != nil {
		h.respondError(w, "create concept", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateConcept(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid concept id")
		return
	}
	var req conceptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateConcept(r.Context(), id, req.Description)
	h.respondList(w, "update concept", out, err)
}

func (h *Handler) deleteConcept(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid concept id")
		return
	}
	if err := h.service.DeleteConcept(r.Context(), id); err != nil {
		h.respondError(w, "delete concept", err)
		return
	}
	httpx.NoContent(w)
}

// --- Abilities ---

type abilityRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) listAbilities(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListAbilities(r.Context())
	if out == nil {
		out = []Ability{}
	}
	h.respondList(w, "list abilities", out, err)
}

func (h *Handler) getAbility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ability id")
		return
	}
	out, err := h.service.GetAbility(r.Context(), id)
	h.respondList(w, "get ability", out, err)
}

func (h *Handler) createAbility(w http.ResponseWriter, r *http.Request) {
	var req abilityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateAbility(r.Context(), req.Name, req.Description)
	if err != nil {
		h.respondError(w, "create ability", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateAbility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ability id")
		return
	}
	var req abilityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateAbility(r.Context(), id, req.Name, req.Description)
	h.respondList(w, "update ability", out, err)
}

func (h *Handler) deleteAbility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ability id")
		return
	}
	if err := h.service.DeleteAbility(r.Context(), id); err != nil {
		h.respondError(w, "delete ability", err)
		return
	}
	httpx.NoContent(w)
}

// --- Countries and states ---

func (h *Handler) listCountries(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListCountries(r.Context())
	if out == nil {
		out = []Country{}
	}
	h.respondList(w, "list countries", out, err)
}

func (h *Handler) listStates(w http.ResponseWriter, r *http.Request) {
	var countryID *int64
	if raw := r.URL.Query().Get("country_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid country_id")
			return
		}
		countryID = &id
	}
	out, err := h.service.ListStates(r.Context(), countryID)
	if out == nil {
		out = []State{}
	}
	h.respondList(w, "list states", out, err)
}
