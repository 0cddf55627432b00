package recruitment

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

// Handler manages recruitment endpoints. Postulation submission is public
// so external candidates can apply; everything else needs the recruitment
// permission.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers recruitment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	// Public surface for candidates.
	r.Get("/opportunities/open", h.listOpen)
	r.Post("/postulations", h.createPostulation)

	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermRecruitment))
		r.Get("/opportunities", h.listOpportunities)
		r.Get("/opportunities/active-count", h.activeCount)
		r.Get("/opportunities/{id}", h.getOpportunity)
		r.Post("/opportunities", h.createOpportunity)
		r.Patch("/opportunities/{id}", h.updateOpportunity)
		r.Delete("/opportunities/{id}", h.deleteOpportunity)

		r.Get("/postulations", h.listPostulations)
		r.Get("/postulations/{id}", h.getPostulation)
		r.Patch("/postulations/{id}/status", h.updatePostulationStatus)
		r.Post("/postulations/{id}/evaluate", h.evaluatePostulation)
		r.Delete("/postulations/{id}", h.deletePostulation)
	})
}

type opportunityRequest struct {
	OwnerEmployeeID    int64                `json:"owner_employee_id"`
	Status             string               `json:"status"`
	WorkMode           string               `json:"work_mode"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Budget             int64                `json:"budget"`
	BudgetCurrencyID   string               `json:"budget_currency_id"`
	StateID            int64                `json:"state_id"`
	RequiredAbilities  []OpportunityAbility `json:"required_abilities"`
	DesirableAbilities []OpportunityAbility `json:"desirable_abilities"`
}

func (req opportunityRequest) toDomain(id int64) Opportunity {
	return Opportunity{
		ID:                 id,
		OwnerEmployeeID:    req.OwnerEmployeeID,
		Status:             req.Status,
		WorkMode:           req.WorkMode,
		Title:              req.Title,
		Description:        req.Description,
		Budget:             req.Budget,
		BudgetCurrencyID:   req.BudgetCurrencyID,
		StateID:            req.StateID,
		RequiredAbilities:  req.RequiredAbilities,
		DesirableAbilities: req.DesirableAbilities,
	}
}

func (h *Handler) listOpen(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListOpportunities(r.Context(), true)
	if err != nil {
		h.respondError(w, "list open opportunities", err)
		return
	}
	if out == nil {
		out = []Opportunity{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) listOpportunities(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("status") == StatusActive
	out, err := h.service.ListOpportunities(r.Context(), onlyActive)
	if err != nil {
		h.respondError(w, "list opportunities", err)
		return
	}
	if out == nil {
		out = []Opportunity{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) activeCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CountActiveOpportunities(r.Context())
	if err != nil {
		h.respondError(w, "count active opportunities", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) getOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid opportunity id")
		return
	}
	out, err := h.service.GetOpportunity(r.Context(), id)
	if err != nil {
		h.respondError(w, "get opportunity", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createOpportunity(w http.ResponseWriter, r *http.Request) {
	var req opportunityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateOpportunity(r.Context(), req.toDomain(0))
	if err != nil {
		h.respondError(w, "create opportunity", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid opportunity id")
		return
	}
	var req opportunityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateOpportunity(r.Context(), req.toDomain(id))
	if err != nil {
		h.respondError(w, "update opportunity", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) deleteOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid opportunity id")
		return
	}
	if err := h.service.DeleteOpportunity(r.Context(), id); err != nil {
		h.respondError(w, "delete opportunity", err)
		return
	}
	httpx.NoContent(w)
}

type postulationRequest struct {
	JobOpportunityID int64  `json:"job_opportunity_id"`
	Name             string `json:"name"`
	Surname          string `json:"surname"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phone_number"`
	AddressCountryID int64  `json:"address_country_id"`
	AddressStateID   int64  `json:"address_state_id"`
	CVFile           string `json:"cv_file"`
}

func (h *Handler) createPostulation(w http.ResponseWriter, r *http.Request) {
	var req postulationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreatePostulation(r.Context(), Postulation{
		JobOpportunityID: req.JobOpportunityID,
		Name:             req.Name,
		Surname:          req.Surname,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		AddressCountryID: req.AddressCountryID,
		AddressStateID:   req.AddressStateID,
		CVFile:           req.CVFile,
	})
	if err != nil {
		h.respondError(w, "create postulation", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) listPostulations(w http.ResponseWriter, r *http.Request) {
	var opportunityID *int64
	if raw := r.URL.Query().Get("job_opportunity_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid job_opportunity_id")
			return
		}
		opportunityID = &id
	}
	out, err := h.service.ListPostulations(r.Context(), opportunityID)
	if err != nil {
		h.respondError(w, "list postulations", err)
		return
	}
	if out == nil {
		out = []Postulation{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getPostulation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid postulation id")
		return
	}
	out, err := h.service.GetPostulation(r.Context(), id)
	if err != nil {
		h.respondError(w, "get postulation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

type statusRequest struct {
	Status string  `json:"status"`
	Motive *string `json:"motive"`
}

func (h *Handler) updatePostulationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid postulation id")
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdatePostulationStatus(r.Context(), id, req.Status, req.Motive)
	if err != nil {
		h.respondError(w, "update postulation status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) evaluatePostulation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid postulation id")
		return
	}
	if err := h.service.EvaluatePostulation(r.Context(), id); err != nil {
		h.respondError(w, "evaluate postulation", err)
		return
	}
	out, err := h.service.GetPostulation(r.Context(), id)
	if err != nil {
		h.respondError(w, "get postulation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) deletePostulation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid postulation id")
		return
	}
	if err := h.service.DeletePostulation(r.Context(), id); err != nil {
		h.respondError(w, "delete postulation", err)
		return
	}
	httpx.NoContent(w)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "resource not found")
		return
	}
	if !errors.Is(err, httpx.ErrValidation) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
