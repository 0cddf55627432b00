package sysconfig

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/rbac"
)

// Handler exposes the system configuration endpoints. The route names
// are verbs because settings screens POST for both read and write.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers configuration routes under /configurations.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/configurations", func(r chi.Router) {
		r.With(h.rbac.RequireAny()).Post("/getConfigurations", h.get)
		r.With(h.rbac.RequireAny(rbac.PermConfigManage)).Post("/setConfigurations", h.set)
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("sysconfig: get", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	var cfg Config
	if err := httpx.DecodeJSON(r, &cfg); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.service.Set(r.Context(), cfg); err != nil {
		if !errors.Is(err, httpx.ErrValidation) {
			h.logger.Error("sysconfig: set", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cfg)
}
