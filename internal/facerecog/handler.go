package facerecog

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

// Handler exposes face template management and the capture-device
// verification and clocking endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers face recognition routes under /face_recognition.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/face_recognition", func(r chi.Router) {
		// Capture devices authenticate like any other session but need
		// no extra permission to verify or clock.
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny())
			r.Post("/", h.verify)
			r.Post("/{eventType}", h.clock)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny(rbac.PermFaceDevices))
			r.Post("/register", h.register)
			r.Patch("/update", h.update)
			r.Delete("/{employeeID}", h.delete)
		})
	})
}

type templateRequest struct {
	EmployeeID int64     `json:"employee_id" validate:"required"`
	Embedding  []float64 `json:"embedding" validate:"required"`
}

type probeRequest struct {
	Embedding []float64 `json:"embedding" validate:"required"`
	DeviceID  string    `json:"device_id"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	tpl, err := h.service.Register(r.Context(), req.EmployeeID, req.Embedding)
	if err != nil {
		h.respondError(w, "facerecog: register", err)
		return
	}
	// Never echo the embedding back.
	tpl.Embedding = nil
	httpx.JSON(w, http.StatusCreated, tpl)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	tpl, err := h.service.Upsert(r.Context(), req.EmployeeID, req.Embedding)
	if err != nil {
		h.respondError(w, "facerecog: update", err)
		return
	}
	tpl.Embedding = nil
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	if err := h.service.Delete(r.Context(), employeeID); err != nil {
		h.respondError(w, "facerecog: delete", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	outcome, err := h.service.Verify(r.Context(), req.Embedding)
	if err != nil {
		h.respondError(w, "facerecog: verify", err)
		return
	}
	httpx.JSON(w, http.StatusOK, outcome)
}

func (h *Handler) clock(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = "face-capture-kiosk"
	}
	outcome, err := h.service.Clock(r.Context(), req.Embedding, chi.URLParam(r, "eventType"), deviceID)
	if err != nil {
		h.respondError(w, "facerecog: clock", err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, outcome)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "resource not found")
		return
	}
	if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrDuplicate) && !errors.Is(err, httpx.ErrNotFound) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
