package attendance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/rbac"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Handler manages attendance and payroll hour endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the clock event and payroll prefixes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/clock_events", func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermAttendance))
		r.Get("/", h.listAllEvents)
		r.Get("/attendance-resume", h.attendanceResume)
		r.Get("/{id}", h.listEvents)
		r.Post("/", h.recordEvent)
		r.Patch("/{id}", h.patchEvent)
		r.Delete("/{id}", h.deleteEvent)
	})

	r.Route("/payroll", func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermPayroll))
		r.Post("/calculate", h.calculate)
		r.Post("/hours", h.hoursQuery)
		r.Get("/pending_validation_hours", h.pendingValidation)
	})

	r.Route("/employee_hours", func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermPayroll))
		r.Get("/{id}", h.hoursByRange)
		r.Patch("/{id}", h.patchHour)
	})
}

type eventRequest struct {
	EmployeeID int64     `json:"employee_id"`
	EventDate  time.Time `json:"event_date"`
	EventType  string    `json:"event_type"`
	Source     string    `json:"source"`
	DeviceID   string    `json:"device_id"`
}

func (h *Handler) recordEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.RecordEvent(r.Context(), ClockEvent{
		EmployeeID: req.EmployeeID,
		EventDate:  req.EventDate,
		EventType:  req.EventType,
		Source:     req.Source,
		DeviceID:   req.DeviceID,
	})
	if err != nil {
		h.respondError(w, "record clock event", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) listAllEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.service.ListAllEvents(r.Context(), limit)
	if err != nil {
		h.respondError(w, "list clock events", err)
		return
	}
	if out == nil {
		out = []ClockEvent{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) attendanceResume(w http.ResponseWriter, r *http.Request) {
	var day shared.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := shared.ParseDate(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid date")
			return
		}
		day = d
	}
	out, err := h.service.AttendanceResume(r.Context(), day)
	if err != nil {
		h.respondError(w, "attendance resume", err)
		return
	}
	if out == nil {
		out = []ResumeRow{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	start, end, ok := dateRangeParams(w, r)
	if !ok {
		return
	}
	out, err := h.service.ListEvents(r.Context(), employeeID, start, end)
	if err != nil {
		h.respondError(w, "list clock events", err)
		return
	}
	if out == nil {
		out = []ClockEvent{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) patchEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid event id")
		return
	}
	var patch EventPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, "update clock event", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid event id")
		return
	}
	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		h.respondError(w, "delete clock event", err)
		return
	}
	httpx.NoContent(w)
}

type calculateRequest struct {
	EmployeeID int64       `json:"employee_id"`
	StartDate  shared.Date `json:"start_date"`
	EndDate    shared.Date `json:"end_date"`
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.service.Calculate(r.Context(), req.EmployeeID, req.StartDate, req.EndDate); err != nil {
		h.respondError(w, "calculate payroll hours", err)
		return
	}
	out, err := h.service.HoursByRange(r.Context(), req.EmployeeID, req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(w, "list hour records", err)
		return
	}
	if out == nil {
		out = []HourRecord{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) hoursQuery(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.HoursByRange(r.Context(), req.EmployeeID, req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(w, "list hour records", err)
		return
	}
	if out == nil {
		out = []HourRecord{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) hoursByRange(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	start, end, ok := dateRangeParams(w, r)
	if !ok {
		return
	}
	out, err := h.service.HoursByRange(r.Context(), employeeID, start, end)
	if err != nil {
		h.respondError(w, "list hour records", err)
		return
	}
	if out == nil {
		out = []HourRecord{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) pendingValidation(w http.ResponseWriter, r *http.Request) {
	var f HoursFilter
	q := r.URL.Query()
	for _, raw := range q["employee_id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee_id")
			return
		}
		f.EmployeeIDs = append(f.EmployeeIDs, id)
	}
	if raw := q.Get("start_date"); raw != "" {
		d, err := shared.ParseDate(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid start_date")
			return
		}
		f.StartDate = &d
	}
	if raw := q.Get("end_date"); raw != "" {
		d, err := shared.ParseDate(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid end_date")
			return
		}
		f.EndDate = &d
	}

	out, err := h.service.PendingValidation(r.Context(), f)
	if err != nil {
		h.respondError(w, "list pending validation", err)
		return
	}
	if out == nil {
		out = []HourRecord{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) patchHour(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid hour record id")
		return
	}
	var patch HourPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.service.UpdateHour(r.Context(), id, patch); err != nil {
		h.respondError(w, "update hour record", err)
		return
	}
	httpx.NoContent(w)
}

func dateRangeParams(w http.ResponseWriter, r *http.Request) (start, end shared.Date, ok bool) {
	var err error
	if start, err = shared.ParseDate(r.URL.Query().Get("start_date")); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid start_date")
		return start, end, false
	}
	if end, err = shared.ParseDate(r.URL.Query().Get("end_date")); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid end_date")
		return start, end, false
	}
	return start, end, true
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
