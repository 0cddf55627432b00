package employees

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/rbac"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Handler manages employee endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, validator: validator.New()}
}

// MountRoutes registers the employee, document and work-history prefixes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny(rbac.PermEmployeesView, rbac.PermEmployeesEdit))
			r.Get("/", h.list)
			r.Get("/active-count", h.activeCount)
			r.Get("/{id}", h.get)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny(rbac.PermEmployeesEdit))
			r.Post("/register", h.register)
			r.Patch("/{id}", h.update)
			r.Delete("/{id}", h.remove)
		})

		// Password changes are allowed for the session owner as well,
		// enforced in the handler rather than the permission layer.
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny())
			r.Post("/change_password", h.changePassword)
		})
	})

	r.Route("/work-history/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny(rbac.PermEmployeesView, rbac.PermEmployeesEdit))
			r.Get("/", h.listWorkHistories)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny(rbac.PermEmployeesEdit))
			r.Post("/", h.createWorkHistory)
			r.Patch("/{historyID}", h.updateWorkHistory)
			r.Delete("/{historyID}", h.deleteWorkHistory)
		})
	})

	r.Route("/documents/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny(rbac.PermEmployeesView, rbac.PermEmployeesEdit))
			r.Get("/", h.listDocuments)
			r.Get("/{docID}", h.getDocument)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny(rbac.PermEmployeesEdit))
			r.Post("/", h.createDocument)
			r.Patch("/{docID}", h.updateDocument)
			r.Delete("/{docID}", h.deleteDocument)
		})
	})
}

type registerRequest struct {
	FirstName        string        `json:"first_name" validate:"required,max=100"`
	LastName         string        `json:"last_name" validate:"required,max=100"`
	DNI              string        `json:"dni" validate:"required,max=50"`
	TypeDNI          string        `json:"type_dni" validate:"required,max=10"`
	PersonalEmail    string        `json:"personal_email" validate:"required,email,max=100"`
	Active           bool          `json:"active"`
	RoleID           *int64        `json:"role_id"`
	Password         *string       `json:"password"`
	Phone            string        `json:"phone" validate:"required,max=20"`
	Salary           float64       `json:"salary" validate:"required,gt=0"`
	JobID            int64         `json:"job_id" validate:"required"`
	ShiftID          int64         `json:"shift_id" validate:"required"`
	BirthDate        shared.Date   `json:"birth_date"`
	HireDate         shared.Date   `json:"hire_date"`
	Photo            []byte        `json:"photo"`
	AddressStreet    string        `json:"address_street" validate:"required,max=100"`
	AddressCity      string        `json:"address_city" validate:"required,max=100"`
	AddressCP        string        `json:"address_cp" validate:"required,max=100"`
	AddressStateID   int64         `json:"address_state_id" validate:"required"`
	AddressCountryID int64         `json:"address_country_id" validate:"required"`
	WorkHistories    []WorkHistory `json:"work_histories"`
	Documents        []Document    `json:"documents"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var sectorID *int64
	if raw := r.URL.Query().Get("sector_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sector_id")
			return
		}
		sectorID = &id
	}
	out, err := h.service.List(r.Context(), sectorID)
	if err != nil {
		h.respondError(w, "list employees", err)
		return
	}
	if out == nil {
		out = []Employee{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) activeCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CountActive(r.Context())
	if err != nil {
		h.respondError(w, "count active employees", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	out, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get employee", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		httpx.ValidationProblem(w, fields)
		return
	}

	out, err := h.service.Register(r.Context(), NewEmployee{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DNI:              req.DNI,
		TypeDNI:          req.TypeDNI,
		PersonalEmail:    req.PersonalEmail,
		Active:           req.Active,
		RoleID:           req.RoleID,
		Password:         req.Password,
		Phone:            req.Phone,
		Salary:           req.Salary,
		JobID:            req.JobID,
		ShiftID:          req.ShiftID,
		BirthDate:        req.BirthDate,
		HireDate:         req.HireDate,
		Photo:            req.Photo,
		AddressStreet:    req.AddressStreet,
		AddressCity:      req.AddressCity,
		AddressCP:        req.AddressCP,
		AddressStateID:   req.AddressStateID,
		AddressCountryID: req.AddressCountryID,
		WorkHistories:    req.WorkHistories,
		Documents:        req.Documents,
	})
	if err != nil {
		h.respondError(w, "register employee", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	var patch EmployeePatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, "update employee", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete employee", err)
		return
	}
	httpx.NoContent(w)
}

type passwordRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Password   string `json:"password"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id := req.EmployeeID
	if id == 0 {
		id = principal.EmployeeID
	}
	if principal.EmployeeID != id && !principal.HasPermission(rbac.PermEmployeesEdit) {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "cannot change another employee's password")
		return
	}
	if err := h.service.ChangePassword(r.Context(), id, req.Password); err != nil {
		h.respondError(w, "change password", err)
		return
	}
	httpx.NoContent(w)
}

// --- Work histories ---

func (h *Handler) listWorkHistories(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	out, err := h.service.ListWorkHistories(r.Context(), id)
	if err != nil {
		h.respondError(w, "list work histories", err)
		return
	}
	if out == nil {
		out = []WorkHistory{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

type workHistoryRequest struct {
	JobID       int64       `json:"job_id"`
	FromDate    shared.Date `json:"from_date"`
	ToDate      shared.Date `json:"to_date"`
	CompanyName string      `json:"company_name"`
	Notes       string      `json:"notes"`
}

func (h *Handler) createWorkHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	var req workHistoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateWorkHistory(r.Context(), WorkHistory{
		EmployeeID:  id,
		JobID:       req.JobID,
		FromDate:    req.FromDate,
		ToDate:      req.ToDate,
		CompanyName: req.CompanyName,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondError(w, "create work history", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateWorkHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	historyID, err := strconv.ParseInt(chi.URLParam(r, "historyID"), 10, 64)
	if !ok || err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req workHistoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateWorkHistory(r.Context(), WorkHistory{
		ID:          historyID,
		EmployeeID:  id,
		JobID:       req.JobID,
		FromDate:    req.FromDate,
		ToDate:      req.ToDate,
		CompanyName: req.CompanyName,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondError(w, "update work history", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) deleteWorkHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	historyID, err := strconv.ParseInt(chi.URLParam(r, "historyID"), 10, 64)
	if !ok || err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.DeleteWorkHistory(r.Context(), id, historyID); err != nil {
		h.respondError(w, "delete work history", err)
		return
	}
	httpx.NoContent(w)
}

// --- Documents ---

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	out, err := h.service.ListDocuments(r.Context(), id)
	if err != nil {
		h.respondError(w, "list documents", err)
		return
	}
	if out == nil {
		out = []Document{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	docID, err := strconv.ParseInt(chi.URLParam(r, "docID"), 10, 64)
	if !ok || err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	out, err := h.service.GetDocument(r.Context(), id, docID)
	if err != nil {
		h.respondError(w, "get document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

type documentRequest struct {
	Name         string      `json:"name"`
	Extension    string      `json:"extension"`
	CreationDate shared.Date `json:"creation_date"`
	File         []byte      `json:"file"`
	Active       bool        `json:"active"`
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	var req documentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.CreateDocument(r.Context(), Document{
		EmployeeID:   id,
		Name:         req.Name,
		Extension:    req.Extension,
		CreationDate: req.CreationDate,
		File:         req.File,
		Active:       req.Active,
	})
	if err != nil {
		h.respondError(w, "create document", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	docID, err := strconv.ParseInt(chi.URLParam(r, "docID"), 10, 64)
	if !ok || err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req documentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.service.UpdateDocument(r.Context(), Document{
		ID:           docID,
		EmployeeID:   id,
		Name:         req.Name,
		Extension:    req.Extension,
		CreationDate: req.CreationDate,
		File:         req.File,
		Active:       req.Active,
	})
	if err != nil {
		h.respondError(w, "update document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	docID, err := strconv.ParseInt(chi.URLParam(r, "docID"), 10, 64)
	if !ok || err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.DeleteDocument(r.Context(), id, docID); err != nil {
		h.respondError(w, "delete document", err)
		return
	}
	httpx.NoContent(w)
}

func employeeID(r *http.Request) (int64, bool) {
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
