package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/attendance"
	"github.com/kestrel-hr/kestrel/internal/auth"
	"github.com/kestrel-hr/kestrel/internal/employees"
	"github.com/kestrel-hr/kestrel/internal/facerecog"
	"github.com/kestrel-hr/kestrel/internal/leaves"
	"github.com/kestrel-hr/kestrel/internal/masterdata"
	"github.com/kestrel-hr/kestrel/internal/rbac"
	"github.com/kestrel-hr/kestrel/internal/recruitment"
	"github.com/kestrel-hr/kestrel/internal/roles"
	"github.com/kestrel-hr/kestrel/internal/sysconfig"
	"github.com/kestrel-hr/kestrel/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthMiddleware     auth.Middleware
	AuthHandler        *auth.Handler
	RolesHandler       *roles.Handler
	PermissionsHandler *rbac.PermissionsHandler
	MasterDataHandler  *masterdata.Handler
	EmployeesHandler   *employees.Handler
	RecruitmentHandler *recruitment.Handler
	LeavesHandler      *leaves.Handler
	AttendanceHandler  *attendance.Handler
	FaceHandler        *facerecog.Handler
	SysConfigHandler   *sysconfig.Handler
	JobHandler         *jobs.Handler
	Pool               *pgxpool.Pool
}

// NewRouter constructs the chi.Router with Kestrel defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
		Auth:   params.AuthMiddleware,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/roles", params.RolesHandler.MountRoutes)
	r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	r.Route("/leaves", params.LeavesHandler.MountRoutes)
	// Queue observability lives under /queue; masterdata owns /jobs for the
	// job-position resource.
	if params.JobHandler != nil {
		r.Route("/queue", params.JobHandler.MountRoutes)
	}

	// These handlers own multiple top-level prefixes.
	params.EmployeesHandler.MountRoutes(r)
	params.MasterDataHandler.MountRoutes(r)
	params.RecruitmentHandler.MountRoutes(r)
	params.AttendanceHandler.MountRoutes(r)
	params.FaceHandler.MountRoutes(r)
	params.SysConfigHandler.MountRoutes(r)

	return r
}
