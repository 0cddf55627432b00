package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// testRouter wires the full route table with inert services. Requests stop
// at the permission gate, which is enough to tell a registered path (401)
// from a missing one (404).
func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gate := rbac.Middleware{Logger: logger}

	return NewRouter(RouterParams{
		Logger:             logger,
		Config:             &Config{},
		AuthHandler:        auth.NewHandler(logger, nil, nil),
		RolesHandler:       roles.NewHandler(logger, nil, gate),
		PermissionsHandler: rbac.NewPermissionsHandler(logger, nil),
		MasterDataHandler:  masterdata.NewHandler(logger, nil, gate),
		EmployeesHandler:   employees.NewHandler(logger, nil, gate),
		RecruitmentHandler: recruitment.NewHandler(logger, nil, gate),
		LeavesHandler:      leaves.NewHandler(logger, nil, gate),
		AttendanceHandler:  attendance.NewHandler(logger, nil, gate),
		FaceHandler:        facerecog.NewHandler(logger, nil, gate),
		SysConfigHandler:   sysconfig.NewHandler(logger, nil, gate),
		JobHandler:         jobs.NewHandler(nil, logger),
	})
}

func TestQueueHealthIsReachable(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queue/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"queue":"default"`)
}

func TestJobPositionRoutesStayWithMasterdata(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/1", nil))

	// Gated masterdata route: the anonymous request is turned away before
	// the service runs.
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouteTableMatchesPublishedPaths(t *testing.T) {
	router := testRouter(t)

	registered := []struct {
		method, path string
	}{
		{http.MethodGet, "/clock_events"},
		{http.MethodGet, "/clock_events/attendance-resume"},
		{http.MethodPost, "/clock_events"},
		{http.MethodPatch, "/clock_events/5"},
		{http.MethodPost, "/payroll/calculate"},
		{http.MethodPost, "/payroll/hours"},
		{http.MethodGet, "/payroll/pending_validation_hours"},
		{http.MethodGet, "/employee_hours/3"},
		{http.MethodPatch, "/employee_hours/3"},
		{http.MethodPost, "/employees/register"},
		{http.MethodPost, "/employees/change_password"},
		{http.MethodGet, "/documents/3"},
		{http.MethodGet, "/work-history/3"},
	}
	for _, route := range registered {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code,
			"%s %s should be registered and gated", route.method, route.path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-path", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
