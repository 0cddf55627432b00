package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kestrel-hr/kestrel/internal/app"
	"github.com/kestrel-hr/kestrel/internal/attendance"
	"github.com/kestrel-hr/kestrel/internal/auth"
	"github.com/kestrel-hr/kestrel/internal/employees"
	"github.com/kestrel-hr/kestrel/internal/facerecog"
	"github.com/kestrel-hr/kestrel/internal/leaves"
	"github.com/kestrel-hr/kestrel/internal/masterdata"
	"github.com/kestrel-hr/kestrel/internal/platform/db"
	"github.com/kestrel-hr/kestrel/internal/rbac"
	"github.com/kestrel-hr/kestrel/internal/recruitment"
	"github.com/kestrel-hr/kestrel/internal/roles"
	"github.com/kestrel-hr/kestrel/internal/sysconfig"
	"github.com/kestrel-hr/kestrel/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	rbacService := rbac.NewService(pool)
	rbacMiddleware := rbac.Middleware{Logger: logger}
	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacService)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, tokens)
	authMiddleware := auth.Middleware{
		Tokens:  tokens,
		Service: authService,
		RBAC:    rbacService,
		Logger:  logger,
	}

	rolesRepo := roles.NewRepository(pool)
	rolesService := roles.NewService(rolesRepo)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware)

	masterdataRepo := masterdata.NewRepository(pool)
	masterdataService := masterdata.NewService(masterdataRepo)
	masterdataHandler := masterdata.NewHandler(logger, masterdataService, rbacMiddleware)

	employeesRepo := employees.NewRepository(pool)
	employeesService := employees.NewService(employeesRepo)
	employeesHandler := employees.NewHandler(logger, employeesService, rbacMiddleware)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	recruitmentRepo := recruitment.NewRepository(pool)
	recruitmentService := recruitment.NewService(logger, recruitmentRepo, jobClient)
	recruitmentHandler := recruitment.NewHandler(logger, recruitmentService, rbacMiddleware)

	leavesRepo := leaves.NewRepository(pool)
	leavesService := leaves.NewService(leavesRepo)
	leavesHandler := leaves.NewHandler(logger, leavesService, rbacMiddleware)

	attendanceRepo := attendance.NewRepository(pool)
	attendanceService := attendance.NewService(logger, attendanceRepo)
	attendanceHandler := attendance.NewHandler(logger, attendanceService, rbacMiddleware)

	faceRepo := facerecog.NewRepository(pool)
	faceCooldown := facerecog.NewCooldown(redisClient, cfg.FaceClockCooldown)
	faceService := facerecog.NewService(logger, faceRepo, attendanceService, faceCooldown, cfg.FaceMatchThreshold)
	faceHandler := facerecog.NewHandler(logger, faceService, rbacMiddleware)

	sysconfigRepo := sysconfig.NewRepository(pool)
	sysconfigService := sysconfig.NewService(logger, sysconfigRepo, redisClient)
	sysconfigHandler := sysconfig.NewHandler(logger, sysconfigService, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthMiddleware:     authMiddleware,
		AuthHandler:        authHandler,
		RolesHandler:       rolesHandler,
		PermissionsHandler: permissionsHandler,
		MasterDataHandler:  masterdataHandler,
		EmployeesHandler:   employeesHandler,
		RecruitmentHandler: recruitmentHandler,
		LeavesHandler:      leavesHandler,
		AttendanceHandler:  attendanceHandler,
		FaceHandler:        faceHandler,
		SysConfigHandler:   sysconfigHandler,
		JobHandler:         jobHandler,
		Pool:               pool,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
