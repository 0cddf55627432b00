package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/kestrel-hr/kestrel/internal/app"
	"github.com/kestrel-hr/kestrel/internal/attendance"
	"github.com/kestrel-hr/kestrel/internal/platform/db"
	"github.com/kestrel-hr/kestrel/internal/recruitment"
	"github.com/kestrel-hr/kestrel/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The worker evaluates inline rather than re-enqueueing, so the
	// recruitment service runs without an enqueuer.
	recruitmentRepo := recruitment.NewRepository(pool)
	recruitmentService := recruitment.NewService(logger, recruitmentRepo, nil)
	evaluateJob := jobs.NewPostulationEvaluateJob(recruitmentService, logger)

	attendanceRepo := attendance.NewRepository(pool)
	attendanceService := attendance.NewService(logger, attendanceRepo)
	payrollJob := jobs.NewPayrollRefreshJob(pool, attendanceService, logger)

	anomalyJob := jobs.NewAttendanceAnomalyScanJob(pool, logger)

	payrollTask, err := jobs.NewPayrollRefreshTask(jobs.PayrollRefreshPayload{})
	if err != nil {
		logger.Error("build payroll task", slog.Any("error", err))
		os.Exit(1)
	}
	anomalyTask, err := jobs.NewAnomalyScanTask(jobs.AnomalyScanPayload{WindowDays: 7})
	if err != nil {
		logger.Error("build anomaly task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskPostulationEvaluate, Handler: evaluateJob.Handle},
			{Type: jobs.TaskPayrollRefresh, Handler: payrollJob.Handle},
			{Type: jobs.TaskAttendanceAnomalyScan, Handler: anomalyJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 1 * * *", Task: payrollTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 2 * * *", Task: anomalyTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
