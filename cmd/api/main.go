package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/config"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	appHTTP "github.com/ethos-hrms/hrms-backend-go/internal/handler/http"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/cron"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/email"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/jwt"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/metrics"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/sse"
	"github.com/ethos-hrms/hrms-backend-go/internal/repository/memory"
	"github.com/ethos-hrms/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/ethos-hrms/hrms-backend-go/internal/service/attendance"
	dashboardService "github.com/ethos-hrms/hrms-backend-go/internal/service/dashboard"
	employeeService "github.com/ethos-hrms/hrms-backend-go/internal/service/employee"
	leaveService "github.com/ethos-hrms/hrms-backend-go/internal/service/leave"
	notificationService "github.com/ethos-hrms/hrms-backend-go/internal/service/notification"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 15 * time.Second

// repositories is the persistence surface selected by STORAGE_DRIVER.
type repositories struct {
	tx           database.Transactor
	employees    employee.EmployeeRepository
	leave        leave.LeaveRequestRepository
	attendance   attendance.AttendanceRepository
	corrections  attendance.CorrectionRepository
	notification notification.Repository
	close        func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.SlogLevel(), cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	appMetrics := metrics.New(prometheus.DefaultRegisterer)
	policy := user.NewPolicy(cfg.Policy.Permissions)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.AcceptableSkew)

	var mailer email.Sender
	if cfg.Notification.EmailEnabled {
		emailService, err := email.NewService(cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}
		mailer = emailService
	}

	hub := sse.NewHub()
	appMetrics.ObserveStreams(hub.TotalSubscribers)

	notifSvc := notificationService.NewNotificationService(repos.notification, hub, mailer, appMetrics, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushEvery,
		WorkerCount:   cfg.Notification.Workers,
		QueueSize:     cfg.Notification.QueueSize,
		EmailEnabled:  cfg.Notification.EmailEnabled,
	})
	defer notifSvc.Stop()

	leaveSvc := leaveService.NewLeaveService(repos.tx, policy, repos.leave, repos.employees, notifSvc, appMetrics, cfg.App.BaseURL)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.tx,
		policy,
		repos.attendance,
		repos.corrections,
		repos.employees,
		notifSvc,
		appMetrics,
		cfg.App.BaseURL,
	)
	employeeSvc := employeeService.NewEmployeeService(repos.employees)
	dashboardSvc := dashboardService.NewDashboardService(leaveSvc, attendanceSvc)

	if cfg.Storage.Driver == config.StorageDriverMemory && cfg.Storage.SeedFile != "" {
		if err := seedEmployees(ctx, employeeSvc, cfg.Storage.SeedFile); err != nil {
			return err
		}
	}

	scheduler := cron.NewScheduler(appMetrics)
	cron.NewLeaveStatusJobs(repos.leave, repos.employees).RegisterJobs(scheduler, cfg.Jobs.LeaveStatusSyncInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		logger,
		cfg.App.CORSOrigins,
		JWTService,
		policy,
		appMetrics,
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewNotificationHandler(notifSvc, JWTService),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		slog.Warn("Using in-memory storage, data is lost on restart")
		return &repositories{
			tx:           store,
			employees:    memory.NewEmployeeRepository(store),
			leave:        memory.NewLeaveRequestRepository(store),
			attendance:   memory.NewAttendanceRepository(store),
			corrections:  memory.NewCorrectionRepository(store),
			notification: memory.NewNotificationRepository(store),
			close:        func() {},
		}, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("error migrating database: %w", err)
			}
		}
		return &repositories{
			tx:           postgresql.NewTransactor(db),
			employees:    postgresql.NewEmployeeRepository(db),
			leave:        postgresql.NewLeaveRequestRepository(db),
			attendance:   postgresql.NewAttendanceRepository(db),
			corrections:  postgresql.NewCorrectionRepository(db),
			notification: postgresql.NewNotificationRepository(db),
			close:        db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.Storage.Driver)
	}
}
