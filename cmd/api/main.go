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

	"github.com/cmlabs-hris/geoattend-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/geoattend-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/geoattend-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/geoattend-backend-go/internal/service/dashboard"
	notificationService "github.com/cmlabs-hris/geoattend-backend-go/internal/service/notification"
	taskService "github.com/cmlabs-hris/geoattend-backend-go/internal/service/task"
	userService "github.com/cmlabs-hris/geoattend-backend-go/internal/service/user"
	wfhService "github.com/cmlabs-hris/geoattend-backend-go/internal/service/wfh"
	"github.com/redis/go-redis/v9"
)

const autoCloseInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.SlogLevel()})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.MigrateUp(context.Background()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Idempotency stays off without Redis; keep the interface nil rather than a typed nil client.
	var rdb redis.Cmdable
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Warn("Redis unreachable, idempotency keys will be ignored until it recovers", "addr", cfg.Redis.Addr, "error", err)
		}
		rdb = client
	}

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	wfhRepo := postgresql.NewWFHRequestRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production")
	if err != nil {
		return fmt.Errorf("initializing JWT service: %w", err)
	}

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("initializing email service: %w", err)
	}

	notifService := notificationService.NewNotificationService(notificationRepo, sse.NewHub(), emailService, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifService.Stop()

	officeLocation := cfg.Office.Location()
	authSvc := serviceAuth.NewAuthService(txManager, userRepo, JWTService, refreshTokenRepo)
	userSvc := userService.NewUserService(userRepo)
	wfhSvc := wfhService.NewWFHService(wfhRepo, userRepo, notifService)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, wfhSvc, notifService, attendanceService.Policy{
		Fence:           geo.NewFence(geo.Point{Latitude: cfg.Office.Latitude, Longitude: cfg.Office.Longitude}, cfg.Office.RadiusMeters),
		Location:        officeLocation,
		MinimumPresence: cfg.Office.MinimumPresence,
	})
	taskSvc := taskService.NewTaskService(taskRepo, assignmentRepo, userRepo, notifService)
	dashboardSvc := dashboardService.NewDashboardService(attendanceRepo, wfhRepo, assignmentRepo, userRepo, officeLocation)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL, cfg.App.Env == "production"),
		User:         appHTTP.NewUserHandler(userSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		WFH:          appHTTP.NewWFHHandler(wfhSvc),
		Task:         appHTTP.NewTaskHandler(taskSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Notification: appHTTP.NewNotificationHandler(notifService, JWTService),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		LogLevel:       cfg.App.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
		Redis:          rdb,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	scheduler.Add(cron.Job{
		Name:     "auto_close_open_attendance",
		Interval: autoCloseInterval,
		Timeout:  5 * time.Minute,
		Fn: func(ctx context.Context) error {
			closed, err := attendanceSvc.AutoCloseOpenRecords(ctx)
			if err != nil {
				return err
			}
			if closed > 0 {
				slog.Info("Closed open attendance records", "count", closed)
			}
			return nil
		},
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		// open SSE streams do not end on their own
		slog.Warn("Graceful shutdown timed out, closing remaining connections", "error", err)
		return server.Close()
	}
	return nil
}
