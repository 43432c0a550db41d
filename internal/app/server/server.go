package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timerecon/internal/auth"
	"timerecon/internal/domain/audit"
	"timerecon/internal/domain/billing"
	"timerecon/internal/domain/chatquery"
	"timerecon/internal/domain/leave"
	"timerecon/internal/domain/recon"
	"timerecon/internal/domain/worker"
	"timerecon/internal/platform/config"
	"timerecon/internal/platform/db"
	"timerecon/internal/platform/email"
	"timerecon/internal/platform/metrics"
	"timerecon/internal/transport/http/api"
	auditloghandler "timerecon/internal/transport/http/handlers/auditlog"
	authhandler "timerecon/internal/transport/http/handlers/authn"
	billinghandler "timerecon/internal/transport/http/handlers/billing"
	chathandler "timerecon/internal/transport/http/handlers/chat"
	leavehandler "timerecon/internal/transport/http/handlers/leave"
	timesheethandler "timerecon/internal/transport/http/handlers/timesheets"
	workerhandler "timerecon/internal/transport/http/handlers/workers"
	"timerecon/internal/transport/http/middleware"
	"timerecon/migrations"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config invalid: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, migrations.Files); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}

	passwordHash := ""
	if cfg.AdminPassword != "" {
		passwordHash, err = auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	} else {
		slog.Warn("ADMIN_PASSWORD not set, login is disabled")
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	leaveStore := leave.NewStore(pool)
	leaveService := leave.NewService(leaveStore)
	workerStore := worker.NewStore(pool)
	workerService := worker.NewService(workerStore)
	reconStore := recon.NewStore(pool)

	var ingestMetrics recon.IngestMetrics
	if collector != nil {
		ingestMetrics = collector
	}
	reconService := recon.NewService(reconStore, leaveService, workerStore, ingestMetrics)
	reconService.Mailer = email.New(cfg)
	reconService.MailFrom = cfg.SMTPFrom
	billingService := billing.NewService(billing.NewStore(pool))
	chatService := chatquery.NewService(pool)
	auditService := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(cfg.AdminEmail, passwordHash, cfg.JWTSecret, cfg.TokenTTL)
		r.With(middleware.RateLimit(10, time.Minute)).Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

			leavehandler.NewHandler(leaveService, auditService).RegisterRoutes(r)
			workerhandler.NewHandler(workerService, auditService).RegisterRoutes(r)
			chathandler.NewHandler(chatService).RegisterRoutes(r)
			billinghandler.NewHandler(billingService).RegisterRoutes(r)
			auditloghandler.NewHandler(auditService).RegisterRoutes(r)
		})

		// Upload endpoints carry workbooks, so they get the larger cap.
		r.Group(func(r chi.Router) {
			r.Use(middleware.BodyLimit(cfg.MaxUploadBytes))
			timesheethandler.NewHandler(reconService, auditService).RegisterRoutes(r)
		})
	})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("timerecon server listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
