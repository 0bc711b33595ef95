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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	cfhttp "github.com/Strob0t/taskgraph/internal/adapter/http"
	"github.com/Strob0t/taskgraph/internal/adapter/litellm"
	"github.com/Strob0t/taskgraph/internal/adapter/mockgen"
	cfnats "github.com/Strob0t/taskgraph/internal/adapter/nats"
	"github.com/Strob0t/taskgraph/internal/adapter/natskv"
	cfotel "github.com/Strob0t/taskgraph/internal/adapter/otel"
	"github.com/Strob0t/taskgraph/internal/adapter/postgres"
	"github.com/Strob0t/taskgraph/internal/adapter/ristretto"
	"github.com/Strob0t/taskgraph/internal/adapter/tiered"
	"github.com/Strob0t/taskgraph/internal/adapter/ws"
	"github.com/Strob0t/taskgraph/internal/config"
	"github.com/Strob0t/taskgraph/internal/logger"
	"github.com/Strob0t/taskgraph/internal/middleware"
	"github.com/Strob0t/taskgraph/internal/port/cache"
	"github.com/Strob0t/taskgraph/internal/resilience"
	"github.com/Strob0t/taskgraph/internal/secrets"
	"github.com/Strob0t/taskgraph/internal/service"
)

const idempotencyTTL = 24 * time.Hour

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.ParseFlags(args)
	if err != nil {
		return err
	}
	cfg, cfgPath, err := config.LoadWithCLI(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"generator", cfg.Generator.Mode,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"cache", cfg.Cache.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vault, err := secrets.NewVault(secrets.DotEnvLoader(config.DefaultEnvFile, secrets.LiteLLMMasterKey))
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}

	holder := config.NewHolder(cfg, cfgPath)
	go watchReload(ctx, holder, vault)

	// --- Telemetry ---

	shutdownOtel, err := cfotel.Setup(ctx, cfg.Telemetry, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(sctx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()
	metrics, err := cfotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	queue, err := cfnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	l1, err := ristretto.New(max(cfg.Cache.L1MaxSizeMB, 1) << 20)
	if err != nil {
		return fmt.Errorf("l1 cache: %w", err)
	}
	defer l1.Close()

	var workflowCache cache.Cache
	if cfg.Cache.Enabled {
		kv, err := queue.KeyValue(ctx, cfg.Cache.L2Bucket, cfg.Cache.L2TTL)
		if err != nil {
			return fmt.Errorf("l2 cache: %w", err)
		}
		workflowCache = tiered.New(l1, natskv.New(kv), cfg.Cache.L1TTL)
		slog.Info("workflow cache enabled", "bucket", cfg.Cache.L2Bucket)
	}

	// --- Services ---

	hub := ws.NewHub(cfg.Server.CORSOrigin)
	defer hub.Close()

	store := postgres.NewStore(pool)
	workspaceSvc := service.NewWorkspaceService(store)
	workflowSvc := service.NewWorkflowService(store, queue, hub, cfg.Delegation.MaxParallel)
	workflowSvc.SetMetrics(metrics)
	if workflowCache != nil {
		workflowSvc.SetCache(workflowCache, cfg.Cache.L2TTL)
	}

	healthChecks := []cfhttp.HealthCheck{
		{Name: "postgres", Check: store.Ping},
		{Name: "nats", Check: func(context.Context) error {
			if !queue.IsConnected() {
				return errors.New("disconnected")
			}
			return nil
		}},
	}

	var promptSvc *service.PromptService
	if cfg.Generator.Mode == config.GeneratorLLM {
		breaker := resilience.NewBreaker("litellm", cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
		llm := litellm.NewClient(cfg.LiteLLM, breaker)
		llm.SetKeySource(vault.Source(secrets.LiteLLMMasterKey))
		promptSvc = service.NewPromptService(litellm.NewGenerator(llm, cfg.Generator), "llm", mockgen.New())
		healthChecks = append(healthChecks, cfhttp.HealthCheck{Name: "litellm", Check: func(ctx context.Context) error {
			ok, err := llm.Health(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("unhealthy")
			}
			return nil
		}})
	} else {
		promptSvc = service.NewPromptService(mockgen.New(), "mock", nil)
	}
	promptSvc.SetStore(store)
	promptSvc.SetQueue(queue)
	promptSvc.SetMetrics(metrics)
	promptSvc.SetPool(resilience.NewPool(cfg.Generator.MaxConcurrent))

	if cfg.Delegation.Async {
		cancelDelegate, err := workflowSvc.StartDelegationSubscriber(ctx)
		if err != nil {
			return fmt.Errorf("delegation subscriber: %w", err)
		}
		defer cancelDelegate()
	}

	// --- HTTP ---

	handlers := &cfhttp.Handlers{
		Workspaces:   workspaceSvc,
		Workflows:    workflowSvc,
		Prompts:      promptSvc,
		BodyLimit:    cfg.Server.MaxRequestBodySize,
		HealthChecks: healthChecks,
	}

	limiter := middleware.NewRateLimiter(cfg.Rate, "/health")
	go limiter.Run(ctx, cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(cfhttp.SecurityHeaders)
	r.Use(cfotel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(limiter.Handler)

	// Long-lived; must not run under the request timeout.
	r.Get("/ws", hub.HandleWS)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
		r.Use(middleware.Idempotency(l1, idempotencyTTL))
		cfhttp.MountRoutes(r, handlers)
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), holder.Get().Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := queue.Drain(); err != nil {
		slog.Warn("nats drain", "error", err)
	}
	return nil
}

// watchReload re-reads the configuration and secrets on SIGHUP. Only the
// log level and the secrets are applied live; other settings take effect
// on restart.
func watchReload(ctx context.Context, holder *config.Holder, vault *secrets.Vault) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := vault.Reload(); err != nil {
				slog.Error("secret reload failed", "error", err)
			}
			if err := holder.Reload(); err != nil {
				slog.Error("config reload failed", "error", err)
				continue
			}
			logger.SetLevel(holder.Get().Logging.Level)
		}
	}
}
