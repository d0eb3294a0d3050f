package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CommunityEngine/internal/catalog"
	"CommunityEngine/internal/config"
	"CommunityEngine/internal/deferred"
	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/infrastructure/notify"
	"CommunityEngine/internal/infrastructure/seed"
	"CommunityEngine/internal/infrastructure/storage"
	"CommunityEngine/internal/infrastructure/telegram"
	"CommunityEngine/internal/logging"
	"CommunityEngine/internal/ports"
	"CommunityEngine/internal/session"
	"CommunityEngine/internal/store"
	"CommunityEngine/internal/usecase"
	"CommunityEngine/internal/view"
)

// Deps lets callers replace the outbound collaborators; zero fields are
// built from the config.
type Deps struct {
	Logger   *slog.Logger
	Seed     ports.SeedSource
	Notifier ports.Notifier
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	store    *store.Store
	queue    *deferred.Queue
	registry *prometheus.Registry
	mutator  *usecase.Mutator
	feed     *usecase.Feed
	catalog  *catalog.Catalog
}

// New builds the engine and loads the seed posts into the store.
func New(ctx context.Context, cfg config.Config, deps Deps) (*Application, error) {
	baseLogger := deps.Logger
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	a := &Application{
		cfg:      cfg,
		logger:   baseLogger.With("component", "app"),
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(collectors.NewGoCollector())

	source := deps.Seed
	if source == nil {
		var err error
		source, err = a.seedSource(ctx, baseLogger)
		if err != nil {
			return nil, err
		}
	}

	posts, err := source.LoadPosts(ctx)
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("load seed: %w", err)
	}

	a.store = store.New(nil, baseLogger.With("component", "store"))
	if err := a.store.Seed(posts); err != nil {
		a.closeDB()
		return nil, fmt.Errorf("seed store: %w", err)
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier = a.notifier(baseLogger)
	}

	resources, err := catalog.Default()
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.catalog = resources

	a.queue = deferred.NewQueue(baseLogger.With("component", "deferred"))
	a.mutator = usecase.NewMutator(usecase.MutatorDeps{
		Store:         a.store,
		Queue:         a.queue,
		Notifier:      notifier,
		Metrics:       usecase.NewMetrics(a.registry),
		Logger:        baseLogger.With("component", "mutator"),
		Origin:        cfg.App.Origin,
		Viewer:        viewer(cfg.Viewer),
		ShareLatency:  cfg.Community.ShareLatency,
		SubmitLatency: cfg.Community.SubmitLatency,
	})
	a.feed = usecase.NewFeed(usecase.FeedDeps{
		Store:    a.store,
		Pipeline: view.NewPipeline(nil),
		Session:  session.New(session.NewWindow(cfg.Community.PostWindow, cfg.Community.WindowStep)),
		Mutator:  a.mutator,
	})

	a.logger.Info("engine ready", "posts", a.store.Len(), "resources", a.catalog.Len(), "seed", cfg.Seed.Kind, "viewer", a.mutator.Viewer().Name)
	return a, nil
}

// Start launches the deferred completion worker.
func (a *Application) Start(ctx context.Context) error {
	if err := a.queue.Start(ctx); err != nil {
		return fmt.Errorf("start queue: %w", err)
	}
	return nil
}

// Close stops the worker, failing pending completions, and releases the
// seed database.
func (a *Application) Close(ctx context.Context) error {
	err := a.queue.Stop(ctx)
	a.closeDB()
	if err != nil {
		return fmt.Errorf("stop queue: %w", err)
	}
	return nil
}

// Run starts the engine and, when metrics.addr is set, serves /metrics
// until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	if a.cfg.Metrics.Addr == "" {
		<-ctx.Done()
		return nil
	}

	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           a.MetricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("metrics listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}

// MetricsHandler serves the engine's Prometheus registry.
func (a *Application) MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return mux
}

// Feed is the community page of the single local viewer.
func (a *Application) Feed() *usecase.Feed { return a.feed }

// Mutator applies interactions directly.
func (a *Application) Mutator() *usecase.Mutator { return a.mutator }

// Resources returns a fresh catalog browser with the configured window.
func (a *Application) Resources() *catalog.Browser {
	return catalog.NewBrowser(a.catalog, a.cfg.Community.ResourceWindow)
}

// Store exposes the entity store for read access.
func (a *Application) Store() *store.Store { return a.store }

func (a *Application) seedSource(ctx context.Context, logger *slog.Logger) (ports.SeedSource, error) {
	switch a.cfg.Seed.Kind {
	case config.SeedPostgres:
		if a.cfg.Database.DSN == "" {
			return nil, fmt.Errorf("seed kind %q requires database.dsn", config.SeedPostgres)
		}
		db, err := sql.Open("postgres", a.cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		a.db = db
		return storage.NewPostgresSeed(db), nil
	default:
		return seed.NewYAMLSource(a.cfg.Seed.Path, logger.With("component", "seed")), nil
	}
}

func (a *Application) notifier(logger *slog.Logger) ports.Notifier {
	sinks := notify.Fanout{notify.NewLogNotifier(logger.With("component", "notify"))}
	if tg := a.cfg.Notifications.Telegram; tg.Enabled() {
		sinks = append(sinks, telegram.NewNotifier(tg.BotToken, tg.ChatID))
		a.logger.Info("telegram notifications enabled")
	}
	return sinks
}

func (a *Application) closeDB() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close database", "error", err)
	}
	a.db = nil
}

func viewer(v config.ViewerConfig) domain.Author {
	return domain.Author{Name: v.Name, Initials: v.Initials, AvatarRef: v.Avatar}
}
