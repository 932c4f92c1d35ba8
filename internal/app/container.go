package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/gargatun/aerodyne/internal/config"
	"github.com/gargatun/aerodyne/internal/http/handlers"
	"github.com/gargatun/aerodyne/internal/http/router"
	"github.com/gargatun/aerodyne/internal/logx"
	"github.com/gargatun/aerodyne/internal/repository"
	"github.com/gargatun/aerodyne/internal/service/assignment"
	"github.com/gargatun/aerodyne/internal/service/catalog"
	"github.com/gargatun/aerodyne/internal/service/profile"
	"github.com/gargatun/aerodyne/internal/service/query"
	"github.com/gargatun/aerodyne/internal/service/record"
	"github.com/gargatun/aerodyne/internal/service/syncer"
	"github.com/gargatun/aerodyne/internal/storage/media"
)

type dbConnectFunc func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		NewLogger,
		config.Load,
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return connectAndMigrate(ctx, dbConnect, cfg.DB.DSN())
	}
	return provideAll(container, providerDB)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewCatalogRepo,
		repository.NewCourierRepo,
		repository.NewDeliveryRepo,
		repository.NewProfileRepo,
		func() time.Duration { return 3 * time.Second },
		func(cfg *config.Config) media.Store {
			return media.NewDiskStore(cfg.Media.Dir)
		},
		func(repo *repository.CatalogRepo, timeout time.Duration) *catalog.Service {
			return catalog.NewService(repo, timeout)
		},
		func(
			repo *repository.DeliveryRepo,
			cat *catalog.Service,
			couriers *repository.CourierRepo,
			timeout time.Duration,
			logger logx.Logger,
		) *record.Service {
			return record.NewService(repo, cat, couriers, timeout, logger)
		},
		func(in assignmentIn) *assignment.Service {
			return assignment.NewService(in.Repo, in.Catalog, in.Couriers, in.Store, in.Conflicts, in.Timeout, in.Logger)
		},
		func(repo *repository.DeliveryRepo, cat *catalog.Service, timeout time.Duration) *query.Service {
			return query.NewService(repo, cat, timeout)
		},
		func(records *record.Service, outcomes *prometheus.CounterVec, logger logx.Logger) *syncer.Reconciler {
			return syncer.NewReconciler(records, outcomes, logger)
		},
		func(repo *repository.ProfileRepo, couriers *repository.CourierRepo, timeout time.Duration) *profile.Service {
			return profile.NewService(repo, couriers, timeout)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewCatalogUsecase,
		handlers.NewCatalogHandlers,
		handlers.NewRecordUsecase,
		handlers.NewAssignmentUsecase,
		handlers.NewQueryUsecase,
		handlers.NewSyncUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewProfileUsecase,
		handlers.NewProfileHandler,
		newRateLimiter,
		newRateLimitClock,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	)
}
