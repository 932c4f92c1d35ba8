package app

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"github.com/gargatun/aerodyne/internal/config"
	"github.com/gargatun/aerodyne/internal/logx"
	"github.com/gargatun/aerodyne/internal/service/syncer"
	"github.com/gargatun/aerodyne/internal/transport/kafka"
)

// MustBuildWorkerContainer builds the DI container for the sync worker
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	b := NewContainerBuilder()
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
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
	if err := registerKafka(container); err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	return container, nil
}

func registerKafka(container *dig.Container) error {
	return provideAll(container,
		makeSyncHandler,
		func(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
		},
	)
}

// makeSyncHandler feeds one Kafka change at a time through the reconciler.
// A verdict, error outcomes included, consumes the message: replaying a
// rejected change would only reject it again.
func makeSyncHandler(rec *syncer.Reconciler, logger logx.Logger) kafka.HandleFunc {
	return func(ctx context.Context, ch syncer.Change) error {
		for _, o := range rec.Reconcile(ctx, []syncer.Change{ch}) {
			if o.Status == syncer.StatusError {
				logger.Warn("sync change rejected",
					logx.String("client_id", o.ClientID),
					logx.String("err", o.Error),
				)
			}
		}
		return nil
	}
}
