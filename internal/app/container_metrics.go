package app

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/gargatun/aerodyne/internal/logx"
	"github.com/gargatun/aerodyne/internal/metrics"
	"github.com/gargatun/aerodyne/internal/repository"
	"github.com/gargatun/aerodyne/internal/service/catalog"
	"github.com/gargatun/aerodyne/internal/storage/media"
)

type metricsOut struct {
	dig.Out

	RateLimitExceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
	AssignConflicts   prometheus.Counter `name:"delivery_assign_conflicts_total"`
	SyncChanges       *prometheus.CounterVec
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, newMetrics)
}

func newMetrics() (metricsOut, error) {
	out := metricsOut{
		RateLimitExceeded: metrics.NewRateLimitExceededTotal(),
		AssignConflicts:   metrics.NewAssignConflictsTotal(),
		SyncChanges:       metrics.NewSyncChangesTotal(),
	}
	for _, c := range []prometheus.Collector{out.RateLimitExceeded, out.AssignConflicts, out.SyncChanges} {
		if err := registerCollector(c); err != nil {
			return metricsOut{}, err
		}
	}
	return out, nil
}

// registerCollector tolerates duplicate registration so containers can be
// rebuilt inside one process.
func registerCollector(c prometheus.Collector) error {
	err := prometheus.Register(c)
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return nil
	}
	return err
}

type assignmentIn struct {
	dig.In

	Repo      *repository.DeliveryRepo
	Catalog   *catalog.Service
	Couriers  *repository.CourierRepo
	Store     media.Store
	Conflicts prometheus.Counter `name:"delivery_assign_conflicts_total"`
	Timeout   time.Duration
	Logger    logx.Logger
}
