// Package syncer applies batches of offline-originated mutations against
// delivery records. Clients queue changes locally while disconnected and
// replay them once connectivity returns; the reconciler answers with one
// verdict per submitted change and never drops or reorders an item.
package syncer

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/logx"
)

// Action identifies the kind of an offline change.
type Action string

// List of known change actions
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Change is one client-queued mutation. Create carries a full creation
// payload; Update carries the server-side delivery id plus a partial patch.
type Change struct {
	ClientID   string
	Action     Action
	DeliveryID *int64
	Create     *domain.NewDelivery
	Update     *domain.PartialDeliveryUpdate
}

// Status is the per-change verdict.
type Status string

// List of change verdicts
const (
	StatusCreated Status = "created"
	StatusUpdated Status = "updated"
	StatusError   Status = "error"
)

// Outcome is the verdict for one change, keyed by the client's own id so the
// client can reconcile its local queue.
type Outcome struct {
	ClientID string
	Status   Status
	Delivery *domain.Delivery
	Error    string
}

// Reconciler replays changes one at a time, in input order. A failed change
// never blocks or rolls back its neighbours.
type Reconciler struct {
	records  recordPort
	outcomes *prometheus.CounterVec
	logger   logx.Logger
}

// NewReconciler creates and configures a Reconciler.
func NewReconciler(records recordPort, outcomes *prometheus.CounterVec, logger logx.Logger) *Reconciler {
	return &Reconciler{records: records, outcomes: outcomes, logger: logger}
}

// Reconcile applies the batch and returns exactly one outcome per change,
// in the same order.
func (r *Reconciler) Reconcile(ctx context.Context, changes []Change) []Outcome {
	out := make([]Outcome, 0, len(changes))
	for _, ch := range changes {
		o := r.apply(ctx, ch)
		if r.outcomes != nil {
			r.outcomes.WithLabelValues(string(o.Status)).Inc()
		}
		if o.Status == StatusError {
			r.logger.Warn("sync change rejected",
				logx.String("client_id", ch.ClientID),
				logx.String("action", string(ch.Action)),
				logx.String("error", o.Error),
			)
		}
		out = append(out, o)
	}
	return out
}

func (r *Reconciler) apply(ctx context.Context, ch Change) Outcome {
	switch normalize(ch.Action) {
	case ActionCreate:
		return r.applyCreate(ctx, ch)
	case ActionUpdate:
		return r.applyUpdate(ctx, ch)
	default:
		return Outcome{ClientID: ch.ClientID, Status: StatusError, Error: "unknown action"}
	}
}

func (r *Reconciler) applyCreate(ctx context.Context, ch Change) Outcome {
	if ch.Create == nil {
		return Outcome{ClientID: ch.ClientID, Status: StatusError, Error: errText(apperr.ErrInvalid)}
	}
	d, err := r.records.Create(ctx, *ch.Create)
	if err != nil {
		return Outcome{ClientID: ch.ClientID, Status: StatusError, Error: errText(err)}
	}
	return Outcome{ClientID: ch.ClientID, Status: StatusCreated, Delivery: d}
}

func (r *Reconciler) applyUpdate(ctx context.Context, ch Change) Outcome {
	if ch.DeliveryID == nil {
		return Outcome{ClientID: ch.ClientID, Status: StatusError, Error: errText(apperr.ErrMissingID)}
	}
	if ch.Update == nil {
		return Outcome{ClientID: ch.ClientID, Status: StatusError, Error: errText(apperr.ErrInvalid)}
	}
	d, err := r.records.Update(ctx, *ch.DeliveryID, *ch.Update)
	if err != nil {
		return Outcome{ClientID: ch.ClientID, Status: StatusError, Error: errText(err)}
	}
	return Outcome{ClientID: ch.ClientID, Status: StatusUpdated, Delivery: d}
}

func normalize(a Action) Action {
	return Action(strings.ToLower(strings.TrimSpace(string(a))))
}

// errText maps known failures to stable client-facing messages; anything
// unexpected is reported generically so internals never leak to clients.
func errText(err error) string {
	switch {
	case errors.Is(err, apperr.ErrMissingID):
		return "missing id"
	case errors.Is(err, apperr.ErrNotFound):
		return "not found"
	case errors.Is(err, apperr.ErrInvalid):
		return "invalid payload"
	default:
		return "internal error"
	}
}
