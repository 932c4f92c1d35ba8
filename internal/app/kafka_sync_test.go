package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/service/syncer"
	testlog "github.com/gargatun/aerodyne/internal/testutil"
)

type fakeSyncRecords struct {
	createCalls int
	updateCalls int
	createErr   error
}

func (f *fakeSyncRecords) Create(_ context.Context, _ domain.NewDelivery) (*domain.Delivery, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Delivery{ID: 1}, nil
}

func (f *fakeSyncRecords) Update(_ context.Context, id int64, _ domain.PartialDeliveryUpdate) (*domain.Delivery, error) {
	f.updateCalls++
	return &domain.Delivery{ID: id}, nil
}

func hasMsg(entries []testlog.Entry, msg string) bool {
	for _, e := range entries {
		if e.Msg == msg {
			return true
		}
	}
	return false
}

func TestMakeSyncHandler_AppliesChange(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	records := &fakeSyncRecords{}
	h := makeSyncHandler(syncer.NewReconciler(records, nil, rec.Logger()), rec.Logger())

	err := h(context.Background(), syncer.Change{
		ClientID: "c1",
		Action:   syncer.ActionCreate,
		Create:   &domain.NewDelivery{},
	})
	require.NoError(t, err)
	require.Equal(t, 1, records.createCalls)
	require.False(t, hasMsg(rec.Entries(), "sync change rejected"))
}

func TestMakeSyncHandler_ErrorOutcomeConsumesMessage(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	records := &fakeSyncRecords{createErr: apperr.ErrInvalid}
	h := makeSyncHandler(syncer.NewReconciler(records, nil, rec.Logger()), rec.Logger())

	err := h(context.Background(), syncer.Change{
		ClientID: "c1",
		Action:   syncer.ActionCreate,
		Create:   &domain.NewDelivery{},
	})

	// вердикт с ошибкой не повод перечитывать сообщение
	require.NoError(t, err)
	require.True(t, hasMsg(rec.Entries(), "sync change rejected"))
}
