package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/adapter"
	"github.com/MKhiriev/go-tool-keeper/internal/app"
	"github.com/MKhiriev/go-tool-keeper/internal/events"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/mock"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/validators"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type dataFixture struct {
	svc      *dataService
	storages *store.ClientStorages
	adapter  *mock.MockServerAdapter
	monitor  *staticMonitor
	bus      *events.Bus
}

func newDataFixture(t *testing.T, online bool) *dataFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	storages := newTestClientStorages(t, 3)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	monitor := newStaticMonitor(online)
	bus := events.NewBus(0, logger.Nop())

	svc := NewDataService(storages, serverAdapter, monitor, bus, validators.NewDomainValidator(), time.Minute, logger.Nop()).(*dataService)
	return &dataFixture{svc: svc, storages: storages, adapter: serverAdapter, monitor: monitor, bus: bus}
}

func (f *dataFixture) queue(t *testing.T) []models.QueueItem {
	t.Helper()
	items, err := f.storages.Queue.GetQueue(context.Background(), nil)
	require.NoError(t, err)
	return items
}

func TestDataService_CreateOnline(t *testing.T) {
	f := newDataFixture(t, true)
	ctx := context.Background()
	req := models.SelectRequest{Table: models.TableTools}
	require.NoError(t, f.storages.Cache.Set(ctx, req.CacheKey(), []byte(`[]`), time.Minute, nil))

	f.adapter.EXPECT().Insert(gomock.Any(), models.TableTools, models.Record{"name": "saw"}).
		Return(models.Record{"id": "t-1", "name": "saw"}, nil)

	res, err := f.svc.Create(ctx, models.TableTools, models.Record{"name": "saw"}, models.PriorityHigh)

	require.NoError(t, err)
	assert.False(t, res.Queued)
	assert.Equal(t, "t-1", res.Record.ID())
	assert.Empty(t, f.queue(t))

	_, ok, err := f.storages.Cache.GetStale(ctx, req.CacheKey())
	require.NoError(t, err)
	assert.False(t, ok, "table cache must be invalidated")
}

func TestDataService_CreateOfflineQueues(t *testing.T) {
	f := newDataFixture(t, false)

	var added []models.QueueItem
	f.bus.On(models.EventQueueAdded, func(e models.Event) {
		added = append(added, e.Payload.(models.QueueItem))
	})

	res, err := f.svc.Create(context.Background(), models.TableReservations, models.Record{"tool": "t-1"}, models.PriorityLow)

	require.NoError(t, err)
	assert.True(t, res.Queued)
	require.NotEmpty(t, res.QueueID)

	items := f.queue(t)
	require.Len(t, items, 1)
	assert.Equal(t, res.QueueID, items[0].ID)
	assert.Equal(t, models.ActionCreate, items[0].Action)
	assert.Equal(t, models.PriorityLow, items[0].Priority)

	require.Len(t, added, 1)
	assert.Equal(t, res.QueueID, added[0].ID)
}

func TestDataService_RetryableErrorQueues(t *testing.T) {
	f := newDataFixture(t, true)
	f.adapter.EXPECT().Update(gomock.Any(), models.TableTools, "t-1", gomock.Any()).
		Return(nil, fmt.Errorf("update request: %w: %w", adapter.ErrUnavailable, context.DeadlineExceeded))

	res, err := f.svc.Update(context.Background(), models.TableTools, models.Record{"id": "t-1", "status": "lent"}, models.PriorityMedium)

	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.False(t, f.monitor.IsOnline(), "transport failure marks the device offline")
	assert.Len(t, f.queue(t), 1)
}

func TestDataService_ServerErrorQueuesButStaysOnline(t *testing.T) {
	f := newDataFixture(t, true)
	f.adapter.EXPECT().Delete(gomock.Any(), models.TableCheckouts, "c-1").Return(adapter.ErrServiceUnavailable)

	res, err := f.svc.Delete(context.Background(), models.TableCheckouts, "c-1", models.PriorityHigh)

	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.True(t, f.monitor.IsOnline())
}

func TestDataService_RejectedMutationIsReturned(t *testing.T) {
	f := newDataFixture(t, true)
	f.adapter.EXPECT().Delete(gomock.Any(), models.TableTools, "missing").
		Return(fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgRecordNotFound))

	_, err := f.svc.Delete(context.Background(), models.TableTools, "missing", models.PriorityMedium)

	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	assert.Empty(t, f.queue(t))
}

func TestDataService_ValidationBeforeQueueing(t *testing.T) {
	tests := []struct {
		name    string
		call    func(svc *dataService) error
		wantErr error
	}{
		{
			name: "unknown table",
			call: func(svc *dataService) error {
				_, err := svc.Create(context.Background(), "garage", models.Record{"x": 1}, models.PriorityMedium)
				return err
			},
			wantErr: validators.ErrUnknownTable,
		},
		{
			name: "update without id",
			call: func(svc *dataService) error {
				_, err := svc.Update(context.Background(), models.TableTools, models.Record{"name": "x"}, models.PriorityMedium)
				return err
			},
			wantErr: validators.ErrMissingID,
		},
		{
			name: "delete without id",
			call: func(svc *dataService) error {
				_, err := svc.Delete(context.Background(), models.TableTools, "", models.PriorityMedium)
				return err
			},
			wantErr: validators.ErrMissingID,
		},
		{
			name: "create without data",
			call: func(svc *dataService) error {
				_, err := svc.Create(context.Background(), models.TableTools, models.Record{}, models.PriorityMedium)
				return err
			},
			wantErr: validators.ErrEmptyData,
		},
		{
			name: "invalid priority",
			call: func(svc *dataService) error {
				_, err := svc.Defer(context.Background(), models.ActionCreate, models.TableTools, models.Record{"a": 1}, "urgent")
				return err
			},
			wantErr: validators.ErrInvalidPriority,
		},
		{
			name: "invalid action",
			call: func(svc *dataService) error {
				_, err := svc.Defer(context.Background(), "upsert", models.TableTools, models.Record{"a": 1}, models.PriorityHigh)
				return err
			},
			wantErr: validators.ErrInvalidAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDataFixture(t, false)
			err := tt.call(f.svc)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.queue(t))
		})
	}
}

func TestDataService_DeferQueuesWhileOnline(t *testing.T) {
	f := newDataFixture(t, true)

	id, err := f.svc.Defer(context.Background(), models.ActionCreate, models.TableNotifications, models.Record{"text": "hi"}, models.PriorityLow)

	require.NoError(t, err)
	items := f.queue(t)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
}

func TestDataService_SelectReadThrough(t *testing.T) {
	f := newDataFixture(t, true)
	req := models.SelectRequest{Table: models.TableTools, Limit: 5}
	rows := []models.Record{{"id": "t-1", "name": "saw"}}

	f.adapter.EXPECT().Select(gomock.Any(), req).Return(rows, nil).Times(1)

	first, err := f.svc.Select(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, rows, first.Records)

	second, err := f.svc.Select(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.False(t, second.Stale)
	assert.Equal(t, rows, second.Records)
}

func TestDataService_SelectOfflineServesStale(t *testing.T) {
	f := newDataFixture(t, false)
	ctx := context.Background()
	req := models.SelectRequest{Table: models.TableEPIItems}

	require.NoError(t, f.storages.Cache.Set(ctx, req.CacheKey(), []byte(`[{"id":"e-1"}]`), time.Millisecond, nil))
	time.Sleep(5 * time.Millisecond)

	res, err := f.svc.Select(ctx, req)

	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.True(t, res.Stale)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "e-1", res.Records[0].ID())
}

func TestDataService_CachedRecordsKeepLargeIntegers(t *testing.T) {
	f := newDataFixture(t, false)
	ctx := context.Background()
	req := models.SelectRequest{Table: models.TableCheckouts}

	require.NoError(t, f.storages.Cache.Set(ctx, req.CacheKey(), []byte(`[{"id":9007199254740993}]`), time.Minute, nil))

	res, err := f.svc.Select(ctx, req)

	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "9007199254740993", res.Records[0].ID())
}

func TestDataService_SelectOfflineWithoutCache(t *testing.T) {
	f := newDataFixture(t, false)

	_, err := f.svc.Select(context.Background(), models.SelectRequest{Table: models.TableTools})

	assert.ErrorIs(t, err, ErrNoCachedData)
}

func TestDataService_SelectRemoteFailureFallsBack(t *testing.T) {
	f := newDataFixture(t, true)
	ctx := context.Background()
	req := models.SelectRequest{Table: models.TableTools, ID: "t-1"}
	require.NoError(t, f.storages.Cache.Set(ctx, req.CacheKey(), []byte(`[{"id":"t-1"}]`), time.Millisecond, nil))
	time.Sleep(5 * time.Millisecond)

	f.adapter.EXPECT().Select(gomock.Any(), req).Return(nil, adapter.ErrInternalServerError)

	res, err := f.svc.Select(ctx, req)

	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.True(t, f.monitor.IsOnline())
}

func TestDataService_SelectRejected(t *testing.T) {
	f := newDataFixture(t, true)
	f.adapter.EXPECT().Select(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpired))

	_, err := f.svc.Select(context.Background(), models.SelectRequest{Table: models.TableTools})

	assert.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestDataService_SelectValidation(t *testing.T) {
	f := newDataFixture(t, true)

	_, err := f.svc.Select(context.Background(), models.SelectRequest{Table: "garage"})
	assert.ErrorIs(t, err, validators.ErrUnknownTable)

	_, err = f.svc.Select(context.Background(), models.SelectRequest{Table: models.TableTools, Limit: validators.MaxSelectLimit + 1})
	assert.ErrorIs(t, err, validators.ErrLimitTooLarge)
}

func TestDataService_WatchChangesInvalidates(t *testing.T) {
	f := newDataFixture(t, true)
	ctx := context.Background()
	toolsKey := models.SelectRequest{Table: models.TableTools}.CacheKey()
	epiKey := models.SelectRequest{Table: models.TableEPIItems}.CacheKey()
	require.NoError(t, f.storages.Cache.Set(ctx, toolsKey, []byte(`[]`), time.Minute, nil))
	require.NoError(t, f.storages.Cache.Set(ctx, epiKey, []byte(`[]`), time.Minute, nil))

	unsubscribe := f.svc.WatchChanges(ctx)
	f.bus.Emit(models.EventRealtimeChange, models.ChangeEvent{Table: models.TableTools, Action: models.ActionUpdate, ID: "t-1"})
	f.bus.Emit(models.EventRealtimeChange, "not a change event")

	_, ok, _ := f.storages.Cache.Get(ctx, toolsKey)
	assert.False(t, ok)
	_, ok, _ = f.storages.Cache.Get(ctx, epiKey)
	assert.True(t, ok)

	unsubscribe()
	f.bus.Emit(models.EventRealtimeChange, models.ChangeEvent{Table: models.TableEPIItems})
	_, ok, _ = f.storages.Cache.Get(ctx, epiKey)
	assert.True(t, ok)
}
