package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/mock"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingBroker keeps every published event.
type recordingBroker struct {
	mu         sync.Mutex
	events     []models.ChangeEvent
	publishErr error
	ctxErr     error
}

func (b *recordingBroker) Publish(ctx context.Context, event models.ChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctxErr = ctx.Err()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBroker) Subscribe(ctx context.Context, _ func(models.ChangeEvent)) error {
	<-ctx.Done()
	return ctx.Err()
}

func (b *recordingBroker) Close() error { return nil }

func (b *recordingBroker) published() []models.ChangeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.ChangeEvent(nil), b.events...)
}

type fixedIDs string

func (f fixedIDs) Generate() string { return string(f) }

func newTestTableService(t *testing.T) (*tableService, *mock.MockTableRepository, *recordingBroker) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockTableRepository(ctrl)
	changes := &recordingBroker{}

	svc := NewTableService(repo, changes, logger.Nop()).(*tableService)
	svc.ids = fixedIDs("generated-id")
	return svc, repo, changes
}

func TestTableService_Insert_GeneratesID(t *testing.T) {
	svc, repo, changes := newTestTableService(t)
	input := models.Record{"name": "drill"}

	repo.EXPECT().Insert(gomock.Any(), models.TableTools, models.Record{"id": "generated-id", "name": "drill"}).
		DoAndReturn(func(_ context.Context, _ string, r models.Record) (models.Record, error) { return r, nil })

	got, err := svc.Insert(context.Background(), models.TableTools, input)

	require.NoError(t, err)
	assert.Equal(t, "generated-id", got.ID())
	assert.NotContains(t, input, "id", "caller record must not be modified")

	events := changes.published()
	require.Len(t, events, 1)
	assert.Equal(t, models.ActionCreate, events[0].Action)
	assert.Equal(t, "generated-id", events[0].ID)
	assert.Equal(t, models.TableTools, events[0].Table)
}

func TestTableService_Insert_KeepsClientID(t *testing.T) {
	svc, repo, _ := newTestTableService(t)
	record := models.Record{"id": "t-1", "name": "drill"}

	repo.EXPECT().Insert(gomock.Any(), models.TableTools, record).Return(record, nil)

	got, err := svc.Insert(context.Background(), models.TableTools, record)

	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID())
}

func TestTableService_Insert_RepositoryError(t *testing.T) {
	svc, repo, changes := newTestTableService(t)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, store.ErrRecordAlreadyExists)

	_, err := svc.Insert(context.Background(), models.TableTools, models.Record{"id": "t-1"})

	assert.ErrorIs(t, err, store.ErrRecordAlreadyExists)
	assert.Empty(t, changes.published())
}

func TestTableService_Update_Publishes(t *testing.T) {
	svc, repo, changes := newTestTableService(t)
	merged := models.Record{"id": "t-1", "name": "hammer", "status": "available"}
	repo.EXPECT().Update(gomock.Any(), models.TableTools, "t-1", models.Record{"name": "hammer"}).Return(merged, nil)

	got, err := svc.Update(context.Background(), models.TableTools, "t-1", models.Record{"name": "hammer"})

	require.NoError(t, err)
	assert.Equal(t, merged, got)
	events := changes.published()
	require.Len(t, events, 1)
	assert.Equal(t, models.ActionUpdate, events[0].Action)
	assert.Equal(t, merged, events[0].Record)
}

func TestTableService_Delete_Publishes(t *testing.T) {
	svc, repo, changes := newTestTableService(t)
	repo.EXPECT().Delete(gomock.Any(), models.TableCheckouts, "c-9").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), models.TableCheckouts, "c-9"))

	events := changes.published()
	require.Len(t, events, 1)
	assert.Equal(t, models.ActionDelete, events[0].Action)
	assert.Nil(t, events[0].Record)
}

func TestTableService_Delete_NotFound(t *testing.T) {
	svc, repo, changes := newTestTableService(t)
	repo.EXPECT().Delete(gomock.Any(), models.TableCheckouts, "c-9").Return(store.ErrRecordNotFound)

	err := svc.Delete(context.Background(), models.TableCheckouts, "c-9")

	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	assert.Empty(t, changes.published())
}

func TestTableService_PublishFailureDoesNotFailMutation(t *testing.T) {
	svc, repo, changes := newTestTableService(t)
	changes.publishErr = errors.New("broker down")
	repo.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), models.TableTools, "t-1"))
}

func TestTableService_PublishOutlivesRequestContext(t *testing.T) {
	svc, repo, changes := newTestTableService(t)
	ctx, cancel := context.WithCancel(context.Background())
	repo.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string) error {
			cancel()
			return nil
		})

	require.NoError(t, svc.Delete(ctx, models.TableTools, "t-1"))

	assert.NoError(t, changes.ctxErr)
	assert.Len(t, changes.published(), 1)
}

func TestTableService_Select(t *testing.T) {
	svc, repo, _ := newTestTableService(t)
	req := models.SelectRequest{Table: models.TableTools, Limit: 10}
	rows := []models.Record{{"id": "t-1"}, {"id": "t-2"}}
	repo.EXPECT().Select(gomock.Any(), req).Return(rows, nil)

	got, err := svc.Select(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
