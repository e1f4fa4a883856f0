package service

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/broker"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// tableService applies row mutations and announces each applied change on
// the broker. A failed publish is logged and does not fail the mutation.
type tableService struct {
	tableRepository store.TableRepository
	broker          broker.Broker
	ids             utils.IDGenerator
	now             func() time.Time
	logger          *logger.Logger
}

func NewTableService(tableRepository store.TableRepository, changes broker.Broker, logger *logger.Logger) TableService {
	return &tableService{
		tableRepository: tableRepository,
		broker:          changes,
		ids:             utils.NewUUIDGenerator(),
		now:             time.Now,
		logger:          logger,
	}
}

// Insert stores record, generating an id when the record has none.
func (s *tableService) Insert(ctx context.Context, table string, record models.Record) (models.Record, error) {
	if record.ID() == "" {
		record = maps.Clone(record)
		record[models.RecordIDKey] = s.ids.Generate()
	}

	created, err := s.tableRepository.Insert(ctx, table, record)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}

	s.publish(ctx, table, models.ActionCreate, created.ID(), created)
	return created, nil
}

func (s *tableService) Update(ctx context.Context, table, id string, record models.Record) (models.Record, error) {
	updated, err := s.tableRepository.Update(ctx, table, id, record)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", table, id, err)
	}

	s.publish(ctx, table, models.ActionUpdate, id, updated)
	return updated, nil
}

func (s *tableService) Delete(ctx context.Context, table, id string) error {
	if err := s.tableRepository.Delete(ctx, table, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}

	s.publish(ctx, table, models.ActionDelete, id, nil)
	return nil
}

func (s *tableService) Select(ctx context.Context, req models.SelectRequest) ([]models.Record, error) {
	records, err := s.tableRepository.Select(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", req.Table, err)
	}
	return records, nil
}

func (s *tableService) publish(ctx context.Context, table string, action models.Action, id string, record models.Record) {
	event := models.ChangeEvent{Table: table, Action: action, ID: id, Record: record, At: s.now().UTC()}
	if err := s.broker.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("table", table).
			Str("action", string(action)).
			Str("id", id).
			Msg("failed to publish change event")
	}
}
