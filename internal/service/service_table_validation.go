package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/validators"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// TableServiceWrapper defines middleware composition for TableService.
// Implementations wrap an existing TableService to add behavior such as
// validation.
type TableServiceWrapper interface {
	Wrap(TableService) TableService // returns a decorated TableService applying additional behavior
}

// TableValidationService rejects mutations and reads the table API cannot
// serve before they reach the wrapped TableService.
type TableValidationService struct {
	inner     TableService
	validator validators.Validator
}

func NewTableValidationService() TableServiceWrapper {
	return &TableValidationService{
		validator: validators.NewDomainValidator(),
	}
}

func (v *TableValidationService) Insert(ctx context.Context, table string, record models.Record) (models.Record, error) {
	item := models.QueueItem{Action: models.ActionCreate, Table: table, Data: record}
	if err := v.validator.Validate(ctx, item, validators.FieldTable, validators.FieldData); err != nil {
		return nil, fmt.Errorf("error during insert validation: %w", err)
	}

	return v.inner.Insert(ctx, table, record)
}

// Update requires a non-empty patch. The row id comes from the path and
// overrides any id in the body.
func (v *TableValidationService) Update(ctx context.Context, table, id string, record models.Record) (models.Record, error) {
	patch := models.Record{}
	for k, val := range record {
		patch[k] = val
	}
	patch[models.RecordIDKey] = id

	item := models.QueueItem{Action: models.ActionUpdate, Table: table, Data: patch}
	if err := v.validator.Validate(ctx, item, validators.FieldTable, validators.FieldID); err != nil {
		return nil, fmt.Errorf("error during update validation: %w", err)
	}
	if len(record) == 0 {
		return nil, fmt.Errorf("error during update validation: %w", validators.ErrEmptyData)
	}

	return v.inner.Update(ctx, table, id, patch)
}

func (v *TableValidationService) Delete(ctx context.Context, table, id string) error {
	item := models.QueueItem{Action: models.ActionDelete, Table: table, Data: models.Record{models.RecordIDKey: id}}
	if err := v.validator.Validate(ctx, item, validators.FieldTable, validators.FieldID); err != nil {
		return fmt.Errorf("error during delete validation: %w", err)
	}

	return v.inner.Delete(ctx, table, id)
}

func (v *TableValidationService) Select(ctx context.Context, req models.SelectRequest) ([]models.Record, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return nil, fmt.Errorf("error during select validation: %w", err)
	}

	return v.inner.Select(ctx, req)
}

func (v *TableValidationService) Wrap(wrapped TableService) TableService {
	v.inner = wrapped
	return v
}
