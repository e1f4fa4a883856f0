// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

// Row bookkeeping columns added to every returned record.
const (
	columnCreatedAt = "created_at"
	columnUpdatedAt = "updated_at"
)

var tableColumns = []string{"id", "data", columnCreatedAt, columnUpdatedAt}

// tableRepository stores each row of a domain table as a JSON document next
// to its id and timestamps. Table names are checked against
// [models.KnownTables] before any statement is built.
type tableRepository struct {
	db     *DB
	now    func() time.Time
	logger *logger.Logger
}

// NewTableRepository constructs a [TableRepository] over db.
func NewTableRepository(db *DB, logger *logger.Logger) TableRepository {
	logger.Debug().Msg("creating table repository")
	return &tableRepository{
		db:     db,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		logger: logger,
	}
}

func (r *tableRepository) Insert(ctx context.Context, table string, record models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	if !models.IsKnownTable(table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	id := record.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: insert without id", ErrBuildingSQLQuery)
	}

	doc, err := encodeDocument(record)
	if err != nil {
		return nil, err
	}

	now := r.now()
	query, args, err := r.db.builder.Insert(table).
		Columns(tableColumns...).
		Values(id, doc, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*tableRepository.Insert").Str("table", table).Msg("insert failed")
		if r.db.errorClassificator.IsUniqueViolation(err) {
			return nil, ErrRecordAlreadyExists
		}
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return buildRecord(id, record, now, now), nil
}

func (r *tableRepository) Update(ctx context.Context, table, id string, record models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	if !models.IsKnownTable(table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	selectQuery, selectArgs, err := r.db.builder.Select("data", columnCreatedAt).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		rawDoc    string
		createdAt time.Time
	)
	err = tx.QueryRowContext(ctx, selectQuery, selectArgs...).Scan(&rawDoc, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.Update").Str("table", table).Msg("select for update failed")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	current := models.Record{}
	if err = decodeJSON([]byte(rawDoc), &current); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingDocument, err)
	}
	for k, v := range record {
		current[k] = v
	}

	doc, err := encodeDocument(current)
	if err != nil {
		return nil, err
	}

	now := r.now()
	updateQuery, updateArgs, err := r.db.builder.Update(table).
		Set("data", doc).
		Set(columnUpdatedAt, now).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		log.Err(err).Str("func", "*tableRepository.Update").Str("table", table).Msg("update failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return buildRecord(id, current, createdAt, now), nil
}

func (r *tableRepository) Delete(ctx context.Context, table, id string) error {
	log := logger.FromContext(ctx)

	if !models.IsKnownTable(table) {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	query, args, err := r.db.builder.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.Delete").Str("table", table).Msg("delete failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *tableRepository) Select(ctx context.Context, req models.SelectRequest) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	if !models.IsKnownTable(req.Table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, req.Table)
	}

	builder := r.db.builder.Select(tableColumns...).
		From(req.Table).
		OrderBy(columnUpdatedAt, "id")
	if req.ID != "" {
		builder = builder.Where(sq.Eq{"id": req.ID})
	}
	if req.Since != nil {
		builder = builder.Where(sq.Gt{columnUpdatedAt: req.Since.UTC()})
	}
	if req.Limit > 0 {
		builder = builder.Limit(req.Limit)
	}
	if req.Offset > 0 {
		builder = builder.Offset(req.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.Select").Str("table", req.Table).Msg("select failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var (
			id, rawDoc           string
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &rawDoc, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		doc := models.Record{}
		if err := decodeJSON([]byte(rawDoc), &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodingDocument, err)
		}
		records = append(records, buildRecord(id, doc, createdAt, updatedAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return records, nil
}

// encodeDocument serialises record without the columns kept outside the
// document.
func encodeDocument(record models.Record) (string, error) {
	doc := make(models.Record, len(record))
	for k, v := range record {
		switch k {
		case models.RecordIDKey, columnCreatedAt, columnUpdatedAt:
			continue
		}
		doc[k] = v
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return string(raw), nil
}

func buildRecord(id string, doc models.Record, createdAt, updatedAt time.Time) models.Record {
	out := make(models.Record, len(doc)+3)
	for k, v := range doc {
		out[k] = v
	}
	out[models.RecordIDKey] = id
	out[columnCreatedAt] = createdAt.UTC()
	out[columnUpdatedAt] = updatedAt.UTC()
	return out
}
