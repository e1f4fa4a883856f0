// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
)

// NewConnectMySQL opens a MySQL connection pool. parseTime is forced on so
// TIMESTAMP columns scan into time.Time.
func NewConnectMySQL(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	dsn, err := mysqlDSN(cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectMySQL").Msg("invalid mysql DSN")
		return nil, fmt.Errorf("invalid mysql DSN: %w", err)
	}

	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectMySQL").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err = pingWithRetry(ctx, conn); err != nil {
		log.Err(err).Str("func", "NewConnectMySQL").Msg("error connecting database (ping)")
		conn.Close()
		return nil, err
	}
	log.Info().Str("func", "NewConnectMySQL").Msg("connected to database successfully")

	return newDB(conn, "mysql", sq.Question, NewMySQLErrorClassifier(), log), nil
}

func mysqlDSN(raw string) (string, error) {
	parsed, err := mysql.ParseDSN(raw)
	if err != nil {
		return "", err
	}
	parsed.ParseTime = true
	return parsed.FormatDSN(), nil
}
