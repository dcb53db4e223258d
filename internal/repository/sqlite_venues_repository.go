package repository

import (
	"context"
	"fmt"

	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/database"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		row_idx      INTEGER NOT NULL,
		col_idx      INTEGER NOT NULL,
		id           TEXT    NOT NULL,
		name         TEXT    NOT NULL,
		span_rows    INTEGER NOT NULL DEFAULT 1,
		span_columns INTEGER NOT NULL DEFAULT 1,
		visited      INTEGER NOT NULL DEFAULT 0,
		notes        TEXT,
		footprint    TEXT,
		updated_at   TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (row_idx, col_idx)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_venues_id ON venues (id)`,
}

// NewSQLiteVenuesRepository SQLiteを使ったバーリポジトリを作成（スキーマも作成する）
func NewSQLiteVenuesRepository(ctx context.Context, client *database.SQLiteClient) (repository.VenuesRepository, error) {
	for _, stmt := range sqliteSchema {
		if _, err := client.DB.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("SQLiteスキーマの作成に失敗: %w", err)
		}
	}
	return &sqlVenuesRepository{
		db:      client.DB,
		dialect: sqlDialect{name: "sqlite"},
	}, nil
}
