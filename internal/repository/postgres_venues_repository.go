package repository

import (
	"context"
	"fmt"
	"log"

	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/database"
)

// PostgresSchema PostgreSQL / Supabase 共通のスキーマ
// replace_venues はSupabaseリポジトリがRPCで呼び出す一括置き換え関数
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		row_idx      INTEGER     NOT NULL,
		col_idx      INTEGER     NOT NULL,
		id           TEXT        NOT NULL,
		name         TEXT        NOT NULL,
		span_rows    INTEGER     NOT NULL DEFAULT 1,
		span_columns INTEGER     NOT NULL DEFAULT 1,
		visited      BOOLEAN     NOT NULL DEFAULT FALSE,
		notes        TEXT,
		footprint    TEXT,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (row_idx, col_idx)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_venues_id ON venues (id)`,
	`CREATE OR REPLACE FUNCTION replace_venues(venues jsonb) RETURNS integer
	LANGUAGE plpgsql AS $$
	DECLARE
		inserted integer;
	BEGIN
		DELETE FROM public.venues WHERE true;
		INSERT INTO public.venues (id, name, row_idx, col_idx, span_rows, span_columns, visited, notes, footprint)
		SELECT v->>'id', v->>'name', (v->>'row_idx')::int, (v->>'col_idx')::int,
		       (v->>'span_rows')::int, (v->>'span_columns')::int,
		       COALESCE((v->>'visited')::boolean, false), v->>'notes', v->>'footprint'
		FROM jsonb_array_elements(venues) AS v;
		GET DIAGNOSTICS inserted = ROW_COUNT;
		RETURN inserted;
	END;
	$$`,
}

// NewPostgresVenuesRepository PostgreSQLを使ったバーリポジトリを作成（スキーマも作成する）
func NewPostgresVenuesRepository(ctx context.Context, client *database.PostgreSQLClient) (repository.VenuesRepository, error) {
	for _, stmt := range PostgresSchema {
		if _, err := client.DB.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("PostgreSQLスキーマの作成に失敗: %w", err)
		}
	}
	log.Println("✅ PostgreSQL venuesスキーマを確認しました")

	return &sqlVenuesRepository{
		db:      client.DB,
		dialect: sqlDialect{name: "postgres", numberedArg: true},
	}, nil
}
