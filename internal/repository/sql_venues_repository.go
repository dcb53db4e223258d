package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
)

const venueColumns = `id, name, row_idx, col_idx, span_rows, span_columns, visited, notes`

// sqlDialect SQLiteとPostgreSQLで異なるプレースホルダー表記
type sqlDialect struct {
	name        string
	numberedArg bool // trueなら $1, $2 ... に置き換える
}

// sqlVenuesRepository database/sql を使ったバーリポジトリの共通実装
// 各レコードは起点セル (row_idx, col_idx) を主キーに持ち、idはインデックスのみ
type sqlVenuesRepository struct {
	db      *sql.DB
	dialect sqlDialect
}

// rebind ? プレースホルダーをダイアレクトに合わせて書き換える
func (r *sqlVenuesRepository) rebind(query string) string {
	if !r.dialect.numberedArg {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(s rowScanner) (*model.Venue, error) {
	var v model.Venue
	var notes sql.NullString
	if err := s.Scan(&v.ID, &v.Name, &v.Row, &v.Column, &v.SpanRows, &v.SpanColumns, &v.Visited, &notes); err != nil {
		return nil, err
	}
	if notes.Valid {
		v.Notes = &notes.String
	}
	return &v, nil
}

func nullableNotes(v *model.Venue) sql.NullString {
	if v.Notes == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v.Notes, Valid: true}
}

func (r *sqlVenuesRepository) ReplaceAll(ctx context.Context, venues []model.Venue) error {
	prepared, err := prepareVenues(venues)
	if err != nil {
		return fmt.Errorf("バーデータの置き換えに失敗: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM venues`); err != nil {
		return fmt.Errorf("既存バーデータの削除に失敗: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, r.rebind(`INSERT INTO venues
		(id, name, row_idx, col_idx, span_rows, span_columns, visited, notes, footprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("INSERT文の準備に失敗: %w", err)
	}
	defer stmt.Close()

	for i := range prepared {
		v := &prepared[i]
		if _, err := stmt.ExecContext(ctx, v.ID, v.Name, v.Row, v.Column, v.SpanRows, v.SpanColumns,
			v.Visited, nullableNotes(v), helper.FootprintWKT(v)); err != nil {
			return fmt.Errorf("バーデータの挿入に失敗 (%d, %d): %w", v.Row, v.Column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}
	return nil
}

func (r *sqlVenuesRepository) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+venueColumns+` FROM venues WHERE id = ? ORDER BY row_idx, col_idx LIMIT 1`), id)
	v, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("バーID %s: %w", id, model.ErrVenueNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}
	return v, nil
}

func (r *sqlVenuesRepository) FindByOrigin(ctx context.Context, row, column int) (*model.Venue, error) {
	res := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+venueColumns+` FROM venues WHERE row_idx = ? AND col_idx = ?`), row, column)
	v, err := scanVenue(res)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("起点セル (%d, %d): %w", row, column, model.ErrVenueNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}
	return v, nil
}

func (r *sqlVenuesRepository) FindCovering(ctx context.Context, row, column int) (*model.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues
		WHERE row_idx <= ? AND ? < row_idx + span_rows
		  AND col_idx <= ? AND ? < col_idx + span_columns
		ORDER BY row_idx, col_idx LIMIT 1`
	res := r.db.QueryRowContext(ctx, r.rebind(query), row, row, column, column)
	v, err := scanVenue(res)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("セル (%d, %d): %w", row, column, model.ErrVenueNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}
	return v, nil
}

func (r *sqlVenuesRepository) Update(ctx context.Context, id string, mutate model.VenueMutator) (*model.Venue, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanVenue(tx.QueryRowContext(ctx, r.rebind(`SELECT `+venueColumns+` FROM venues WHERE id = ? ORDER BY row_idx, col_idx LIMIT 1`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("バーID %s: %w", id, model.ErrVenueNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}

	updated, err := applyMutation(*current, mutate)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, r.rebind(`UPDATE venues
		SET name = ?, visited = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE row_idx = ? AND col_idx = ?`),
		updated.Name, updated.Visited, nullableNotes(updated), updated.Row, updated.Column); err != nil {
		return nil, fmt.Errorf("バーデータの更新失敗: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}
	return updated, nil
}

func (r *sqlVenuesRepository) ValidateIntegrity(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	venues, err := r.queryVenues(ctx, tx, `SELECT `+venueColumns+` FROM venues ORDER BY row_idx, col_idx`)
	if err != nil {
		return 0, err
	}

	repaired := helper.RepairVenueIDs(venues)
	if len(repaired) == 0 {
		return 0, nil
	}

	for _, i := range repaired {
		v := &venues[i]
		if _, err := tx.ExecContext(ctx, r.rebind(`UPDATE venues SET id = ?, updated_at = CURRENT_TIMESTAMP WHERE row_idx = ? AND col_idx = ?`),
			v.ID, v.Row, v.Column); err != nil {
			return 0, fmt.Errorf("バーIDの修復に失敗 (%d, %d): %w", v.Row, v.Column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}
	return len(repaired), nil
}

func (r *sqlVenuesRepository) GetAll(ctx context.Context) ([]model.Venue, error) {
	return r.queryVenues(ctx, r.db, `SELECT `+venueColumns+` FROM venues ORDER BY row_idx, col_idx`)
}

func (r *sqlVenuesRepository) Count(ctx context.Context) (*model.VenueStats, error) {
	var stats model.VenueStats
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(CASE WHEN visited THEN 1 ELSE 0 END), 0) FROM venues`)
	if err := row.Scan(&stats.Total, &stats.Visited); err != nil {
		return nil, fmt.Errorf("バー件数の集計失敗: %w", err)
	}
	return &stats, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *sqlVenuesRepository) queryVenues(ctx context.Context, q queryer, query string, args ...any) ([]model.Venue, error) {
	rows, err := q.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("バーデータスキャンエラー: %w", err)
		}
		venues = append(venues, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("バーデータの読み込みエラー: %w", err)
	}
	return venues, nil
}
