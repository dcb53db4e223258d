package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/database"
)

// supabaseVenueRecord venuesテーブルの1行（PostgRESTのJSON表現）
type supabaseVenueRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Row         int     `json:"row_idx"`
	Column      int     `json:"col_idx"`
	SpanRows    int     `json:"span_rows"`
	SpanColumns int     `json:"span_columns"`
	Visited     bool    `json:"visited"`
	Notes       *string `json:"notes"`
	Footprint   string  `json:"footprint,omitempty"`
}

func toSupabaseVenueRecord(v *model.Venue) supabaseVenueRecord {
	return supabaseVenueRecord{
		ID:          v.ID,
		Name:        v.Name,
		Row:         v.Row,
		Column:      v.Column,
		SpanRows:    v.SpanRows,
		SpanColumns: v.SpanColumns,
		Visited:     v.Visited,
		Notes:       v.Notes,
		Footprint:   helper.FootprintWKT(v),
	}
}

func (rec *supabaseVenueRecord) toVenue() model.Venue {
	return model.Venue{
		ID:          rec.ID,
		Name:        rec.Name,
		Row:         rec.Row,
		Column:      rec.Column,
		SpanRows:    rec.SpanRows,
		SpanColumns: rec.SpanColumns,
		Visited:     rec.Visited,
		Notes:       rec.Notes,
	}
}

// SupabaseVenuesRepository Supabase (PostgREST) を使ったバーリポジトリ
// ReplaceAllはPostgresSchemaで定義した replace_venues 関数をRPCで呼び出す
type SupabaseVenuesRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseVenuesRepository(client *database.SupabaseClient) repository.VenuesRepository {
	return &SupabaseVenuesRepository{
		client: client,
	}
}

func decodeVenueRecords(data []byte) ([]model.Venue, error) {
	var records []supabaseVenueRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("バーデータのJSONアンマーシャル失敗: %w", err)
	}
	venues := make([]model.Venue, 0, len(records))
	for i := range records {
		venues = append(venues, records[i].toVenue())
	}
	helper.SortByOrigin(venues)
	return venues, nil
}

func (r *SupabaseVenuesRepository) ReplaceAll(ctx context.Context, venues []model.Venue) error {
	prepared, err := prepareVenues(venues)
	if err != nil {
		return fmt.Errorf("バーデータの置き換えに失敗: %w", err)
	}

	records := make([]supabaseVenueRecord, 0, len(prepared))
	for i := range prepared {
		records = append(records, toSupabaseVenueRecord(&prepared[i]))
	}

	result := r.client.GetClient().Rpc("replace_venues", "", map[string]interface{}{"venues": records})
	inserted, err := strconv.Atoi(strings.TrimSpace(result))
	if err != nil {
		return fmt.Errorf("replace_venues RPCの実行失敗: %s", result)
	}
	if inserted != len(records) {
		return fmt.Errorf("replace_venues RPCの挿入件数が一致しません: %d / %d", inserted, len(records))
	}

	log.Printf("✅ Venues replaced in Supabase: %d", inserted)
	return nil
}

func (r *SupabaseVenuesRepository) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	data, _, err := r.client.GetClient().From("venues").Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}
	venues, err := decodeVenueRecords(data)
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("バーID %s: %w", id, model.ErrVenueNotFound)
	}
	return &venues[0], nil
}

func (r *SupabaseVenuesRepository) FindByOrigin(ctx context.Context, row, column int) (*model.Venue, error) {
	data, _, err := r.client.GetClient().From("venues").Select("*", "exact", false).
		Eq("row_idx", strconv.Itoa(row)).Eq("col_idx", strconv.Itoa(column)).Execute()
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}
	venues, err := decodeVenueRecords(data)
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("起点セル (%d, %d): %w", row, column, model.ErrVenueNotFound)
	}
	return &venues[0], nil
}

func (r *SupabaseVenuesRepository) FindCovering(ctx context.Context, row, column int) (*model.Venue, error) {
	// 起点セルが左上側にある候補だけを取得し、占有範囲の判定はクライアント側で行う
	data, _, err := r.client.GetClient().From("venues").Select("*", "exact", false).
		Lte("row_idx", strconv.Itoa(row)).Lte("col_idx", strconv.Itoa(column)).Execute()
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}
	venues, err := decodeVenueRecords(data)
	if err != nil {
		return nil, err
	}
	if v := helper.FindCoveringVenue(venues, row, column); v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("セル (%d, %d): %w", row, column, model.ErrVenueNotFound)
}

func (r *SupabaseVenuesRepository) Update(ctx context.Context, id string, mutate model.VenueMutator) (*model.Venue, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := applyMutation(*current, mutate)
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{
		"name":    updated.Name,
		"visited": updated.Visited,
		"notes":   updated.Notes,
	}
	_, _, err = r.client.GetClient().From("venues").Update(patch, "", "").
		Eq("row_idx", strconv.Itoa(updated.Row)).Eq("col_idx", strconv.Itoa(updated.Column)).Execute()
	if err != nil {
		return nil, fmt.Errorf("バーデータの更新失敗: %w", err)
	}
	return updated, nil
}

func (r *SupabaseVenuesRepository) ValidateIntegrity(ctx context.Context) (int, error) {
	venues, err := r.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	repaired := helper.RepairVenueIDs(venues)
	for _, i := range repaired {
		v := &venues[i]
		_, _, err := r.client.GetClient().From("venues").Update(map[string]interface{}{"id": v.ID}, "", "").
			Eq("row_idx", strconv.Itoa(v.Row)).Eq("col_idx", strconv.Itoa(v.Column)).Execute()
		if err != nil {
			return 0, fmt.Errorf("バーIDの修復に失敗 (%d, %d): %w", v.Row, v.Column, err)
		}
	}
	return len(repaired), nil
}

func (r *SupabaseVenuesRepository) GetAll(ctx context.Context) ([]model.Venue, error) {
	data, _, err := r.client.GetClient().From("venues").Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得失敗: %w", err)
	}
	return decodeVenueRecords(data)
}

func (r *SupabaseVenuesRepository) Count(ctx context.Context) (*model.VenueStats, error) {
	_, total, err := r.client.GetClient().From("venues").Select("id", "exact", true).Execute()
	if err != nil {
		return nil, fmt.Errorf("バー件数の取得失敗: %w", err)
	}
	_, visited, err := r.client.GetClient().From("venues").Select("id", "exact", true).Eq("visited", "true").Execute()
	if err != nil {
		return nil, fmt.Errorf("訪問済み件数の取得失敗: %w", err)
	}
	return &model.VenueStats{Total: int(total), Visited: int(visited)}, nil
}
