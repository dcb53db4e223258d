package repository

import (
	"fmt"

	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
)

// venueDocumentID 起点セルから決まるレコードキー（Firestoreのドキュメントなど）
func venueDocumentID(row, column int) string {
	return fmt.Sprintf("r%d_c%d", row, column)
}

// applyMutation ミューテーターをコピーに適用し、永続化対象（Name / Visited / Notes）のみを反映した結果を返す
func applyMutation(current model.Venue, mutate model.VenueMutator) (*model.Venue, error) {
	working := current
	if current.Notes != nil {
		notes := *current.Notes
		working.Notes = &notes
	}
	if mutate != nil {
		if err := mutate(&working); err != nil {
			return nil, fmt.Errorf("バーの更新処理に失敗: %w", err)
		}
	}

	updated := current
	updated.Name = working.Name
	updated.Visited = working.Visited
	updated.Notes = working.Notes
	return &updated, nil
}

// prepareVenues ReplaceAll用に入力を検証し、起点セル順に並べたコピーを返す
func prepareVenues(venues []model.Venue) ([]model.Venue, error) {
	prepared := make([]model.Venue, len(venues))
	copy(prepared, venues)

	origins := make(map[string]struct{}, len(prepared))
	for i := range prepared {
		v := &prepared[i]
		if v.SpanRows < 1 {
			v.SpanRows = 1
		}
		if v.SpanColumns < 1 {
			v.SpanColumns = 1
		}
		key := venueDocumentID(v.Row, v.Column)
		if _, exists := origins[key]; exists {
			return nil, fmt.Errorf("起点セル (%d, %d) が重複しています", v.Row, v.Column)
		}
		origins[key] = struct{}{}
	}

	helper.SortByOrigin(prepared)
	return prepared, nil
}

// firstByID 起点セル順で最初に見つかったIDの一致するバー
func firstByID(venues []model.Venue, id string) *model.Venue {
	for i := range venues {
		if venues[i].ID == id {
			return &venues[i]
		}
	}
	return nil
}
