package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"GoldenGai-App/internal/domain/model"
)

// gridDocument オブジェクト形式の必須キーの有無を判定するための形
type gridDocument struct {
	Metadata *model.GridMetadata `json:"metadata"`
	Map      *model.Grid         `json:"map"`
}

// ParseGrid インポート用JSONを読み込み、矩形のグリッドとして返す
// {"metadata": {...}, "map": [[...]]} 形式と、旧形式の [[...]] の両方を受け付ける
func ParseGrid(r io.Reader) (*model.GridData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("グリッドデータの読み込み失敗: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: データが空です", model.ErrInvalidGrid)
	}

	var data model.GridData
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &data.Map); err != nil {
			return nil, fmt.Errorf("%w: JSONアンマーシャル失敗: %v", model.ErrInvalidGrid, err)
		}
	case '{':
		var doc gridDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: JSONアンマーシャル失敗: %v", model.ErrInvalidGrid, err)
		}
		if doc.Metadata == nil {
			return nil, fmt.Errorf("%w: metadata がありません", model.ErrInvalidGrid)
		}
		if doc.Map == nil {
			return nil, fmt.Errorf("%w: map がありません", model.ErrInvalidGrid)
		}
		data.Metadata = *doc.Metadata
		data.Map = *doc.Map
	default:
		return nil, fmt.Errorf("%w: 先頭文字 %q", model.ErrInvalidGrid, trimmed[0])
	}

	if err := ValidateGrid(data.Map); err != nil {
		return nil, err
	}
	return &data, nil
}

// ValidateGrid 全ての行が同じ列数であることを確認する
func ValidateGrid(grid model.Grid) error {
	if len(grid) == 0 {
		return nil
	}
	width := len(grid[0])
	for i, row := range grid {
		if len(row) != width {
			return &model.MalformedGridError{Row: i, Expected: width, Got: len(row)}
		}
	}
	return nil
}
