package service

import (
	"log"

	"github.com/google/uuid"

	"GoldenGai-App/internal/domain/model"
)

// cellPosition 空でないセルの (店名, 行, 列)
type cellPosition struct {
	name   string
	row    int
	column int
}

type cellKey struct {
	row    int
	column int
}

// MergeCells グリッドを走査し、隣接する同名セルを結合したバー一覧を返す
//
// 行優先で並べたセルを先頭から処理し、未結合のセルごとに後続セルから最初に見つかった
// 隣接同名セルと1回だけ結合する（横を先に判定し、次に縦）。3セル以上の連続は
// 連結成分としては扱わず、残ったセルは独立したバー（または次の隣接セルとのペア）になる。
func MergeCells(grid model.Grid) []model.Venue {
	// Step 1: 空でないセルを行優先で収集
	var positions []cellPosition
	for r, row := range grid {
		for c, name := range row {
			if name != "" {
				positions = append(positions, cellPosition{name: name, row: r, column: c})
			}
		}
	}

	// Step 2: 結合済みセルの記録
	consumed := make(map[cellKey]struct{})

	// Step 3: 各セルを処理
	venues := make([]model.Venue, 0, len(positions))
	for i, current := range positions {
		if _, ok := consumed[cellKey{current.row, current.column}]; ok {
			continue
		}

		spanRows, spanColumns := 1, 1
		for _, other := range positions[i+1:] {
			key := cellKey{other.row, other.column}
			if _, ok := consumed[key]; ok {
				continue
			}
			if current.name != other.name {
				continue
			}

			if current.row == other.row && abs(current.column-other.column) == 1 {
				spanColumns = 2
				consumed[key] = struct{}{}
				log.Printf("🔲 横方向に結合: %s (%d, %d) + (%d, %d)", current.name, current.row, current.column, other.row, other.column)
				break
			}
			if current.column == other.column && abs(current.row-other.row) == 1 {
				spanRows = 2
				consumed[key] = struct{}{}
				log.Printf("🔲 縦方向に結合: %s (%d, %d) + (%d, %d)", current.name, current.row, current.column, other.row, other.column)
				break
			}
		}

		venues = append(venues, model.Venue{
			ID:          uuid.New().String(),
			Name:        current.name,
			Row:         current.row,
			Column:      current.column,
			SpanRows:    spanRows,
			SpanColumns: spanColumns,
			Visited:     false,
		})
	}

	return venues
}

// CountMerged 結合されたバー（スパン2以上）の件数
func CountMerged(venues []model.Venue) int {
	count := 0
	for _, v := range venues {
		if v.SpanRows > 1 || v.SpanColumns > 1 {
			count++
		}
	}
	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
