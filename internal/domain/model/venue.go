package model

import "strings"

// ClosedPrefix 閉店したバーの名前に付与されるプレフィックス
const ClosedPrefix = "[CLOSED] "

// Venue ゴールデン街のバー（店舗）を表すモデル
type Venue struct {
	ID          string  `json:"id" db:"id"`                     // ユニークなバーID（写真IDも兼ねる）
	Name        string  `json:"name" db:"name"`                 // 店名（インポート元の表記）
	Row         int     `json:"row" db:"row_idx"`               // 起点セルの行（0始まり）
	Column      int     `json:"column" db:"col_idx"`            // 起点セルの列（0始まり）
	SpanRows    int     `json:"span_rows" db:"span_rows"`       // 縦方向に占有するセル数
	SpanColumns int     `json:"span_columns" db:"span_columns"` // 横方向に占有するセル数
	Visited     bool    `json:"visited" db:"visited"`           // 訪問済みフラグ
	Notes       *string `json:"notes,omitempty" db:"notes"`     // メモ（NULLABLE）
}

// PhotoID 画像キャッシュのキーを返す（IDと同一）
func (v *Venue) PhotoID() string {
	return v.ID
}

// GetNotes メモが存在する場合は値を、存在しない場合は空文字列を返す
func (v *Venue) GetNotes() string {
	if v.Notes != nil {
		return *v.Notes
	}
	return ""
}

// SetNotes メモを設定する（空文字列の場合はnilに戻す）
func (v *Venue) SetNotes(notes string) {
	if notes == "" {
		v.Notes = nil
		return
	}
	v.Notes = &notes
}

// HasNotes メモが設定されているかチェック
func (v *Venue) HasNotes() bool {
	return v.Notes != nil && *v.Notes != ""
}

// IsClosed 閉店プレフィックスが付いているかチェック
func (v *Venue) IsClosed() bool {
	return strings.HasPrefix(v.Name, ClosedPrefix)
}

// MarkClosed 店名に閉店プレフィックスを付与する（二重には付けない）
func (v *Venue) MarkClosed() {
	if !v.IsClosed() {
		v.Name = ClosedPrefix + v.Name
	}
}

// IsOrigin 指定セルがこのバーの起点セルかチェック
func (v *Venue) IsOrigin(row, column int) bool {
	return v.Row == row && v.Column == column
}

// Covers 指定セルがこのバーの占有範囲 [row, row+spanRows) × [column, column+spanColumns) に含まれるかチェック
func (v *Venue) Covers(row, column int) bool {
	return row >= v.Row && row < v.Row+v.spanRows() &&
		column >= v.Column && column < v.Column+v.spanColumns()
}

// Overlaps 2つのバーの占有範囲が重なるかチェック
func (v *Venue) Overlaps(other *Venue) bool {
	return v.Row < other.Row+other.spanRows() && other.Row < v.Row+v.spanRows() &&
		v.Column < other.Column+other.spanColumns() && other.Column < v.Column+v.spanColumns()
}

func (v *Venue) spanRows() int {
	if v.SpanRows < 1 {
		return 1
	}
	return v.SpanRows
}

func (v *Venue) spanColumns() int {
	if v.SpanColumns < 1 {
		return 1
	}
	return v.SpanColumns
}

// VenueMutator ユーザー操作やリモート更新による変更を1件のバーに適用する関数
// 永続化されるのは Name / Visited / Notes のみ
type VenueMutator func(v *Venue) error

// SetVisited 訪問済みフラグを変更するミューテーター
func SetVisited(visited bool) VenueMutator {
	return func(v *Venue) error {
		v.Visited = visited
		return nil
	}
}

// SetNotes メモを変更するミューテーター
func SetNotes(notes string) VenueMutator {
	return func(v *Venue) error {
		v.SetNotes(notes)
		return nil
	}
}

// Chain 複数のミューテーターを順番に適用する
func Chain(mutators ...VenueMutator) VenueMutator {
	return func(v *Venue) error {
		for _, m := range mutators {
			if m == nil {
				continue
			}
			if err := m(v); err != nil {
				return err
			}
		}
		return nil
	}
}

// VenueStats 設定画面などで表示する集計値
type VenueStats struct {
	Total   int `json:"total"`
	Visited int `json:"visited"`
}
