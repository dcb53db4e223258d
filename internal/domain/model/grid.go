package model

// Grid 店名の2次元配列（行優先、空文字列は空きセル）
type Grid [][]string

// Rows グリッドの行数
func (g Grid) Rows() int {
	return len(g)
}

// Columns グリッドの列数（矩形であることが前提）
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// GridMetadata インポートデータのメタ情報
type GridMetadata struct {
	Title string `json:"title" yaml:"title"`
	Date  string `json:"date" yaml:"date"`
}

// GridData インポート用JSONの構造
type GridData struct {
	Metadata GridMetadata `json:"metadata"`
	Map      Grid         `json:"map"`
}

// ImportResult インポート処理の結果
type ImportResult struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
	VenueCount  int    `json:"venue_count"`
	MergedCount int    `json:"merged_count"`
	RepairedIDs int    `json:"repaired_ids"`
}
