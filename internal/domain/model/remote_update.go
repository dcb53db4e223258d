package model

// VenueUpdate リモートから配信される1件分のバー更新パッチ
type VenueUpdate struct {
	ID       *string `json:"uuid,omitempty"`     // IDで検索（最優先）
	OldName  *string `json:"oldName,omitempty"`  // IDがない場合は旧店名＋位置で検索
	NewName  *string `json:"newName,omitempty"`  // 新しい店名
	Row      int     `json:"row"`                // 起点セルの行
	Column   int     `json:"column"`             // 起点セルの列
	IsClosed *bool   `json:"isClosed,omitempty"` // 閉店フラグ
	Notes    *string `json:"notes,omitempty"`    // メモ
}

// Mutator パッチの内容をVenueMutatorに変換する
func (u *VenueUpdate) Mutator() VenueMutator {
	return func(v *Venue) error {
		if u.NewName != nil && *u.NewName != "" {
			v.Name = *u.NewName
		}
		if u.IsClosed != nil && *u.IsClosed {
			v.MarkClosed()
		}
		if u.Notes != nil {
			v.SetNotes(*u.Notes)
		}
		return nil
	}
}

// RemoteBarData リモート更新データの構造
type RemoteBarData struct {
	Version      string            `json:"version"`
	LastUpdated  string            `json:"lastUpdated"`
	BarUpdates   []VenueUpdate     `json:"barUpdates"`
	Translations map[string]string `json:"translations,omitempty"` // 英語名の追加・上書き
}

// RemoteUpdateResult リモート更新の適用結果
type RemoteUpdateResult struct {
	Version      string `json:"version"`
	Applied      int    `json:"applied"`
	NotFound     int    `json:"not_found"`
	Translations int    `json:"translations"`
}
