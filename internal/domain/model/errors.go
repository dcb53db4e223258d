package model

import (
	"errors"
	"fmt"
)

var (
	// ErrVenueNotFound 指定されたバーが存在しない
	ErrVenueNotFound = errors.New("バーが見つかりません")
	// ErrImageNotFound 指定されたバーの写真が存在しない
	ErrImageNotFound = errors.New("写真が見つかりません")
)

// MalformedGridError グリッドの行の長さが揃っていない
type MalformedGridError struct {
	Row      int
	Expected int
	Got      int
}

func (e *MalformedGridError) Error() string {
	return fmt.Sprintf("グリッドが矩形ではありません: 行%dの列数は%d（期待値: %d）", e.Row, e.Got, e.Expected)
}

// ErrInvalidImageID パス区切りや ".." を含むなど、ファイル名として使えないID
var ErrInvalidImageID = errors.New("写真IDが不正です")

// ErrEmptyImage 空の画像データは保存できない
var ErrEmptyImage = errors.New("画像データが空です")

// ErrInvalidGrid インポートデータが読み込めない、または必須キーが欠けている
var ErrInvalidGrid = errors.New("グリッドデータが不正です")
