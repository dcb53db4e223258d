package repository

import "context"

// ImageRepository バーIDをキーとした写真キャッシュのリポジトリインターフェース
type ImageRepository interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	ListIDs(ctx context.Context) ([]string, error)
	// Size 保存されている写真の合計バイト数
	Size(ctx context.Context) (int64, error)
}
