package repository

import (
	"context"

	"GoldenGai-App/internal/domain/model"
)

// VenuesRepository バーの永続化を担当するリポジトリインターフェース
type VenuesRepository interface {
	// ReplaceAll 既存の全レコードを破棄して新しいセットに置き換える（トランザクション）
	ReplaceAll(ctx context.Context, venues []model.Venue) error
	GetByID(ctx context.Context, id string) (*model.Venue, error)
	// FindByOrigin 起点セルが一致するバーを検索
	FindByOrigin(ctx context.Context, row, column int) (*model.Venue, error)
	// FindCovering 指定セルを占有するバーを検索（結合セルも含む）
	FindCovering(ctx context.Context, row, column int) (*model.Venue, error)
	Update(ctx context.Context, id string, mutate model.VenueMutator) (*model.Venue, error)
	// ValidateIntegrity 重複・欠落IDを再発行し、修復件数を返す
	ValidateIntegrity(ctx context.Context) (int, error)
	GetAll(ctx context.Context) ([]model.Venue, error)
	Count(ctx context.Context) (*model.VenueStats, error)
}
