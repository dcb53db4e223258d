package usecase

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"GoldenGai-App/internal/domain/event"
	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/domain/service"
	"GoldenGai-App/internal/infrastructure/metrics"
)

type ImportUseCase interface {
	// ImportGrid グリッドJSONを解析・結合し、全バーを置き換える
	ImportGrid(ctx context.Context, r io.Reader) (*model.ImportResult, error)

	// ImportFile ファイルからグリッドJSONを読み込んでインポートする
	ImportFile(ctx context.Context, path string) (*model.ImportResult, error)

	// OnRemoteSignal リモート側で更新があった場合のみ再インポートする（更新なしはnil）
	OnRemoteSignal(ctx context.Context, updated bool, path string) (*model.ImportResult, error)
}

// importUseCaseImpl はImportUseCaseの実装
type importUseCaseImpl struct {
	venuesRepo repository.VenuesRepository
	bus        *event.Bus
	metrics    *metrics.Metrics
}

// NewImportUseCase は新しいImportUseCaseインスタンスを作成
func NewImportUseCase(venuesRepo repository.VenuesRepository, bus *event.Bus, m *metrics.Metrics) ImportUseCase {
	return &importUseCaseImpl{
		venuesRepo: venuesRepo,
		bus:        bus,
		metrics:    m,
	}
}

func (u *importUseCaseImpl) ImportGrid(ctx context.Context, r io.Reader) (result *model.ImportResult, err error) {
	started := time.Now()
	defer func() {
		venueCount := 0
		if result != nil {
			venueCount = result.VenueCount
		}
		u.metrics.ObserveImport(venueCount, started, err)
	}()

	// Step 1: JSONを解析（失敗時は既存データに触れない）
	data, err := service.ParseGrid(r)
	if err != nil {
		log.Printf("❌ グリッドデータの解析に失敗: %v", err)
		return nil, err
	}
	log.Printf("🚀 インポート開始: %s (%s) %dx%d", data.Metadata.Title, data.Metadata.Date, data.Map.Rows(), data.Map.Columns())

	// Step 2: 隣接する同名セルを結合
	venues := service.MergeCells(data.Map)

	// Step 3: 全件置き換え
	if err := u.venuesRepo.ReplaceAll(ctx, venues); err != nil {
		log.Printf("❌ バーデータの保存に失敗: %v", err)
		return nil, fmt.Errorf("インポートデータの保存に失敗: %w", err)
	}

	// Step 4: ID整合性チェック（失敗してもインポート自体は成功扱い）
	repaired, err := u.venuesRepo.ValidateIntegrity(ctx)
	if err != nil {
		log.Printf("⚠️ インポート後の整合性チェックに失敗: %v", err)
		err = nil
	}
	u.metrics.AddIntegrityRepairs(repaired)

	result = &model.ImportResult{
		Title:       data.Metadata.Title,
		Date:        data.Metadata.Date,
		Rows:        data.Map.Rows(),
		Columns:     data.Map.Columns(),
		VenueCount:  len(venues),
		MergedCount: service.CountMerged(venues),
		RepairedIDs: repaired,
	}

	u.bus.Publish(event.VenuesReplaced{Count: result.VenueCount})
	log.Printf("✅ インポート完了: %d件（結合 %d件, ID修復 %d件）", result.VenueCount, result.MergedCount, result.RepairedIDs)
	return result, nil
}

func (u *importUseCaseImpl) ImportFile(ctx context.Context, path string) (*model.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("インポートファイルを開けません (%s): %w", path, err)
	}
	defer f.Close()

	return u.ImportGrid(ctx, f)
}

func (u *importUseCaseImpl) OnRemoteSignal(ctx context.Context, updated bool, path string) (*model.ImportResult, error) {
	if !updated {
		log.Printf("ℹ️ リモートデータに更新はありません")
		return nil, nil
	}
	return u.ImportFile(ctx, path)
}
