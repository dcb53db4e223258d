package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"GoldenGai-App/internal/domain/event"
	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/metrics"
)

type RemoteUpdateUseCase interface {
	// ApplyUpdates リモートから配信されたパッチと翻訳を適用する
	// 見つからないバーはスキップして件数だけ数える
	ApplyUpdates(ctx context.Context, data *model.RemoteBarData) (*model.RemoteUpdateResult, error)
}

// remoteUpdateUseCaseImpl はRemoteUpdateUseCaseの実装
type remoteUpdateUseCaseImpl struct {
	venuesRepo repository.VenuesRepository
	translator *helper.NameTranslator
	bus        *event.Bus
	metrics    *metrics.Metrics
}

// NewRemoteUpdateUseCase は新しいRemoteUpdateUseCaseインスタンスを作成
func NewRemoteUpdateUseCase(venuesRepo repository.VenuesRepository, translator *helper.NameTranslator, bus *event.Bus, m *metrics.Metrics) RemoteUpdateUseCase {
	return &remoteUpdateUseCaseImpl{
		venuesRepo: venuesRepo,
		translator: translator,
		bus:        bus,
		metrics:    m,
	}
}

// resolveVenueID パッチの対象バーのIDを決める（IDを優先し、なければ旧店名と位置で検索）
func (u *remoteUpdateUseCaseImpl) resolveVenueID(ctx context.Context, update *model.VenueUpdate) (string, error) {
	if update.ID != nil && *update.ID != "" {
		return *update.ID, nil
	}
	if update.OldName == nil || *update.OldName == "" {
		return "", fmt.Errorf("IDも旧店名も指定されていません: %w", model.ErrVenueNotFound)
	}

	v, err := u.venuesRepo.FindByOrigin(ctx, update.Row, update.Column)
	if err != nil {
		return "", err
	}
	if v.Name != *update.OldName {
		return "", fmt.Errorf("(%d, %d) の店名 %q が %q と一致しません: %w",
			update.Row, update.Column, v.Name, *update.OldName, model.ErrVenueNotFound)
	}
	return v.ID, nil
}

func (u *remoteUpdateUseCaseImpl) ApplyUpdates(ctx context.Context, data *model.RemoteBarData) (*model.RemoteUpdateResult, error) {
	if data == nil {
		return nil, fmt.Errorf("リモート更新データが空です")
	}
	log.Printf("🔄 リモート更新を適用: version=%s (%s) パッチ%d件", data.Version, data.LastUpdated, len(data.BarUpdates))

	result := &model.RemoteUpdateResult{Version: data.Version}
	for i := range data.BarUpdates {
		update := &data.BarUpdates[i]

		id, err := u.resolveVenueID(ctx, update)
		if err == nil {
			_, err = u.venuesRepo.Update(ctx, id, update.Mutator())
		}
		if errors.Is(err, model.ErrVenueNotFound) {
			log.Printf("⚠️ 更新対象のバーが見つかりません: %v", err)
			result.NotFound++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("リモート更新の適用に失敗: %w", err)
		}

		result.Applied++
		u.metrics.IncVenueUpdate("remote")
		u.bus.Publish(event.VenueUpdated{VenueID: id})
	}

	if len(data.Translations) > 0 && u.translator != nil {
		result.Translations = u.translator.Merge(data.Translations)
	}
	u.metrics.AddRemotePatches(result.Applied, result.NotFound)

	log.Printf("✅ リモート更新完了: 適用 %d件, 未検出 %d件, 翻訳 %d件", result.Applied, result.NotFound, result.Translations)
	return result, nil
}
