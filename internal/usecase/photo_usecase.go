package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"

	"GoldenGai-App/internal/domain/event"
	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/metrics"
)

// PhotoStats 写真キャッシュの使用状況
type PhotoStats struct {
	Count      int    `json:"count"`
	TotalBytes int64  `json:"total_bytes"`
	TotalSize  string `json:"total_size"` // 人が読める形式（例: "1.2 MB"）
}

type PhotoUseCase interface {
	// SavePhoto 写真を保存する（バーが存在しない場合はErrVenueNotFound）
	SavePhoto(ctx context.Context, venueID string, data []byte) error
	// LoadPhoto 写真を読み込む。失敗時は写真なし（false）として扱う
	LoadPhoto(ctx context.Context, venueID string) ([]byte, bool)
	DeletePhoto(ctx context.Context, venueID string) error
	// CleanupOrphans 存在しないバーの写真を削除し、削除件数を返す
	CleanupOrphans(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*PhotoStats, error)
}

// photoUseCaseImpl はPhotoUseCaseの実装
type photoUseCaseImpl struct {
	venuesRepo repository.VenuesRepository
	imagesRepo repository.ImageRepository
	bus        *event.Bus
	metrics    *metrics.Metrics
}

// NewPhotoUseCase は新しいPhotoUseCaseインスタンスを作成
func NewPhotoUseCase(venuesRepo repository.VenuesRepository, imagesRepo repository.ImageRepository, bus *event.Bus, m *metrics.Metrics) PhotoUseCase {
	return &photoUseCaseImpl{
		venuesRepo: venuesRepo,
		imagesRepo: imagesRepo,
		bus:        bus,
		metrics:    m,
	}
}

func (u *photoUseCaseImpl) SavePhoto(ctx context.Context, venueID string, data []byte) (err error) {
	defer func() { u.metrics.ObservePhoto("save", err) }()

	if len(data) == 0 {
		return model.ErrEmptyImage
	}
	venue, err := u.venuesRepo.GetByID(ctx, venueID)
	if err != nil {
		return err
	}
	if err := u.imagesRepo.Save(ctx, venue.PhotoID(), data); err != nil {
		log.Printf("❌ 写真の保存に失敗 (%s): %v", venue.Name, err)
		return err
	}

	log.Printf("📷 写真を保存: %s (%s)", venue.Name, humanize.Bytes(uint64(len(data))))
	u.bus.Publish(event.ImageUpdated{VenueID: venue.ID})
	return nil
}

func (u *photoUseCaseImpl) LoadPhoto(ctx context.Context, venueID string) ([]byte, bool) {
	data, err := u.imagesRepo.Load(ctx, venueID)
	if errors.Is(err, model.ErrImageNotFound) {
		return nil, false
	}
	u.metrics.ObservePhoto("load", err)
	if err != nil {
		log.Printf("⚠️ 写真の読み込みに失敗 (%s): %v", venueID, err)
		return nil, false
	}
	return data, true
}

func (u *photoUseCaseImpl) DeletePhoto(ctx context.Context, venueID string) (err error) {
	defer func() { u.metrics.ObservePhoto("delete", err) }()

	if err := u.imagesRepo.Delete(ctx, venueID); err != nil {
		return err
	}
	u.bus.Publish(event.ImageUpdated{VenueID: venueID, Deleted: true})
	return nil
}

func (u *photoUseCaseImpl) CleanupOrphans(ctx context.Context) (int, error) {
	venues, err := u.venuesRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("バー一覧の取得に失敗: %w", err)
	}
	known := make(map[string]struct{}, len(venues))
	for _, v := range venues {
		known[v.PhotoID()] = struct{}{}
	}

	ids, err := u.imagesRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}
		if err := u.imagesRepo.Delete(ctx, id); err != nil && !errors.Is(err, model.ErrImageNotFound) {
			log.Printf("⚠️ 孤立した写真の削除に失敗 (%s): %v", id, err)
			continue
		}
		removed++
		u.bus.Publish(event.ImageUpdated{VenueID: id, Deleted: true})
	}

	if removed > 0 {
		log.Printf("🧹 孤立した写真を削除: %d件", removed)
	}
	return removed, nil
}

func (u *photoUseCaseImpl) Stats(ctx context.Context) (*PhotoStats, error) {
	ids, err := u.imagesRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	size, err := u.imagesRepo.Size(ctx)
	if err != nil {
		return nil, err
	}
	return &PhotoStats{
		Count:      len(ids),
		TotalBytes: size,
		TotalSize:  humanize.Bytes(uint64(size)),
	}, nil
}
