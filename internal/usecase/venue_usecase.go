package usecase

import (
	"context"
	"fmt"
	"log"

	"GoldenGai-App/internal/domain/event"
	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/metrics"
)

// VenuePatch 部分更新の内容（nilのフィールドは変更しない）
type VenuePatch struct {
	Visited *bool   `json:"visited"`
	Notes   *string `json:"notes"`
}

type VenueUseCase interface {
	// ListVenues 表示設定に合わせた一覧（visitedOnlyなら訪問済みのみ）
	ListVenues(ctx context.Context, settings model.Settings, visitedOnly bool) ([]model.VenueView, error)
	GetVenue(ctx context.Context, settings model.Settings, id string) (*model.VenueView, error)
	SetVisited(ctx context.Context, id string, visited bool) (*model.Venue, error)
	UpdateNotes(ctx context.Context, id string, notes string) (*model.Venue, error)
	// PatchVenue 訪問済みとメモをまとめて更新する
	PatchVenue(ctx context.Context, id string, patch VenuePatch) (*model.Venue, error)
	FindByOrigin(ctx context.Context, settings model.Settings, row, column int) (*model.VenueView, error)
	// FindCovering 結合セルを含め、指定セルを占有するバーを返す
	FindCovering(ctx context.Context, settings model.Settings, row, column int) (*model.VenueView, error)
	// Highlight マップ上での強調表示をイベントとして通知する
	Highlight(ctx context.Context, id string) (*model.Venue, error)
	Stats(ctx context.Context) (*model.VenueStats, error)
	ValidateIntegrity(ctx context.Context) (int, error)
}

// venueUseCaseImpl はVenueUseCaseの実装
type venueUseCaseImpl struct {
	venuesRepo repository.VenuesRepository
	imagesRepo repository.ImageRepository
	translator *helper.NameTranslator
	bus        *event.Bus
	metrics    *metrics.Metrics
}

// NewVenueUseCase は新しいVenueUseCaseインスタンスを作成（imagesRepoがnilなら写真なし扱い）
func NewVenueUseCase(
	venuesRepo repository.VenuesRepository,
	imagesRepo repository.ImageRepository,
	translator *helper.NameTranslator,
	bus *event.Bus,
	m *metrics.Metrics,
) VenueUseCase {
	return &venueUseCaseImpl{
		venuesRepo: venuesRepo,
		imagesRepo: imagesRepo,
		translator: translator,
		bus:        bus,
		metrics:    m,
	}
}

func (u *venueUseCaseImpl) displayName(name string, settings model.Settings) string {
	if u.translator == nil {
		return name
	}
	return u.translator.Translate(name, settings.Language)
}

func (u *venueUseCaseImpl) hasPhoto(ctx context.Context, id string) bool {
	if u.imagesRepo == nil {
		return false
	}
	exists, err := u.imagesRepo.Exists(ctx, id)
	if err != nil {
		log.Printf("⚠️ 写真の確認に失敗 (%s): %v", id, err)
		return false
	}
	return exists
}

func (u *venueUseCaseImpl) toView(ctx context.Context, settings model.Settings, v *model.Venue) *model.VenueView {
	return &model.VenueView{
		Venue:       *v,
		DisplayName: u.displayName(v.Name, settings),
		HasPhoto:    u.hasPhoto(ctx, v.PhotoID()),
	}
}

func (u *venueUseCaseImpl) ListVenues(ctx context.Context, settings model.Settings, visitedOnly bool) ([]model.VenueView, error) {
	venues, err := u.venuesRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("バー一覧の取得に失敗: %w", err)
	}
	if visitedOnly {
		venues = helper.FilterVisited(venues)
	}

	photos := map[string]struct{}{}
	if u.imagesRepo != nil {
		ids, err := u.imagesRepo.ListIDs(ctx)
		if err != nil {
			log.Printf("⚠️ 写真一覧の取得に失敗: %v", err)
		}
		for _, id := range ids {
			photos[id] = struct{}{}
		}
	}

	views := make([]model.VenueView, 0, len(venues))
	for _, v := range venues {
		_, hasPhoto := photos[v.PhotoID()]
		views = append(views, model.VenueView{
			Venue:       v,
			DisplayName: u.displayName(v.Name, settings),
			HasPhoto:    hasPhoto,
		})
	}
	return views, nil
}

func (u *venueUseCaseImpl) GetVenue(ctx context.Context, settings model.Settings, id string) (*model.VenueView, error) {
	v, err := u.venuesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.toView(ctx, settings, v), nil
}

func (u *venueUseCaseImpl) update(ctx context.Context, id, field string, mutate model.VenueMutator) (*model.Venue, error) {
	v, err := u.venuesRepo.Update(ctx, id, mutate)
	if err != nil {
		return nil, err
	}
	u.metrics.IncVenueUpdate(field)
	u.bus.Publish(event.VenueUpdated{VenueID: v.ID})
	return v, nil
}

func (u *venueUseCaseImpl) SetVisited(ctx context.Context, id string, visited bool) (*model.Venue, error) {
	return u.update(ctx, id, "visited", model.SetVisited(visited))
}

func (u *venueUseCaseImpl) UpdateNotes(ctx context.Context, id string, notes string) (*model.Venue, error) {
	return u.update(ctx, id, "notes", model.SetNotes(notes))
}

func (u *venueUseCaseImpl) PatchVenue(ctx context.Context, id string, patch VenuePatch) (*model.Venue, error) {
	switch {
	case patch.Visited != nil && patch.Notes != nil:
		return u.update(ctx, id, "patch", model.Chain(model.SetVisited(*patch.Visited), model.SetNotes(*patch.Notes)))
	case patch.Visited != nil:
		return u.SetVisited(ctx, id, *patch.Visited)
	case patch.Notes != nil:
		return u.UpdateNotes(ctx, id, *patch.Notes)
	default:
		return u.venuesRepo.GetByID(ctx, id)
	}
}

func (u *venueUseCaseImpl) FindByOrigin(ctx context.Context, settings model.Settings, row, column int) (*model.VenueView, error) {
	v, err := u.venuesRepo.FindByOrigin(ctx, row, column)
	if err != nil {
		return nil, err
	}
	return u.toView(ctx, settings, v), nil
}

func (u *venueUseCaseImpl) FindCovering(ctx context.Context, settings model.Settings, row, column int) (*model.VenueView, error) {
	v, err := u.venuesRepo.FindCovering(ctx, row, column)
	if err != nil {
		return nil, err
	}
	return u.toView(ctx, settings, v), nil
}

func (u *venueUseCaseImpl) Highlight(ctx context.Context, id string) (*model.Venue, error) {
	v, err := u.venuesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.bus.Publish(event.HighlightVenue{VenueID: v.ID, Row: v.Row, Column: v.Column})
	return v, nil
}

func (u *venueUseCaseImpl) Stats(ctx context.Context) (*model.VenueStats, error) {
	stats, err := u.venuesRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("統計情報の取得に失敗: %w", err)
	}
	return stats, nil
}

func (u *venueUseCaseImpl) ValidateIntegrity(ctx context.Context) (int, error) {
	repaired, err := u.venuesRepo.ValidateIntegrity(ctx)
	if err != nil {
		return 0, fmt.Errorf("整合性チェックに失敗: %w", err)
	}
	u.metrics.AddIntegrityRepairs(repaired)
	return repaired, nil
}
