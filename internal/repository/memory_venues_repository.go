package repository

import (
	"context"
	"fmt"
	"sync"

	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
)

// MemoryVenuesRepository プロセス内メモリにバーを保持するリポジトリ
// ReplaceAllはスナップショットを丸ごと差し替えるため、読み手は常に旧セットか新セットのどちらかを見る
type MemoryVenuesRepository struct {
	mu     sync.RWMutex
	venues []model.Venue
}

// NewMemoryVenuesRepository 空のメモリリポジトリを作成
func NewMemoryVenuesRepository() repository.VenuesRepository {
	return &MemoryVenuesRepository{}
}

func (r *MemoryVenuesRepository) ReplaceAll(ctx context.Context, venues []model.Venue) error {
	snapshot, err := prepareVenues(venues)
	if err != nil {
		return fmt.Errorf("バーデータの置き換えに失敗: %w", err)
	}

	r.mu.Lock()
	r.venues = snapshot
	r.mu.Unlock()
	return nil
}

func (r *MemoryVenuesRepository) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v := firstByID(r.venues, id); v != nil {
		return cloneVenue(v), nil
	}
	return nil, fmt.Errorf("バーID %s: %w", id, model.ErrVenueNotFound)
}

func (r *MemoryVenuesRepository) FindByOrigin(ctx context.Context, row, column int) (*model.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v := helper.FindVenueByOrigin(r.venues, row, column); v != nil {
		return cloneVenue(v), nil
	}
	return nil, fmt.Errorf("起点セル (%d, %d): %w", row, column, model.ErrVenueNotFound)
}

func (r *MemoryVenuesRepository) FindCovering(ctx context.Context, row, column int) (*model.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v := helper.FindCoveringVenue(r.venues, row, column); v != nil {
		return cloneVenue(v), nil
	}
	return nil, fmt.Errorf("セル (%d, %d): %w", row, column, model.ErrVenueNotFound)
}

func (r *MemoryVenuesRepository) Update(ctx context.Context, id string, mutate model.VenueMutator) (*model.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := firstByID(r.venues, id)
	if current == nil {
		return nil, fmt.Errorf("バーID %s: %w", id, model.ErrVenueNotFound)
	}

	updated, err := applyMutation(*current, mutate)
	if err != nil {
		return nil, err
	}
	*current = *updated
	return cloneVenue(updated), nil
}

func (r *MemoryVenuesRepository) ValidateIntegrity(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(helper.RepairVenueIDs(r.venues)), nil
}

func (r *MemoryVenuesRepository) GetAll(ctx context.Context) ([]model.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	venues := make([]model.Venue, len(r.venues))
	for i := range r.venues {
		venues[i] = *cloneVenue(&r.venues[i])
	}
	return venues, nil
}

func (r *MemoryVenuesRepository) Count(ctx context.Context) (*model.VenueStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return helper.CountStats(r.venues), nil
}

func cloneVenue(v *model.Venue) *model.Venue {
	c := *v
	if v.Notes != nil {
		notes := *v.Notes
		c.Notes = &notes
	}
	return &c
}
