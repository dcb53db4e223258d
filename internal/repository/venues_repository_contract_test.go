package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
)

// sampleVenues 横結合・縦結合・単独セルを含む小さなマップ
func sampleVenues() []model.Venue {
	return []model.Venue{
		{ID: "venue-a", Name: "翁", Row: 0, Column: 0, SpanRows: 1, SpanColumns: 2},
		{ID: "venue-b", Name: "流民", Row: 0, Column: 2, SpanRows: 2, SpanColumns: 1},
		{ID: "venue-c", Name: "Bar C", Row: 1, Column: 0, SpanRows: 1, SpanColumns: 1},
	}
}

func secondImport() []model.Venue {
	return []model.Venue{
		{ID: "venue-x", Name: "Bar X", Row: 0, Column: 0, SpanRows: 1, SpanColumns: 1},
		{ID: "venue-y", Name: "Bar Y", Row: 0, Column: 1, SpanRows: 1, SpanColumns: 1},
		{ID: "venue-z", Name: "Bar Z", Row: 1, Column: 1, SpanRows: 1, SpanColumns: 1},
		{ID: "venue-w", Name: "Bar W", Row: 2, Column: 1, SpanRows: 1, SpanColumns: 1},
	}
}

// runVenuesRepositoryContract すべてのバーリポジトリ実装が満たすべき振る舞い
func runVenuesRepositoryContract(t *testing.T, newRepo func(t *testing.T) repository.VenuesRepository) {
	ctx := context.Background()

	t.Run("ReplaceAll後に全件取得できる", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))

		venues, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, venues, 3)
		assert.Equal(t, "venue-a", venues[0].ID)
		assert.Equal(t, "venue-b", venues[1].ID)
		assert.Equal(t, "venue-c", venues[2].ID)
		assert.Equal(t, 2, venues[0].SpanColumns)
		assert.Equal(t, 2, venues[1].SpanRows)

		require.NoError(t, repo.ReplaceAll(ctx, secondImport()))
		venues, err = repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, venues, 4)
		_, err = repo.GetByID(ctx, "venue-a")
		assert.True(t, errors.Is(err, model.ErrVenueNotFound))
	})

	t.Run("起点セルが重複する入力は拒否され旧データが残る", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))

		bad := []model.Venue{
			{ID: "1", Name: "A", Row: 0, Column: 0, SpanRows: 1, SpanColumns: 1},
			{ID: "2", Name: "B", Row: 0, Column: 0, SpanRows: 1, SpanColumns: 1},
		}
		assert.Error(t, repo.ReplaceAll(ctx, bad))

		venues, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, venues, 3)
	})

	t.Run("IDと起点セルで検索できる", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))

		v, err := repo.GetByID(ctx, "venue-b")
		require.NoError(t, err)
		assert.Equal(t, "流民", v.Name)

		v, err = repo.FindByOrigin(ctx, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, "venue-c", v.ID)

		_, err = repo.FindByOrigin(ctx, 0, 1)
		assert.True(t, errors.Is(err, model.ErrVenueNotFound), "結合セルの2マス目は起点ではない")

		_, err = repo.GetByID(ctx, "unknown")
		assert.True(t, errors.Is(err, model.ErrVenueNotFound))
	})

	t.Run("結合セルの2マス目もFindCoveringで見つかる", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))

		v, err := repo.FindCovering(ctx, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, "venue-a", v.ID)

		v, err = repo.FindCovering(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, "venue-b", v.ID)

		v, err = repo.FindCovering(ctx, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, "venue-c", v.ID)

		_, err = repo.FindCovering(ctx, 1, 1)
		assert.True(t, errors.Is(err, model.ErrVenueNotFound))
	})

	t.Run("訪問済みとメモの更新が取得に反映される", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))

		updated, err := repo.Update(ctx, "venue-a", model.SetVisited(true))
		require.NoError(t, err)
		assert.True(t, updated.Visited)

		_, err = repo.Update(ctx, "venue-a", model.SetNotes("ハイボールが美味しい"))
		require.NoError(t, err)

		v, err := repo.GetByID(ctx, "venue-a")
		require.NoError(t, err)
		assert.True(t, v.Visited)
		assert.Equal(t, "ハイボールが美味しい", v.GetNotes())

		_, err = repo.Update(ctx, "venue-a", model.SetNotes(""))
		require.NoError(t, err)
		v, err = repo.GetByID(ctx, "venue-a")
		require.NoError(t, err)
		assert.Nil(t, v.Notes)
		assert.True(t, v.Visited)
	})

	t.Run("位置やサイズはミューテーターで変更されない", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))

		_, err := repo.Update(ctx, "venue-a", func(v *model.Venue) error {
			v.Row = 5
			v.SpanColumns = 9
			v.Name = "新しい名前"
			return nil
		})
		require.NoError(t, err)

		v, err := repo.FindByOrigin(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, "新しい名前", v.Name)
		assert.Equal(t, 2, v.SpanColumns)
	})

	t.Run("ミューテーターのエラーは保存されない", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))

		_, err := repo.Update(ctx, "venue-a", func(v *model.Venue) error {
			v.Visited = true
			return errors.New("rejected")
		})
		assert.Error(t, err)

		v, err := repo.GetByID(ctx, "venue-a")
		require.NoError(t, err)
		assert.False(t, v.Visited)
	})

	t.Run("存在しないIDの更新はNotFound", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))

		_, err := repo.Update(ctx, "unknown", model.SetVisited(true))
		assert.True(t, errors.Is(err, model.ErrVenueNotFound))
	})

	t.Run("重複・欠落IDを修復し2回目は0件", func(t *testing.T) {
		repo := newRepo(t)
		venues := sampleVenues()
		venues[1].ID = "venue-a"
		venues[2].ID = ""
		require.NoError(t, repo.ReplaceAll(ctx, venues))

		repaired, err := repo.ValidateIntegrity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, repaired)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, v := range all {
			assert.NotEmpty(t, v.ID)
			assert.False(t, seen[v.ID], "IDが重複している: %s", v.ID)
			seen[v.ID] = true
		}
		origin, err := repo.FindByOrigin(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, "venue-a", origin.ID, "先に出現したレコードがIDを保持する")

		repaired, err = repo.ValidateIntegrity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, repaired)
	})

	t.Run("件数と訪問済み件数を集計", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))
		_, err := repo.Update(ctx, "venue-c", model.SetVisited(true))
		require.NoError(t, err)

		stats, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 1, stats.Visited)
	})

	t.Run("空のセットでReplaceAllできる", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleVenues()))
		require.NoError(t, repo.ReplaceAll(ctx, nil))

		stats, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Total)
	})
}

// runReplaceAllAtomicity 並行する読み手が旧セットか新セットのどちらかしか見ないことを確認
func runReplaceAllAtomicity(t *testing.T, repo repository.VenuesRepository) {
	ctx := context.Background()
	oldSet, newSet := sampleVenues(), secondImport()
	require.NoError(t, repo.ReplaceAll(ctx, oldSet))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	var mu sync.Mutex
	var observed []int

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				venues, err := repo.GetAll(ctx)
				if err != nil {
					continue
				}
				mu.Lock()
				observed = append(observed, len(venues))
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < 20; i++ {
		set := newSet
		if i%2 == 1 {
			set = oldSet
		}
		require.NoError(t, repo.ReplaceAll(ctx, set))
	}
	close(stop)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for _, n := range observed {
		assert.True(t, n == len(oldSet) || n == len(newSet), "中途半端な件数を観測: %d", n)
	}
}
