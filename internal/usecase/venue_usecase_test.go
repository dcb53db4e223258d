package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenGai-App/internal/domain/event"
	"GoldenGai-App/internal/domain/model"
)

func setupVenueUseCase(t *testing.T) (VenueUseCase, *testDeps) {
	t.Helper()
	deps := newTestDeps(t)
	_, err := NewImportUseCase(deps.venues, deps.bus, deps.metrics).ImportGrid(context.Background(), strings.NewReader(sampleGridJSON))
	require.NoError(t, err)
	return NewVenueUseCase(deps.venues, deps.images, deps.translator, deps.bus, deps.metrics), deps
}

func TestVenueUseCase_ListVenues(t *testing.T) {
	ctx := context.Background()
	uc, deps := setupVenueUseCase(t)
	ja := model.NewSettings(model.LanguageJapanese, nil)
	en := ja.WithLanguage(model.LanguageEnglish)

	t.Run("日本語表示では元の店名", func(t *testing.T) {
		views, err := uc.ListVenues(ctx, ja, false)
		require.NoError(t, err)
		require.Len(t, views, 4)
		assert.Equal(t, "翁", views[0].DisplayName)
	})

	t.Run("英語表示では翻訳名、対応がなければ元の店名", func(t *testing.T) {
		views, err := uc.ListVenues(ctx, en, false)
		require.NoError(t, err)
		assert.Equal(t, "Okina", views[0].DisplayName)
		assert.Equal(t, "翁", views[0].Name)
		assert.Equal(t, "Bar A", views[2].DisplayName)
	})

	t.Run("訪問済みのみ", func(t *testing.T) {
		_, err := uc.SetVisited(ctx, mustOrigin(t, deps, 0, 3).ID, true)
		require.NoError(t, err)

		views, err := uc.ListVenues(ctx, ja, true)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "流民", views[0].Name)
	})

	t.Run("写真の有無を表示", func(t *testing.T) {
		okina := mustOrigin(t, deps, 0, 0)
		require.NoError(t, deps.images.Save(ctx, okina.ID, []byte("jpeg")))

		views, err := uc.ListVenues(ctx, ja, false)
		require.NoError(t, err)
		assert.True(t, views[0].HasPhoto)
		assert.False(t, views[1].HasPhoto)

		view, err := uc.GetVenue(ctx, ja, okina.ID)
		require.NoError(t, err)
		assert.True(t, view.HasPhoto)
	})
}

func mustOrigin(t *testing.T, deps *testDeps, row, column int) *model.Venue {
	t.Helper()
	v, err := deps.venues.FindByOrigin(context.Background(), row, column)
	require.NoError(t, err)
	return v
}

func TestVenueUseCase_Updates(t *testing.T) {
	ctx := context.Background()
	uc, deps := setupVenueUseCase(t)
	okina := mustOrigin(t, deps, 0, 0)

	t.Run("訪問済みを設定するとイベントが発行される", func(t *testing.T) {
		v, err := uc.SetVisited(ctx, okina.ID, true)
		require.NoError(t, err)
		assert.True(t, v.Visited)

		updated := deps.recorder.ofTopic(event.TopicVenueUpdated)
		require.NotEmpty(t, updated)
		assert.Equal(t, okina.ID, updated[len(updated)-1].(event.VenueUpdated).VenueID)
	})

	t.Run("メモの更新と削除", func(t *testing.T) {
		v, err := uc.UpdateNotes(ctx, okina.ID, "マスターが優しい")
		require.NoError(t, err)
		assert.Equal(t, "マスターが優しい", v.GetNotes())

		v, err = uc.UpdateNotes(ctx, okina.ID, "")
		require.NoError(t, err)
		assert.False(t, v.HasNotes())
	})

	t.Run("部分更新", func(t *testing.T) {
		visited := false
		notes := "また来たい"
		v, err := uc.PatchVenue(ctx, okina.ID, VenuePatch{Visited: &visited, Notes: &notes})
		require.NoError(t, err)
		assert.False(t, v.Visited)
		assert.Equal(t, "また来たい", v.GetNotes())

		v, err = uc.PatchVenue(ctx, okina.ID, VenuePatch{})
		require.NoError(t, err)
		assert.Equal(t, "また来たい", v.GetNotes())
	})

	t.Run("存在しないバーはNotFound", func(t *testing.T) {
		_, err := uc.SetVisited(ctx, "unknown", true)
		assert.True(t, errors.Is(err, model.ErrVenueNotFound))
	})
}

func TestVenueUseCase_Lookup(t *testing.T) {
	ctx := context.Background()
	uc, deps := setupVenueUseCase(t)
	settings := model.NewSettings(model.LanguageEnglish, nil)

	t.Run("結合セルの2マス目から店を探せる", func(t *testing.T) {
		view, err := uc.FindCovering(ctx, settings, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, "Okina", view.DisplayName)

		_, err = uc.FindByOrigin(ctx, settings, 0, 1)
		assert.True(t, errors.Is(err, model.ErrVenueNotFound))
	})

	t.Run("空きセルはNotFound", func(t *testing.T) {
		_, err := uc.FindCovering(ctx, settings, 1, 0)
		assert.True(t, errors.Is(err, model.ErrVenueNotFound))
	})

	t.Run("ハイライトはイベントで通知される", func(t *testing.T) {
		ryumin := mustOrigin(t, deps, 0, 3)
		_, err := uc.Highlight(ctx, ryumin.ID)
		require.NoError(t, err)

		highlights := deps.recorder.ofTopic(event.TopicHighlightVenue)
		require.Len(t, highlights, 1)
		h := highlights[0].(event.HighlightVenue)
		assert.Equal(t, ryumin.ID, h.VenueID)
		assert.Equal(t, 0, h.Row)
		assert.Equal(t, 3, h.Column)
	})

	t.Run("統計と整合性チェック", func(t *testing.T) {
		stats, err := uc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)

		repaired, err := uc.ValidateIntegrity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, repaired)
	})
}
