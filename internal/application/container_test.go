package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenGai-App/internal/config"
	"GoldenGai-App/internal/domain/model"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Port:            "0",
		StoreDriver:     store,
		SQLitePath:      filepath.Join(dir, "venues.db"),
		ImageDriver:     config.ImageCacheFS,
		ImageDir:        filepath.Join(dir, "photos"),
		DefaultLanguage: model.LanguageJapanese,
	}
}

func TestNewContainer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	for _, store := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(store+"ストアで組み立てられる", func(t *testing.T) {
			c, err := NewContainer(ctx, testConfig(t, store))
			require.NoError(t, err)
			defer func() { assert.NoError(t, c.Close()) }()

			result, err := c.Import.ImportGrid(ctx, strings.NewReader(`{"metadata":{"title":"Golden Gai","date":"2024-05-01"},"map":[["翁","翁"],["Bar A",""]]}`))
			require.NoError(t, err)
			assert.Equal(t, 2, result.VenueCount)

			w := httptest.NewRecorder()
			c.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/venues", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "翁")
		})
	}

	t.Run("不明なドライバーはエラー", func(t *testing.T) {
		_, err := NewContainer(ctx, testConfig(t, "mongodb"))
		assert.Error(t, err)
	})

	t.Run("Closeは二回呼んでも安全", func(t *testing.T) {
		c, err := NewContainer(ctx, testConfig(t, config.StoreSQLite))
		require.NoError(t, err)
		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})
}
