package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenGai-App/internal/domain/event"
	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/metrics"
	repoimpl "GoldenGai-App/internal/repository"
	"GoldenGai-App/internal/usecase"
)

const testGrid = `{"metadata":{"title":"Golden Gai","date":"2024-05-01"},"map":[["翁","翁",""],["Bar A","","Bar B"]]}`

type testServer struct {
	router *gin.Engine
	venues repository.VenuesRepository
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	venues := repoimpl.NewMemoryVenuesRepository()
	images, err := repoimpl.NewFSImageRepository(t.TempDir())
	require.NoError(t, err)
	translator, err := helper.NewNameTranslator()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	bus := event.NewBus()

	importUC := usecase.NewImportUseCase(venues, bus, m)
	venueUC := usecase.NewVenueUseCase(venues, images, translator, bus, m)
	photoUC := usecase.NewPhotoUseCase(venues, images, bus, m)
	remoteUC := usecase.NewRemoteUpdateUseCase(venues, translator, bus, m)

	_, err = importUC.ImportGrid(context.Background(), strings.NewReader(testGrid))
	require.NoError(t, err)

	router := NewRouter(Handlers{
		Venue:  NewVenueHandler(venueUC, photoUC, model.NewSettings(model.LanguageJapanese, map[string]string{"MapView": "alley_night"})),
		Import: NewImportHandler(importUC, remoteUC, venueUC),
		Photo:  NewPhotoHandler(photoUC),
	}, reg)
	return &testServer{router: router, venues: venues}
}

func (s *testServer) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if len(body) > 0 && body[0] == '{' {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) originID(t *testing.T, row, column int) string {
	t.Helper()
	v, err := s.venues.FindByOrigin(context.Background(), row, column)
	require.NoError(t, err)
	return v.ID
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthAndMetrics(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])

	w = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goldengai_imports_total")
}

func TestVenueEndpoints(t *testing.T) {
	s := setupTestServer(t)
	okinaID := s.originID(t, 0, 0)

	t.Run("一覧を取得", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/venues", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(3), body["count"])
	})

	t.Run("英語表示", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/venues/"+okinaID+"?lang=en", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Okina", decodeBody(t, w)["display_name"])
	})

	t.Run("visitedの値が不正なら400", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/venues?visited=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("訪問済みとメモを更新", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/venues/"+okinaID, []byte(`{"visited": true, "notes": "良い店"}`))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["visited"])
		assert.Equal(t, "良い店", body["notes"])

		w = s.do(t, http.MethodGet, "/api/venues?visited=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decodeBody(t, w)["count"])
	})

	t.Run("存在しないバーは404", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/venues/unknown", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "venue_not_found", decodeBody(t, w)["error"])

		w = s.do(t, http.MethodPatch, "/api/venues/unknown", []byte(`{"visited": true}`))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("結合セルの検索", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/map/cells/0/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["is_origin"])
		venue := body["venue"].(map[string]interface{})
		assert.Equal(t, okinaID, venue["id"])

		w = s.do(t, http.MethodGet, "/api/map/cells/1/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodGet, "/api/map/cells/x/1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ハイライト", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/venues/"+okinaID+"/highlight", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), decodeBody(t, w)["row"])
	})

	t.Run("統計", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(3), body["total"])
		assert.Equal(t, float64(1), body["visited"])
		assert.NotNil(t, body["photos"])
	})
}

func TestSettingsEndpoint(t *testing.T) {
	s := setupTestServer(t)

	t.Run("既定の言語と背景画像", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/settings", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "ja", body["language"])
		assert.Equal(t, false, body["show_english"])

		backgrounds, ok := body["backgrounds"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "alley_night", backgrounds["MapView"])
		assert.Equal(t, "BarListBackground", backgrounds["BarListView"])
		assert.Equal(t, "ContentBackground", backgrounds["ContentView"])
	})

	t.Run("langで英語に切り替える", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/settings?lang=en", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "en", body["language"])
		assert.Equal(t, true, body["show_english"])
	})
}

func TestImportEndpoints(t *testing.T) {
	s := setupTestServer(t)

	t.Run("インポート", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/import", []byte(`[["A","A"],["B",""]]`))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(2), body["venue_count"])
		assert.Equal(t, float64(1), body["merged_count"])
	})

	t.Run("矩形でないグリッドは400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/import", []byte(`[["A","A"],["B"]]`))
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "malformed_grid", body["error"])
		assert.Equal(t, float64(1), body["row"])
	})

	t.Run("mapキーのないデータは400で既存データが残る", func(t *testing.T) {
		for _, payload := range []string{`{}`, `{"metadata":{"title":"x","date":"y"},"mapp":[["A"]]}`} {
			w := s.do(t, http.MethodPost, "/api/import", []byte(payload))
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid_grid", decodeBody(t, w)["error"])
		}

		stats, err := s.venues.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Total)
	})

	t.Run("上限を超えるボディは413", func(t *testing.T) {
		payload := append([]byte(`[["`), bytes.Repeat([]byte("A"), maxImportBytes)...)
		payload = append(payload, []byte(`"]]`)...)
		w := s.do(t, http.MethodPost, "/api/import", payload)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "payload_too_large", decodeBody(t, w)["error"])

		stats, err := s.venues.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Total)
	})

	t.Run("リモート更新", func(t *testing.T) {
		payload := `{"version":"2","lastUpdated":"2024-06-01","barUpdates":[{"oldName":"B","row":1,"column":0,"isClosed":true}],"translations":{"A":"Alpha"}}`
		w := s.do(t, http.MethodPost, "/api/updates", []byte(payload))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["applied"])
		assert.Equal(t, float64(1), body["translations"])

		v, err := s.venues.FindByOrigin(context.Background(), 1, 0)
		require.NoError(t, err)
		assert.Equal(t, "[CLOSED] B", v.Name)
	})

	t.Run("不正なJSONは400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/updates", []byte(`{broken`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("整合性チェック", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/integrity", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), decodeBody(t, w)["repaired"])
	})
}

func TestPhotoEndpoints(t *testing.T) {
	s := setupTestServer(t)
	id := s.originID(t, 1, 2)

	t.Run("写真がなければ404", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/venues/"+id+"/photo", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("保存して取得", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/venues/"+id+"/photo", []byte("jpeg-data"))
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, "/api/venues/"+id+"/photo", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, "jpeg-data", w.Body.String())

		w = s.do(t, http.MethodGet, "/api/venues/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["has_photo"])
	})

	t.Run("存在しないバーや空データは保存できない", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/venues/unknown/photo", []byte("jpeg"))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodPut, "/api/venues/"+id+"/photo", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("孤立写真の削除", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/photos/cleanup", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), decodeBody(t, w)["removed"])
	})

	t.Run("削除", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/venues/"+id+"/photo", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodDelete, "/api/venues/"+id+"/photo", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
