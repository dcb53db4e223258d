package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/usecase"
)

// VenueHandler バーの一覧・詳細・更新・マップ検索のHTTPハンドラー
type VenueHandler struct {
	venueUseCase usecase.VenueUseCase
	photoUseCase usecase.PhotoUseCase
	settings     model.Settings
}

// NewVenueHandler VenueHandlerの新しいインスタンスを作成
func NewVenueHandler(venueUseCase usecase.VenueUseCase, photoUseCase usecase.PhotoUseCase, settings model.Settings) *VenueHandler {
	return &VenueHandler{
		venueUseCase: venueUseCase,
		photoUseCase: photoUseCase,
		settings:     settings,
	}
}

// requestSettings ?lang= が指定されていればその言語に切り替えた設定
func (h *VenueHandler) requestSettings(c *gin.Context) model.Settings {
	if lang := c.Query("lang"); lang != "" {
		return h.settings.WithLanguage(model.ParseLanguage(lang))
	}
	return h.settings
}

// ListVenues GET /api/venues - バー一覧（?visited=true で訪問済みのみ）
func (h *VenueHandler) ListVenues(c *gin.Context) {
	visitedOnly := false
	if v := c.Query("visited"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondBadRequest(c, "visited must be true or false")
			return
		}
		visitedOnly = parsed
	}

	views, err := h.venueUseCase.ListVenues(c.Request.Context(), h.requestSettings(c), visitedOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venues": views,
		"count":  len(views),
	})
}

// GetVenue GET /api/venues/:id - バー詳細
func (h *VenueHandler) GetVenue(c *gin.Context) {
	view, err := h.venueUseCase.GetVenue(c.Request.Context(), h.requestSettings(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PatchVenue PATCH /api/venues/:id - 訪問済み・メモの更新
func (h *VenueHandler) PatchVenue(c *gin.Context) {
	var patch usecase.VenuePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "Invalid JSON format: "+err.Error())
		return
	}

	venue, err := h.venueUseCase.PatchVenue(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venue)
}

// HighlightVenue POST /api/venues/:id/highlight - マップ上で強調表示
func (h *VenueHandler) HighlightVenue(c *gin.Context) {
	venue, err := h.venueUseCase.Highlight(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     venue.ID,
		"row":    venue.Row,
		"column": venue.Column,
	})
}

// GetCell GET /api/map/cells/:row/:column - 指定セルを占有するバー
func (h *VenueHandler) GetCell(c *gin.Context) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil || row < 0 {
		respondBadRequest(c, "row must be a non-negative integer")
		return
	}
	column, err := strconv.Atoi(c.Param("column"))
	if err != nil || column < 0 {
		respondBadRequest(c, "column must be a non-negative integer")
		return
	}

	view, err := h.venueUseCase.FindCovering(c.Request.Context(), h.requestSettings(c), row, column)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"venue":     view,
		"is_origin": view.IsOrigin(row, column),
	})
}

// GetStats GET /api/stats - 訪問数と写真キャッシュの統計
func (h *VenueHandler) GetStats(c *gin.Context) {
	stats, err := h.venueUseCase.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"total":   stats.Total,
		"visited": stats.Visited,
	}
	if h.photoUseCase != nil {
		if photos, err := h.photoUseCase.Stats(c.Request.Context()); err == nil {
			response["photos"] = photos
		}
	}
	c.JSON(http.StatusOK, response)
}

// GetSettings GET /api/settings - 表示言語と各ビューの背景画像
func (h *VenueHandler) GetSettings(c *gin.Context) {
	settings := h.requestSettings(c)
	c.JSON(http.StatusOK, gin.H{
		"language":     settings.Language,
		"show_english": settings.ShowEnglish(),
		"backgrounds":  settings.Backgrounds(),
	})
}
