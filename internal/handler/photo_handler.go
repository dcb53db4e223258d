package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/usecase"
)

// maxPhotoBytes アップロードできる写真の上限
const maxPhotoBytes = 20 << 20

// PhotoHandler バーの写真のHTTPハンドラー
type PhotoHandler struct {
	photoUseCase usecase.PhotoUseCase
}

// NewPhotoHandler PhotoHandlerの新しいインスタンスを作成
func NewPhotoHandler(photoUseCase usecase.PhotoUseCase) *PhotoHandler {
	return &PhotoHandler{
		photoUseCase: photoUseCase,
	}
}

// PutPhoto PUT /api/venues/:id/photo - 写真の保存（ボディは画像バイト列）
func (h *PhotoHandler) PutPhoto(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPhotoBytes+1))
	if err != nil {
		respondBadRequest(c, "Failed to read body: "+err.Error())
		return
	}
	if len(data) > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "photo_too_large",
			"message": "photo must be 20MB or smaller",
		})
		return
	}

	if err := h.photoUseCase.SavePhoto(c.Request.Context(), c.Param("id"), data); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPhoto GET /api/venues/:id/photo - 写真の取得
func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	data, ok := h.photoUseCase.LoadPhoto(c.Request.Context(), c.Param("id"))
	if !ok {
		respondError(c, model.ErrImageNotFound)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// DeletePhoto DELETE /api/venues/:id/photo - 写真の削除
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	if err := h.photoUseCase.DeletePhoto(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PostCleanup POST /api/photos/cleanup - 存在しないバーの写真を削除
func (h *PhotoHandler) PostCleanup(c *gin.Context) {
	removed, err := h.photoUseCase.CleanupOrphans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
