package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/usecase"
)

// maxImportBytes インポートできるグリッドJSONの上限
const maxImportBytes = 5 << 20

// ImportHandler インポート・リモート更新・整合性チェックのHTTPハンドラー
type ImportHandler struct {
	importUseCase usecase.ImportUseCase
	remoteUseCase usecase.RemoteUpdateUseCase
	venueUseCase  usecase.VenueUseCase
}

// NewImportHandler ImportHandlerの新しいインスタンスを作成
func NewImportHandler(importUseCase usecase.ImportUseCase, remoteUseCase usecase.RemoteUpdateUseCase, venueUseCase usecase.VenueUseCase) *ImportHandler {
	return &ImportHandler{
		importUseCase: importUseCase,
		remoteUseCase: remoteUseCase,
		venueUseCase:  venueUseCase,
	}
}

// PostImport POST /api/import - リクエストボディのグリッドJSONで全バーを置き換える
func (h *ImportHandler) PostImport(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	result, err := h.importUseCase.ImportGrid(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostUpdates POST /api/updates - リモート更新パッチの適用
func (h *ImportHandler) PostUpdates(c *gin.Context) {
	var data model.RemoteBarData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "Invalid JSON format: "+err.Error())
		return
	}

	result, err := h.remoteUseCase.ApplyUpdates(c.Request.Context(), &data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostIntegrity POST /api/integrity - ID整合性チェックと修復
func (h *ImportHandler) PostIntegrity(c *gin.Context) {
	repaired, err := h.venueUseCase.ValidateIntegrity(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repaired": repaired})
}
