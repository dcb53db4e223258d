package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"GoldenGai-App/internal/domain/model"
)

// respondError ドメインエラーをHTTPステータスに対応付けてレスポンスする
func respondError(c *gin.Context, err error) {
	var malformed *model.MalformedGridError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, model.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "venue_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "photo_not_found",
			"message": err.Error(),
		})
	case errors.As(err, &malformed):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "malformed_grid",
			"message": err.Error(),
			"row":     malformed.Row,
		})
	case errors.Is(err, model.ErrInvalidGrid):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_grid",
			"message": err.Error(),
		})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "payload_too_large",
			"message": fmt.Sprintf("request body must be %d bytes or smaller", tooLarge.Limit),
		})
	case errors.Is(err, model.ErrInvalidImageID), errors.Is(err, model.ErrEmptyImage):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
	})
}
