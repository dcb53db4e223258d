package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers ルーターに登録するハンドラー一式
type Handlers struct {
	Venue  *VenueHandler
	Import *ImportHandler
	Photo  *PhotoHandler
}

// NewRouter APIルーティングを設定したginエンジンを返す（gathererがnilなら/metricsなし）
func NewRouter(h Handlers, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "GoldenGai-App"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		venues := api.Group("/venues")
		venues.GET("", h.Venue.ListVenues)
		venues.GET("/:id", h.Venue.GetVenue)
		venues.PATCH("/:id", h.Venue.PatchVenue)
		venues.POST("/:id/highlight", h.Venue.HighlightVenue)
		venues.PUT("/:id/photo", h.Photo.PutPhoto)
		venues.GET("/:id/photo", h.Photo.GetPhoto)
		venues.DELETE("/:id/photo", h.Photo.DeletePhoto)

		api.GET("/map/cells/:row/:column", h.Venue.GetCell)
		api.GET("/stats", h.Venue.GetStats)
		api.GET("/settings", h.Venue.GetSettings)
		api.POST("/photos/cleanup", h.Photo.PostCleanup)

		api.POST("/import", h.Import.PostImport)
		api.POST("/updates", h.Import.PostUpdates)
		api.POST("/integrity", h.Import.PostIntegrity)
	}

	return r
}
