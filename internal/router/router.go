package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/user/cinesearch/internal/handler"
	"github.com/user/cinesearch/internal/middleware"
	"github.com/user/cinesearch/internal/utils"
)

// RegisterRoutes 注册全部路由
func RegisterRoutes(r *gin.Engine, site *handler.SiteHandler, api *handler.APIHandler) {
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/", site.Index)
	r.GET("/health", site.Health)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/search", api.Search)
		apiGroup.GET("/movie/:id", api.Movie)
		apiGroup.GET("/trending", api.Trending)
		apiGroup.GET("/sources", api.Sources)
		apiGroup.GET("/stats", api.Stats)
		apiGroup.POST("/crawl", api.Crawl)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "")
	})
}
