package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinesearch/internal/utils"
)

// SiteHandler 站点基础接口
type SiteHandler struct {
	siteName string
}

// NewSiteHandler 创建站点处理器
func NewSiteHandler(siteName string) *SiteHandler {
	return &SiteHandler{siteName: siteName}
}

// Index 接口总览
// GET /
func (h *SiteHandler) Index(c *gin.Context) {
	utils.SuccessFields(c, gin.H{
		"name": h.siteName,
		"endpoints": gin.H{
			"search":   "/api/search?q=<关键词>&source=<数据源>&min_score=<最低分>&sort_by=<排序>&limit=<条数>",
			"movie":    "/api/movie/<id>",
			"trending": "/api/trending?limit=<条数>",
			"sources":  "/api/sources",
			"stats":    "/api/stats",
			"crawl":    "POST /api/crawl",
		},
	})
}

// Health 健康检查
// GET /health
func (h *SiteHandler) Health(c *gin.Context) {
	utils.SuccessFields(c, gin.H{"status": "ok"})
}
