package handler

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/cinesearch/internal/model"
	"github.com/user/cinesearch/internal/service"
	"github.com/user/cinesearch/internal/utils"
)

// APIHandler 聚合查询与采集接口
type APIHandler struct {
	search     *service.SearchService
	aggregator *service.Aggregator
	registry   *service.Registry
}

// NewAPIHandler 创建 API 处理器
func NewAPIHandler(search *service.SearchService, aggregator *service.Aggregator, registry *service.Registry) *APIHandler {
	return &APIHandler{
		search:     search,
		aggregator: aggregator,
		registry:   registry,
	}
}

// Search 搜索电影
// GET /api/search?q=&source=&min_score=&sort_by=&limit=
func (h *APIHandler) Search(c *gin.Context) {
	// q 和 query 都认
	query := c.Query("q")
	if query == "" {
		query = c.Query("query")
	}

	params := service.SearchParams{
		Query:  query,
		Source: c.Query("source"),
		SortBy: c.Query("sort_by"),
	}

	if params.Source != "" && !model.IsKnownSource(params.Source) {
		utils.BadRequest(c, fmt.Sprintf("未知的数据源: %s", params.Source))
		return
	}

	if raw := c.Query("min_score"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.BadRequest(c, "min_score 必须是数字")
			return
		}
		params.MinScore = &minScore
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "limit 必须是整数")
			return
		}
		params.Limit = limit
	}

	movies, err := h.search.Search(params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSortBy) {
			utils.BadRequest(c, err.Error())
			return
		}
		log.Printf("[接口] 搜索失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	utils.SuccessList(c, len(movies), movies)
}

// Movie 电影详情
// GET /api/movie/:id
func (h *APIHandler) Movie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	movie, err := h.search.GetMovie(id)
	if err != nil {
		log.Printf("[接口] 查询电影详情失败 (ID: %d): %v", id, err)
		utils.InternalServerError(c, "")
		return
	}
	if movie == nil {
		utils.NotFound(c, "Movie not found")
		return
	}

	utils.Success(c, movie)
}

// Trending 热门榜单
// GET /api/trending?limit=
func (h *APIHandler) Trending(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "limit 必须是整数")
			return
		}
		limit = n
	}

	movies, err := h.search.Trending(limit)
	if err != nil {
		log.Printf("[接口] 查询热门榜单失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	utils.SuccessList(c, len(movies), movies)
}

// Sources 已入库的数据源列表
// GET /api/sources
func (h *APIHandler) Sources(c *gin.Context) {
	sources, err := h.search.Sources()
	if err != nil {
		log.Printf("[接口] 查询数据源失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	utils.SuccessFields(c, gin.H{"sources": sources})
}

// Stats 全库统计信息
// GET /api/stats
func (h *APIHandler) Stats(c *gin.Context) {
	stats, err := h.search.Stats()
	if err != nil {
		log.Printf("[接口] 查询统计信息失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	utils.SuccessFields(c, gin.H{"stats": stats})
}

// crawlRequest 采集请求体
type crawlRequest struct {
	Source string `json:"source" binding:"omitempty,oneof=douban rotten_tomatoes imdb all"`
	Query  string `json:"query"`
	Limit  int    `json:"limit" binding:"omitempty,min=1,max=50"`
}

// Crawl 触发一次采集入库
// POST /api/crawl {"source": "douban", "query": "inception", "limit": 20}
// source 省略或为 all 时并发采集全部源
func (h *APIHandler) Crawl(c *gin.Context) {
	var req crawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, formatBindError(err))
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	var report model.IngestReport
	if req.Source == "" || req.Source == "all" {
		report = h.aggregator.CrawlAll(c.Request.Context(), h.registry, req.Query, req.Limit)
	} else {
		crawler, err := h.registry.Get(req.Source)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		report = h.aggregator.CrawlAndIngest(c.Request.Context(), crawler, req.Query, req.Limit)
	}

	// 缓存的统计信息已过时，直接失效
	utils.CacheDelete("stats")
	utils.CacheDelete("sources")

	utils.SuccessFields(c, gin.H{
		"saved": report.Saved,
		"total": report.Total,
	})
}

// formatBindError 把参数校验错误拼成可读提示
func formatBindError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			msgs = append(msgs, fmt.Sprintf("字段 %s 校验失败 (%s)", ve.Field(), ve.Tag()))
		}
		return strings.Join(msgs, "; ")
	}
	return "请求体格式错误"
}
