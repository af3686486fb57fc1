package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/user/cinesearch/internal/model"
	"github.com/user/cinesearch/internal/utils"
)

// 查询条数上限
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	DefaultTrendLimit  = 20
	MaxTrendLimit      = 50
)

// ErrInvalidSortBy 不支持的排序模式
var ErrInvalidSortBy = errors.New("无效的排序模式")

// SearchParams 查询参数
type SearchParams struct {
	Query    string
	Source   string
	MinScore *float64
	SortBy   string
	Limit    int
}

// SearchService 查询与排名服务
// 过滤下推到存储层执行，排序和聚合在内存里完成
type SearchService struct {
	store MovieStore
}

// NewSearchService 创建查询服务
func NewSearchService(store MovieStore) *SearchService {
	return &SearchService{store: store}
}

// Search 按条件查询电影并排名
func (s *SearchService) Search(params SearchParams) ([]model.MovieWithRatings, error) {
	limit := clampLimit(params.Limit, DefaultSearchLimit, MaxSearchLimit)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = model.SortByPopularity
	}
	if !model.IsValidSortBy(sortBy) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortBy, sortBy)
	}

	movies, err := s.store.FilterMovies(model.MovieFilter{
		Query:    params.Query,
		Source:   params.Source,
		MinScore: params.MinScore,
	})
	if err != nil {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}

	sortMovies(movies, sortBy)

	if len(movies) > limit {
		movies = movies[:limit]
	}
	return movies, nil
}

// Trending 热门榜单（全库按热度排名）
func (s *SearchService) Trending(limit int) ([]model.MovieWithRatings, error) {
	limit = clampLimit(limit, DefaultTrendLimit, MaxTrendLimit)

	movies, err := s.store.FilterMovies(model.MovieFilter{})
	if err != nil {
		return nil, fmt.Errorf("查询热门电影失败: %w", err)
	}

	sortMovies(movies, model.SortByPopularity)

	if len(movies) > limit {
		movies = movies[:limit]
	}
	return movies, nil
}

// GetMovie 按 ID 查询电影详情，未找到返回 nil
func (s *SearchService) GetMovie(id int) (*model.MovieWithRatings, error) {
	return s.store.GetMovieByID(id)
}

// Sources 已入库的数据源列表（短缓存）
func (s *SearchService) Sources() ([]string, error) {
	if cached, found := utils.CacheGet("sources"); found {
		return cached.([]string), nil
	}

	sources, err := s.store.ListSources()
	if err != nil {
		return nil, fmt.Errorf("查询数据源失败: %w", err)
	}

	utils.CacheSet("sources", sources, 5*time.Minute)
	return sources, nil
}

// Stats 全库统计信息（短缓存）
func (s *SearchService) Stats() (*model.Stats, error) {
	if cached, found := utils.CacheGet("stats"); found {
		return cached.(*model.Stats), nil
	}

	movies, err := s.store.CountMovies()
	if err != nil {
		return nil, fmt.Errorf("统计电影数失败: %w", err)
	}
	sources, err := s.store.CountSources()
	if err != nil {
		return nil, fmt.Errorf("统计数据源数失败: %w", err)
	}
	ratings, err := s.store.CountRatings()
	if err != nil {
		return nil, fmt.Errorf("统计评分数失败: %w", err)
	}

	stats := &model.Stats{
		TotalMovies:  movies,
		TotalSources: sources,
		TotalRatings: ratings,
	}
	utils.CacheSet("stats", stats, 1*time.Minute)
	return stats, nil
}

// clampLimit 限制条数在 (0, max] 区间，越界回落
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// sortMovies 按指定维度降序稳定排名，同值按 ID 升序保证结果确定
func sortMovies(movies []model.MovieWithRatings, sortBy string) {
	sort.Slice(movies, func(i, j int) bool {
		a, b := sortKey(&movies[i], sortBy), sortKey(&movies[j], sortBy)
		if a != b {
			return a > b
		}
		return movies[i].ID < movies[j].ID
	})
}

// sortKey 取排序维度的数值
func sortKey(m *model.MovieWithRatings, sortBy string) float64 {
	switch sortBy {
	case model.SortByScore:
		return m.AvgScore
	case model.SortByVotes:
		return float64(m.TotalVotes)
	default:
		return float64(m.TotalPopularity)
	}
}
