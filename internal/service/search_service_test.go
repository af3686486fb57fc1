package service

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/user/cinesearch/internal/model"
)

// seedStore 预置三部电影，覆盖多源评分、缺失评分、不同热度
func seedStore(t *testing.T) *fakeStore {
	t.Helper()
	store := newFakeStore()
	agg := NewAggregator(store)

	report := agg.Ingest([]model.Observation{
		// 电影1: 双源评分 8.0/6.0 → avg 7.0, 热度 100+50=150
		obsWith("Alpha", model.SourceDouban, f64(8.0), iptr(1000), 100),
		obsWith("Alpha", model.SourceIMDb, f64(6.0), iptr(500), 50),
		// 电影2: 单源高分, 热度 300
		obsWith("Beta", model.SourceIMDb, f64(9.5), iptr(2000), 300),
		// 电影3: 有评分记录但分数缺失, 热度 999
		obsWith("Gamma Alpha", model.SourceRottenTomatoes, nil, nil, 999),
	})
	if report.Saved != 4 {
		t.Fatalf("预置数据入库失败: %+v", report)
	}
	return store
}

func TestSearchByTitleSubstring(t *testing.T) {
	svc := NewSearchService(seedStore(t))

	movies, err := svc.Search(SearchParams{Query: "alpha"})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("结果数 = %d, want 2（大小写不敏感子串匹配）", len(movies))
	}
	// 默认按热度排序: Gamma Alpha (999) > Alpha (150)
	if movies[0].Title != "Gamma Alpha" || movies[1].Title != "Alpha" {
		t.Errorf("排序结果 = [%s, %s]", movies[0].Title, movies[1].Title)
	}
}

func TestSearchFilterBySource(t *testing.T) {
	svc := NewSearchService(seedStore(t))

	movies, err := svc.Search(SearchParams{Source: model.SourceIMDb})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("结果数 = %d, want 2", len(movies))
	}
	for _, m := range movies {
		if !hasSource(m.Ratings, model.SourceIMDb) {
			t.Errorf("%s 不含 imdb 评分", m.Title)
		}
	}
}

func TestSearchFilterByMinScore(t *testing.T) {
	svc := NewSearchService(seedStore(t))

	movies, err := svc.Search(SearchParams{MinScore: f64(9.0)})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Beta" {
		t.Fatalf("结果 = %v, want 仅 Beta", titles(movies))
	}
}

func TestSearchSortByScore(t *testing.T) {
	svc := NewSearchService(seedStore(t))

	movies, err := svc.Search(SearchParams{SortBy: model.SortByScore})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	// Beta 9.5 > Alpha 7.0 > Gamma Alpha 0.0（无有效评分按 0 排名）
	want := []string{"Beta", "Alpha", "Gamma Alpha"}
	got := titles(movies)
	for n, w := range want {
		if got[n] != w {
			t.Fatalf("排序结果 = %v, want %v", got, want)
		}
	}
}

func TestSearchSortTiebreakByID(t *testing.T) {
	store := newFakeStore()
	agg := NewAggregator(store)
	agg.Ingest([]model.Observation{
		obsWith("Tie A", model.SourceDouban, f64(7.0), nil, 500),
		obsWith("Tie B", model.SourceDouban, f64(7.0), nil, 500),
	})
	svc := NewSearchService(store)

	movies, err := svc.Search(SearchParams{})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	// 同热度按入库先后（ID 升序）保证结果确定
	if movies[0].Title != "Tie A" || movies[1].Title != "Tie B" {
		t.Errorf("平局排序 = %v, want [Tie A, Tie B]", titles(movies))
	}
}

func TestSearchLimitClamp(t *testing.T) {
	store := newFakeStore()
	agg := NewAggregator(store)
	var obs []model.Observation
	for n := 0; n < 120; n++ {
		obs = append(obs, obsWith(fmt.Sprintf("Movie %03d", n), model.SourceDouban, f64(5.0), nil, n))
	}
	agg.Ingest(obs)
	svc := NewSearchService(store)

	movies, err := svc.Search(SearchParams{Limit: 500})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(movies) != MaxSearchLimit {
		t.Errorf("结果数 = %d, want %d（越界 limit 收敛到上限）", len(movies), MaxSearchLimit)
	}

	movies, err = svc.Search(SearchParams{})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(movies) != DefaultSearchLimit {
		t.Errorf("结果数 = %d, want 默认 %d", len(movies), DefaultSearchLimit)
	}
}

func TestSearchInvalidSortBy(t *testing.T) {
	svc := NewSearchService(seedStore(t))

	_, err := svc.Search(SearchParams{SortBy: "alphabetical"})
	if !errors.Is(err, ErrInvalidSortBy) {
		t.Errorf("err = %v, want ErrInvalidSortBy", err)
	}
}

func TestTrendingClamp(t *testing.T) {
	store := newFakeStore()
	agg := NewAggregator(store)
	var obs []model.Observation
	for n := 0; n < 80; n++ {
		obs = append(obs, obsWith(fmt.Sprintf("Trend %03d", n), model.SourceDouban, nil, nil, n))
	}
	agg.Ingest(obs)
	svc := NewSearchService(store)

	movies, err := svc.Trending(500)
	if err != nil {
		t.Fatalf("Trending 失败: %v", err)
	}
	if len(movies) != MaxTrendLimit {
		t.Fatalf("结果数 = %d, want %d", len(movies), MaxTrendLimit)
	}
	// 热度最高的排最前
	if movies[0].Title != "Trend 079" {
		t.Errorf("榜首 = %s, want Trend 079", movies[0].Title)
	}
}

func TestGetMovieNotFound(t *testing.T) {
	svc := NewSearchService(seedStore(t))

	movie, err := svc.GetMovie(9999)
	if err != nil {
		t.Fatalf("GetMovie 失败: %v", err)
	}
	if movie != nil {
		t.Errorf("未入库 ID 应返回 nil, 得到 %+v", movie)
	}
}

func TestSourcesAndStats(t *testing.T) {
	svc := NewSearchService(seedStore(t))

	sources, err := svc.Sources()
	if err != nil {
		t.Fatalf("Sources 失败: %v", err)
	}
	want := []string{model.SourceDouban, model.SourceIMDb, model.SourceRottenTomatoes}
	if len(sources) != len(want) {
		t.Fatalf("sources = %v, want %v", sources, want)
	}
	for n, w := range want {
		if sources[n] != w {
			t.Fatalf("sources = %v, want %v", sources, want)
		}
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats 失败: %v", err)
	}
	if stats.TotalMovies != 3 || stats.TotalSources != 3 || stats.TotalRatings != 4 {
		t.Errorf("stats = %+v, want 3/3/4", stats)
	}
}

func TestTwoSourceMergeEndToEnd(t *testing.T) {
	store := newFakeStore()
	agg := NewAggregator(store)
	svc := NewSearchService(store)

	agg.Ingest([]model.Observation{
		obsWith("星际穿越", model.SourceDouban, f64(8.8), iptr(25000), 25000),
		obsWith("星际穿越", model.SourceIMDb, f64(7.8), iptr(2000), 2000),
	})

	movies, err := svc.Search(SearchParams{Query: "星际穿越"})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("结果数 = %d, want 1（同标题合并为一部电影）", len(movies))
	}

	m := movies[0]
	if len(m.Ratings) != 2 {
		t.Errorf("评分数 = %d, want 2", len(m.Ratings))
	}
	if math.Abs(m.AvgScore-8.3) > 1e-9 {
		t.Errorf("AvgScore = %v, want 8.3", m.AvgScore)
	}
	if m.TotalPopularity != 27000 {
		t.Errorf("TotalPopularity = %d, want 27000", m.TotalPopularity)
	}
}

func titles(movies []model.MovieWithRatings) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}
