package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/user/cinesearch/internal/model"
	"golang.org/x/sync/singleflight"
)

// MovieStore 存储协作方接口
// 由 repository.Repositories 实现，测试时可替换为内存实现
type MovieStore interface {
	UpsertMovie(m *model.Movie) (int, error)
	UpsertRating(r *model.Rating) error
	GetMovieByID(id int) (*model.MovieWithRatings, error)
	FilterMovies(f model.MovieFilter) ([]model.MovieWithRatings, error)
	ListSources() ([]string, error)
	CountMovies() (int64, error)
	CountSources() (int64, error)
	CountRatings() (int64, error)
}

// Aggregator 合并引擎
// 把多源观测记录按标题精确匹配归并成电影实体，
// 评分记录按 (movie, source) 整体覆盖
type Aggregator struct {
	store MovieStore
	mu    sync.Mutex // 串行化写入，避免同一新标题并发建档的丢失更新
	sf    singleflight.Group
}

// NewAggregator 创建合并引擎
func NewAggregator(store MovieStore) *Aggregator {
	return &Aggregator{store: store}
}

// Ingest 将一批观测记录归并入库
// 逐条处理，单条失败只记日志并跳过，绝不中断整批
// saved 只统计电影与评分两步都成功的记录
func (a *Aggregator) Ingest(observations []model.Observation) model.IngestReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := model.IngestReport{Total: len(observations)}

	for _, obs := range observations {
		if err := a.ingestOne(obs); err != nil {
			log.Printf("[合并] 保存观测记录失败 (标题: %q, 源: %s): %v", obs.Title, obs.Source, err)
			continue
		}
		report.Saved++
	}

	return report
}

// ingestOne 归并单条观测记录
// 电影字段无条件后写覆盖先写（不做逐字段溯源合并，这是刻意的取舍：
// 保持每条观测 O(1) 处理，代价是稀疏源可能覆盖掉更丰富的旧简介）
func (a *Aggregator) ingestOne(obs model.Observation) error {
	if obs.Title == "" {
		return fmt.Errorf("观测记录缺少标题")
	}
	if !model.IsKnownSource(obs.Source) {
		return fmt.Errorf("未知的数据源: %s", obs.Source)
	}

	movieID, err := a.store.UpsertMovie(&model.Movie{
		Title:       obs.Title,
		Year:        obs.Year,
		Description: obs.Description,
		PosterURL:   obs.PosterURL,
	})
	if err != nil {
		return fmt.Errorf("保存电影失败: %w", err)
	}

	if err := a.store.UpsertRating(&model.Rating{
		MovieID:    movieID,
		Source:     obs.Source,
		Score:      obs.Score,
		Votes:      obs.Votes,
		URL:        obs.URL,
		Popularity: obs.Popularity,
	}); err != nil {
		return fmt.Errorf("保存评分失败: %w", err)
	}

	return nil
}

// CrawlAndIngest 对单个源执行一次 搜索 + 归并入库
// 相同 (源, 关键词) 的并发调用通过 singleflight 合并为一次抓取
func (a *Aggregator) CrawlAndIngest(ctx context.Context, crawler Crawler, query string, limit int) model.IngestReport {
	key := fmt.Sprintf("%s|%s|%d", crawler.SourceName(), query, limit)
	val, _, _ := a.sf.Do(key, func() (interface{}, error) {
		observations := crawler.Search(ctx, query, limit)
		return a.Ingest(observations), nil
	})
	return val.(model.IngestReport)
}

// CrawlAll 并发采集全部源并归并入库
// 各适配器互不共享状态，可以安全并发，各自独立限速
func (a *Aggregator) CrawlAll(ctx context.Context, registry *Registry, query string, limit int) model.IngestReport {
	crawlers := registry.All()
	reports := make([]model.IngestReport, len(crawlers))

	var wg sync.WaitGroup
	for i, c := range crawlers {
		wg.Add(1)
		go func(i int, c Crawler) {
			defer wg.Done()
			reports[i] = a.CrawlAndIngest(ctx, c, query, limit)
		}(i, c)
	}
	wg.Wait()

	var total model.IngestReport
	for _, r := range reports {
		total.Saved += r.Saved
		total.Total += r.Total
	}
	return total
}
