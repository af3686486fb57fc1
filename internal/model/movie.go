package model

import "time"

// 数据源标识，作为 (movie, source) 评分记录的合并键
const (
	SourceDouban         = "douban"
	SourceRottenTomatoes = "rotten_tomatoes"
	SourceIMDb           = "imdb"
)

// KnownSources 所有支持的数据源
var KnownSources = []string{SourceDouban, SourceRottenTomatoes, SourceIMDb}

// IsKnownSource 校验数据源名称
func IsKnownSource(source string) bool {
	for _, s := range KnownSources {
		if s == source {
			return true
		}
	}
	return false
}

// Movie 电影实体（按标题唯一去重后的合并结果）
type Movie struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"uniqueIndex;not null"`
	Year        *int      `json:"year"`
	Description string    `json:"description"`
	PosterURL   string    `json:"poster_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
}

// Rating 单个数据源对某部电影的评分记录
// (MovieID, Source) 唯一，重复采集整体覆盖
type Rating struct {
	ID         int       `json:"id" gorm:"primaryKey"`
	MovieID    int       `json:"movie_id" gorm:"uniqueIndex:idx_movie_source;not null"`
	Source     string    `json:"source" gorm:"uniqueIndex:idx_movie_source;index;not null"`
	Score      *float64  `json:"score"`
	Votes      *int      `json:"votes"`
	URL        string    `json:"url"`
	Popularity int       `json:"popularity" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MovieWithRatings 电影 + 全部评分记录 + 读取时计算的聚合指标
// 每次查询现算，不落库，保证与最新写入一致
type MovieWithRatings struct {
	Movie           `json:"movie"`
	Ratings         []Rating `json:"ratings"`
	AvgScore        float64  `json:"avg_score"`
	TotalPopularity int      `json:"total_popularity"`
	TotalVotes      int      `json:"total_votes"`
}

// ComputeAggregates 重算聚合指标
// 平均分只统计有评分的记录，全部缺失时为 0.0；热度与票数缺失按 0 累加
func (m *MovieWithRatings) ComputeAggregates() {
	var scoreSum float64
	var scoreCount int
	m.TotalPopularity = 0
	m.TotalVotes = 0

	for _, r := range m.Ratings {
		if r.Score != nil {
			scoreSum += *r.Score
			scoreCount++
		}
		m.TotalPopularity += r.Popularity
		if r.Votes != nil {
			m.TotalVotes += *r.Votes
		}
	}

	if scoreCount > 0 {
		m.AvgScore = scoreSum / float64(scoreCount)
	} else {
		m.AvgScore = 0.0
	}
}

// Stats 全库统计信息
type Stats struct {
	TotalMovies  int64 `json:"total_movies"`
	TotalSources int64 `json:"total_sources"`
	TotalRatings int64 `json:"total_ratings"`
}
