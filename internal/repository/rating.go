package repository

import (
	"time"

	"github.com/user/cinesearch/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert 按 (movie_id, source) 创建或整体覆盖评分记录
func (r *RatingRepository) Upsert(rating *model.Rating) error {
	rating.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "movie_id"}, {Name: "source"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "votes", "url", "popularity", "updated_at",
		}),
	}).Create(rating).Error
}

// ListSources 列出库中实际存在的数据源
func (r *RatingRepository) ListSources() ([]string, error) {
	var sources []string
	err := r.db.Model(&model.Rating{}).
		Distinct("source").
		Order("source").
		Pluck("source", &sources).Error
	return sources, err
}

// Count 评分记录总数
func (r *RatingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Rating{}).Count(&count).Error
	return count, err
}

// CountSources 数据源数量
func (r *RatingRepository) CountSources() (int64, error) {
	var count int64
	err := r.db.Model(&model.Rating{}).Distinct("source").Count(&count).Error
	return count, err
}
