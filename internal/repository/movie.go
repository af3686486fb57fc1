package repository

import (
	"errors"
	"time"

	"github.com/user/cinesearch/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Upsert 按唯一标题创建或更新电影，返回电影 ID
// 已存在时无条件覆盖 year/description/poster_url（后写覆盖先写）
// 唯一约束同时兜底并发下同一新标题的重复插入
func (r *MovieRepository) Upsert(movie *model.Movie) (int, error) {
	movie.UpdatedAt = time.Now()
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"year", "description", "poster_url", "updated_at",
		}),
	}).Create(movie).Error
	if err != nil {
		return 0, err
	}
	if movie.ID == 0 {
		// ON CONFLICT 分支下个别驱动不回填主键，按标题补查一次
		var existing model.Movie
		if err := r.db.Where("title = ?", movie.Title).First(&existing).Error; err != nil {
			return 0, err
		}
		movie.ID = existing.ID
	}
	return movie.ID, nil
}

// FindByID 根据 ID 查找电影及其全部评分
func (r *MovieRepository) FindByID(id int) (*model.MovieWithRatings, error) {
	var movie model.Movie
	if err := r.db.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var ratings []model.Rating
	if err := r.db.Where("movie_id = ?", id).Order("source").Find(&ratings).Error; err != nil {
		return nil, err
	}

	result := &model.MovieWithRatings{Movie: movie, Ratings: ratings}
	result.ComputeAggregates()
	return result, nil
}

// Filter 按条件查询电影及其全部评分，不排序不截断
// 排序与截断由查询层在读取时完成
func (r *MovieRepository) Filter(f model.MovieFilter) ([]model.MovieWithRatings, error) {
	q := r.db.Model(&model.Movie{})

	if f.Query != "" {
		q = q.Where("title ILIKE ?", "%"+f.Query+"%")
	}
	if f.Source != "" {
		q = q.Where("EXISTS (SELECT 1 FROM ratings WHERE ratings.movie_id = movies.id AND ratings.source = ?)", f.Source)
	}
	if f.MinScore != nil {
		q = q.Where("EXISTS (SELECT 1 FROM ratings WHERE ratings.movie_id = movies.id AND ratings.score >= ?)", *f.MinScore)
	}

	var movies []model.Movie
	if err := q.Order("id").Find(&movies).Error; err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return []model.MovieWithRatings{}, nil
	}

	ids := make([]int, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}

	var ratings []model.Rating
	if err := r.db.Where("movie_id IN ?", ids).Find(&ratings).Error; err != nil {
		return nil, err
	}

	byMovie := make(map[int][]model.Rating, len(movies))
	for _, rt := range ratings {
		byMovie[rt.MovieID] = append(byMovie[rt.MovieID], rt)
	}

	results := make([]model.MovieWithRatings, 0, len(movies))
	for _, m := range movies {
		mwr := model.MovieWithRatings{Movie: m, Ratings: byMovie[m.ID]}
		mwr.ComputeAggregates()
		results = append(results, mwr)
	}
	return results, nil
}

// Count 电影总数
func (r *MovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Count(&count).Error
	return count, err
}
