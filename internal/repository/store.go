package repository

import "github.com/user/cinesearch/internal/model"

// 以下方法让 Repositories 满足 service.MovieStore 接口，
// 服务层只依赖接口，测试时可换成内存实现

func (r *Repositories) UpsertMovie(m *model.Movie) (int, error) {
	return r.Movie.Upsert(m)
}

func (r *Repositories) UpsertRating(rating *model.Rating) error {
	return r.Rating.Upsert(rating)
}

func (r *Repositories) GetMovieByID(id int) (*model.MovieWithRatings, error) {
	return r.Movie.FindByID(id)
}

func (r *Repositories) FilterMovies(f model.MovieFilter) ([]model.MovieWithRatings, error) {
	return r.Movie.Filter(f)
}

func (r *Repositories) ListSources() ([]string, error) {
	return r.Rating.ListSources()
}

func (r *Repositories) CountMovies() (int64, error) {
	return r.Movie.Count()
}

func (r *Repositories) CountSources() (int64, error) {
	return r.Rating.CountSources()
}

func (r *Repositories) CountRatings() (int64, error) {
	return r.Rating.Count()
}
