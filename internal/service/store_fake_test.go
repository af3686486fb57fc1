package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/user/cinesearch/internal/model"
)

// fakeStore 内存版 MovieStore，语义对齐数据库实现：
// 电影按标题唯一合并，评分按 (movie, source) 整体覆盖
type fakeStore struct {
	mu         sync.Mutex
	nextID     int
	movies     map[int]model.Movie
	byTitle    map[string]int
	ratings    map[string]model.Rating // key: movieID|source
	failTitles map[string]bool         // 注入指定标题的写入失败
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		movies:     make(map[int]model.Movie),
		byTitle:    make(map[string]int),
		ratings:    make(map[string]model.Rating),
		failTitles: make(map[string]bool),
	}
}

func (s *fakeStore) UpsertMovie(m *model.Movie) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failTitles[m.Title] {
		return 0, errors.New("注入的存储故障")
	}

	if id, ok := s.byTitle[m.Title]; ok {
		existing := s.movies[id]
		existing.Year = m.Year
		existing.Description = m.Description
		existing.PosterURL = m.PosterURL
		s.movies[id] = existing
		return id, nil
	}

	s.nextID++
	m.ID = s.nextID
	s.movies[m.ID] = *m
	s.byTitle[m.Title] = m.ID
	return m.ID, nil
}

func (s *fakeStore) UpsertRating(r *model.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[fmt.Sprintf("%d|%s", r.MovieID, r.Source)] = *r
	return nil
}

func (s *fakeStore) GetMovieByID(id int) (*model.MovieWithRatings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movie, ok := s.movies[id]
	if !ok {
		return nil, nil
	}
	result := &model.MovieWithRatings{Movie: movie, Ratings: s.ratingsFor(id)}
	result.ComputeAggregates()
	return result, nil
}

func (s *fakeStore) FilterMovies(f model.MovieFilter) ([]model.MovieWithRatings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.movies))
	for id := range s.movies {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	results := make([]model.MovieWithRatings, 0, len(ids))
	for _, id := range ids {
		movie := s.movies[id]
		ratings := s.ratingsFor(id)

		if f.Query != "" && !strings.Contains(strings.ToLower(movie.Title), strings.ToLower(f.Query)) {
			continue
		}
		if f.Source != "" && !hasSource(ratings, f.Source) {
			continue
		}
		if f.MinScore != nil && !hasScoreAtLeast(ratings, *f.MinScore) {
			continue
		}

		mwr := model.MovieWithRatings{Movie: movie, Ratings: ratings}
		mwr.ComputeAggregates()
		results = append(results, mwr)
	}
	return results, nil
}

func (s *fakeStore) ListSources() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for _, r := range s.ratings {
		seen[r.Source] = true
	}
	sources := make([]string, 0, len(seen))
	for src := range seen {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return sources, nil
}

func (s *fakeStore) CountMovies() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.movies)), nil
}

func (s *fakeStore) CountSources() (int64, error) {
	sources, _ := s.ListSources()
	return int64(len(sources)), nil
}

func (s *fakeStore) CountRatings() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.ratings)), nil
}

func (s *fakeStore) ratingsFor(movieID int) []model.Rating {
	var list []model.Rating
	for _, r := range s.ratings {
		if r.MovieID == movieID {
			list = append(list, r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Source < list[j].Source })
	return list
}

func hasSource(ratings []model.Rating, source string) bool {
	for _, r := range ratings {
		if r.Source == source {
			return true
		}
	}
	return false
}

func hasScoreAtLeast(ratings []model.Rating, min float64) bool {
	for _, r := range ratings {
		if r.Score != nil && *r.Score >= min {
			return true
		}
	}
	return false
}
