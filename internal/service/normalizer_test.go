package service

import (
	"errors"
	"testing"

	"github.com/user/cinesearch/internal/model"
)

func TestNormalizeFullRecord(t *testing.T) {
	score := 9.2
	raw := model.RawObservation{
		Title:       "  盗梦空间  ",
		YearText:    "(2010)",
		Description: "造梦师\n\n带着任务潜入梦境",
		PosterURL:   "https://img.example.com/p.jpg",
		DetailURL:   "https://movie.douban.com/subject/3541415/",
		Score:       &score,
		VotesText:   "1,234,567",
		Popularity:  1234567,
	}

	obs, err := Normalize(raw, model.SourceDouban)
	if err != nil {
		t.Fatalf("Normalize 失败: %v", err)
	}

	if obs.Title != "盗梦空间" {
		t.Errorf("Title = %q", obs.Title)
	}
	if obs.Year == nil || *obs.Year != 2010 {
		t.Errorf("Year = %v, want 2010", obs.Year)
	}
	if obs.Description != "造梦师 带着任务潜入梦境" {
		t.Errorf("Description = %q", obs.Description)
	}
	if obs.Score == nil || *obs.Score != 9.2 {
		t.Errorf("Score = %v, want 9.2", obs.Score)
	}
	if obs.Votes == nil || *obs.Votes != 1234567 {
		t.Errorf("Votes = %v, want 1234567", obs.Votes)
	}
	if obs.Popularity != 1234567 {
		t.Errorf("Popularity = %d, want 1234567", obs.Popularity)
	}
	if obs.Source != model.SourceDouban {
		t.Errorf("Source = %q", obs.Source)
	}
}

func TestNormalizeMissingTitle(t *testing.T) {
	_, err := Normalize(model.RawObservation{Title: "   "}, model.SourceIMDb)
	if !errors.Is(err, ErrMissingTitle) {
		t.Errorf("err = %v, want ErrMissingTitle", err)
	}
}

func TestNormalizeYearFallbackFromDescription(t *testing.T) {
	raw := model.RawObservation{
		Title:       "Old Classic",
		Description: "A restored print of the 1942 drama.",
	}
	obs, err := Normalize(raw, model.SourceIMDb)
	if err != nil {
		t.Fatalf("Normalize 失败: %v", err)
	}
	if obs.Year == nil || *obs.Year != 1942 {
		t.Errorf("Year = %v, want 1942（从简介兜底提取）", obs.Year)
	}
}

func TestNormalizeOutOfRangeScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
	}{
		{"超上限", 11.0},
		{"负数", -1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.score
			obs, err := Normalize(model.RawObservation{Title: "X", Score: &s}, model.SourceDouban)
			if err != nil {
				t.Fatalf("Normalize 失败: %v", err)
			}
			if obs.Score != nil {
				t.Errorf("越界评分应被丢弃，得到 %v", *obs.Score)
			}
		})
	}
}

func TestNormalizePopularityDefaultsToVotes(t *testing.T) {
	obs, err := Normalize(model.RawObservation{Title: "X", VotesText: "3000"}, model.SourceDouban)
	if err != nil {
		t.Fatalf("Normalize 失败: %v", err)
	}
	if obs.Popularity != 3000 {
		t.Errorf("Popularity = %d, want 3000（缺省取票数）", obs.Popularity)
	}

	obs, err = Normalize(model.RawObservation{Title: "Y"}, model.SourceDouban)
	if err != nil {
		t.Fatalf("Normalize 失败: %v", err)
	}
	if obs.Popularity != 0 {
		t.Errorf("Popularity = %d, want 0（票数也缺失）", obs.Popularity)
	}
}

func TestNormalizeMissingOptionalFields(t *testing.T) {
	obs, err := Normalize(model.RawObservation{Title: "Bare Minimum"}, model.SourceRottenTomatoes)
	if err != nil {
		t.Fatalf("Normalize 失败: %v", err)
	}
	if obs.Year != nil || obs.Score != nil || obs.Votes != nil {
		t.Errorf("缺失字段应为 nil: year=%v score=%v votes=%v", obs.Year, obs.Score, obs.Votes)
	}
}
