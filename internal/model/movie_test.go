package model

import "testing"

func TestComputeAggregates(t *testing.T) {
	s1, s2 := 8.0, 6.0
	v1 := 100

	m := MovieWithRatings{
		Ratings: []Rating{
			{Source: SourceDouban, Score: &s1, Votes: &v1, Popularity: 10},
			{Source: SourceRottenTomatoes, Score: nil, Popularity: 20},
			{Source: SourceIMDb, Score: &s2, Popularity: 30},
		},
	}
	m.ComputeAggregates()

	// 平均分只统计有评分的记录: (8.0+6.0)/2，缺失的不按 0 参与
	if m.AvgScore != 7.0 {
		t.Errorf("AvgScore = %v, want 7.0", m.AvgScore)
	}
	if m.TotalPopularity != 60 {
		t.Errorf("TotalPopularity = %d, want 60", m.TotalPopularity)
	}
	if m.TotalVotes != 100 {
		t.Errorf("TotalVotes = %d, want 100", m.TotalVotes)
	}
}

func TestComputeAggregatesNoScores(t *testing.T) {
	m := MovieWithRatings{
		Ratings: []Rating{{Source: SourceDouban, Popularity: 5}},
	}
	m.ComputeAggregates()

	if m.AvgScore != 0.0 {
		t.Errorf("AvgScore = %v, want 0.0", m.AvgScore)
	}
}

func TestIsKnownSource(t *testing.T) {
	for _, s := range KnownSources {
		if !IsKnownSource(s) {
			t.Errorf("IsKnownSource(%q) = false", s)
		}
	}
	if IsKnownSource("letterboxd") {
		t.Error("IsKnownSource(letterboxd) = true")
	}
}
