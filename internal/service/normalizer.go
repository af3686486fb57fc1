package service

import (
	"errors"

	"github.com/user/cinesearch/internal/model"
	"github.com/user/cinesearch/internal/utils"
)

// ErrMissingTitle 原始记录缺少标题，无法构成有效观测
var ErrMissingTitle = errors.New("缺少标题")

// Normalize 将适配器抽取的原始字段标准化为统一观测记录
// 纯函数，不做任何 I/O，也不感知任何源相关逻辑
// （评分换算已在适配器内完成，这里只校验范围）
func Normalize(raw model.RawObservation, source string) (model.Observation, error) {
	title := utils.CleanText(raw.Title)
	if title == "" {
		return model.Observation{}, ErrMissingTitle
	}

	description := utils.CleanText(raw.Description)

	// 年份：优先显式字段，缺失时从简介兜底提取
	// 兜底提取是启发式，可能误取无关数字，调用方不应视为权威
	year := utils.ParseYear(raw.YearText)
	if year == nil && description != "" {
		year = utils.ExtractYear(description)
	}

	// 评分经适配器换算后必须落在 0-10，越界视为无效
	score := raw.Score
	if score != nil && (*score < 0.0 || *score > 10.0) {
		score = nil
	}

	votes := utils.ParseVotes(raw.VotesText)

	// 热度缺省取票数，再缺省为 0
	popularity := raw.Popularity
	if popularity <= 0 {
		popularity = 0
		if votes != nil {
			popularity = *votes
		}
	}

	return model.Observation{
		Title:       title,
		Year:        year,
		Description: description,
		PosterURL:   raw.PosterURL,
		Score:       score,
		Votes:       votes,
		URL:         raw.DetailURL,
		Popularity:  popularity,
		Source:      source,
	}, nil
}
