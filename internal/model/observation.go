package model

// RawObservation 适配器从源页面/JSON 中抽取出的原始字段
// 生命周期仅限一次采集调用，不落库
// 评分由各适配器在抽取时统一换算到 0-10（如百分制除以 10），
// 后续标准化与聚合环节不再感知任何源相关逻辑
type RawObservation struct {
	Title       string
	YearText    string
	Description string
	PosterURL   string
	DetailURL   string
	Score       *float64 // 已换算到 0-10
	VotesText   string
	Popularity  int
}

// Observation 标准化后的单源单片观测记录
// 由 Normalize 产出，交给聚合引擎消费后即丢弃
type Observation struct {
	Title       string   `json:"title"`
	Year        *int     `json:"year"`
	Description string   `json:"description"`
	PosterURL   string   `json:"poster_url"`
	Score       *float64 `json:"score"`
	Votes       *int     `json:"votes"`
	URL         string   `json:"url"`
	Popularity  int      `json:"popularity"`
	Source      string   `json:"source"`
}

// IngestReport 一次入库批次的结果
type IngestReport struct {
	Saved int `json:"saved"`
	Total int `json:"total"`
}
