package model

// MovieFilter 查询层过滤条件，全部条件 AND 组合
type MovieFilter struct {
	Query    string   // 标题子串（不区分大小写）
	Source   string   // 至少有一条来自该源的评分
	MinScore *float64 // 至少有一条评分不低于该值
}

// 排序模式
const (
	SortByPopularity = "popularity"
	SortByScore      = "score"
	SortByVotes      = "votes"
)

// IsValidSortBy 校验排序模式
func IsValidSortBy(sortBy string) bool {
	switch sortBy {
	case SortByPopularity, SortByScore, SortByVotes:
		return true
	}
	return false
}
