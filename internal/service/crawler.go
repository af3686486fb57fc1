package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/user/cinesearch/internal/model"
)

// Crawler 数据源适配器接口
// 各源的页面/JSON 结构不同，但都收敛到统一的 Observation 输出：
//   - Search 空关键词返回该源当前的热门/趋势列表
//   - limit 是建议值，最多返回 limit 条，源数据不足时可以少于 limit
//   - 批次内单条解析失败直接跳过该条，绝不让单条失败拖垮整批
//   - 整次抓取失败（网络/超时）返回空列表而非错误，采集是尽力而为的
type Crawler interface {
	// Search 搜索电影，返回标准化观测记录
	Search(ctx context.Context, query string, limit int) []model.Observation

	// GetDetail 获取电影详情，抓取失败返回 nil
	GetDetail(ctx context.Context, id string) *model.Observation

	// SourceName 数据源名称，作为合并键
	SourceName() string
}

// Registry 数据源适配器注册表
// 显式传入各入口，不使用进程级可变全局状态
type Registry struct {
	crawlers map[string]Crawler
}

// NewRegistry 创建注册表
func NewRegistry(crawlers ...Crawler) *Registry {
	m := make(map[string]Crawler, len(crawlers))
	for _, c := range crawlers {
		m[c.SourceName()] = c
	}
	return &Registry{crawlers: m}
}

// Get 按源名称查找适配器
func (r *Registry) Get(source string) (Crawler, error) {
	c, ok := r.crawlers[source]
	if !ok {
		return nil, fmt.Errorf("未知的数据源: %s", source)
	}
	return c, nil
}

// All 返回全部适配器
func (r *Registry) All() []Crawler {
	list := make([]Crawler, 0, len(r.crawlers))
	for _, c := range r.crawlers {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].SourceName() < list[j].SourceName()
	})
	return list
}

// Sources 返回全部已注册的源名称
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.crawlers))
	for _, c := range r.All() {
		names = append(names, c.SourceName())
	}
	return names
}
