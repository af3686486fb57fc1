package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/cinesearch/internal/model"
	"github.com/user/cinesearch/internal/utils"
)

// doubanSubject 豆瓣搜索接口的列表项
type doubanSubject struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Rate      string `json:"rate"`
	Cover     string `json:"cover"`
	URL       string `json:"url"`
	Year      string `json:"year"`
	VoteCount int    `json:"vote_count"`
}

// doubanSearchResponse 豆瓣搜索接口响应
type doubanSearchResponse struct {
	Subjects []doubanSubject `json:"subjects"`
}

// DoubanCrawler 豆瓣适配器（JSON 列表接口 + HTML 详情页）
// 豆瓣评分本身就是 0-10 制，无需换算
type DoubanCrawler struct {
	client  *utils.HTTPClient
	baseURL string
	listing *utils.ListingCache[[]model.Observation]
}

// NewDoubanCrawler 创建豆瓣适配器
func NewDoubanCrawler(client *utils.HTTPClient) *DoubanCrawler {
	return &DoubanCrawler{
		client:  client,
		baseURL: "https://movie.douban.com",
		listing: utils.NewListingCache[[]model.Observation](256, 10*time.Minute),
	}
}

// SourceName 数据源名称
func (c *DoubanCrawler) SourceName() string {
	return model.SourceDouban
}

// Search 搜索豆瓣电影，空关键词返回热门列表
func (c *DoubanCrawler) Search(ctx context.Context, query string, limit int) []model.Observation {
	cacheKey := fmt.Sprintf("%s|%d", query, limit)
	if cached, found := c.listing.Get(cacheKey); found {
		return cached
	}

	params := url.Values{}
	params.Set("type", "movie")
	params.Set("tag", "热门")
	params.Set("sort", "recommendation")
	params.Set("page_limit", strconv.Itoa(limit))
	params.Set("page_start", "0")
	if query != "" {
		params.Set("search_text", query)
	}

	var resp doubanSearchResponse
	if ferr := c.client.FetchJSON(ctx, c.baseURL+"/j/search_subjects", params, &resp); ferr != nil {
		log.Printf("[豆瓣] 搜索失败 (关键词: %q): %v", query, ferr)
		return []model.Observation{}
	}

	observations := make([]model.Observation, 0, len(resp.Subjects))
	for _, item := range resp.Subjects {
		if len(observations) >= limit {
			break
		}
		obs, err := c.parseSubject(item)
		if err != nil {
			// 单条解析失败只跳过该条
			log.Printf("[豆瓣] 解析列表项失败 (ID: %s): %v", item.ID, err)
			continue
		}
		observations = append(observations, obs)
	}

	c.listing.Set(cacheKey, observations)
	return observations
}

// parseSubject 解析单个列表项
func (c *DoubanCrawler) parseSubject(item doubanSubject) (model.Observation, error) {
	raw := model.RawObservation{
		Title:      item.Title,
		YearText:   item.Year,
		PosterURL:  item.Cover,
		DetailURL:  item.URL,
		Score:      utils.ParseScore(item.Rate),
		VotesText:  strconv.Itoa(item.VoteCount),
		Popularity: item.VoteCount,
	}
	if raw.DetailURL == "" && item.ID != "" {
		raw.DetailURL = fmt.Sprintf("%s/subject/%s/", c.baseURL, item.ID)
	}
	return Normalize(raw, c.SourceName())
}

// GetDetail 抓取豆瓣电影详情页
func (c *DoubanCrawler) GetDetail(ctx context.Context, id string) *model.Observation {
	detailURL := fmt.Sprintf("%s/subject/%s/", c.baseURL, id)

	body, ferr := c.client.Fetch(ctx, detailURL, nil)
	if ferr != nil {
		log.Printf("[豆瓣] 详情页抓取失败 (ID: %s): %v", id, ferr)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("[豆瓣] 解析 HTML 失败 (ID: %s): %v", id, err)
		return nil
	}

	// 标题解析增强策略
	// 策略 1: property='v:itemreviewed'
	title := doc.Find("h1 span[property='v:itemreviewed']").Text()
	if title == "" {
		// 策略 2: h1 直接下的 span
		title = doc.Find("h1 span:first-child").Text()
	}

	raw := model.RawObservation{
		Title:       title,
		YearText:    doc.Find("h1 .year").Text(),
		Description: doc.Find("span[property='v:summary']").Text(),
		DetailURL:   detailURL,
		Score:       utils.ParseScore(doc.Find("strong.rating_num").Text()),
		VotesText:   doc.Find("span[property='v:votes']").Text(),
	}

	if poster, exists := doc.Find("#mainpic img").Attr("src"); exists {
		raw.PosterURL = poster
	}

	obs, err := Normalize(raw, c.SourceName())
	if err != nil {
		log.Printf("[豆瓣] 详情页无法解析出标题 (ID: %s)，页面可能结构变化或触发反爬", id)
		return nil
	}
	return &obs
}
