package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/cinesearch/internal/model"
	"github.com/user/cinesearch/internal/utils"
)

// IMDbCrawler IMDb 适配器（纯 HTML 文档解析）
// IMDb 改版频繁，新旧版式的选择器都要试，按策略逐层降级
// 评分本身是 0-10 制，无需换算
type IMDbCrawler struct {
	client  *utils.HTTPClient
	baseURL string
	listing *utils.ListingCache[[]model.Observation]
}

// NewIMDbCrawler 创建 IMDb 适配器
func NewIMDbCrawler(client *utils.HTTPClient) *IMDbCrawler {
	return &IMDbCrawler{
		client:  client,
		baseURL: "https://www.imdb.com",
		listing: utils.NewListingCache[[]model.Observation](256, 10*time.Minute),
	}
}

// SourceName 数据源名称
func (c *IMDbCrawler) SourceName() string {
	return model.SourceIMDb
}

// Search 搜索 IMDb 电影
func (c *IMDbCrawler) Search(ctx context.Context, query string, limit int) []model.Observation {
	cacheKey := fmt.Sprintf("%s|%d", query, limit)
	if cached, found := c.listing.Get(cacheKey); found {
		return cached
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("s", "ttl")

	body, ferr := c.client.Fetch(ctx, c.baseURL+"/find", params)
	if ferr != nil {
		log.Printf("[IMDb] 搜索失败 (关键词: %q): %v", query, ferr)
		return []model.Observation{}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("[IMDb] 解析搜索页失败: %v", err)
		return []model.Observation{}
	}

	// 策略 1: 旧版搜索页的 findResult 表格行
	rows := doc.Find("div.findSection tr.findResult")
	if rows.Length() == 0 {
		// 策略 2: 新版搜索页的列表项
		rows = doc.Find("li.ipc-metadata-list-summary-item")
	}

	observations := make([]model.Observation, 0, limit)
	rows.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(observations) >= limit {
			return false
		}
		obs, err := c.parseSearchRow(s)
		if err != nil {
			log.Printf("[IMDb] 解析搜索结果项失败: %v", err)
			return true
		}
		observations = append(observations, obs)
		return true
	})

	c.listing.Set(cacheKey, observations)
	return observations
}

// parseSearchRow 解析单条搜索结果
func (c *IMDbCrawler) parseSearchRow(s *goquery.Selection) (model.Observation, error) {
	link := s.Find("a").First()
	href, _ := link.Attr("href")

	// 标题：旧版在 result_text 单元格，新版在链接文本
	title := s.Find("td.result_text a").Text()
	if title == "" {
		title = link.Text()
	}

	// 年份：旧版跟在标题后的括号里，新版有独立的 span
	yearText := s.Find("span.lister-item-year").Text()
	if yearText == "" {
		yearText = s.Find("span.ipc-metadata-list-summary-item__li").First().Text()
	}
	if yearText == "" {
		// 从 "Title (2010)" 形式的整行文本里兜底
		yearText = s.Text()
	}

	poster := ""
	if img := s.Find("img").First(); img.Length() > 0 {
		poster, _ = img.Attr("src")
		if lazy, ok := img.Attr("loadlate"); ok && lazy != "" {
			poster = lazy
		}
	}

	raw := model.RawObservation{
		Title:     title,
		YearText:  yearText,
		PosterURL: poster,
		DetailURL: c.absoluteURL(href),
		// 搜索页不带评分/票数，详情页才有
	}
	return Normalize(raw, c.SourceName())
}

// GetDetail 抓取 IMDb 电影详情页
func (c *IMDbCrawler) GetDetail(ctx context.Context, id string) *model.Observation {
	detailURL := fmt.Sprintf("%s/title/%s/", c.baseURL, id)

	body, ferr := c.client.Fetch(ctx, detailURL, nil)
	if ferr != nil {
		log.Printf("[IMDb] 详情页抓取失败 (ID: %s): %v", id, ferr)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("[IMDb] 解析 HTML 失败 (ID: %s): %v", id, err)
		return nil
	}

	// 标题：data-testid 优先，退回裸 h1
	title := doc.Find("h1[data-testid='hero-title-block__title']").Text()
	if title == "" {
		title = doc.Find("h1").First().Text()
	}

	raw := model.RawObservation{
		Title:       title,
		Description: doc.Find("span[data-testid='plot-xl']").Text(),
		DetailURL:   detailURL,
		Score:       utils.ParseScore(doc.Find("[data-testid='hero-rating-bar__aggregate-rating__score'] span").First().Text()),
		VotesText:   doc.Find("[data-testid='hero-rating-bar__aggregate-rating__count']").Text(),
	}

	// 年份藏在标题块下的元数据链接里
	doc.Find("a[href*='releaseinfo']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if y := utils.ParseYear(s.Text()); y != nil {
			raw.YearText = s.Text()
			return false
		}
		return true
	})

	if poster, exists := doc.Find("img[data-testid='hero-media__poster']").Attr("src"); exists {
		raw.PosterURL = poster
	} else if poster, exists := doc.Find("div[data-testid='hero-media__poster'] img").Attr("src"); exists {
		raw.PosterURL = poster
	}

	obs, err := Normalize(raw, c.SourceName())
	if err != nil {
		log.Printf("[IMDb] 详情页无法解析出标题 (ID: %s)", id)
		return nil
	}
	return &obs
}

// absoluteURL 把站内相对链接补全成绝对地址
func (c *IMDbCrawler) absoluteURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return c.baseURL + href
}
