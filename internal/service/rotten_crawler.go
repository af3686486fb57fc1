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

// rottenMovie 烂番茄搜索接口的列表项
type rottenMovie struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	MeterScore  *int   `json:"meterScore"`
	Reviews     int    `json:"reviews"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// rottenSearchResponse 烂番茄搜索接口响应
type rottenSearchResponse struct {
	Movies []rottenMovie `json:"movies"`
}

// RottenTomatoesCrawler 烂番茄适配器（JSON 搜索接口 + HTML 详情页）
// meterScore 是百分制，必须在适配器内换算到 0-10，
// 下游标准化与聚合环节不感知换算
type RottenTomatoesCrawler struct {
	client  *utils.HTTPClient
	baseURL string
	listing *utils.ListingCache[[]model.Observation]
}

// NewRottenTomatoesCrawler 创建烂番茄适配器
func NewRottenTomatoesCrawler(client *utils.HTTPClient) *RottenTomatoesCrawler {
	return &RottenTomatoesCrawler{
		client:  client,
		baseURL: "https://www.rottentomatoes.com",
		listing: utils.NewListingCache[[]model.Observation](256, 10*time.Minute),
	}
}

// SourceName 数据源名称
func (c *RottenTomatoesCrawler) SourceName() string {
	return model.SourceRottenTomatoes
}

// Search 搜索烂番茄电影
func (c *RottenTomatoesCrawler) Search(ctx context.Context, query string, limit int) []model.Observation {
	cacheKey := fmt.Sprintf("%s|%d", query, limit)
	if cached, found := c.listing.Get(cacheKey); found {
		return cached
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("type", "movie")

	var resp rottenSearchResponse
	if ferr := c.client.FetchJSON(ctx, c.baseURL+"/api/private/v2.0/search", params, &resp); ferr != nil {
		log.Printf("[烂番茄] 搜索失败 (关键词: %q): %v", query, ferr)
		return []model.Observation{}
	}

	observations := make([]model.Observation, 0, len(resp.Movies))
	for _, item := range resp.Movies {
		if len(observations) >= limit {
			break
		}
		obs, err := c.parseMovie(item)
		if err != nil {
			log.Printf("[烂番茄] 解析列表项失败: %v", err)
			continue
		}
		observations = append(observations, obs)
	}

	c.listing.Set(cacheKey, observations)
	return observations
}

// parseMovie 解析单个列表项
func (c *RottenTomatoesCrawler) parseMovie(item rottenMovie) (model.Observation, error) {
	// 百分制换算到 0-10
	var score *float64
	if item.MeterScore != nil {
		s := float64(*item.MeterScore) / 10.0
		score = &s
	}

	detailURL := item.URL
	if detailURL != "" && detailURL[0] == '/' {
		detailURL = c.baseURL + detailURL
	}

	yearText := ""
	if item.Year > 0 {
		yearText = strconv.Itoa(item.Year)
	}

	raw := model.RawObservation{
		Title:       item.Name,
		YearText:    yearText,
		Description: item.Description,
		PosterURL:   item.Image,
		DetailURL:   detailURL,
		Score:       score,
		VotesText:   strconv.Itoa(item.Reviews),
		Popularity:  item.Reviews,
	}
	return Normalize(raw, c.SourceName())
}

// GetDetail 抓取烂番茄电影详情页
func (c *RottenTomatoesCrawler) GetDetail(ctx context.Context, id string) *model.Observation {
	detailURL := fmt.Sprintf("%s/m/%s", c.baseURL, id)

	body, ferr := c.client.Fetch(ctx, detailURL, nil)
	if ferr != nil {
		log.Printf("[烂番茄] 详情页抓取失败 (ID: %s): %v", id, ferr)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("[烂番茄] 解析 HTML 失败 (ID: %s): %v", id, err)
		return nil
	}

	// 新版页面用 slot 属性挂元数据
	raw := model.RawObservation{
		Title:       doc.Find("h1[slot='title']").Text(),
		YearText:    doc.Find("p[slot='releaseYear']").Text(),
		Description: doc.Find("p[slot='description']").Text(),
		DetailURL:   detailURL,
		VotesText:   doc.Find("span[slot='count']").Text(),
	}

	if meter := utils.ParseScore(doc.Find("score-board-deprecated").Text()); meter != nil {
		s := *meter / 10.0
		raw.Score = &s
	}

	if poster, exists := doc.Find("img[slot='posterImage']").Attr("src"); exists {
		raw.PosterURL = poster
	}

	obs, err := Normalize(raw, c.SourceName())
	if err != nil {
		log.Printf("[烂番茄] 详情页无法解析出标题 (ID: %s)", id)
		return nil
	}
	return &obs
}
