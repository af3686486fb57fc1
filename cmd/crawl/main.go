package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/user/cinesearch/internal/config"
	"github.com/user/cinesearch/internal/repository"
	"github.com/user/cinesearch/internal/service"
	"github.com/user/cinesearch/internal/utils"
)

// 一次性采集工具：从指定源（或全部源）抓取并入库后退出
// 用法: crawl -source douban -query 盗梦空间 -limit 20
func main() {
	source := flag.String("source", "all", "数据源 (douban/rotten_tomatoes/imdb/all)")
	query := flag.String("query", "", "搜索关键词，留空抓取热门列表")
	limit := flag.Int("limit", 20, "每个源最多抓取条数")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[采集] 初始化数据库失败: %v", err)
	}
	repos := repository.NewRepositories(db)

	client := utils.NewHTTPClient(cfg.CrawlDelay, cfg.FetchTimeout)
	registry := service.NewRegistry(
		service.NewDoubanCrawler(client),
		service.NewRottenTomatoesCrawler(client),
		service.NewIMDbCrawler(client),
	)
	aggregator := service.NewAggregator(repos)

	ctx := context.Background()

	if *source == "all" {
		report := aggregator.CrawlAll(ctx, registry, *query, *limit)
		log.Printf("[采集] 全部源完成: 入库 %d/%d", report.Saved, report.Total)
		return
	}

	crawler, err := registry.Get(*source)
	if err != nil {
		log.Fatalf("[采集] %v", err)
	}
	report := aggregator.CrawlAndIngest(ctx, crawler, *query, *limit)
	log.Printf("[采集] %s 完成: 入库 %d/%d", *source, report.Saved, report.Total)
}
