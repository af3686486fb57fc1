package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/cinesearch/internal/config"
	"github.com/user/cinesearch/internal/handler"
	"github.com/user/cinesearch/internal/repository"
	"github.com/user/cinesearch/internal/router"
	"github.com/user/cinesearch/internal/service"
	"github.com/user/cinesearch/internal/utils"
)

func main() {
	// 加载 .env 文件（不存在时忽略）
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[启动] 初始化数据库失败: %v", err)
	}

	utils.InitCache()

	repos := repository.NewRepositories(db)

	client := utils.NewHTTPClient(cfg.CrawlDelay, cfg.FetchTimeout)
	registry := service.NewRegistry(
		service.NewDoubanCrawler(client),
		service.NewRottenTomatoesCrawler(client),
		service.NewIMDbCrawler(client),
	)

	aggregator := service.NewAggregator(repos)
	searchService := service.NewSearchService(repos)

	r := gin.New()
	r.Use(gin.Recovery())
	router.RegisterRoutes(r,
		handler.NewSiteHandler(cfg.SiteName),
		handler.NewAPIHandler(searchService, aggregator, registry),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("[启动] %s 服务启动，监听端口 %s", cfg.SiteName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[启动] 服务异常退出: %v", err)
		}
	}()

	// 优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[停机] 收到退出信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[停机] 关闭服务失败: %v", err)
	}
	log.Println("[停机] 服务已退出")
}
