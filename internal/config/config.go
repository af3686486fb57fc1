package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env          string
	DatabaseURL  string
	Port         string
	SiteName     string
	CrawlDelay   time.Duration // 每次出站请求前的固定延迟
	FetchTimeout time.Duration // 单次出站请求超时
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "cinesearch")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	delayMs, _ := strconv.Atoi(getEnv("CRAWL_DELAY_MS", "2000"))
	timeoutSec, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_S", "10"))

	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		DatabaseURL:  dbURL,
		Port:         getEnv("PORT", "5000"),
		SiteName:     getEnv("SITE_NAME", "CineSearch"),
		CrawlDelay:   time.Duration(delayMs) * time.Millisecond,
		FetchTimeout: time.Duration(timeoutSec) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
