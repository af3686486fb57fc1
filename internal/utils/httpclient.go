package utils

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"
)

// FetchErrorKind 抓取失败分类
type FetchErrorKind string

const (
	FetchErrNetwork    FetchErrorKind = "network"
	FetchErrTimeout    FetchErrorKind = "timeout"
	FetchErrHTTPStatus FetchErrorKind = "http_status"
)

// FetchError 抓取层的类型化错误，永远不会向上抛出原始异常
type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchErrHTTPStatus:
		return fmt.Sprintf("请求返回状态码: %d (%s)", e.Status, e.URL)
	case FetchErrTimeout:
		return fmt.Sprintf("请求超时: %s", e.URL)
	default:
		return fmt.Sprintf("请求失败: %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTTPClient 限速 HTTP 客户端
// 每次请求前强制休眠 固定延迟 + [0,1s) 随机抖动，避免并发实例同步打点
// 单次调用只发一次请求、只延迟一次，重试策略由调用方决定
type HTTPClient struct {
	httpClient *http.Client
	delay      time.Duration
	userAgents []string
}

// NewHTTPClient 创建限速客户端
func NewHTTPClient(delay, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		delay: delay,
		userAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
		},
	}
}

// Fetch 发送 GET 请求并返回响应体
func (c *HTTPClient) Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, *FetchError) {
	// 限速：固定延迟 + 随机抖动
	c.throttle(ctx)

	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchErrNetwork, URL: rawURL, Err: err}
	}
	c.setAntiCrawlHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: FetchErrHTTPStatus, URL: rawURL, Status: resp.StatusCode}
	}

	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &FetchError{Kind: FetchErrNetwork, URL: rawURL, Err: err}
		}
		defer reader.Close()
	case "deflate":
		reader = flate.NewReader(resp.Body)
		defer reader.Close()
	default:
		reader = resp.Body
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, classifyError(rawURL, err)
	}
	return body, nil
}

// FetchJSON 发送 GET 请求并解析 JSON 响应
func (c *HTTPClient) FetchJSON(ctx context.Context, rawURL string, params url.Values, target interface{}) *FetchError {
	body, ferr := c.Fetch(ctx, rawURL, params)
	if ferr != nil {
		return ferr
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &FetchError{Kind: FetchErrNetwork, URL: rawURL, Err: fmt.Errorf("解析JSON失败: %w", err)}
	}
	return nil
}

// throttle 请求前休眠，尊重上下文取消
func (c *HTTPClient) throttle(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	jitter := time.Duration(rand.Int63n(int64(time.Second)))
	select {
	case <-time.After(c.delay + jitter):
	case <-ctx.Done():
	}
}

// classifyError 将底层错误归类为超时或网络错误
func classifyError(rawURL string, err error) *FetchError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: FetchErrTimeout, URL: rawURL, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: FetchErrTimeout, URL: rawURL, Err: err}
	}
	return &FetchError{Kind: FetchErrNetwork, URL: rawURL, Err: err}
}

// setAntiCrawlHeaders 设置反爬虫请求头
func (c *HTTPClient) setAntiCrawlHeaders(req *http.Request) {
	userAgent := c.userAgents[rand.Intn(len(c.userAgents))]
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Connection", "keep-alive")
}
