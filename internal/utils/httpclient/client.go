package httpclient

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"EbaySync/internal/config"
	"EbaySync/internal/model"
)

// NewHTTPClient 通用HTTP客户端构建方法（支持代理、超时、自动解压）
func NewHTTPClient(cfg *config.SourceConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  false,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// 配置代理
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("代理地址解析失败，将不使用代理")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", cfg.Proxy).Info("HTTP客户端已配置代理")
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 // 上游偶发慢响应，10~30秒区间取中
	}
	return &http.Client{
		Timeout:   time.Duration(timeout) * time.Second,
		Transport: &compressedTransport{transport: transport, logger: logger},
	}
}

// ========== gzip自动解压 ==========
type compressedTransport struct {
	transport http.RoundTripper
	logger    *logrus.Logger
}

func (c *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Add("Accept-Encoding", "gzip")
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.WithError(err).Warn("gzip解压失败，返回原始响应")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{
			Reader: gzReader,
			closer: resp.Body,
		}
		resp.Header.Del("Content-Encoding")
	}

	return resp, nil
}

// gzipReadCloser 包装io.ReadCloser，Close时同时关闭解压reader与原始响应体
type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		return err
	}
	return g.closer.Close()
}

// ========== 带重试的GET与错误分类 ==========

// RetryPolicy 重试策略（次数含首次请求，退避按尝试序号指数递增）
type RetryPolicy struct {
	RetryCount int           // 总尝试次数
	Backoff    time.Duration // 退避基数
	MaxBackoff time.Duration // 退避封顶
}

// PolicyFromSource 从接口配置生成重试策略，零值填默认
func PolicyFromSource(src config.SourceConfig) RetryPolicy {
	p := RetryPolicy{
		RetryCount: src.RetryCount,
		Backoff:    time.Duration(src.RetryBackoffMs) * time.Millisecond,
	}
	if p.RetryCount <= 0 {
		p.RetryCount = 3
	}
	if p.Backoff <= 0 {
		p.Backoff = 500 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 8 * time.Second
	}
	return p
}

// GetJSON 带重试的GET请求：限流/瞬时故障按指数退避重试（429优先用上游Retry-After提示），
// 重试耗尽返回最后一次的分类错误；鉴权/契约错误不重试直接返回
func GetJSON(ctx context.Context, client *http.Client, source model.SourceType, rawURL string, headers map[string]string, policy RetryPolicy, logger *logrus.Logger) ([]byte, error) {
	if policy.RetryCount <= 0 {
		policy.RetryCount = 3
	}

	var lastErr error
	for attempt := 1; attempt <= policy.RetryCount; attempt++ {
		body, err := doOnce(ctx, client, source, rawURL, headers)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || !model.IsRetryable(err) {
			return nil, err
		}
		if attempt == policy.RetryCount {
			break
		}

		wait := backoffFor(attempt, policy)
		if hint := model.RetryAfterHint(err); hint > 0 {
			wait = hint
		}
		logger.WithError(err).WithFields(logrus.Fields{
			"source":  source,
			"attempt": attempt,
			"wait":    wait.String(),
		}).Warn("上游请求失败，退避后重试")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// backoffFor 第attempt次失败后的等待时长：base * 2^(attempt-1)，封顶MaxBackoff
func backoffFor(attempt int, policy RetryPolicy) time.Duration {
	d := policy.Backoff * time.Duration(1<<uint(attempt-1))
	if d > policy.MaxBackoff {
		d = policy.MaxBackoff
	}
	return d
}

// doOnce 发起单次请求并把失败归入错误分类
func doOnce(ctx context.Context, client *http.Client, source model.SourceType, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		// 超时/连接失败归为瞬时网络故障
		return nil, &model.TransientNetworkError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.TransientNetworkError{Source: source, Err: fmt.Errorf("读取响应体失败: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, ClassifyStatus(source, resp.StatusCode, resp.Header, body)
}

// ClassifyStatus HTTP状态码到错误分类的映射
func ClassifyStatus(source model.SourceType, status int, header http.Header, body []byte) error {
	statusErr := fmt.Errorf("上游返回状态码%d: %s", status, truncateBody(body))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &model.AuthenticationError{Source: source, Status: status, Err: statusErr}
	case status == http.StatusTooManyRequests:
		return &model.RateLimitError{Source: source, RetryAfter: parseRetryAfter(header), Err: statusErr}
	case status >= 500:
		return &model.TransientNetworkError{Source: source, Err: statusErr}
	default:
		// 其余4xx视为请求与上游契约不符，不重试
		return &model.UpstreamSchemaError{Source: source, Err: statusErr}
	}
}

// parseRetryAfter 解析Retry-After头（秒数或HTTP日期），无法解析返回0
func parseRetryAfter(header http.Header) time.Duration {
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// truncateBody 错误信息里只保留响应体前256字节
func truncateBody(body []byte) string {
	const keep = 256
	if len(body) > keep {
		return string(body[:keep]) + "..."
	}
	return string(body)
}
