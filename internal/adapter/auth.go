package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"EbaySync/internal/config"
	"EbaySync/internal/model"
	"EbaySync/internal/utils/httpclient"
)

// TokenSource OAuth2 client_credentials令牌源（Browse/Taxonomy共用），
// access token缓存到过期前60秒，多次运行并发取用安全
type TokenSource struct {
	cfg    *config.Config
	client *http.Client
	logger *logrus.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource 构建令牌源（令牌端点走独立短超时客户端）
func NewTokenSource(cfg *config.Config, logger *logrus.Logger) *TokenSource {
	return &TokenSource{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// tokenResponse 令牌端点响应
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // 秒
	TokenType   string `json:"token_type"`
}

// Token 返回有效access token，缓存过期自动刷新。
// source为调用方接口类型，仅用于错误归属
func (t *TokenSource) Token(ctx context.Context, source model.SourceType) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.token != "" && time.Now().Before(t.expiresAt) {
		return t.token, nil
	}
	return t.refresh(ctx, source)
}

// Invalidate 清空缓存令牌，下次Token强制刷新
func (t *TokenSource) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiresAt = time.Time{}
}

// refresh 向令牌端点换取新token（调用方已持锁）
func (t *TokenSource) refresh(ctx context.Context, source model.SourceType) (string, error) {
	if t.cfg.Ebay.ClientID == "" || t.cfg.Ebay.ClientSecret == "" {
		return "", &model.ConfigurationError{
			Fields: []string{"ebay.client_id", "ebay.client_secret"},
			Reason: "换取access token前凭证必须就绪",
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", t.cfg.Ebay.OAuthScope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Ebay.OAuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("构造令牌请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.cfg.Ebay.ClientID, t.cfg.Ebay.ClientSecret)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &model.TransientNetworkError{Source: source, Err: fmt.Errorf("令牌端点请求失败: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.TransientNetworkError{Source: source, Err: fmt.Errorf("读取令牌响应失败: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		// 令牌端点的400基本是invalid_client/invalid_scope，与401/403同等视为凭证问题
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", &model.AuthenticationError{
				Source: source,
				Status: resp.StatusCode,
				Err:    fmt.Errorf("换取access token被拒: %s", string(body)),
			}
		}
		return "", httpclient.ClassifyStatus(source, resp.StatusCode, resp.Header, body)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &model.UpstreamSchemaError{Source: source, Err: fmt.Errorf("令牌响应解析失败: %w", err)}
	}
	if tr.AccessToken == "" {
		return "", &model.UpstreamSchemaError{Source: source, Field: "access_token"}
	}

	t.token = tr.AccessToken
	ttl := time.Duration(tr.ExpiresIn) * time.Second
	if ttl <= 60*time.Second {
		ttl = 2 * time.Minute
	}
	t.expiresAt = time.Now().Add(ttl - 60*time.Second)
	t.logger.WithField("expires_at", t.expiresAt.Format(time.RFC3339)).Info("access token已刷新")
	return t.token, nil
}
