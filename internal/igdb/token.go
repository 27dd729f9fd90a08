package igdb

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

	"CrossplayDB/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// tokenCacheKey Twitch访问令牌在Redis中的键
const tokenCacheKey = "igdb:access_token"

// tokenExpirySlack 到期前提前刷新的余量
const tokenExpirySlack = 60 * time.Second

// TokenProvider Twitch OAuth client-credentials 令牌提供者。
// 令牌状态由该对象独占持有并注入到调用方，不使用包级可变状态；
// 进程内缓存 + Redis快照，均带到期感知刷新
type TokenProvider struct {
	cfg    config.TwitchConfig
	client *http.Client
	rdb    *redis.Client
	logger *logrus.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenProvider 创建 TokenProvider。rdb 为 nil 时只用进程内缓存
func NewTokenProvider(cfg config.TwitchConfig, client *http.Client, rdb *redis.Client, logger *logrus.Logger) *TokenProvider {
	return &TokenProvider{
		cfg:    cfg,
		client: client,
		rdb:    rdb,
		logger: logger,
	}
}

// tokenResponse Twitch令牌接口返回
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token 返回当前有效令牌，临近到期时自动刷新
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiresAt) {
		return p.token, nil
	}

	// 先查Redis快照（多实例间共享，避免重复申请）
	if p.rdb != nil {
		cached, err := p.rdb.Get(ctx, tokenCacheKey).Result()
		if err == nil && cached != "" {
			ttl, ttlErr := p.rdb.TTL(ctx, tokenCacheKey).Result()
			if ttlErr == nil && ttl > 0 {
				p.token = cached
				p.expiresAt = time.Now().Add(ttl)
				return p.token, nil
			}
		} else if err != nil && err != redis.Nil {
			p.logger.WithError(err).Warn("读取Redis令牌缓存失败，改为直接申请")
		}
	}

	return p.refresh(ctx)
}

// refresh 调Twitch接口申请新令牌并写回缓存（调用方须持有锁）
func (p *TokenProvider) refresh(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("构建令牌请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求Twitch令牌失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取令牌响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Twitch令牌接口返回%d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("解析令牌响应失败: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("Twitch令牌响应缺少access_token")
	}

	ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenExpirySlack
	if ttl <= 0 {
		ttl = time.Duration(tr.ExpiresIn) * time.Second
	}
	p.token = tr.AccessToken
	p.expiresAt = time.Now().Add(ttl)

	if p.rdb != nil {
		if err := p.rdb.Set(ctx, tokenCacheKey, tr.AccessToken, ttl).Err(); err != nil {
			p.logger.WithError(err).Warn("写入Redis令牌缓存失败")
		}
	}
	p.logger.WithField("ttl", ttl.String()).Info("已刷新Twitch访问令牌")
	return p.token, nil
}
