package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"CrossplayDB/internal/config"
	"CrossplayDB/internal/utils/httpclient"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Client IGDB元数据查询客户端（鉴权走注入的TokenProvider）
type Client struct {
	cfg    config.IGDBConfig
	tokens *TokenProvider
	client *http.Client
	logger *logrus.Logger
}

// NewClient 创建 IGDB Client
func NewClient(cfg config.IGDBConfig, twitchCfg config.TwitchConfig, rdb *redis.Client, logger *logrus.Logger) *Client {
	hc := httpclient.NewHTTPClient(cfg.Timeout, cfg.Proxy, logger)
	return &Client{
		cfg:    cfg,
		tokens: NewTokenProvider(twitchCfg, hc, rdb, logger),
		client: hc,
		logger: logger,
	}
}

// GameResult IGDB游戏查询结果
type GameResult struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Summary string `json:"summary,omitempty"`
	Cover   *struct {
		ImageID string `json:"image_id"`
	} `json:"cover,omitempty"`
	FirstReleaseDate int64 `json:"first_release_date,omitempty"`
}

// SearchGames 按名称搜索游戏（IGDB查询语言，POST /games）
func (c *Client) SearchGames(ctx context.Context, query string, limit int) ([]GameResult, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	// IGDB查询体：搜索词中的双引号需转义
	escaped := strings.ReplaceAll(query, `"`, `\"`)
	body := fmt.Sprintf(
		`search "%s"; fields id,name,slug,summary,cover.image_id,first_release_date; limit %d;`,
		escaped, limit,
	)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取IGDB访问令牌失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/games", strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构建IGDB请求失败: %w", err)
	}
	req.Header.Set("Client-ID", c.tokens.cfg.ClientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求IGDB失败: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取IGDB响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("IGDB接口返回%d: %s", resp.StatusCode, string(data))
	}

	var results []GameResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("解析IGDB响应失败: %w", err)
	}
	c.logger.WithFields(logrus.Fields{"query": query, "count": len(results)}).Debug("IGDB搜索完成")
	return results, nil
}
