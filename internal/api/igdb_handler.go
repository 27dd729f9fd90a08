package api

import (
	"net/http"
	"strconv"

	"CrossplayDB/internal/igdb"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// IGDBHandler IGDB元数据搜索代理（提交表单自动补全用）
type IGDBHandler struct {
	client *igdb.Client
	logger *logrus.Logger
}

// NewIGDBHandler 创建 IGDBHandler。client 为 nil 时表示未配置Twitch凭证，接口返回503
func NewIGDBHandler(client *igdb.Client, logger *logrus.Logger) *IGDBHandler {
	return &IGDBHandler{client: client, logger: logger}
}

// SearchGames IGDB游戏搜索
// GET /api/public/igdb/search?q=rocket+league&limit=10
func (h *IGDBHandler) SearchGames(c *gin.Context) {
	if h.client == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "IGDB integration not configured"})
		return
	}
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	results, err := h.client.SearchGames(c.Request.Context(), query, limit)
	if err != nil {
		h.logger.WithError(err).Error("IGDB SearchGames failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}
