package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"CrossplayDB/internal/config"
	"CrossplayDB/internal/model"
	"CrossplayDB/internal/repository"
	"CrossplayDB/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecommendationHandler 相似游戏推荐接口
type RecommendationHandler struct {
	recommendService *service.RecommendationService
	logger           *logrus.Logger
}

// NewRecommendationHandler 创建 RecommendationHandler
func NewRecommendationHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *RecommendationHandler {
	gameRepo := repository.NewGameRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	svc := service.NewRecommendationService(gameRepo, taxonomyRepo, logger, cfg.Recommend)
	return &RecommendationHandler{
		recommendService: svc,
		logger:           logger,
	}
}

// GetRecommendations 相似推荐接口
// GET /api/public/games/recommendations?query=<slug|id>&platforms=1,2&limit=3
// platforms 为超集过滤：候选必须支持全部指定平台
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	platformIDs, err := parsePlatformIDs(c.Query("platforms"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platforms must be a comma-separated list of numeric ids"})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	games, err := h.recommendService.Recommend(c.Request.Context(), query, platformIDs, limit)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		h.logger.WithError(err).Error("GetRecommendations failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if games == nil {
		games = []*model.Game{}
	}
	c.JSON(http.StatusOK, games)
}

// parsePlatformIDs 解析逗号分隔的平台ID列表，空串返回nil
func parsePlatformIDs(param string) ([]uint64, error) {
	if param == "" {
		return nil, nil
	}
	parts := strings.Split(param, ",")
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n)
	}
	return ids, nil
}
