package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"CrossplayDB/internal/model"
	"CrossplayDB/internal/repository"
	"CrossplayDB/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminAuth 管理接口令牌校验中间件（X-Admin-Token）
func AdminAuth(token string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			logger.Warn("管理令牌未配置，拒绝管理请求")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin token not configured"})
			return
		}
		if c.GetHeader("X-Admin-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// AdminHandler 管理端接口：审核、权重维护
type AdminHandler struct {
	gameService *service.GameService
	logger      *logrus.Logger
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(db *gorm.DB, logger *logrus.Logger) *AdminHandler {
	gameRepo := repository.NewGameRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	return &AdminHandler{
		gameService: service.NewGameService(gameRepo, taxonomyRepo, logger),
		logger:      logger,
	}
}

// ListGames 管理端游戏列表（默认pending）
// GET /api/admin/games?status=pending&page=1&page_size=20
func (h *AdminHandler) ListGames(c *gin.Context) {
	status := model.GameStatus(c.DefaultQuery("status", string(model.GameStatusPending)))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.gameService.ListPendingGames(c.Request.Context(), status, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("admin ListGames failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// reviewRequest 审核请求体
type reviewRequest struct {
	Status model.GameStatus `json:"status"`
}

// ReviewGame 审核游戏（approved/rejected）
// PATCH /api/admin/games/:id/status
func (h *AdminHandler) ReviewGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.gameService.ReviewGame(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		default:
			h.logger.WithError(err).Error("ReviewGame failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// weightRequest 权重更新请求体
type weightRequest struct {
	Weight float64 `json:"weight"`
}

// UpdateTagWeight 更新标签权重
// PATCH /api/admin/tags/:id/weight
func (h *AdminHandler) UpdateTagWeight(c *gin.Context) {
	h.updateWeight(c, h.gameService.UpdateTagWeight)
}

// UpdateGameModeWeight 更新模式权重
// PATCH /api/admin/game-modes/:id/weight
func (h *AdminHandler) UpdateGameModeWeight(c *gin.Context) {
	h.updateWeight(c, h.gameService.UpdateGameModeWeight)
}

func (h *AdminHandler) updateWeight(c *gin.Context, update func(ctx context.Context, id uint64, weight float64) error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}
	var req weightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := update(c.Request.Context(), id, req.Weight); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidWeight):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.logger.WithError(err).Error("updateWeight failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "weight updated"})
}
