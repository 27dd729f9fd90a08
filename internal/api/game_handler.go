package api

import (
	"errors"
	"net/http"
	"strconv"

	"CrossplayDB/internal/repository"
	"CrossplayDB/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GameHandler 公开的游戏目录接口：列表、详情、提交
type GameHandler struct {
	gameService  *service.GameService
	gameRepo     repository.GameRepository
	taxonomyRepo repository.TaxonomyRepository
	logger       *logrus.Logger
}

// NewGameHandler 创建 GameHandler
func NewGameHandler(db *gorm.DB, logger *logrus.Logger) *GameHandler {
	gameRepo := repository.NewGameRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	return &GameHandler{
		gameService:  service.NewGameService(gameRepo, taxonomyRepo, logger),
		gameRepo:     gameRepo,
		taxonomyRepo: taxonomyRepo,
		logger:       logger,
	}
}

// ListGames 公开游戏列表
// GET /api/public/games?platform=1&tag=coop&page=1&page_size=20
func (h *GameHandler) ListGames(c *gin.Context) {
	var platformID uint64
	if v := c.Query("platform"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "platform must be numeric"})
			return
		}
		platformID = n
	}
	tagSlug := c.Query("tag")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.gameService.ListGames(c.Request.Context(), platformID, tagSlug, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListGames failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetGame 公开游戏详情（:identifier 为数字ID或slug）
// GET /api/public/games/:identifier
func (h *GameHandler) GetGame(c *gin.Context) {
	identifier := c.Param("identifier")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier is required"})
		return
	}

	game, err := h.gameService.GetGame(c.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		h.logger.WithError(err).Error("GetGame failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, game)
}

// SubmitGame 公开提交游戏（入待审核队列）
// POST /api/public/games
func (h *GameHandler) SubmitGame(c *gin.Context) {
	var input service.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	game, err := h.gameService.SubmitGame(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSubmission) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("SubmitGame failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, game)
}

// GetMeta 提交表单所需的基础数据：标签、模式、平台、商店
// GET /api/public/meta
func (h *GameHandler) GetMeta(c *gin.Context) {
	ctx := c.Request.Context()

	tags, err := h.taxonomyRepo.ListTags(ctx)
	if err != nil {
		h.logger.WithError(err).Error("ListTags failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	modes, err := h.taxonomyRepo.ListGameModes(ctx)
	if err != nil {
		h.logger.WithError(err).Error("ListGameModes failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	platforms, err := h.gameRepo.ListPlatforms(ctx)
	if err != nil {
		h.logger.WithError(err).Error("ListPlatforms failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stores, err := h.gameRepo.ListStores(ctx)
	if err != nil {
		h.logger.WithError(err).Error("ListStores failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":       tags,
		"game_modes": modes,
		"platforms":  platforms,
		"stores":     stores,
	})
}
