package api

import (
	"net/http"

	"CrossplayDB/internal/config"
	"CrossplayDB/internal/repository"
	"CrossplayDB/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TaskHandler 维护任务触发入口
type TaskHandler struct {
	orphanService *service.OrphanAnalysisService
	logger        *logrus.Logger
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *TaskHandler {
	gameRepo := repository.NewGameRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	return &TaskHandler{
		orphanService: service.NewOrphanAnalysisService(gameRepo, taxonomyRepo, logger, cfg.Analysis),
		logger:        logger,
	}
}

// AnalyzeOrphans 触发孤儿游戏分析（O(N²)全对计算，勿挂到请求热路径）
// POST /tasks/games/analyze-orphans
// 任务内部吞掉一切错误，统一返回结构化结果：{"result":"success|error","message":"..."}
func (h *TaskHandler) AnalyzeOrphans(c *gin.Context) {
	result := h.orphanService.Run(c.Request.Context())
	c.JSON(http.StatusOK, result)
}
