package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"CrossplayDB/internal/model"
	"CrossplayDB/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidSubmission 提交内容不合法
var ErrInvalidSubmission = errors.New("提交内容不合法")

// ErrInvalidWeight 权重必须为正数
var ErrInvalidWeight = errors.New("权重必须为正数")

// ErrInvalidStatus 非法的审核状态
var ErrInvalidStatus = errors.New("非法的审核状态")

// GameService 游戏目录服务：公开列表/详情、公开提交、管理端审核与权重维护
type GameService struct {
	gameRepo     repository.GameRepository
	taxonomyRepo repository.TaxonomyRepository
	logger       *logrus.Logger
}

// NewGameService 创建 GameService
func NewGameService(gameRepo repository.GameRepository, taxonomyRepo repository.TaxonomyRepository, logger *logrus.Logger) *GameService {
	return &GameService{
		gameRepo:     gameRepo,
		taxonomyRepo: taxonomyRepo,
		logger:       logger,
	}
}

// GameListResult 列表返回
type GameListResult struct {
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
	Items    []*model.Game `json:"items"`
}

// ListGames 公开列表：仅已审核通过的游戏，可按平台/标签过滤
func (s *GameService) ListGames(ctx context.Context, platformID uint64, tagSlug string, page, pageSize int) (*GameListResult, error) {
	filter := repository.GameFilter{
		Status:     model.GameStatusApproved,
		PlatformID: platformID,
		TagSlug:    tagSlug,
	}
	games, total, err := s.gameRepo.ListGames(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询游戏列表失败: %w", err)
	}
	if games == nil {
		games = []*model.Game{}
	}
	return &GameListResult{Page: page, PageSize: pageSize, Total: total, Items: games}, nil
}

// ListPendingGames 管理端：待审核列表
func (s *GameService) ListPendingGames(ctx context.Context, status model.GameStatus, page, pageSize int) (*GameListResult, error) {
	if status == "" {
		status = model.GameStatusPending
	}
	games, total, err := s.gameRepo.ListGames(ctx, repository.GameFilter{Status: status}, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询待审核列表失败: %w", err)
	}
	if games == nil {
		games = []*model.Game{}
	}
	return &GameListResult{Page: page, PageSize: pageSize, Total: total, Items: games}, nil
}

// GetGame 公开详情：按ID或slug解析已审核通过的游戏
func (s *GameService) GetGame(ctx context.Context, idOrSlug string) (*model.Game, error) {
	game, err := s.gameRepo.FindGameByIdentifier(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("查询游戏详情失败: %w", err)
	}
	return game, nil
}

// ===== 公开提交 =====

// StoreEntryInput PC商店跨平台条目
type StoreEntryInput struct {
	StoreID    uint64 `json:"store_id"`
	PlatformID uint64 `json:"platform_id"`
}

// SubmissionInput 公开提交的游戏及其平台/商店组合
type SubmissionInput struct {
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Summary        string            `json:"summary"`
	IGDBID         *uint64           `json:"igdb_id"`
	CoverURL       string            `json:"cover_url"`
	TagIDs         []uint64          `json:"tag_ids"`
	ModeIDs        []uint64          `json:"mode_ids"`
	PlatformGroups [][]uint64        `json:"platform_groups"` // 每组为互通平台ID列表
	StoreEntries   []StoreEntryInput `json:"store_entries"`
}

// SubmitGame 保存公开提交（状态pending，待管理员审核）
func (s *GameService) SubmitGame(ctx context.Context, input *SubmissionInput) (*model.Game, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: 缺少游戏名称", ErrInvalidSubmission)
	}
	if len(input.PlatformGroups) == 0 && len(input.StoreEntries) == 0 {
		return nil, fmt.Errorf("%w: 至少提供一个平台组或商店条目", ErrInvalidSubmission)
	}
	for _, group := range input.PlatformGroups {
		if len(group) < 2 {
			return nil, fmt.Errorf("%w: 平台互通组至少包含两个平台", ErrInvalidSubmission)
		}
	}

	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Name)
	}

	game := &model.Game{
		Slug:     slug,
		Name:     strings.TrimSpace(input.Name),
		Summary:  input.Summary,
		IGDBID:   input.IGDBID,
		CoverURL: input.CoverURL,
		Status:   model.GameStatusPending,
	}
	for _, id := range input.TagIDs {
		game.Tags = append(game.Tags, model.Tag{ID: id})
	}
	for _, id := range input.ModeIDs {
		game.GameModes = append(game.GameModes, model.GameMode{ID: id})
	}
	for _, group := range input.PlatformGroups {
		pg := model.GamePlatformGroup{}
		for _, pid := range group {
			pg.Platforms = append(pg.Platforms, model.Platform{ID: pid})
		}
		game.PlatformGroups = append(game.PlatformGroups, pg)
	}
	for _, entry := range input.StoreEntries {
		game.StorePlatforms = append(game.StorePlatforms, model.GameStorePlatform{
			StoreID:    entry.StoreID,
			PlatformID: entry.PlatformID,
		})
	}

	if err := s.gameRepo.CreateSubmission(ctx, game); err != nil {
		return nil, fmt.Errorf("保存提交失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"slug": game.Slug, "game_uuid": game.GameUUID}).Info("收到新的游戏提交")
	return game, nil
}

// ReviewGame 管理端审核：更新游戏状态（approved/rejected）
func (s *GameService) ReviewGame(ctx context.Context, id uint64, status model.GameStatus) error {
	if status != model.GameStatusApproved && status != model.GameStatusRejected && status != model.GameStatusPending {
		return ErrInvalidStatus
	}
	if err := s.gameRepo.UpdateGameStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("更新游戏状态失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"game_id": id, "status": status}).Info("游戏审核状态已更新")
	return nil
}

// UpdateTagWeight 管理端：更新标签权重（正数）
func (s *GameService) UpdateTagWeight(ctx context.Context, id uint64, weight float64) error {
	if weight <= 0 {
		return ErrInvalidWeight
	}
	if err := s.taxonomyRepo.UpdateTagWeight(ctx, id, weight); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 标签不存在", ErrGameNotFound)
		}
		return fmt.Errorf("更新标签权重失败: %w", err)
	}
	return nil
}

// UpdateGameModeWeight 管理端：更新模式权重（正数）
func (s *GameService) UpdateGameModeWeight(ctx context.Context, id uint64, weight float64) error {
	if weight <= 0 {
		return ErrInvalidWeight
	}
	if err := s.taxonomyRepo.UpdateGameModeWeight(ctx, id, weight); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 模式不存在", ErrGameNotFound)
		}
		return fmt.Errorf("更新模式权重失败: %w", err)
	}
	return nil
}

// ===== slug 生成 =====

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 由名称生成URL标识：小写、非字母数字折叠为连字符
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
