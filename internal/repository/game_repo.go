package repository

import (
	"context"
	"fmt"
	"strconv"

	"CrossplayDB/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameFilter 公开列表筛选条件
type GameFilter struct {
	Status     model.GameStatus // 状态（公开接口固定approved，管理端可查pending等）
	PlatformID uint64           // 可选：按支持平台过滤
	TagSlug    string           // 可选：按标签过滤
}

// GameRepository 游戏仓储接口
type GameRepository interface {
	// FindGameByIdentifier 按数字ID或slug解析已审核通过的游戏（含全部关联）
	FindGameByIdentifier(ctx context.Context, idOrSlug string) (*model.Game, error)
	// ListApprovedGames 拉取已审核通过的候选集（排除excludeID，带limit与全部关联）
	ListApprovedGames(ctx context.Context, excludeID uint64, limit int) ([]*model.Game, error)
	// ListGames 按过滤条件分页查询游戏
	ListGames(ctx context.Context, filter GameFilter, page, pageSize int) ([]*model.Game, int64, error)
	// GetGameByID 按主键获取游戏（不限状态，管理端用）
	GetGameByID(ctx context.Context, id uint64) (*model.Game, error)
	// CreateSubmission 保存一条公开提交（状态pending，关联一并落库）
	CreateSubmission(ctx context.Context, game *model.Game) error
	// UpdateGameStatus 审核：更新游戏状态
	UpdateGameStatus(ctx context.Context, id uint64, status model.GameStatus) error
	// ListPlatforms 获取全部平台
	ListPlatforms(ctx context.Context) ([]*model.Platform, error)
	// ListStores 获取全部商店
	ListStores(ctx context.Context) ([]*model.Store, error)
}

type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository 创建 GameRepository 实例
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

// withAssociations 推荐与详情共用的关联预加载
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags").
		Preload("GameModes").
		Preload("PlatformGroups.Platforms").
		Preload("StorePlatforms.Store")
}

// FindGameByIdentifier 按数字ID或slug解析已审核通过的游戏
func (r *gameRepository) FindGameByIdentifier(ctx context.Context, idOrSlug string) (*model.Game, error) {
	db := withAssociations(r.db.WithContext(ctx)).
		Where("status = ?", model.GameStatusApproved)

	if n, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		db = db.Where("id = ? OR slug = ?", n, idOrSlug)
	} else {
		db = db.Where("slug = ?", idOrSlug)
	}

	var game model.Game
	if err := db.First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// ListApprovedGames 拉取已审核通过的候选集
func (r *gameRepository) ListApprovedGames(ctx context.Context, excludeID uint64, limit int) ([]*model.Game, error) {
	if limit <= 0 {
		limit = 1000
	}
	db := withAssociations(r.db.WithContext(ctx)).
		Where("status = ?", model.GameStatusApproved)
	if excludeID > 0 {
		db = db.Where("id <> ?", excludeID)
	}

	var games []*model.Game
	if err := db.Order("id ASC").Limit(limit).Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// ListGames 按过滤条件分页查询游戏
func (r *gameRepository) ListGames(ctx context.Context, filter GameFilter, page, pageSize int) ([]*model.Game, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	db := r.db.WithContext(ctx).Model(&model.Game{})

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.TagSlug != "" {
		db = db.Joins("JOIN game_tags ON game_tags.game_id = games.id").
			Joins("JOIN tags ON tags.id = game_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
	}
	if filter.PlatformID > 0 {
		// 平台支持集合来自两类来源：主机平台组 与 PC商店条目，任一命中即可
		db = db.Where(
			"games.id IN (?) OR games.id IN (?)",
			r.db.Table("game_platform_groups").
				Select("game_platform_groups.game_id").
				Joins("JOIN game_platform_group_platforms gpp ON gpp.game_platform_group_id = game_platform_groups.id").
				Where("gpp.platform_id = ?", filter.PlatformID),
			r.db.Table("game_store_platforms").
				Select("game_id").
				Where("platform_id = ?", filter.PlatformID),
		)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var games []*model.Game
	if err := withAssociations(db).
		Order("games.name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&games).Error; err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

// GetGameByID 按主键获取游戏
func (r *gameRepository) GetGameByID(ctx context.Context, id uint64) (*model.Game, error) {
	var game model.Game
	if err := withAssociations(r.db.WithContext(ctx)).
		Where("id = ?", id).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// CreateSubmission 保存一条公开提交（事务内，关联一并落库）
func (r *gameRepository) CreateSubmission(ctx context.Context, game *model.Game) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	if game.GameUUID == "" {
		game.GameUUID = uuid.NewString() // 生成全局唯一ID
	}
	game.Status = model.GameStatusPending

	// 标签/模式/平台均引用已有记录：只写关联表，不回写被引用行
	if err := tx.
		Omit("Tags.*", "GameModes.*", "PlatformGroups.Platforms.*").
		Create(game).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("保存提交失败: %w, name: %s", err, game.Name)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// UpdateGameStatus 审核：更新游戏状态
func (r *gameRepository) UpdateGameStatus(ctx context.Context, id uint64, status model.GameStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Game{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPlatforms 获取全部平台
func (r *gameRepository) ListPlatforms(ctx context.Context) ([]*model.Platform, error) {
	var platforms []*model.Platform
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&platforms).Error; err != nil {
		return nil, err
	}
	return platforms, nil
}

// ListStores 获取全部商店
func (r *gameRepository) ListStores(ctx context.Context) ([]*model.Store, error) {
	var stores []*model.Store
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}
