package repository

import (
	"context"

	"CrossplayDB/internal/model"

	"gorm.io/gorm"
)

// TaxonomyRepository 标签/模式仓储接口（权重查询 + 管理端维护）
type TaxonomyRepository interface {
	// FindTagWeights 批量查询标签权重：仅覆盖传入ID集合，集合为空时不发起查询
	FindTagWeights(ctx context.Context, ids []uint64) (map[uint64]float64, error)
	// FindGameModeWeights 批量查询模式权重（语义同上）
	FindGameModeWeights(ctx context.Context, ids []uint64) (map[uint64]float64, error)
	// ListTags 获取全部标签
	ListTags(ctx context.Context) ([]*model.Tag, error)
	// ListGameModes 获取全部模式
	ListGameModes(ctx context.Context) ([]*model.GameMode, error)
	// UpdateTagWeight 管理端：更新标签权重
	UpdateTagWeight(ctx context.Context, id uint64, weight float64) error
	// UpdateGameModeWeight 管理端：更新模式权重
	UpdateGameModeWeight(ctx context.Context, id uint64, weight float64) error
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository 创建 TaxonomyRepository 实例
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

// weightRow 权重查询的轻量行结构，避免加载整行
type weightRow struct {
	ID     uint64
	Weight float64
}

// findWeights 通用权重批量查询（一次管线内同一份权重被所有候选复用，按ID集合整批取）
func (r *taxonomyRepository) findWeights(ctx context.Context, table string, ids []uint64) (map[uint64]float64, error) {
	weights := make(map[uint64]float64, len(ids))
	if len(ids) == 0 {
		return weights, nil
	}
	var rows []weightRow
	if err := r.db.WithContext(ctx).Table(table).
		Select("id", "weight").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		weights[row.ID] = row.Weight
	}
	return weights, nil
}

// FindTagWeights 批量查询标签权重
func (r *taxonomyRepository) FindTagWeights(ctx context.Context, ids []uint64) (map[uint64]float64, error) {
	return r.findWeights(ctx, "tags", ids)
}

// FindGameModeWeights 批量查询模式权重
func (r *taxonomyRepository) FindGameModeWeights(ctx context.Context, ids []uint64) (map[uint64]float64, error) {
	return r.findWeights(ctx, "game_modes", ids)
}

// ListTags 获取全部标签
func (r *taxonomyRepository) ListTags(ctx context.Context) ([]*model.Tag, error) {
	var tags []*model.Tag
	if err := r.db.WithContext(ctx).Order("slug ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListGameModes 获取全部模式
func (r *taxonomyRepository) ListGameModes(ctx context.Context) ([]*model.GameMode, error) {
	var modes []*model.GameMode
	if err := r.db.WithContext(ctx).Order("slug ASC").Find(&modes).Error; err != nil {
		return nil, err
	}
	return modes, nil
}

// UpdateTagWeight 管理端：更新标签权重
func (r *taxonomyRepository) UpdateTagWeight(ctx context.Context, id uint64, weight float64) error {
	return r.updateWeight(ctx, &model.Tag{}, id, weight)
}

// UpdateGameModeWeight 管理端：更新模式权重
func (r *taxonomyRepository) UpdateGameModeWeight(ctx context.Context, id uint64, weight float64) error {
	return r.updateWeight(ctx, &model.GameMode{}, id, weight)
}

func (r *taxonomyRepository) updateWeight(ctx context.Context, m interface{}, id uint64, weight float64) error {
	result := r.db.WithContext(ctx).Model(m).
		Where("id = ?", id).
		Update("weight", weight)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
