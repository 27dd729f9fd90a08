package service

import (
	"context"
	"strconv"

	"CrossplayDB/internal/model"
	"CrossplayDB/internal/repository"

	"gorm.io/gorm"
)

// fakeGameRepo 内存版 GameRepository，games 仅存放已审核通过的游戏
type fakeGameRepo struct {
	games   []*model.Game
	listErr error
	findErr error
}

func (f *fakeGameRepo) FindGameByIdentifier(_ context.Context, idOrSlug string) (*model.Game, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, g := range f.games {
		if g.Slug == idOrSlug || strconv.FormatUint(g.ID, 10) == idOrSlug {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGameRepo) ListApprovedGames(_ context.Context, excludeID uint64, limit int) ([]*model.Game, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []*model.Game
	for _, g := range f.games {
		if g.ID == excludeID {
			continue
		}
		result = append(result, g)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (f *fakeGameRepo) ListGames(_ context.Context, _ repository.GameFilter, _, _ int) ([]*model.Game, int64, error) {
	return f.games, int64(len(f.games)), nil
}

func (f *fakeGameRepo) GetGameByID(_ context.Context, id uint64) (*model.Game, error) {
	for _, g := range f.games {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGameRepo) CreateSubmission(_ context.Context, game *model.Game) error {
	game.ID = uint64(len(f.games) + 1)
	f.games = append(f.games, game)
	return nil
}

func (f *fakeGameRepo) UpdateGameStatus(_ context.Context, id uint64, status model.GameStatus) error {
	for _, g := range f.games {
		if g.ID == id {
			g.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeGameRepo) ListPlatforms(_ context.Context) ([]*model.Platform, error) { return nil, nil }
func (f *fakeGameRepo) ListStores(_ context.Context) ([]*model.Store, error)      { return nil, nil }

// fakeTaxonomyRepo 内存版 TaxonomyRepository，权重按全局映射存放
type fakeTaxonomyRepo struct {
	tagWeights  map[uint64]float64
	modeWeights map[uint64]float64
	err         error
}

func (f *fakeTaxonomyRepo) lookup(source map[uint64]float64, ids []uint64) (map[uint64]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	weights := make(map[uint64]float64, len(ids))
	for _, id := range ids {
		if w, ok := source[id]; ok {
			weights[id] = w
		}
	}
	return weights, nil
}

func (f *fakeTaxonomyRepo) FindTagWeights(_ context.Context, ids []uint64) (map[uint64]float64, error) {
	return f.lookup(f.tagWeights, ids)
}

func (f *fakeTaxonomyRepo) FindGameModeWeights(_ context.Context, ids []uint64) (map[uint64]float64, error) {
	return f.lookup(f.modeWeights, ids)
}

func (f *fakeTaxonomyRepo) ListTags(_ context.Context) ([]*model.Tag, error)           { return nil, nil }
func (f *fakeTaxonomyRepo) ListGameModes(_ context.Context) ([]*model.GameMode, error) { return nil, nil }
func (f *fakeTaxonomyRepo) UpdateTagWeight(_ context.Context, _ uint64, _ float64) error {
	return nil
}
func (f *fakeTaxonomyRepo) UpdateGameModeWeight(_ context.Context, _ uint64, _ float64) error {
	return nil
}

// newApprovedGame 构造测试用已审核游戏：标签/模式按ID关联，平台放入单个互通组
func newApprovedGame(id uint64, slug string, tagIDs, modeIDs, platformIDs []uint64) *model.Game {
	g := &model.Game{
		ID:     id,
		Slug:   slug,
		Name:   slug,
		Status: model.GameStatusApproved,
	}
	for _, tid := range tagIDs {
		g.Tags = append(g.Tags, model.Tag{ID: tid})
	}
	for _, mid := range modeIDs {
		g.GameModes = append(g.GameModes, model.GameMode{ID: mid})
	}
	if len(platformIDs) > 0 {
		group := model.GamePlatformGroup{GameID: id}
		for _, pid := range platformIDs {
			group.Platforms = append(group.Platforms, model.Platform{ID: pid})
		}
		g.PlatformGroups = append(g.PlatformGroups, group)
	}
	return g
}
