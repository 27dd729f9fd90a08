package service

import (
	"context"
	"errors"
	"fmt"

	"CrossplayDB/internal/config"
	"CrossplayDB/internal/model"
	"CrossplayDB/internal/repository"
	"CrossplayDB/internal/scoring"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrGameNotFound 源游戏不存在或未通过审核
var ErrGameNotFound = errors.New("游戏不存在或未通过审核")

// RecommendationService 相似游戏推荐服务
type RecommendationService struct {
	gameRepo     repository.GameRepository
	taxonomyRepo repository.TaxonomyRepository
	logger       *logrus.Logger
	cfg          config.RecommendConfig
}

// NewRecommendationService 创建 RecommendationService
func NewRecommendationService(gameRepo repository.GameRepository, taxonomyRepo repository.TaxonomyRepository, logger *logrus.Logger, cfg config.RecommendConfig) *RecommendationService {
	return &RecommendationService{
		gameRepo:     gameRepo,
		taxonomyRepo: taxonomyRepo,
		logger:       logger,
		cfg:          cfg,
	}
}

// Recommend 为指定游戏计算相似推荐，按得分降序返回前limit条。
// platformIDs 非空时为超集过滤：候选必须支持全部指定平台。
// 源游戏既无标签也无模式时返回空结果（无相似度信号，非错误）。
func (s *RecommendationService) Recommend(ctx context.Context, identifier string, platformIDs []uint64, limit int) ([]*model.Game, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	// 1. 解析源游戏
	source, err := s.gameRepo.FindGameByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("解析源游戏失败: %w", err)
	}

	// 2. 源游戏的标签/模式ID集合；两者均空则无信号可用
	sourceTagIDs := source.TagIDSet()
	sourceModeIDs := source.ModeIDSet()
	if len(sourceTagIDs) == 0 && len(sourceModeIDs) == 0 {
		s.logger.WithField("slug", source.Slug).Info("源游戏无标签与模式，跳过推荐")
		return []*model.Game{}, nil
	}

	// 3. 整批加载权重（打分只看与源重叠的ID，故只需源引用的权重）
	tagWeights, err := s.taxonomyRepo.FindTagWeights(ctx, setToIDs(sourceTagIDs))
	if err != nil {
		return nil, fmt.Errorf("加载标签权重失败: %w", err)
	}
	modeWeights, err := s.taxonomyRepo.FindGameModeWeights(ctx, setToIDs(sourceModeIDs))
	if err != nil {
		return nil, fmt.Errorf("加载模式权重失败: %w", err)
	}

	// 4. 加载候选集（排除源游戏自身）
	games, err := s.gameRepo.ListApprovedGames(ctx, source.ID, s.cfg.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("加载候选游戏失败: %w", err)
	}

	// 5. 平台过滤 + 打分 + 排序
	gameByID := make(map[uint64]*model.Game, len(games))
	scored := make([]scoring.ScoredCandidate, 0, len(games))
	for _, g := range games {
		gameByID[g.ID] = g
		candidate := buildCandidate(g)
		if len(platformIDs) > 0 && !scoring.SupportsAll(candidate, platformIDs) {
			continue
		}
		score := scoring.Score(candidate, sourceTagIDs, sourceModeIDs, tagWeights, modeWeights)
		if score == 0 {
			continue // 两个维度均无命中
		}
		scored = append(scored, scoring.ScoredCandidate{Candidate: candidate, Score: score})
	}
	scoring.Rank(scored)

	if len(scored) > limit {
		scored = scored[:limit]
	}
	result := make([]*model.Game, 0, len(scored))
	for _, sc := range scored {
		result = append(result, gameByID[sc.Candidate.ID])
	}
	return result, nil
}

// buildCandidate 将关系型游戏实体转为打分视图（每次加载构造一次，打分层不感知持久化形态）
func buildCandidate(g *model.Game) *scoring.CandidateGame {
	tagIDs := make([]uint64, 0, len(g.Tags))
	for _, t := range g.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	modeIDs := make([]uint64, 0, len(g.GameModes))
	for _, m := range g.GameModes {
		modeIDs = append(modeIDs, m.ID)
	}
	return &scoring.CandidateGame{
		ID:          g.ID,
		Slug:        g.Slug,
		Name:        g.Name,
		TagIDs:      tagIDs,
		ModeIDs:     modeIDs,
		PlatformIDs: g.PlatformIDSet(),
	}
}

func setToIDs(set map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
