package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"CrossplayDB/internal/config"
	"CrossplayDB/internal/repository"
	"CrossplayDB/internal/scoring"

	"github.com/sirupsen/logrus"
)

// 任务结构化结果状态
const (
	TaskResultSuccess = "success"
	TaskResultError   = "error"
)

// TaskResult 批量任务的结构化完成信号（任务边界内吞掉一切错误，保证调用方总能拿到它）
type TaskResult struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// OrphanAnalysisService 孤儿游戏分析任务：对每个已审核游戏跑一遍推荐管线，
// 统计从未出现在任何其他游戏Top-N结果中的游戏（O(N²)全对计算，仅作为维护任务运行）
type OrphanAnalysisService struct {
	gameRepo     repository.GameRepository
	taxonomyRepo repository.TaxonomyRepository
	logger       *logrus.Logger
	cfg          config.AnalysisConfig
}

// NewOrphanAnalysisService 创建 OrphanAnalysisService
func NewOrphanAnalysisService(gameRepo repository.GameRepository, taxonomyRepo repository.TaxonomyRepository, logger *logrus.Logger, cfg config.AnalysisConfig) *OrphanAnalysisService {
	return &OrphanAnalysisService{
		gameRepo:     gameRepo,
		taxonomyRepo: taxonomyRepo,
		logger:       logger,
		cfg:          cfg,
	}
}

// Run 执行分析。错误不向外抛：一律转为 result=error 的结构化结果
func (s *OrphanAnalysisService) Run(ctx context.Context) (result *TaskResult) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			s.logger.Errorf("孤儿分析任务panic: %v", p)
			result = &TaskResult{Result: TaskResultError, Message: fmt.Sprintf("任务异常中断: %v", p)}
		}
	}()

	msg, err := s.analyze(ctx)
	if err != nil {
		s.logger.WithError(err).Error("孤儿分析任务失败")
		return &TaskResult{Result: TaskResultError, Message: err.Error()}
	}
	s.logger.Info(msg)
	return &TaskResult{Result: TaskResultSuccess, Message: msg}
}

// analyze 主流程：加载全量已审核游戏 → 整批权重 → 逐源打分取Top-N → 聚合入站推荐计数
func (s *OrphanAnalysisService) analyze(ctx context.Context) (string, error) {
	games, err := s.gameRepo.ListApprovedGames(ctx, 0, s.cfg.GameLimit)
	if err != nil {
		return "", fmt.Errorf("加载游戏失败: %w", err)
	}
	if len(games) == 0 {
		return "无已审核游戏，跳过分析", nil
	}

	// 候选视图只构造一次；顺便收集全量标签/模式ID，权重整批取一次后全程复用
	candidates := make([]*scoring.CandidateGame, 0, len(games))
	tagIDSet := make(map[uint64]struct{})
	modeIDSet := make(map[uint64]struct{})
	for _, g := range games {
		c := buildCandidate(g)
		candidates = append(candidates, c)
		for _, id := range c.TagIDs {
			tagIDSet[id] = struct{}{}
		}
		for _, id := range c.ModeIDs {
			modeIDSet[id] = struct{}{}
		}
	}
	tagWeights, err := s.taxonomyRepo.FindTagWeights(ctx, setToIDs(tagIDSet))
	if err != nil {
		return "", fmt.Errorf("加载标签权重失败: %w", err)
	}
	modeWeights, err := s.taxonomyRepo.FindGameModeWeights(ctx, setToIDs(modeIDSet))
	if err != nil {
		return "", fmt.Errorf("加载模式权重失败: %w", err)
	}

	// 外层逐源串行：recCount 为共享聚合状态，不并发写
	recCount := make(map[uint64]int, len(candidates))
	for _, source := range candidates {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("任务超时或被取消: %w", err)
		}
		if len(source.TagIDs) == 0 && len(source.ModeIDs) == 0 {
			continue // 无信号源不产生推荐
		}
		sourceTagIDs := idsToSet(source.TagIDs)
		sourceModeIDs := idsToSet(source.ModeIDs)

		scored := make([]scoring.ScoredCandidate, 0, len(candidates)-1)
		for _, c := range candidates {
			if c.ID == source.ID {
				continue
			}
			score := scoring.Score(c, sourceTagIDs, sourceModeIDs, tagWeights, modeWeights)
			if score == 0 {
				continue
			}
			scored = append(scored, scoring.ScoredCandidate{Candidate: c, Score: score})
		}
		scoring.Rank(scored)
		if len(scored) > s.cfg.TopN {
			scored = scored[:s.cfg.TopN]
		}
		for _, sc := range scored {
			recCount[sc.Candidate.ID]++
		}
	}

	return s.buildSummary(candidates, recCount), nil
}

// buildSummary 生成人类可读的汇总文本：孤儿数/总数、孤儿slug列表、被推荐次数TopN
func (s *OrphanAnalysisService) buildSummary(candidates []*scoring.CandidateGame, recCount map[uint64]int) string {
	var orphans []string
	for _, c := range candidates {
		if recCount[c.ID] == 0 {
			orphans = append(orphans, c.Slug)
		}
	}

	type popularity struct {
		candidate *scoring.CandidateGame
		count     int
	}
	ranked := make([]popularity, 0, len(recCount))
	for _, c := range candidates {
		if recCount[c.ID] > 0 {
			ranked = append(ranked, popularity{candidate: c, count: recCount[c.ID]})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].candidate.ID < ranked[j].candidate.ID
	})
	if len(ranked) > s.cfg.TopCount {
		ranked = ranked[:s.cfg.TopCount]
	}
	topParts := make([]string, 0, len(ranked))
	for _, p := range ranked {
		topParts = append(topParts, fmt.Sprintf("%s(%d次)", p.candidate.Name, p.count))
	}

	return fmt.Sprintf(
		"孤儿分析完成：共%d个已审核游戏，其中%d个无任何入站推荐。孤儿列表: [%s]；被推荐次数Top%d: [%s]",
		len(candidates), len(orphans),
		strings.Join(orphans, ", "),
		s.cfg.TopCount,
		strings.Join(topParts, ", "),
	)
}

func idsToSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
