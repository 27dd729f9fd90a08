package service

import (
	"context"
	"errors"
	"testing"

	"CrossplayDB/internal/config"
	"CrossplayDB/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newRecommendationService(gameRepo *fakeGameRepo, taxonomyRepo *fakeTaxonomyRepo) *RecommendationService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewRecommendationService(gameRepo, taxonomyRepo, logger, config.RecommendConfig{
		DefaultLimit:   3,
		CandidateLimit: 1000,
	})
}

func TestRecommendSourceNotFound(t *testing.T) {
	svc := newRecommendationService(&fakeGameRepo{}, &fakeTaxonomyRepo{})

	_, err := svc.Recommend(context.Background(), "no-such-game", nil, 0)
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestRecommendEmptySignalReturnsEmpty(t *testing.T) {
	source := newApprovedGame(1, "bare-game", nil, nil, []uint64{1})
	other := newApprovedGame(2, "other", []uint64{1}, nil, []uint64{1})
	svc := newRecommendationService(
		&fakeGameRepo{games: []*model.Game{source, other}},
		&fakeTaxonomyRepo{},
	)

	games, err := svc.Recommend(context.Background(), "bare-game", nil, 0)
	require.NoError(t, err)
	require.Empty(t, games) // 无相似度信号：空结果而非错误
}

func TestRecommendConcreteScenario(t *testing.T) {
	// 源游戏标签 {A w=1, B w=4}，无模式。
	// 候选X命中{A,B} → 1 + 4*5 = 21，档位4*1000 → 4021；候选Y仅命中{A} → 1
	source := newApprovedGame(1, "source", []uint64{10, 11}, nil, nil)
	candidateX := newApprovedGame(2, "candidate-x", []uint64{10, 11}, nil, nil)
	candidateY := newApprovedGame(3, "candidate-y", []uint64{10}, nil, nil)
	unrelated := newApprovedGame(4, "unrelated", []uint64{99}, nil, nil)

	svc := newRecommendationService(
		&fakeGameRepo{games: []*model.Game{source, candidateX, candidateY, unrelated}},
		&fakeTaxonomyRepo{tagWeights: map[uint64]float64{10: 1, 11: 4}},
	)

	games, err := svc.Recommend(context.Background(), "source", nil, 0)
	require.NoError(t, err)
	require.Len(t, games, 2) // 零分候选被排除
	require.Equal(t, "candidate-x", games[0].Slug)
	require.Equal(t, "candidate-y", games[1].Slug)
}

func TestRecommendExcludesSource(t *testing.T) {
	source := newApprovedGame(1, "source", []uint64{10}, nil, nil)
	twin := newApprovedGame(2, "twin", []uint64{10}, nil, nil)

	svc := newRecommendationService(
		&fakeGameRepo{games: []*model.Game{source, twin}},
		&fakeTaxonomyRepo{tagWeights: map[uint64]float64{10: 1}},
	)

	games, err := svc.Recommend(context.Background(), "source", nil, 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "twin", games[0].Slug) // 源游戏绝不推荐自己
}

func TestRecommendPlatformSupersetFilter(t *testing.T) {
	source := newApprovedGame(1, "source", []uint64{10}, nil, []uint64{1})
	full := newApprovedGame(2, "full-support", []uint64{10}, nil, []uint64{1, 2, 3})
	partial := newApprovedGame(3, "partial-support", []uint64{10}, nil, []uint64{1})

	svc := newRecommendationService(
		&fakeGameRepo{games: []*model.Game{source, full, partial}},
		&fakeTaxonomyRepo{tagWeights: map[uint64]float64{10: 1}},
	)

	// {1,2} 是 full 平台集的子集 → 仅 full 通过
	games, err := svc.Recommend(context.Background(), "source", []uint64{1, 2}, 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "full-support", games[0].Slug)

	// {1,4} 谁都不满足
	games, err = svc.Recommend(context.Background(), "source", []uint64{1, 4}, 0)
	require.NoError(t, err)
	require.Empty(t, games)
}

func TestRecommendDefaultLimit(t *testing.T) {
	games := []*model.Game{newApprovedGame(1, "source", []uint64{10}, nil, nil)}
	for i := uint64(2); i <= 6; i++ {
		games = append(games, newApprovedGame(i, "candidate", []uint64{10}, nil, nil))
	}
	svc := newRecommendationService(
		&fakeGameRepo{games: games},
		&fakeTaxonomyRepo{tagWeights: map[uint64]float64{10: 1}},
	)

	result, err := svc.Recommend(context.Background(), "source", nil, 0)
	require.NoError(t, err)
	require.Len(t, result, 3) // 默认limit=3

	result, err = svc.Recommend(context.Background(), "source", nil, 5)
	require.NoError(t, err)
	require.Len(t, result, 5)
}

func TestRecommendTieBreakByID(t *testing.T) {
	source := newApprovedGame(10, "source", []uint64{7}, nil, nil)
	// 倒序放入候选，验证排序与数据层返回顺序无关
	late := newApprovedGame(9, "late", []uint64{7}, nil, nil)
	early := newApprovedGame(2, "early", []uint64{7}, nil, nil)

	svc := newRecommendationService(
		&fakeGameRepo{games: []*model.Game{source, late, early}},
		&fakeTaxonomyRepo{tagWeights: map[uint64]float64{7: 2}},
	)

	games, err := svc.Recommend(context.Background(), "source", nil, 0)
	require.NoError(t, err)
	require.Len(t, games, 2)
	require.Equal(t, "early", games[0].Slug) // 同分按候选ID升序
	require.Equal(t, "late", games[1].Slug)
}

func TestRecommendIdempotent(t *testing.T) {
	source := newApprovedGame(1, "source", []uint64{10, 11}, []uint64{20}, nil)
	a := newApprovedGame(2, "a", []uint64{10}, []uint64{20}, nil)
	b := newApprovedGame(3, "b", []uint64{11}, nil, nil)

	svc := newRecommendationService(
		&fakeGameRepo{games: []*model.Game{source, a, b}},
		&fakeTaxonomyRepo{
			tagWeights:  map[uint64]float64{10: 2, 11: 1},
			modeWeights: map[uint64]float64{20: 1},
		},
	)

	first, err := svc.Recommend(context.Background(), "source", nil, 0)
	require.NoError(t, err)
	second, err := svc.Recommend(context.Background(), "source", nil, 0)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRecommendUpstreamFailure(t *testing.T) {
	source := newApprovedGame(1, "source", []uint64{10}, nil, nil)
	upstreamErr := errors.New("connection refused")

	svc := newRecommendationService(
		&fakeGameRepo{games: []*model.Game{source}},
		&fakeTaxonomyRepo{err: upstreamErr},
	)

	_, err := svc.Recommend(context.Background(), "source", nil, 0)
	require.ErrorIs(t, err, upstreamErr) // 数据层失败原样上抛，不返回部分结果
}
