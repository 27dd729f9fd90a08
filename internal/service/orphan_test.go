package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"CrossplayDB/internal/config"
	"CrossplayDB/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newOrphanService(gameRepo *fakeGameRepo, taxonomyRepo *fakeTaxonomyRepo) *OrphanAnalysisService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewOrphanAnalysisService(gameRepo, taxonomyRepo, logger, config.AnalysisConfig{
		GameLimit: 1000,
		TopN:      6,
		TopCount:  10,
		Timeout:   time.Minute,
	})
}

func TestOrphanAnalysisFindsIsolatedGame(t *testing.T) {
	// a 与 b 共享标签1互相推荐；isolated 与任何游戏无交集 → 孤儿
	a := newApprovedGame(1, "game-a", []uint64{1}, nil, nil)
	b := newApprovedGame(2, "game-b", []uint64{1}, nil, nil)
	isolated := newApprovedGame(3, "isolated-game", []uint64{99}, nil, nil)

	svc := newOrphanService(
		&fakeGameRepo{games: []*model.Game{a, b, isolated}},
		&fakeTaxonomyRepo{tagWeights: map[uint64]float64{1: 1, 99: 1}},
	)

	result := svc.Run(context.Background())
	require.Equal(t, TaskResultSuccess, result.Result)
	require.Contains(t, result.Message, "共3个已审核游戏")
	require.Contains(t, result.Message, "1个无任何入站推荐")
	require.Contains(t, result.Message, "isolated-game")
	// 互相推荐的双方各被1个来源推荐
	require.Contains(t, result.Message, "game-a(1次)")
	require.Contains(t, result.Message, "game-b(1次)")
}

func TestOrphanAnalysisPopularityCount(t *testing.T) {
	// hub 与其余3个游戏共享标签1；其余3个互相之间也共享，故无孤儿，
	// 每个游戏都被另外3个来源推荐
	games := make([]*model.Game, 0, 4)
	for i := uint64(1); i <= 4; i++ {
		games = append(games, newApprovedGame(i, fmt.Sprintf("game-%d", i), []uint64{1}, nil, nil))
	}

	svc := newOrphanService(
		&fakeGameRepo{games: games},
		&fakeTaxonomyRepo{tagWeights: map[uint64]float64{1: 1}},
	)

	result := svc.Run(context.Background())
	require.Equal(t, TaskResultSuccess, result.Result)
	require.Contains(t, result.Message, "0个无任何入站推荐")
	require.Contains(t, result.Message, "game-1(3次)")
	require.Contains(t, result.Message, "game-4(3次)")
}

func TestOrphanAnalysisTopNCap(t *testing.T) {
	// 10个候选与源共享标签，但每个来源只取Top-6：
	// 源游戏只会给ID最小的6个候选贡献计数
	games := []*model.Game{newApprovedGame(1, "source", []uint64{1}, nil, nil)}
	for i := uint64(2); i <= 11; i++ {
		games = append(games, newApprovedGame(i, fmt.Sprintf("game-%d", i), []uint64{1}, nil, nil))
	}

	svc := newOrphanService(
		&fakeGameRepo{games: games},
		&fakeTaxonomyRepo{tagWeights: map[uint64]float64{1: 1}},
	)

	result := svc.Run(context.Background())
	require.Equal(t, TaskResultSuccess, result.Result)
	// 同分按ID升序：任一来源的Top-6都落在ID 1..7 内，ID 8..11 永远进不了任何Top-6
	require.Contains(t, result.Message, "共11个已审核游戏")
	require.Contains(t, result.Message, "4个无任何入站推荐")
	require.Contains(t, result.Message, "game-11")
	require.NotContains(t, strings.Split(result.Message, "Top10")[1], "game-11(")
}

func TestOrphanAnalysisNoGames(t *testing.T) {
	svc := newOrphanService(&fakeGameRepo{}, &fakeTaxonomyRepo{})

	result := svc.Run(context.Background())
	require.Equal(t, TaskResultSuccess, result.Result)
	require.Contains(t, result.Message, "无已审核游戏")
}

func TestOrphanAnalysisSwallowsErrors(t *testing.T) {
	svc := newOrphanService(
		&fakeGameRepo{listErr: errors.New("connection refused")},
		&fakeTaxonomyRepo{},
	)

	result := svc.Run(context.Background())
	require.Equal(t, TaskResultError, result.Result)
	require.Contains(t, result.Message, "connection refused")
}
