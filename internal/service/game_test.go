package service

import (
	"context"
	"testing"

	"CrossplayDB/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newGameService(gameRepo *fakeGameRepo) *GameService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewGameService(gameRepo, &fakeTaxonomyRepo{}, logger)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Rocket League", "rocket-league"},
		{"punctuation", "It Takes Two!", "it-takes-two"},
		{"mixed case and spaces", "  Sea of Thieves  ", "sea-of-thieves"},
		{"numbers kept", "Overcooked 2", "overcooked-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubmitGameValidation(t *testing.T) {
	svc := newGameService(&fakeGameRepo{})

	_, err := svc.SubmitGame(context.Background(), &SubmissionInput{
		PlatformGroups: [][]uint64{{1, 2}},
	})
	require.ErrorIs(t, err, ErrInvalidSubmission) // 缺名称

	_, err = svc.SubmitGame(context.Background(), &SubmissionInput{Name: "Some Game"})
	require.ErrorIs(t, err, ErrInvalidSubmission) // 无任何平台组合

	_, err = svc.SubmitGame(context.Background(), &SubmissionInput{
		Name:           "Some Game",
		PlatformGroups: [][]uint64{{1}},
	})
	require.ErrorIs(t, err, ErrInvalidSubmission) // 互通组至少两个平台
}

func TestSubmitGameCreatesPending(t *testing.T) {
	repo := &fakeGameRepo{}
	svc := newGameService(repo)

	game, err := svc.SubmitGame(context.Background(), &SubmissionInput{
		Name:           "Rocket League",
		TagIDs:         []uint64{1, 2},
		ModeIDs:        []uint64{3},
		PlatformGroups: [][]uint64{{1, 2, 3}},
		StoreEntries:   []StoreEntryInput{{StoreID: 1, PlatformID: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, "rocket-league", game.Slug)
	require.Equal(t, model.GameStatusPending, game.Status)
	require.Len(t, game.Tags, 2)
	require.Len(t, game.GameModes, 1)
	require.Len(t, game.PlatformGroups, 1)
	require.Len(t, game.StorePlatforms, 1)
}

func TestReviewGame(t *testing.T) {
	repo := &fakeGameRepo{games: []*model.Game{newApprovedGame(1, "game", nil, nil, nil)}}
	svc := newGameService(repo)

	require.ErrorIs(t, svc.ReviewGame(context.Background(), 1, "published"), ErrInvalidStatus)
	require.ErrorIs(t, svc.ReviewGame(context.Background(), 404, model.GameStatusApproved), ErrGameNotFound)

	require.NoError(t, svc.ReviewGame(context.Background(), 1, model.GameStatusRejected))
	require.Equal(t, model.GameStatusRejected, repo.games[0].Status)
}

func TestUpdateWeightValidation(t *testing.T) {
	svc := newGameService(&fakeGameRepo{})

	require.ErrorIs(t, svc.UpdateTagWeight(context.Background(), 1, 0), ErrInvalidWeight)
	require.ErrorIs(t, svc.UpdateTagWeight(context.Background(), 1, -2), ErrInvalidWeight)
	require.NoError(t, svc.UpdateTagWeight(context.Background(), 1, 4.5))
	require.ErrorIs(t, svc.UpdateGameModeWeight(context.Background(), 1, 0), ErrInvalidWeight)
}
