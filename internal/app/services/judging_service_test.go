package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openhacks/internal/app/auth"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

func newJudgingService(w *world) JudgingService {
	return NewJudgingService(fakeEvents{w}, fakeRounds{w}, fakeScores{w}, fakeSubmissions{w}, fakeUsers{w},
		w.authz(), ScoreBounds{Min: 0, Max: 10}, testLogger)
}

// judgingWorld has a submission on e1 judged by jay, a round r1 on e1 and a round r2 on e2
func judgingWorld() (*world, *models.Submission) {
	w := newWorld()
	w.addUser("jay")
	w.addEvent("e1", "org", -time.Hour)
	w.addEvent("e2", "org", -time.Hour)
	w.judges["e1"] = map[string]bool{"jay": true}
	w.rounds["r1"] = &models.Round{ID: "r1", EventID: "e1", Name: "Finals", Index: 1}
	w.rounds["r2"] = &models.Round{ID: "r2", EventID: "e2", Name: "Other", Index: 0}
	return w, w.addSubmission("e1", "t1")
}

func score(v float64) *float64 { return &v }

func TestCreateAndListRounds(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)
	svc := newJudgingService(w)

	_, err := svc.CreateRound(context.Background(), "org", &dto.CreateRoundRequest{EventID: "e1", Name: "Finals", Index: 2})
	require.NoError(t, err)
	_, err = svc.CreateRound(context.Background(), "org", &dto.CreateRoundRequest{EventID: "e1", Name: " Prelims ", Index: 1})
	require.NoError(t, err)

	_, err = svc.CreateRound(context.Background(), "jay", &dto.CreateRoundRequest{EventID: "e1", Name: "Sneaky"})
	assert.ErrorIs(t, err, auth.ErrNotOrganizer)

	rounds, err := svc.ListRounds(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "Prelims", rounds[0].Name)
	assert.Equal(t, "Finals", rounds[1].Name)

	_, err = svc.ListRounds(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCreateRoundDuplicateIndex(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)
	w.addEvent("e2", "org", time.Hour)
	var logs bytes.Buffer
	svc := NewJudgingService(fakeEvents{w}, fakeRounds{w}, fakeScores{w}, fakeSubmissions{w}, fakeUsers{w},
		w.authz(), ScoreBounds{Min: 0, Max: 10}, zerolog.New(&logs))

	_, err := svc.CreateRound(context.Background(), "org", &dto.CreateRoundRequest{EventID: "e1", Name: "Finals", Index: 1})
	require.NoError(t, err)
	_, err = svc.CreateRound(context.Background(), "org", &dto.CreateRoundRequest{EventID: "e2", Name: "Finals", Index: 1})
	require.NoError(t, err)

	_, err = svc.CreateRound(context.Background(), "org", &dto.CreateRoundRequest{EventID: "e1", Name: "Again", Index: 1})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Empty(t, logs.String())
}

func TestSubmitScoreUpserts(t *testing.T) {
	w, sub := judgingWorld()
	svc := newJudgingService(w)
	req := &dto.CreateScoreRequest{SubmissionID: sub.ID.Hex(), RoundID: "r1", Score: score(7.5)}

	first, err := svc.SubmitScore(context.Background(), "jay", req)
	require.NoError(t, err)
	assert.Equal(t, 7.5, first.Score)
	require.NotNil(t, first.Judge)
	assert.Equal(t, "JAY", first.Judge.Name)

	req.Score = score(9)
	second, err := svc.SubmitScore(context.Background(), "jay", req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 9.0, second.Score)
	assert.Len(t, w.scores, 1)
}

func TestSubmitScoreBounds(t *testing.T) {
	w, sub := judgingWorld()
	svc := newJudgingService(w)

	for _, v := range []float64{0, 10} {
		_, err := svc.SubmitScore(context.Background(), "jay", &dto.CreateScoreRequest{SubmissionID: sub.ID.Hex(), RoundID: "r1", Score: score(v)})
		assert.NoError(t, err, v)
	}
	for _, v := range []float64{-0.5, 10.5} {
		_, err := svc.SubmitScore(context.Background(), "jay", &dto.CreateScoreRequest{SubmissionID: sub.ID.Hex(), RoundID: "r1", Score: score(v)})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr, v)
		assert.Equal(t, "score must be between 0 and 10", verr.Fields["score"])
	}
}

func TestSubmitScoreChecks(t *testing.T) {
	w, sub := judgingWorld()
	svc := newJudgingService(w)
	id := sub.ID.Hex()

	tests := []struct {
		name   string
		caller string
		req    *dto.CreateScoreRequest
		want   error
	}{
		{"unknown submission", "jay", &dto.CreateScoreRequest{SubmissionID: "nope", RoundID: "r1", Score: score(5)}, ErrSubmissionNotFound},
		{"not a judge", "org", &dto.CreateScoreRequest{SubmissionID: id, RoundID: "r1", Score: score(5)}, auth.ErrNotJudge},
		{"unknown round", "jay", &dto.CreateScoreRequest{SubmissionID: id, RoundID: "r9", Score: score(5)}, ErrRoundNotFound},
		{"round of another event", "jay", &dto.CreateScoreRequest{SubmissionID: id, RoundID: "r2", Score: score(5)}, ErrRoundOtherEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitScore(context.Background(), tt.caller, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, w.scores)
}

func TestListScores(t *testing.T) {
	w, sub := judgingWorld()
	svc := newJudgingService(w)
	_, err := svc.SubmitScore(context.Background(), "jay", &dto.CreateScoreRequest{SubmissionID: sub.ID.Hex(), RoundID: "r1", Score: score(6)})
	require.NoError(t, err)

	scores, err := svc.ListScores(context.Background(), "org", sub.ID.Hex())
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "jay", scores[0].Judge.ID)

	_, err = svc.ListScores(context.Background(), "ann", sub.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
