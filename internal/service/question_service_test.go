package service

import (
	"testing"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_ScoresAndUsesGatewayFeedback(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.feedback = "Solid grasp of backlog basics."

	res, err := env.examSvc.Submit(env.ctx, nil, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, "Solid grasp of backlog basics.", res.Feedback)
	assert.Equal(t, model.Timestamp(fixedNow), res.Date)
}

func TestSubmit_FallbackFeedback(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.feedbackErr = util.ErrGatewayUnavailable

	res, err := env.examSvc.Submit(env.ctx, &model.UserProfile{Background: "QA"}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, FeedbackFallback, res.Feedback)
}

func TestSubmit_Rejects(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.examSvc.Submit(env.ctx, nil, []int{0, 0, 0, 0})
	assert.ErrorIs(t, err, util.ErrValidation)

	require.NoError(t, repository.SetJSON(env.ctx, env.store, repository.KeyQuestions, []model.Question{}))
	_, err = env.examSvc.Submit(env.ctx, nil, nil)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestQuestionCRUD(t *testing.T) {
	env := newTestEnv(t)

	q, err := env.examSvc.Create(env.ctx, QuestionInput{
		Text:         "Who owns the product backlog?",
		Options:      []string{" PO ", "Scrum Master", "Team", "Stakeholders"},
		CorrectIndex: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "PO", q.Options[0])

	_, err = env.examSvc.Create(env.ctx, QuestionInput{Text: "?", Options: []string{"a"}})
	assert.ErrorIs(t, err, util.ErrValidation)

	updated, err := env.examSvc.Update(env.ctx, q.ID, QuestionInput{Text: "Backlog owner?", Options: []string{"PO", "SM"}, CorrectIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, "Backlog owner?", updated.Text)

	_, err = env.examSvc.Update(env.ctx, "missing", QuestionInput{Text: "x", Options: []string{"a", "b"}})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	exam, err := env.examSvc.Exam(env.ctx)
	require.NoError(t, err)
	assert.Len(t, exam, 4)

	require.NoError(t, env.examSvc.Delete(env.ctx, q.ID))
	assert.ErrorIs(t, env.examSvc.Delete(env.ctx, q.ID), util.ErrQuestionNotFound)
}
