package service

import (
	"context"
	"testing"

	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDeltas(t *testing.T) {
	previous := &model.Attempt{AccuracyScore: 3, PrecisionScore: 3, ToneScore: 3}
	last := &model.Attempt{AccuracyScore: 5, PrecisionScore: 2, ToneScore: 4}

	deltas := ComputeDeltas(last, previous)

	assert.Equal(t, 2, deltas.Accuracy)
	assert.Equal(t, -1, deltas.Precision)
	assert.Equal(t, 1, deltas.Tone)
}

func TestAnalyzeUpsertsSingleRecord(t *testing.T) {
	db := newTestDB(t)
	attemptRepo := repository.NewAttemptRepository(db)
	improvementRepo := repository.NewImprovementRepository(db)
	ai := &stubCompleter{reply: "You improved accuracy, focus on precision next."}
	svc := NewImprovementService(ai, improvementRepo)

	question := &model.Question{SchemeID: "scheme-1", Title: "Question 1", Details: "q", Ideal: "i"}
	require.NoError(t, db.Create(question).Error)

	first := &model.Attempt{UserID: "user-1", QuestionID: question.ID, Answer: "a1", AccuracyScore: 3, PrecisionScore: 3, ToneScore: 3}
	second := &model.Attempt{UserID: "user-1", QuestionID: question.ID, Answer: "a2", AccuracyScore: 5, PrecisionScore: 2, ToneScore: 4}
	require.NoError(t, attemptRepo.Create(first))
	require.NoError(t, attemptRepo.Create(second))

	imp, err := svc.Analyze(context.Background(), question, second, first)
	require.NoError(t, err)

	assert.Equal(t, 2, imp.AccuracyImprovement)
	assert.Equal(t, -1, imp.PrecisionImprovement)
	assert.Equal(t, 1, imp.ToneImprovement)
	assert.Equal(t, second.ID, imp.LastAttemptID)
	assert.Equal(t, first.ID, imp.PreviousAttemptID)
	assert.Equal(t, "You improved accuracy, focus on precision next.", imp.Feedback)

	// 第三次作答后对同一(题目,用户)再次分析，更新同一条记录
	third := &model.Attempt{UserID: "user-1", QuestionID: question.ID, Answer: "a3", AccuracyScore: 4, PrecisionScore: 4, ToneScore: 4}
	require.NoError(t, attemptRepo.Create(third))

	updated, err := svc.Analyze(context.Background(), question, third, second)
	require.NoError(t, err)

	assert.Equal(t, imp.ID, updated.ID)
	assert.Equal(t, third.ID, updated.LastAttemptID)
	assert.Equal(t, second.ID, updated.PreviousAttemptID)
	assert.Equal(t, -1, updated.AccuracyImprovement)
	assert.Equal(t, 2, updated.PrecisionImprovement)

	var count int64
	db.Model(&model.Improvement{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAnalyzePromptHidesIdealAnswer(t *testing.T) {
	db := newTestDB(t)
	improvementRepo := repository.NewImprovementRepository(db)
	ai := &stubCompleter{reply: "feedback"}
	svc := NewImprovementService(ai, improvementRepo)

	question := &model.Question{SchemeID: "s", Title: "t", Details: "the question", Ideal: "the ideal answer"}
	require.NoError(t, db.Create(question).Error)

	previous := &model.Attempt{UserID: "u", QuestionID: question.ID, Answer: "first"}
	last := &model.Attempt{UserID: "u", QuestionID: question.ID, Answer: "second"}
	require.NoError(t, db.Create(previous).Error)
	require.NoError(t, db.Create(last).Error)

	_, err := svc.Analyze(context.Background(), question, last, previous)
	require.NoError(t, err)

	require.Len(t, ai.prompts, 1)
	prompt := ai.prompts[0]
	assert.Contains(t, prompt, "the ideal answer")
	assert.Contains(t, prompt, "Do not mention that a reference or ideal answer exists")
	assert.Contains(t, prompt, "first")
	assert.Contains(t, prompt, "second")
}
