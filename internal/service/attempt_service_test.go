package service

import (
	"context"
	"errors"
	"testing"

	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type attemptFixture struct {
	db       *gorm.DB
	ai       *stubCompleter
	svc      *AttemptService
	scheme   *model.Scheme
	question *model.Question
	user     *model.User
}

func newAttemptFixture(t *testing.T) *attemptFixture {
	db := newTestDB(t)
	ai := &stubCompleter{reply: validScoreJSON}

	attemptRepo := repository.NewAttemptRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)
	feedbackRepo := repository.NewManualFeedbackRepository(db)
	promptRepo := repository.NewPromptRepository(db)
	improvementRepo := repository.NewImprovementRepository(db)

	grading := NewGradingService(ai, &stubRetriever{}, promptRepo, 4)
	improvement := NewImprovementService(ai, improvementRepo)
	svc := NewAttemptService(attemptRepo, questionRepo, schemeRepo, feedbackRepo, grading, improvement)

	scheme := &model.Scheme{Name: "Billing"}
	require.NoError(t, db.Create(scheme).Error)
	question := &model.Question{
		SchemeID: scheme.ID,
		Title:    "Question 1",
		Details:  "How do I dispute a charge?",
		Ideal:    "Open a dispute via the billing portal.",
	}
	require.NoError(t, db.Create(question).Error)
	user := &model.User{Name: "Trainee", Email: "trainee@example.com", Password: "x", AccessRights: model.Trainee}
	require.NoError(t, db.Create(user).Error)

	return &attemptFixture{db: db, ai: ai, svc: svc, scheme: scheme, question: question, user: user}
}

func TestCreateAttemptFirstTime(t *testing.T) {
	f := newAttemptFixture(t)

	result, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID:     f.user.ID,
		QuestionID: f.question.ID,
		Answer:     "Call support.",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AttemptID)
	assert.False(t, result.Degraded)
	// 首次作答没有历史可比，不产生对比记录
	assert.Empty(t, result.ImprovementID)

	var attempt model.Attempt
	require.NoError(t, f.db.First(&attempt, "id = ?", result.AttemptID).Error)
	assert.Equal(t, 4, attempt.AccuracyScore)
	assert.Equal(t, 3, attempt.PrecisionScore)
	assert.Equal(t, 5, attempt.ToneScore)
	assert.Equal(t, "af", attempt.AccuracyFeedback)
}

func TestCreateAttemptSecondTimeCreatesImprovement(t *testing.T) {
	f := newAttemptFixture(t)

	_, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: f.question.ID, Answer: "first try",
	})
	require.NoError(t, err)

	result, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: f.question.ID, Answer: "second try",
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.ImprovementID)
	var imp model.Improvement
	require.NoError(t, f.db.First(&imp, "id = ?", result.ImprovementID).Error)
	assert.Equal(t, f.question.ID, imp.QuestionID)
	assert.Equal(t, f.user.ID, imp.UserID)
	// 两次评分相同，分差为零
	assert.Equal(t, 0, imp.AccuracyImprovement)
}

func TestCreateAttemptUnknownQuestion(t *testing.T) {
	f := newAttemptFixture(t)

	_, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: "missing", Answer: "a",
	})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestCreateAttemptGradingFailureLeavesNothing(t *testing.T) {
	f := newAttemptFixture(t)
	f.ai.err = util.ErrGradingUnavailable

	_, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: f.question.ID, Answer: "a",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrGradingUnavailable))

	var count int64
	f.db.Model(&model.Attempt{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetAttemptDetail(t *testing.T) {
	f := newAttemptFixture(t)

	created, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: f.question.ID, Answer: "a",
	})
	require.NoError(t, err)

	detail, err := f.svc.GetAttempt(created.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, "Question 1", detail.Title)
	assert.Equal(t, "How do I dispute a charge?", detail.QuestionDetails)
	assert.Equal(t, "Billing", detail.SchemeName)

	_, err = f.svc.GetAttempt("missing")
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestProgressTable(t *testing.T) {
	f := newAttemptFixture(t)

	second := &model.Question{SchemeID: f.scheme.ID, Title: "Question 2", Details: "q2", Ideal: "i2"}
	require.NoError(t, f.db.Create(second).Error)

	created, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: f.question.ID, Answer: "a",
	})
	require.NoError(t, err)

	rows, err := f.svc.ProgressTable(f.user.ID, f.scheme.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "completed", rows[0].Status)
	assert.Equal(t, created.AttemptID, rows[0].AttemptID)
	assert.Equal(t, "uncompleted", rows[1].Status)
	assert.Empty(t, rows[1].AttemptID)
}

func TestAverageScores(t *testing.T) {
	f := newAttemptFixture(t)

	_, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: f.question.ID, Answer: "a",
	})
	require.NoError(t, err)

	averages, err := f.svc.AverageScores(f.user.ID)
	require.NoError(t, err)
	require.Len(t, averages, 2)

	assert.Equal(t, "Billing", averages[0].SchemeName)
	assert.InDelta(t, 4.0, averages[0].AccuracyAvg, 0.001)
	assert.InDelta(t, 3.0, averages[0].PrecisionAvg, 0.001)
	assert.InDelta(t, 5.0, averages[0].ToneAvg, 0.001)

	assert.Equal(t, "All", averages[1].SchemeName)
	assert.InDelta(t, 4.0, averages[1].AccuracyAvg, 0.001)
}

func TestRegradeQuestion(t *testing.T) {
	f := newAttemptFixture(t)

	created, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: f.question.ID, Answer: "a",
	})
	require.NoError(t, err)

	// 模板或题目调整后重评，分数被覆盖但记录ID不变
	f.ai.reply = `{"Accuracy": 1, "Precision": 1, "Tone": 1, "Accuracy Feedback": "new", "Precision Feedback": "new", "Tone Feedback": "new", "Feedback": "new"}`

	regraded, err := f.svc.RegradeQuestion(context.Background(), f.question.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, regraded)

	var attempt model.Attempt
	require.NoError(t, f.db.First(&attempt, "id = ?", created.AttemptID).Error)
	assert.Equal(t, 1, attempt.AccuracyScore)
	assert.Equal(t, "new", attempt.Feedback)
}

func TestManualFeedbackUpsert(t *testing.T) {
	f := newAttemptFixture(t)

	created, err := f.svc.CreateAttempt(context.Background(), CreateAttemptInput{
		UserID: f.user.ID, QuestionID: f.question.ID, Answer: "a",
	})
	require.NoError(t, err)

	fb, err := f.svc.SaveManualFeedback(created.AttemptID, "good work")
	require.NoError(t, err)
	assert.Equal(t, "good work", fb.Feedback)
	assert.Equal(t, f.user.ID, fb.UserID)

	// 重复点评覆盖，不新增记录
	fb2, err := f.svc.SaveManualFeedback(created.AttemptID, "even better")
	require.NoError(t, err)
	assert.Equal(t, "even better", fb2.Feedback)

	var count int64
	f.db.Model(&model.ManualFeedback{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = f.svc.SaveManualFeedback("missing", "x")
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}
