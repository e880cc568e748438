package service

import (
	"context"
	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/util"
	"csa_sim_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService 作答编排：创建作答 → 评分 → 落库 → 对比记录合并
type AttemptService struct {
	attemptRepo  *repository.AttemptRepository
	questionRepo *repository.QuestionRepository
	schemeRepo   *repository.SchemeRepository
	feedbackRepo *repository.ManualFeedbackRepository
	grading      *GradingService
	improvement  *ImprovementService
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	questionRepo *repository.QuestionRepository,
	schemeRepo *repository.SchemeRepository,
	feedbackRepo *repository.ManualFeedbackRepository,
	grading *GradingService,
	improvement *ImprovementService,
) *AttemptService {
	return &AttemptService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		schemeRepo:   schemeRepo,
		feedbackRepo: feedbackRepo,
		grading:      grading,
		improvement:  improvement,
	}
}

type CreateAttemptInput struct {
	UserID     string
	QuestionID string
	Answer     string
	SystemName string
	SystemURL  string
}

type CreateAttemptResult struct {
	AttemptID     string `json:"attempt_id"`
	ImprovementID string `json:"improvement_id,omitempty"`
	Degraded      bool   `json:"degraded"`
}

// CreateAttempt 评分成功才写作答记录，模型不可用时整个提交失败
// 已有历史作答时追加运行对比分析；对比分析失败不回滚已评分的作答
func (s *AttemptService) CreateAttempt(ctx context.Context, input CreateAttemptInput) (*CreateAttemptResult, error) {
	question, err := s.questionRepo.FindByID(input.QuestionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	// 取新作答之前最近的一次历史作答作为对比基准
	previous, err := s.attemptRepo.FindLatestForUserQuestion(input.UserID, input.QuestionID, "")
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	graded, err := s.grading.Grade(ctx, GradingInput{
		Question:        question.Details,
		Response:        input.Answer,
		Ideal:           question.Ideal,
		IdealSystemName: question.IdealSystemName,
		IdealSystemURL:  question.IdealSystemURL,
		SystemName:      input.SystemName,
		SystemURL:       input.SystemURL,
	})
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		UserID:            input.UserID,
		QuestionID:        input.QuestionID,
		Answer:            input.Answer,
		SystemName:        input.SystemName,
		SystemURL:         input.SystemURL,
		AccuracyScore:     graded.Record.AccuracyScore,
		PrecisionScore:    graded.Record.PrecisionScore,
		ToneScore:         graded.Record.ToneScore,
		AccuracyFeedback:  graded.Record.AccuracyFeedback,
		PrecisionFeedback: graded.Record.PrecisionFeedback,
		ToneFeedback:      graded.Record.ToneFeedback,
		Feedback:          graded.Record.Feedback,
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	result := &CreateAttemptResult{
		AttemptID: attempt.ID,
		Degraded:  graded.Degraded,
	}

	if previous != nil {
		imp, err := s.improvement.Analyze(ctx, question, attempt, previous)
		if err != nil {
			logger.Log.Error("improvement analysis failed",
				zap.String("attempt_id", attempt.ID),
				zap.Error(err),
			)
		} else {
			result.ImprovementID = imp.ID
		}
	}

	return result, nil
}

// AttemptDetail 作答详情，附带题目与方案信息
type AttemptDetail struct {
	model.Attempt
	Title           string `json:"title"`
	QuestionDetails string `json:"question_details"`
	SchemeName      string `json:"scheme_name"`
}

func (s *AttemptService) GetAttempt(id string) (*AttemptDetail, error) {
	attempt, err := s.attemptRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	detail := &AttemptDetail{Attempt: *attempt}
	if question, err := s.questionRepo.FindByID(attempt.QuestionID); err == nil {
		detail.Title = question.Title
		detail.QuestionDetails = question.Details
		if scheme, err := s.schemeRepo.FindByID(question.SchemeID); err == nil {
			detail.SchemeName = scheme.Name
		}
	}
	return detail, nil
}

func (s *AttemptService) ListUserAttempts(userID string) ([]AttemptDetail, error) {
	attempts, err := s.attemptRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	details := make([]AttemptDetail, 0, len(attempts))
	for _, a := range attempts {
		detail := AttemptDetail{Attempt: a}
		if question, err := s.questionRepo.FindByID(a.QuestionID); err == nil {
			detail.Title = question.Title
			detail.QuestionDetails = question.Details
			if scheme, err := s.schemeRepo.FindByID(question.SchemeID); err == nil {
				detail.SchemeName = scheme.Name
			}
		}
		details = append(details, detail)
	}
	return details, nil
}

// SchemeAverage 方案维度的平均分，只统计每题总分最高的一次作答
type SchemeAverage struct {
	SchemeName   string  `json:"scheme_name"`
	AccuracyAvg  float64 `json:"accuracy_score_avg"`
	PrecisionAvg float64 `json:"precision_score_avg"`
	ToneAvg      float64 `json:"tone_score_avg"`
}

// AverageScores 用户各方案的最佳作答平均分，末尾附全方案汇总行
// 用户关联但没有作答的方案补零行
func (s *AttemptService) AverageScores(userID string) ([]SchemeAverage, error) {
	attempts, err := s.attemptRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	// 每题保留总分最高的一次作答
	bestByQuestion := make(map[string]model.Attempt)
	for _, a := range attempts {
		best, ok := bestByQuestion[a.QuestionID]
		if !ok || a.AccuracyScore+a.PrecisionScore+a.ToneScore > best.AccuracyScore+best.PrecisionScore+best.ToneScore {
			bestByQuestion[a.QuestionID] = a
		}
	}

	type schemeTotals struct {
		accuracy  int
		precision int
		tone      int
		count     int
	}
	totals := make(map[string]*schemeTotals)
	var schemeOrder []string

	for _, a := range bestByQuestion {
		question, err := s.questionRepo.FindByID(a.QuestionID)
		if err != nil {
			continue
		}
		scheme, err := s.schemeRepo.FindByID(question.SchemeID)
		if err != nil {
			continue
		}
		t, ok := totals[scheme.Name]
		if !ok {
			t = &schemeTotals{}
			totals[scheme.Name] = t
			schemeOrder = append(schemeOrder, scheme.Name)
		}
		t.accuracy += a.AccuracyScore
		t.precision += a.PrecisionScore
		t.tone += a.ToneScore
		t.count++
	}

	var averages []SchemeAverage
	var allAccuracy, allPrecision, allTone float64
	for _, name := range schemeOrder {
		t := totals[name]
		avg := SchemeAverage{
			SchemeName:   name,
			AccuracyAvg:  float64(t.accuracy) / float64(t.count),
			PrecisionAvg: float64(t.precision) / float64(t.count),
			ToneAvg:      float64(t.tone) / float64(t.count),
		}
		averages = append(averages, avg)
		allAccuracy += avg.AccuracyAvg
		allPrecision += avg.PrecisionAvg
		allTone += avg.ToneAvg
	}

	if n := len(averages); n > 0 {
		allAccuracy /= float64(n)
		allPrecision /= float64(n)
		allTone /= float64(n)
	}
	averages = append(averages, SchemeAverage{
		SchemeName:   "All",
		AccuracyAvg:  allAccuracy,
		PrecisionAvg: allPrecision,
		ToneAvg:      allTone,
	})

	// 关联了但没有作答的方案补零
	userSchemes, err := s.schemeRepo.FindByUserID(userID)
	if err == nil {
		for _, scheme := range userSchemes {
			if _, ok := totals[scheme.Name]; !ok {
				averages = append(averages, SchemeAverage{SchemeName: scheme.Name})
			}
		}
	}

	return averages, nil
}

// TableRow 学员在某方案下的进度表行
type TableRow struct {
	model.Question
	Status    string `json:"status"`
	AttemptID string `json:"attempt"`
}

// ProgressTable 逐题返回完成状态与最近一次作答ID
func (s *AttemptService) ProgressTable(userID, schemeID string) ([]TableRow, error) {
	questions, err := s.questionRepo.FindBySchemeID(schemeID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuestionNotFound
	}

	questionIDs := make([]string, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	latest, err := s.attemptRepo.FindLatestForUserQuestions(userID, questionIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]TableRow, 0, len(questions))
	for _, q := range questions {
		row := TableRow{Question: q, Status: "uncompleted"}
		if a, ok := latest[q.ID]; ok {
			row.Status = "completed"
			row.AttemptID = a.ID
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RegradeQuestion 对某题全部历史作答原地重评，再重算各用户的对比记录
// 作答主键与时间戳不变，只覆盖分数与反馈字段
func (s *AttemptService) RegradeQuestion(ctx context.Context, questionID string) (int, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, util.ErrQuestionNotFound
		}
		return 0, err
	}

	attempts, err := s.attemptRepo.FindByQuestion(questionID)
	if err != nil {
		return 0, err
	}

	regraded := 0
	byUser := make(map[string][]model.Attempt)
	for _, a := range attempts {
		graded, err := s.grading.Grade(ctx, GradingInput{
			Question:        question.Details,
			Response:        a.Answer,
			Ideal:           question.Ideal,
			IdealSystemName: question.IdealSystemName,
			IdealSystemURL:  question.IdealSystemURL,
			SystemName:      a.SystemName,
			SystemURL:       a.SystemURL,
		})
		if err != nil {
			return regraded, err
		}

		a.AccuracyScore = graded.Record.AccuracyScore
		a.PrecisionScore = graded.Record.PrecisionScore
		a.ToneScore = graded.Record.ToneScore
		a.AccuracyFeedback = graded.Record.AccuracyFeedback
		a.PrecisionFeedback = graded.Record.PrecisionFeedback
		a.ToneFeedback = graded.Record.ToneFeedback
		a.Feedback = graded.Record.Feedback
		if err := s.attemptRepo.Update(&a); err != nil {
			return regraded, err
		}
		regraded++
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	// 重评后分差已变化，对有两次以上作答的用户重算对比记录
	for _, userAttempts := range byUser {
		if len(userAttempts) < 2 {
			continue
		}
		last := userAttempts[len(userAttempts)-1]
		previous := userAttempts[len(userAttempts)-2]
		if _, err := s.improvement.Analyze(ctx, question, &last, &previous); err != nil {
			logger.Log.Error("failed to refresh improvement after regrade",
				zap.String("question_id", questionID),
				zap.String("user_id", last.UserID),
				zap.Error(err),
			)
		}
	}

	return regraded, nil
}

// SaveManualFeedback 培训师人工点评，同一作答重复提交覆盖
func (s *AttemptService) SaveManualFeedback(attemptID, feedback string) (*model.ManualFeedback, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	fb := &model.ManualFeedback{
		AttemptID:  attempt.ID,
		UserID:     attempt.UserID,
		QuestionID: attempt.QuestionID,
		Feedback:   feedback,
	}
	if err := s.feedbackRepo.Upsert(fb); err != nil {
		return nil, err
	}
	return s.feedbackRepo.FindByAttempt(attemptID)
}

func (s *AttemptService) GetManualFeedback(attemptID string) (*model.ManualFeedback, error) {
	return s.feedbackRepo.FindByAttempt(attemptID)
}
