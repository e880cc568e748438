package service

import (
	"context"
	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/pkg/logger"
	"strconv"

	"go.uber.org/zap"
)

// ImprovementService 同一(题目,用户)相邻两次作答的对比分析
type ImprovementService struct {
	ai              ChatCompleter
	improvementRepo *repository.ImprovementRepository
}

func NewImprovementService(ai ChatCompleter, improvementRepo *repository.ImprovementRepository) *ImprovementService {
	return &ImprovementService{
		ai:              ai,
		improvementRepo: improvementRepo,
	}
}

// ScoreDeltas 逐维分差，算术计算，与模型反馈无关
type ScoreDeltas struct {
	Accuracy  int
	Precision int
	Tone      int
}

// ComputeDeltas 最近一次减上一次
func ComputeDeltas(last, previous *model.Attempt) ScoreDeltas {
	return ScoreDeltas{
		Accuracy:  last.AccuracyScore - previous.AccuracyScore,
		Precision: last.PrecisionScore - previous.PrecisionScore,
		Tone:      last.ToneScore - previous.ToneScore,
	}
}

// Analyze 计算分差、调用模型生成对比反馈、合并写入对比记录
// 模型反馈按原文存储，不做结构化解析
func (s *ImprovementService) Analyze(ctx context.Context, question *model.Question, last, previous *model.Attempt) (*model.Improvement, error) {
	deltas := ComputeDeltas(last, previous)

	prompt, err := RenderTemplate(DefaultImprovementTemplate, map[string]string{
		"question":           question.Details,
		"ideal":              question.Ideal,
		"ideal_system_name":  question.IdealSystemName,
		"ideal_system_url":   question.IdealSystemURL,
		"previous_answer":    previous.Answer,
		"previous_accuracy":  strconv.Itoa(previous.AccuracyScore),
		"previous_precision": strconv.Itoa(previous.PrecisionScore),
		"previous_tone":      strconv.Itoa(previous.ToneScore),
		"previous_system_name": previous.SystemName,
		"previous_system_url":  previous.SystemURL,
		"last_answer":          last.Answer,
		"last_accuracy":        strconv.Itoa(last.AccuracyScore),
		"last_precision":       strconv.Itoa(last.PrecisionScore),
		"last_tone":            strconv.Itoa(last.ToneScore),
		"last_system_name":     last.SystemName,
		"last_system_url":      last.SystemURL,
	})
	if err != nil {
		return nil, err
	}

	feedback, err := s.ai.Complete(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}

	imp := &model.Improvement{
		QuestionID:           question.ID,
		UserID:               last.UserID,
		LastAttemptID:        last.ID,
		PreviousAttemptID:    previous.ID,
		AccuracyImprovement:  deltas.Accuracy,
		PrecisionImprovement: deltas.Precision,
		ToneImprovement:      deltas.Tone,
		Feedback:             feedback,
	}

	if err := s.improvementRepo.Upsert(imp); err != nil {
		return nil, err
	}

	// upsert可能更新既有行，回读拿到真实记录ID
	stored, err := s.improvementRepo.FindByQuestionAndUser(question.ID, last.UserID)
	if err != nil {
		logger.Log.Error("failed to reload improvement after upsert", zap.Error(err))
		return imp, nil
	}
	return stored, nil
}

func (s *ImprovementService) GetByQuestionAndUser(questionID, userID string) (*model.Improvement, error) {
	return s.improvementRepo.FindByQuestionAndUser(questionID, userID)
}

func (s *ImprovementService) GetByID(id string) (*model.Improvement, error) {
	return s.improvementRepo.FindByID(id)
}

func (s *ImprovementService) ListByUser(userID string) ([]model.Improvement, error) {
	return s.improvementRepo.FindByUser(userID)
}
