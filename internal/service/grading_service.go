package service

import (
	"context"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/pkg/logger"
	"csa_sim_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContextRetriever 背景语料检索边界
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) []string
}

// GradingService 评分流水线：名称核对 → 模板渲染 → 语料检索 → 模型调用 → 容错解析
type GradingService struct {
	ai         ChatCompleter
	retriever  ContextRetriever
	promptRepo *repository.PromptRepository
	topK       int
}

func NewGradingService(ai ChatCompleter, retriever ContextRetriever, promptRepo *repository.PromptRepository, topK int) *GradingService {
	return &GradingService{
		ai:         ai,
		retriever:  retriever,
		promptRepo: promptRepo,
		topK:       topK,
	}
}

// GradingInput 评分流水线输入，由作答编排层从题目与提交内容组装
type GradingInput struct {
	Question        string
	Response        string
	Ideal           string
	IdealSystemName string
	IdealSystemURL  string
	SystemName      string
	SystemURL       string
}

// Grade 执行一次完整评分
// 模型调用失败返回ErrGradingUnavailable；输出解析永不失败，最多降级为哨兵记录
func (s *GradingService) Grade(ctx context.Context, input GradingInput) (ScoreParseResult, error) {
	start := time.Now()

	traineeNames := SplitSystemList(input.SystemName)
	idealNames := SplitSystemList(input.IdealSystemName)
	complete, missing := MatchSystemNames(traineeNames, idealNames)
	nameFeedback := SystemNameFeedback(complete, missing)

	prompt, err := RenderTemplate(s.gradingTemplate(), map[string]string{
		"question":          input.Question,
		"response":          input.Response,
		"ideal":             input.Ideal,
		"feedback":          nameFeedback,
		"ideal_system_name": input.IdealSystemName,
		"ideal_system_url":  input.IdealSystemURL,
		"system_name":       input.SystemName,
		"system_url":        input.SystemURL,
	})
	if err != nil {
		return ScoreParseResult{}, err
	}

	contextDocs := s.retriever.Retrieve(ctx, input.Question, s.topK)

	raw, err := s.ai.Complete(ctx, prompt, contextDocs)
	if err != nil {
		monitoring.GradingCounter.WithLabelValues("failed").Inc()
		return ScoreParseResult{}, err
	}

	result := ParseScores(raw)
	if result.Degraded {
		monitoring.GradingCounter.WithLabelValues("degraded").Inc()
		logger.Log.Warn("grading result degraded",
			zap.String("reason", result.Reason),
			zap.String("raw_output", truncate(raw, 500)),
		)
	} else {
		monitoring.GradingCounter.WithLabelValues("graded").Inc()
	}

	monitoring.GradingDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// gradingTemplate 管理员配置的覆盖模板优先，空白则回退内置默认
func (s *GradingService) gradingTemplate() string {
	prompt, err := s.promptRepo.FindCurrent()
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Log.Error("failed to load prompt override, using default", zap.Error(err))
		}
		return DefaultGradingTemplate
	}
	if strings.TrimSpace(prompt.Text) == "" {
		return DefaultGradingTemplate
	}
	return prompt.Text
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
