package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/util"
	"csa_sim_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestionService 题库管理与题库 CSV 批量导入
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	schemeSvc    *SchemeService
}

func NewQuestionService(questionRepo *repository.QuestionRepository, schemeSvc *SchemeService) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, schemeSvc: schemeSvc}
}

type CreateQuestionInput struct {
	SchemeID        string `json:"scheme_id" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Difficulty      string `json:"difficulty"`
	Details         string `json:"question_details" binding:"required"`
	Ideal           string `json:"ideal" binding:"required"`
	IdealSystemName string `json:"ideal_system_name"`
	IdealSystemURL  string `json:"ideal_system_url"`
}

func (s *QuestionService) CreateQuestion(input CreateQuestionInput) (*model.Question, error) {
	if _, err := s.schemeSvc.GetScheme(input.SchemeID); err != nil {
		return nil, err
	}

	exists, err := s.questionRepo.ExistsByTitleAndScheme(input.Title, input.SchemeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrQuestionExists
	}

	question := &model.Question{
		SchemeID:        input.SchemeID,
		Title:           input.Title,
		Difficulty:      input.Difficulty,
		Details:         input.Details,
		Ideal:           input.Ideal,
		IdealSystemName: input.IdealSystemName,
		IdealSystemURL:  input.IdealSystemURL,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) GetQuestion(id string) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) ListQuestions(schemeID string) ([]model.Question, error) {
	if schemeID == "" {
		return s.questionRepo.FindAll()
	}
	if _, err := s.schemeSvc.GetScheme(schemeID); err != nil {
		return nil, err
	}
	return s.questionRepo.FindBySchemeID(schemeID)
}

type UpdateQuestionInput struct {
	Title           string `json:"title"`
	Difficulty      string `json:"difficulty"`
	Details         string `json:"question_details"`
	Ideal           string `json:"ideal"`
	IdealSystemName string `json:"ideal_system_name"`
	IdealSystemURL  string `json:"ideal_system_url"`
}

func (s *QuestionService) UpdateQuestion(id string, input UpdateQuestionInput) (*model.Question, error) {
	question, err := s.GetQuestion(id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		question.Title = input.Title
	}
	if input.Difficulty != "" {
		question.Difficulty = input.Difficulty
	}
	if input.Details != "" {
		question.Details = input.Details
	}
	if input.Ideal != "" {
		question.Ideal = input.Ideal
	}
	if input.IdealSystemName != "" {
		question.IdealSystemName = input.IdealSystemName
	}
	if input.IdealSystemURL != "" {
		question.IdealSystemURL = input.IdealSystemURL
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) DeleteQuestion(id string) error {
	if _, err := s.GetQuestion(id); err != nil {
		return err
	}
	return s.questionRepo.Delete(id)
}

// ImportSummary 题库导入结果统计
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// 题库 CSV 的固定列名
const (
	datasetColScheme     = "Scheme"
	datasetColQuestion   = "Question"
	datasetColComplexity = "Complexity"
	datasetColEnquiry    = "Enquiry"
	datasetColReply      = "Reply"
)

// ImportDataset 按固定表头解析题库 CSV：方案不存在则自动建，题干重复跳过
// 参考系统列 System 1..4 / System 1 URL..System 4 URL 合并为逗号分隔串
func (s *QuestionService) ImportDataset(r io.Reader) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{datasetColScheme, datasetColQuestion, datasetColEnquiry, datasetColReply} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	summary := &ImportSummary{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse dataset line %d: %w", line, err)
		}

		schemeName := field(record, datasetColScheme)
		details := field(record, datasetColEnquiry)
		ideal := field(record, datasetColReply)
		if schemeName == "" || details == "" || ideal == "" {
			summary.Skipped++
			continue
		}

		exists, err := s.questionRepo.ExistsByDetails(details)
		if err != nil {
			return nil, err
		}
		if exists {
			summary.Skipped++
			continue
		}

		scheme, err := s.schemeSvc.FindOrCreateScheme(schemeName)
		if err != nil {
			return nil, err
		}

		var systemNames, systemURLs []string
		for i := 1; i <= 4; i++ {
			name := field(record, fmt.Sprintf("System %d", i))
			if name == "" {
				continue
			}
			systemNames = append(systemNames, name)
			systemURLs = append(systemURLs, field(record, fmt.Sprintf("System %d URL", i)))
		}

		count, err := s.questionRepo.CountByScheme(scheme.ID)
		if err != nil {
			return nil, err
		}

		question := &model.Question{
			SchemeID:        scheme.ID,
			Title:           fmt.Sprintf("Question %d", count+1),
			Difficulty:      field(record, datasetColComplexity),
			Details:         details,
			Ideal:           ideal,
			IdealSystemName: strings.Join(systemNames, ","),
			IdealSystemURL:  strings.Join(systemURLs, ","),
		}
		if err := s.questionRepo.Create(question); err != nil {
			return nil, err
		}
		summary.Imported++
	}

	logger.Log.Info("dataset import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}
