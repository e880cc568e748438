package service

import (
	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/util"

	"gorm.io/gorm"
)

// PromptService 评分提示词模板的查看、覆盖与回滚
type PromptService struct {
	promptRepo *repository.PromptRepository
}

func NewPromptService(promptRepo *repository.PromptRepository) *PromptService {
	return &PromptService{promptRepo: promptRepo}
}

// CurrentPrompt 当前生效模板，没有覆盖时返回内置默认模板
func (s *PromptService) CurrentPrompt() (*model.Prompt, error) {
	prompt, err := s.promptRepo.FindCurrent()
	if err == gorm.ErrRecordNotFound {
		return &model.Prompt{Text: DefaultGradingTemplate}, nil
	}
	if err != nil {
		return nil, err
	}
	if prompt.Text == "" {
		prompt.Text = DefaultGradingTemplate
	}
	return prompt, nil
}

// SavePrompt 保存前校验评分必需占位符齐全
func (s *PromptService) SavePrompt(text, updatedBy string) (*model.Prompt, error) {
	if err := ValidateGradingTemplate(text); err != nil {
		return nil, err
	}
	return s.promptRepo.Save(text, updatedBy)
}

// ResetPrompt 恢复内置默认模板
func (s *PromptService) ResetPrompt(updatedBy string) (*model.Prompt, error) {
	return s.promptRepo.Save(DefaultGradingTemplate, updatedBy)
}

func (s *PromptService) History() ([]model.PromptHistory, error) {
	prompt, err := s.promptRepo.FindCurrent()
	if err == gorm.ErrRecordNotFound {
		return []model.PromptHistory{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.promptRepo.ListHistory(prompt.ID)
}

// Revert 回滚到某条历史版本，历史文本同样要过占位符校验
func (s *PromptService) Revert(historyID, updatedBy string) (*model.Prompt, error) {
	history, err := s.promptRepo.FindHistory(historyID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrPromptNotFound
		}
		return nil, err
	}
	if err := ValidateGradingTemplate(history.Text); err != nil {
		return nil, err
	}
	return s.promptRepo.Save(history.Text, updatedBy)
}
