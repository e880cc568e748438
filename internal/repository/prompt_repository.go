package repository

import (
	"csa_sim_backend/internal/model"

	"gorm.io/gorm"
)

type PromptRepository struct {
	DB *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{DB: db}
}

// FindCurrent 取当前生效的模板覆盖，没有则返回gorm.ErrRecordNotFound
func (r *PromptRepository) FindCurrent() (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.DB.Order("updated_at desc").First(&prompt).Error
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Save 单例覆盖写入，最后一次写入生效
func (r *PromptRepository) Save(text, updatedBy string) (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Order("updated_at desc").First(&prompt).Error
		if err == gorm.ErrRecordNotFound {
			prompt = model.Prompt{Text: text}
			if err := tx.Create(&prompt).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			prompt.Text = text
			if err := tx.Save(&prompt).Error; err != nil {
				return err
			}
		}

		history := model.PromptHistory{
			PromptID:  prompt.ID,
			Text:      text,
			UpdatedBy: updatedBy,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *PromptRepository) ListHistory(promptID string) ([]model.PromptHistory, error) {
	var histories []model.PromptHistory
	err := r.DB.Where("prompt_id = ?", promptID).Order("created_at desc").Find(&histories).Error
	return histories, err
}

func (r *PromptRepository) FindHistory(historyID string) (*model.PromptHistory, error) {
	var history model.PromptHistory
	err := r.DB.First(&history, "id = ?", historyID).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}
