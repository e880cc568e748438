package repository

import (
	"csa_sim_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, "id = ?", id).Error
	return &question, err
}

func (r *QuestionRepository) FindBySchemeID(schemeID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("scheme_id = ?", schemeID).Order("created_at asc").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Order("created_at asc").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountByScheme(schemeID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("scheme_id = ?", schemeID).Count(&count).Error
	return count, err
}

// ExistsByDetails 按题干文本查重，避免重复录入
func (r *QuestionRepository) ExistsByDetails(details string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("details = ?", details).Count(&count).Error
	return count > 0, err
}

func (r *QuestionRepository) ExistsByTitleAndScheme(title, schemeID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).
		Where("title = ? AND scheme_id = ?", title, schemeID).
		Count(&count).Error
	return count > 0, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

// Delete 删除题目并级联清理作答与对比记录
func (r *QuestionRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Improvement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.ManualFeedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, "id = ?", id).Error
	})
}
