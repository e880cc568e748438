package repository

import (
	"csa_sim_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ManualFeedbackRepository struct {
	DB *gorm.DB
}

func NewManualFeedbackRepository(db *gorm.DB) *ManualFeedbackRepository {
	return &ManualFeedbackRepository{DB: db}
}

// Upsert 每次作答至多一条人工点评，重复提交覆盖
func (r *ManualFeedbackRepository) Upsert(fb *model.ManualFeedback) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"feedback", "updated_at"}),
	}).Create(fb).Error
}

func (r *ManualFeedbackRepository) FindByAttempt(attemptID string) (*model.ManualFeedback, error) {
	var fb model.ManualFeedback
	err := r.DB.Where("attempt_id = ?", attemptID).First(&fb).Error
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *ManualFeedbackRepository) FindByUser(userID string) ([]model.ManualFeedback, error) {
	var fbs []model.ManualFeedback
	err := r.DB.Where("user_id = ?", userID).Order("updated_at desc").Find(&fbs).Error
	return fbs, err
}
