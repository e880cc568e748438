package repository

import (
	"csa_sim_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImprovementRepository struct {
	DB *gorm.DB
}

func NewImprovementRepository(db *gorm.DB) *ImprovementRepository {
	return &ImprovementRepository{DB: db}
}

// Upsert 以(question_id,user_id)唯一索引做合并写入
// 并发提交同一(用户,题目)时收敛为一条记录，不会产生重复行
func (r *ImprovementRepository) Upsert(imp *model.Improvement) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "question_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_attempt_id",
			"previous_attempt_id",
			"accuracy_improvement",
			"precision_improvement",
			"tone_improvement",
			"feedback",
			"updated_at",
		}),
	}).Create(imp).Error
}

func (r *ImprovementRepository) FindByQuestionAndUser(questionID, userID string) (*model.Improvement, error) {
	var imp model.Improvement
	err := r.DB.Where("question_id = ? AND user_id = ?", questionID, userID).First(&imp).Error
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

func (r *ImprovementRepository) FindByID(id string) (*model.Improvement, error) {
	var imp model.Improvement
	err := r.DB.Preload("LastAttempt").Preload("PreviousAttempt").First(&imp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

func (r *ImprovementRepository) FindByUser(userID string) ([]model.Improvement, error) {
	var imps []model.Improvement
	err := r.DB.Where("user_id = ?", userID).Order("updated_at desc").Find(&imps).Error
	return imps, err
}
