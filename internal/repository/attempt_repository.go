package repository

import (
	"csa_sim_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.First(&attempt, "id = ?", id).Error
	return &attempt, err
}

func (r *AttemptRepository) FindByUser(userID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) FindByQuestion(questionID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("question_id = ?", questionID).Order("created_at asc").Find(&attempts).Error
	return attempts, err
}

// FindLatestForUserQuestion 取某用户在某题上最近一次作答，可通过excludeID排除刚创建的记录
func (r *AttemptRepository) FindLatestForUserQuestion(userID, questionID, excludeID string) (*model.Attempt, error) {
	var attempt model.Attempt
	q := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Order("created_at desc").First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CountForUserQuestion(userID, questionID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count, err
}

// CountDistinctQuestions 统计用户在给定题目集合中已作答的题数
func (r *AttemptRepository) CountDistinctQuestions(userID string, questionIDs []string) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Distinct("question_id").
		Count(&count).Error
	return count, err
}

// FindLatestForUserQuestions 用户在某方案各题上最近一次作答，按题目ID返回
func (r *AttemptRepository) FindLatestForUserQuestions(userID string, questionIDs []string) (map[string]model.Attempt, error) {
	result := make(map[string]model.Attempt)
	if len(questionIDs) == 0 {
		return result, nil
	}
	var attempts []model.Attempt
	err := r.DB.Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Order("created_at asc").Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		result[a.QuestionID] = a
	}
	return result, nil
}

// Update 回写重评后的分数与反馈，主键与时间戳保持不变
func (r *AttemptRepository) Update(attempt *model.Attempt) error {
	return r.DB.Model(&model.Attempt{}).Where("id = ?", attempt.ID).Updates(map[string]interface{}{
		"accuracy_score":     attempt.AccuracyScore,
		"precision_score":    attempt.PrecisionScore,
		"tone_score":         attempt.ToneScore,
		"accuracy_feedback":  attempt.AccuracyFeedback,
		"precision_feedback": attempt.PrecisionFeedback,
		"tone_feedback":      attempt.ToneFeedback,
		"feedback":           attempt.Feedback,
	}).Error
}
