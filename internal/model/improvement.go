package model

// Improvement 同一(题目,用户)最近两次作答的对比记录
// 每个(question_id,user_id)至多一条，唯一索引配合upsert防止并发重复创建
// swagger:model Improvement
type Improvement struct {
	UUIDBase
	QuestionID        string `gorm:"type:varchar(36);not null;uniqueIndex:uq_improvement_question_user" json:"question_id"`
	UserID            string `gorm:"type:varchar(36);not null;uniqueIndex:uq_improvement_question_user" json:"user_id"`
	LastAttemptID     string `gorm:"type:varchar(36);not null" json:"last_attempt_id"`
	PreviousAttemptID string `gorm:"type:varchar(36);not null" json:"previous_attempt_id"`

	// 分差：最近一次减上一次，可为负
	AccuracyImprovement  int `gorm:"not null" json:"accuracy_improvement"`
	PrecisionImprovement int `gorm:"not null" json:"precision_improvement"`
	ToneImprovement      int `gorm:"not null" json:"tone_improvement"`

	Feedback string `gorm:"type:text;not null" json:"improvement_feedback"`

	Question        *Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LastAttempt     *Attempt  `gorm:"foreignKey:LastAttemptID" json:"last_attempt,omitempty"`
	PreviousAttempt *Attempt  `gorm:"foreignKey:PreviousAttemptID" json:"previous_attempt,omitempty"`
}

func (Improvement) TableName() string {
	return "improvements"
}
