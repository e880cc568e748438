package model

// ManualFeedback 培训师对某次作答的人工点评，每次作答至多一条
// swagger:model ManualFeedback
type ManualFeedback struct {
	UUIDBase
	AttemptID  string `gorm:"type:varchar(36);uniqueIndex;not null" json:"attempt_id"`
	UserID     string `gorm:"type:varchar(36);index;not null" json:"user_id"`
	QuestionID string `gorm:"type:varchar(36);index;not null" json:"question_id"`
	Feedback   string `gorm:"type:text;not null" json:"feedback"`

	Attempt *Attempt `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (ManualFeedback) TableName() string {
	return "manual_feedbacks"
}
