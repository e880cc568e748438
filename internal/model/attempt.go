package model

// Attempt 学员一次作答及AI评分结果
// 三项分数在[1,5]区间，解析失败降级时为0
// swagger:model Attempt
type Attempt struct {
	UUIDBase
	UserID     string `gorm:"type:varchar(36);index;not null" json:"user_id"`
	QuestionID string `gorm:"type:varchar(36);index;not null" json:"question_id"`
	Answer     string `gorm:"type:text;not null" json:"answer"`
	SystemName string `gorm:"size:1024" json:"system_name"`
	SystemURL  string `gorm:"size:2048" json:"system_url"`

	AccuracyScore  int `gorm:"not null;default:0" json:"accuracy_score"`
	PrecisionScore int `gorm:"not null;default:0" json:"precision_score"`
	ToneScore      int `gorm:"not null;default:0" json:"tone_score"`

	AccuracyFeedback  string `gorm:"type:text" json:"accuracy_feedback"`
	PrecisionFeedback string `gorm:"type:text" json:"precision_feedback"`
	ToneFeedback      string `gorm:"type:text" json:"tone_feedback"`
	Feedback          string `gorm:"type:text" json:"feedback"`

	User     *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Question *Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Attempt) TableName() string {
	return "attempts"
}
