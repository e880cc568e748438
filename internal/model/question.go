package model

// Question 培训题目，ideal字段为评分锚点的标准答案
// 多个系统名称/URL用逗号拼接存储，与CSV导入格式一致
// swagger:model Question
type Question struct {
	UUIDBase
	SchemeID        string `gorm:"type:varchar(36);index;not null" json:"scheme_id"`
	Title           string `gorm:"size:512;not null" json:"title"`
	Difficulty      string `gorm:"size:50" json:"question_difficulty"`
	Details         string `gorm:"type:text;not null" json:"question_details"`
	Ideal           string `gorm:"type:text;not null" json:"ideal"`
	IdealSystemName string `gorm:"size:1024" json:"ideal_system_name"`
	IdealSystemURL  string `gorm:"size:2048" json:"ideal_system_url"`

	Scheme *Scheme `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}
