package model

// FAQEntry 知识库条目，评分时作为背景上下文检索
// 由管理员上传的FAQ数据集CSV导入
// swagger:model FAQEntry
type FAQEntry struct {
	BaseModel
	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
	Source   string `gorm:"size:255" json:"source"`
}

func (FAQEntry) TableName() string {
	return "faq_entries"
}
