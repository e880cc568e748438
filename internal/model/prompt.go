package model

// Prompt 管理员维护的评分提示词模板，单例，留空则使用内置默认模板
// swagger:model Prompt
type Prompt struct {
	UUIDBase
	Text string `gorm:"type:text;not null" json:"prompt_text"`
}

func (Prompt) TableName() string {
	return "prompts"
}

// PromptHistory 模板修改历史，支持回退
// swagger:model PromptHistory
type PromptHistory struct {
	UUIDBase
	PromptID  string `gorm:"type:varchar(36);index;not null" json:"prompt_id"`
	Text      string `gorm:"type:text;not null" json:"prompt_text"`
	UpdatedBy string `gorm:"size:100" json:"updated_by"`
}

func (PromptHistory) TableName() string {
	return "prompt_histories"
}
