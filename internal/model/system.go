package model

// ReferenceSystem 学员作答时可引用的内部系统清单
// swagger:model ReferenceSystem
type ReferenceSystem struct {
	BaseModel
	Name      string `gorm:"size:255;not null" json:"name"`
	URL       string `gorm:"size:1024;not null" json:"url"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`
}

func (ReferenceSystem) TableName() string {
	return "reference_systems"
}
