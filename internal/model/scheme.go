package model

// Scheme 培训方案，一个方案下挂一组题目
// swagger:model Scheme
type Scheme struct {
	UUIDBase
	Name         string     `gorm:"size:191;unique;not null" json:"scheme_name"`
	CsaImageURL  string     `gorm:"size:512" json:"scheme_csa_img_path"`
	AdminImgURL  string     `gorm:"size:512" json:"scheme_admin_img_path"`
	Questions    []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Users        []User     `gorm:"many2many:user_schemes" json:"users,omitempty"`
}

func (Scheme) TableName() string {
	return "schemes"
}
