package model

type UserRole string

const (
	Trainee UserRole = "trainee"
	Trainer UserRole = "trainer"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	UUIDBase
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:100;unique;not null" json:"email"`
	Password     string   `gorm:"size:100;not null" json:"-"`
	AccessRights UserRole `gorm:"size:20;default:'trainee'" json:"access_rights"`
	Schemes      []Scheme `gorm:"many2many:user_schemes" json:"schemes,omitempty"`
}

func (User) TableName() string {
	return "users"
}
