package database

import (
	"csa_sim_backend/internal/config"
	"csa_sim_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = Migrate(db)
	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Scheme{},
		&model.Question{},
		&model.Attempt{},
		&model.Improvement{},
		&model.Prompt{},
		&model.PromptHistory{},
		&model.ManualFeedback{},
		&model.ReferenceSystem{},
		&model.FAQEntry{},
	)
}

// SeedDefaults 植入默认管理员和默认参考系统，重复启动不重复写入
func SeedDefaults(db *gorm.DB, admin *config.AdminConfig) error {
	if admin.Email != "" {
		var count int64
		db.Model(&model.User{}).Where("email = ?", admin.Email).Count(&count)
		if count == 0 {
			hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			defaultAdmin := &model.User{
				Email:        admin.Email,
				Password:     string(hashed),
				Name:         admin.Name,
				AccessRights: model.Admin,
			}
			if err := db.Create(defaultAdmin).Error; err != nil {
				return err
			}
			log.Println("Default admin user added")
		}
	}

	var sysCount int64
	db.Model(&model.ReferenceSystem{}).Count(&sysCount)
	if sysCount == 0 {
		defaultSystems := []model.ReferenceSystem{
			{Name: "Knowledge Base", URL: "https://kb.example.com", IsDefault: true},
			{Name: "Case Management System", URL: "https://cases.example.com", IsDefault: true},
			{Name: "Billing Portal", URL: "https://billing.example.com", IsDefault: true},
		}
		for _, s := range defaultSystems {
			db.Create(&s)
		}
	}

	return nil
}
