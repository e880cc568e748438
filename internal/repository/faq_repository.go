package repository

import (
	"csa_sim_backend/internal/model"

	"gorm.io/gorm"
)

type FAQRepository struct {
	DB *gorm.DB
}

func NewFAQRepository(db *gorm.DB) *FAQRepository {
	return &FAQRepository{DB: db}
}

func (r *FAQRepository) FindAll() ([]model.FAQEntry, error) {
	var entries []model.FAQEntry
	err := r.DB.Order("id asc").Find(&entries).Error
	return entries, err
}

func (r *FAQRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.FAQEntry{}).Count(&count).Error
	return count, err
}

// ReplaceAll 整表替换，数据集上传时全量覆盖旧语料
func (r *FAQRepository) ReplaceAll(entries []model.FAQEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&model.FAQEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 200).Error
	})
}
