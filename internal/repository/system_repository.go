package repository

import (
	"csa_sim_backend/internal/model"

	"gorm.io/gorm"
)

type SystemRepository struct {
	DB *gorm.DB
}

func NewSystemRepository(db *gorm.DB) *SystemRepository {
	return &SystemRepository{DB: db}
}

func (r *SystemRepository) Create(system *model.ReferenceSystem) error {
	return r.DB.Create(system).Error
}

func (r *SystemRepository) FindAll() ([]model.ReferenceSystem, error) {
	var systems []model.ReferenceSystem
	err := r.DB.Order("id asc").Find(&systems).Error
	return systems, err
}

func (r *SystemRepository) FindDefaults() ([]model.ReferenceSystem, error) {
	var systems []model.ReferenceSystem
	err := r.DB.Where("is_default = ?", true).Order("id asc").Find(&systems).Error
	return systems, err
}

func (r *SystemRepository) FindByID(id uint) (*model.ReferenceSystem, error) {
	var system model.ReferenceSystem
	err := r.DB.First(&system, id).Error
	if err != nil {
		return nil, err
	}
	return &system, nil
}

func (r *SystemRepository) Update(system *model.ReferenceSystem) error {
	return r.DB.Save(system).Error
}

func (r *SystemRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ReferenceSystem{}, id).Error
}
