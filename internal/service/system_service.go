package service

import (
	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
)

// SystemService 作答时可引用的参考系统目录
type SystemService struct {
	systemRepo *repository.SystemRepository
}

func NewSystemService(systemRepo *repository.SystemRepository) *SystemService {
	return &SystemService{systemRepo: systemRepo}
}

func (s *SystemService) ListSystems() ([]model.ReferenceSystem, error) {
	return s.systemRepo.FindAll()
}

func (s *SystemService) ListDefaults() ([]model.ReferenceSystem, error) {
	return s.systemRepo.FindDefaults()
}

func (s *SystemService) CreateSystem(name, url string, isDefault bool) (*model.ReferenceSystem, error) {
	system := &model.ReferenceSystem{Name: name, URL: url, IsDefault: isDefault}
	if err := s.systemRepo.Create(system); err != nil {
		return nil, err
	}
	return system, nil
}

func (s *SystemService) UpdateSystem(id uint, name, url string, isDefault *bool) (*model.ReferenceSystem, error) {
	system, err := s.systemRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		system.Name = name
	}
	if url != "" {
		system.URL = url
	}
	if isDefault != nil {
		system.IsDefault = *isDefault
	}
	if err := s.systemRepo.Update(system); err != nil {
		return nil, err
	}
	return system, nil
}

func (s *SystemService) DeleteSystem(id uint) error {
	if _, err := s.systemRepo.FindByID(id); err != nil {
		return err
	}
	return s.systemRepo.Delete(id)
}
