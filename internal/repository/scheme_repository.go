package repository

import (
	"csa_sim_backend/internal/model"

	"gorm.io/gorm"
)

type SchemeRepository struct {
	DB *gorm.DB
}

func NewSchemeRepository(db *gorm.DB) *SchemeRepository {
	return &SchemeRepository{DB: db}
}

func (r *SchemeRepository) Create(scheme *model.Scheme) error {
	return r.DB.Create(scheme).Error
}

func (r *SchemeRepository) FindByID(id string) (*model.Scheme, error) {
	var scheme model.Scheme
	err := r.DB.First(&scheme, "id = ?", id).Error
	return &scheme, err
}

func (r *SchemeRepository) FindByName(name string) (*model.Scheme, error) {
	var scheme model.Scheme
	err := r.DB.Where("name = ?", name).First(&scheme).Error
	return &scheme, err
}

func (r *SchemeRepository) FindAll() ([]model.Scheme, error) {
	var schemes []model.Scheme
	err := r.DB.Preload("Questions").Find(&schemes).Error
	return schemes, err
}

func (r *SchemeRepository) DistinctNames() ([]string, error) {
	var names []string
	err := r.DB.Model(&model.Scheme{}).Distinct("name").Order("name asc").Pluck("name", &names).Error
	return names, err
}

func (r *SchemeRepository) FindByUserID(userID string) ([]model.Scheme, error) {
	var user model.User
	err := r.DB.Preload("Schemes.Questions").First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return user.Schemes, nil
}

func (r *SchemeRepository) AddUser(scheme *model.Scheme, user *model.User) error {
	return r.DB.Model(scheme).Association("Users").Append(user)
}

func (r *SchemeRepository) RemoveUser(scheme *model.Scheme, user *model.User) error {
	return r.DB.Model(scheme).Association("Users").Delete(user)
}

func (r *SchemeRepository) HasUser(scheme *model.Scheme, userID string) (bool, error) {
	var count int64
	err := r.DB.Table("user_schemes").
		Where("scheme_id = ? AND user_id = ?", scheme.ID, userID).
		Count(&count).Error
	return count > 0, err
}

// Delete 删除方案并级联清理题目、作答与对比记录
func (r *SchemeRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&model.Question{}).Where("scheme_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Improvement{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.ManualFeedback{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Attempt{}).Error; err != nil {
				return err
			}
			if err := tx.Where("scheme_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM user_schemes WHERE scheme_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Scheme{}, "id = ?", id).Error
	})
}
