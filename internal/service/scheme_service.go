package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/util"

	"gorm.io/gorm"
)

// SchemeService 培训方案管理
type SchemeService struct {
	schemeRepo   *repository.SchemeRepository
	questionRepo *repository.QuestionRepository
}

func NewSchemeService(schemeRepo *repository.SchemeRepository, questionRepo *repository.QuestionRepository) *SchemeService {
	return &SchemeService{schemeRepo: schemeRepo, questionRepo: questionRepo}
}

// NormalizeSchemeName 数据集里的方案名统一口径：斜杠换成 or，再按词首字母大写
func NormalizeSchemeName(raw string) string {
	name := strings.ReplaceAll(strings.TrimSpace(raw), "/", " or ")
	words := strings.Fields(name)
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

func (s *SchemeService) CreateScheme(name, csaImageURL, adminImgURL string) (*model.Scheme, error) {
	name = NormalizeSchemeName(name)
	if _, err := s.schemeRepo.FindByName(name); err == nil {
		return nil, util.ErrSchemeExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	scheme := &model.Scheme{Name: name, CsaImageURL: csaImageURL, AdminImgURL: adminImgURL}
	if err := s.schemeRepo.Create(scheme); err != nil {
		return nil, err
	}
	return scheme, nil
}

// FindOrCreateScheme 数据集导入时按名字幂等取用
func (s *SchemeService) FindOrCreateScheme(name string) (*model.Scheme, error) {
	name = NormalizeSchemeName(name)
	scheme, err := s.schemeRepo.FindByName(name)
	if err == nil {
		return scheme, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	scheme = &model.Scheme{Name: name}
	if err := s.schemeRepo.Create(scheme); err != nil {
		return nil, err
	}
	return scheme, nil
}

func (s *SchemeService) GetScheme(id string) (*model.Scheme, error) {
	scheme, err := s.schemeRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSchemeNotFound
		}
		return nil, err
	}
	return scheme, nil
}

func (s *SchemeService) ListSchemes() ([]model.Scheme, error) {
	return s.schemeRepo.FindAll()
}

func (s *SchemeService) SchemeNames() ([]string, error) {
	return s.schemeRepo.DistinctNames()
}

type UpdateSchemeInput struct {
	Name        string `json:"scheme_name"`
	CsaImageURL string `json:"scheme_csa_img_path"`
	AdminImgURL string `json:"admin_img_url"`
}

func (s *SchemeService) UpdateScheme(id string, input UpdateSchemeInput) (*model.Scheme, error) {
	scheme, err := s.GetScheme(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		name := NormalizeSchemeName(input.Name)
		if name != scheme.Name {
			if _, err := s.schemeRepo.FindByName(name); err == nil {
				return nil, util.ErrSchemeExists
			} else if err != gorm.ErrRecordNotFound {
				return nil, err
			}
			scheme.Name = name
		}
	}
	if input.CsaImageURL != "" {
		scheme.CsaImageURL = input.CsaImageURL
	}
	if input.AdminImgURL != "" {
		scheme.AdminImgURL = input.AdminImgURL
	}

	if err := s.schemeRepo.DB.Save(scheme).Error; err != nil {
		return nil, err
	}
	return scheme, nil
}

// ClearSchemeImage 清除方案配图字段，返回被清除的图片地址
func (s *SchemeService) ClearSchemeImage(id, kind string) (string, error) {
	scheme, err := s.GetScheme(id)
	if err != nil {
		return "", err
	}

	var old string
	if kind == "admin" {
		old = scheme.AdminImgURL
		scheme.AdminImgURL = ""
	} else {
		old = scheme.CsaImageURL
		scheme.CsaImageURL = ""
	}

	if err := s.schemeRepo.DB.Save(scheme).Error; err != nil {
		return "", err
	}
	return old, nil
}

func (s *SchemeService) DeleteScheme(id string) error {
	if _, err := s.GetScheme(id); err != nil {
		return err
	}
	return s.schemeRepo.Delete(id)
}
