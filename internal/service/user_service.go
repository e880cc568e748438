package service

import (
	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户账号管理与方案分配
type UserService struct {
	userRepo    *repository.UserRepository
	schemeRepo  *repository.SchemeRepository
	attemptRepo *repository.AttemptRepository
}

func NewUserService(
	userRepo *repository.UserRepository,
	schemeRepo *repository.SchemeRepository,
	attemptRepo *repository.AttemptRepository,
) *UserService {
	return &UserService{userRepo: userRepo, schemeRepo: schemeRepo, attemptRepo: attemptRepo}
}

type CreateUserInput struct {
	Name         string         `json:"name" binding:"required"`
	Email        string         `json:"email" binding:"required,email"`
	Password     string         `json:"password" binding:"required,min=6"`
	AccessRights model.UserRole `json:"access_rights" binding:"required"`
}

func (s *UserService) CreateUser(input CreateUserInput) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     string(hashed),
		AccessRights: input.AccessRights,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAllWithSchemes()
}

type UpdateUserInput struct {
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	AccessRights model.UserRole `json:"access_rights"`
}

func (s *UserService) UpdateUser(id string, input UpdateUserInput) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && input.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
			return nil, util.ErrEmailRegistered
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		user.Email = input.Email
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.AccessRights != "" {
		user.AccessRights = input.AccessRights
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 同步清理该用户的作答、对比记录与人工点评
func (s *UserService) DeleteUser(id string) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}

// AssignScheme 为用户关联培训方案，重复关联返回冲突
func (s *UserService) AssignScheme(userID, schemeID string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	scheme, err := s.schemeRepo.FindByID(schemeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrSchemeNotFound
		}
		return err
	}

	exists, err := s.schemeRepo.HasUser(scheme, user.ID)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrUserAlreadyInScheme
	}
	return s.schemeRepo.AddUser(scheme, user)
}

func (s *UserService) UnassignScheme(userID, schemeID string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	scheme, err := s.schemeRepo.FindByID(schemeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrSchemeNotFound
		}
		return err
	}
	return s.schemeRepo.RemoveUser(scheme, user)
}

// SchemeProgress 用户在单个方案下的完成进度
type SchemeProgress struct {
	SchemeID       string `json:"scheme_id"`
	SchemeName     string `json:"scheme_name"`
	CsaImageURL    string `json:"scheme_csa_img_path"`
	QuestionCount  int64  `json:"num_questions"`
	CompletedCount int64  `json:"num_completed"`
}

// UserSchemes 用户已关联的方案及逐方案进度条数据
func (s *UserService) UserSchemes(userID string) ([]SchemeProgress, error) {
	if _, err := s.GetUser(userID); err != nil {
		return nil, err
	}

	schemes, err := s.schemeRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	progress := make([]SchemeProgress, 0, len(schemes))
	for _, scheme := range schemes {
		var questionIDs []string
		for _, q := range scheme.Questions {
			questionIDs = append(questionIDs, q.ID)
		}
		completed, err := s.attemptRepo.CountDistinctQuestions(userID, questionIDs)
		if err != nil {
			return nil, err
		}
		progress = append(progress, SchemeProgress{
			SchemeID:       scheme.ID,
			SchemeName:     scheme.Name,
			CsaImageURL:    scheme.CsaImageURL,
			QuestionCount:  int64(len(scheme.Questions)),
			CompletedCount: completed,
		})
	}
	return progress, nil
}
