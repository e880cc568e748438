package service

import (
	"testing"
	"time"

	"csa_sim_backend/internal/config"
	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserFixture(t *testing.T) (*UserService, *AuthService, *gorm.DB) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret!"
	cfg.JWT.ExpireTime = time.Hour

	userSvc := NewUserService(userRepo, schemeRepo, attemptRepo)
	authSvc := NewAuthService(userRepo, cfg)
	return userSvc, authSvc, db
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, _, db := newUserFixture(t)

	user, err := svc.CreateUser(CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret123", AccessRights: model.Trainee,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))

	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, model.Trainee, stored.AccessRights)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.CreateUser(CreateUserInput{Name: "A", Email: "a@example.com", Password: "secret123", AccessRights: model.Trainee})
	require.NoError(t, err)

	_, err = svc.CreateUser(CreateUserInput{Name: "B", Email: "a@example.com", Password: "secret123", AccessRights: model.Trainer})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	userSvc, authSvc, _ := newUserFixture(t)

	_, err := userSvc.CreateUser(CreateUserInput{Name: "A", Email: "a@example.com", Password: "secret123", AccessRights: model.Trainee})
	require.NoError(t, err)

	result, err := authSvc.Login("a@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "a@example.com", result.User.Email)

	// 密码错误与用户不存在同样对待
	_, err = authSvc.Login("a@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	_, err = authSvc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestAssignAndUnassignScheme(t *testing.T) {
	svc, _, db := newUserFixture(t)

	user, err := svc.CreateUser(CreateUserInput{Name: "A", Email: "a@example.com", Password: "secret123", AccessRights: model.Trainee})
	require.NoError(t, err)
	scheme := &model.Scheme{Name: "Billing"}
	require.NoError(t, db.Create(scheme).Error)

	require.NoError(t, svc.AssignScheme(user.ID, scheme.ID))
	assert.ErrorIs(t, svc.AssignScheme(user.ID, scheme.ID), util.ErrUserAlreadyInScheme)

	progress, err := svc.UserSchemes(user.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, "Billing", progress[0].SchemeName)
	assert.Equal(t, int64(0), progress[0].QuestionCount)

	require.NoError(t, svc.UnassignScheme(user.ID, scheme.ID))
	progress, err = svc.UserSchemes(user.ID)
	require.NoError(t, err)
	assert.Empty(t, progress)
}

func TestUserSchemesProgressCounts(t *testing.T) {
	svc, _, db := newUserFixture(t)

	user, err := svc.CreateUser(CreateUserInput{Name: "A", Email: "a@example.com", Password: "secret123", AccessRights: model.Trainee})
	require.NoError(t, err)
	scheme := &model.Scheme{Name: "Billing"}
	require.NoError(t, db.Create(scheme).Error)
	q1 := &model.Question{SchemeID: scheme.ID, Title: "Question 1", Details: "q1", Ideal: "i1"}
	q2 := &model.Question{SchemeID: scheme.ID, Title: "Question 2", Details: "q2", Ideal: "i2"}
	require.NoError(t, db.Create(q1).Error)
	require.NoError(t, db.Create(q2).Error)
	require.NoError(t, svc.AssignScheme(user.ID, scheme.ID))

	// 同一题作答两次只算完成一题
	require.NoError(t, db.Create(&model.Attempt{UserID: user.ID, QuestionID: q1.ID, Answer: "a"}).Error)
	require.NoError(t, db.Create(&model.Attempt{UserID: user.ID, QuestionID: q1.ID, Answer: "b"}).Error)

	progress, err := svc.UserSchemes(user.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, int64(2), progress[0].QuestionCount)
	assert.Equal(t, int64(1), progress[0].CompletedCount)
}

func TestDeleteUserCascades(t *testing.T) {
	svc, _, db := newUserFixture(t)

	user, err := svc.CreateUser(CreateUserInput{Name: "A", Email: "a@example.com", Password: "secret123", AccessRights: model.Trainee})
	require.NoError(t, err)
	question := &model.Question{SchemeID: "s", Title: "t", Details: "d", Ideal: "i"}
	require.NoError(t, db.Create(question).Error)
	attempt := &model.Attempt{UserID: user.ID, QuestionID: question.ID, Answer: "a"}
	require.NoError(t, db.Create(attempt).Error)
	require.NoError(t, db.Create(&model.Improvement{UserID: user.ID, QuestionID: question.ID, LastAttemptID: attempt.ID, PreviousAttemptID: attempt.ID}).Error)

	require.NoError(t, svc.DeleteUser(user.ID))

	var attempts, improvements int64
	db.Model(&model.Attempt{}).Where("user_id = ?", user.ID).Count(&attempts)
	db.Model(&model.Improvement{}).Where("user_id = ?", user.ID).Count(&improvements)
	assert.Equal(t, int64(0), attempts)
	assert.Equal(t, int64(0), improvements)

	err = svc.DeleteUser(user.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
