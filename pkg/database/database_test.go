package database

import (
	"fmt"
	"testing"

	"csa_sim_backend/internal/config"
	"csa_sim_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

// 迁移 DDL 不能依赖单一方言，sqlite 和 mysql 都要能建表
func TestMigratePortableAcrossDialects(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))

	user := &model.User{Name: "t", Email: "t@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, model.Trainee, reloaded.AccessRights)
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))

	admin := &config.AdminConfig{Name: "Admin", Email: "admin@example.com", Password: "secret123"}
	require.NoError(t, SeedDefaults(db, admin))
	require.NoError(t, SeedDefaults(db, admin))

	var userCount int64
	db.Model(&model.User{}).Where("email = ?", admin.Email).Count(&userCount)
	assert.EqualValues(t, 1, userCount)

	var seeded model.User
	require.NoError(t, db.First(&seeded, "email = ?", admin.Email).Error)
	assert.Equal(t, model.Admin, seeded.AccessRights)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(seeded.Password), []byte("secret123")))

	var sysCount int64
	db.Model(&model.ReferenceSystem{}).Where("is_default = ?", true).Count(&sysCount)
	assert.EqualValues(t, 3, sysCount)
}
