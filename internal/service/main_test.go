package service

import (
	"context"
	"fmt"
	"os"
	"testing"

	"csa_sim_backend/pkg/database"
	"csa_sim_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// stubCompleter 记录提示词并返回固定回复
type stubCompleter struct {
	reply   string
	err     error
	prompts []string
	docs    [][]string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string, contextDocs []string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.docs = append(s.docs, contextDocs)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubRetriever struct {
	docs []string
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, k int) []string {
	return s.docs
}
