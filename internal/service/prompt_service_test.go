package service

import (
	"testing"

	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPromptService(t *testing.T) *PromptService {
	return NewPromptService(repository.NewPromptRepository(newTestDB(t)))
}

func TestCurrentPromptDefaultsWhenUnset(t *testing.T) {
	svc := newPromptService(t)

	prompt, err := svc.CurrentPrompt()
	require.NoError(t, err)
	assert.Equal(t, DefaultGradingTemplate, prompt.Text)
}

func TestSavePromptValidatesPlaceholders(t *testing.T) {
	svc := newPromptService(t)

	_, err := svc.SavePrompt("no placeholders here", "admin-1")
	assert.ErrorIs(t, err, util.ErrMissingPlaceholder)

	custom := "Grade this. Q: {question} R: {response} I: {ideal} F: {feedback}"
	saved, err := svc.SavePrompt(custom, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, custom, saved.Text)

	current, err := svc.CurrentPrompt()
	require.NoError(t, err)
	assert.Equal(t, custom, current.Text)
}

// 引用未知占位符的模板在保存时就要失败，否则每次评分都会报占位符缺失
func TestSavePromptRejectsUnknownPlaceholder(t *testing.T) {
	svc := newPromptService(t)

	_, err := svc.SavePrompt("Q: {question} R: {response} I: {ideal} F: {feedback} Tier: {customer_tier}", "admin-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrMissingPlaceholder)
	assert.Contains(t, err.Error(), "customer_tier")

	// 保存被拒后仍使用默认模板
	current, err := svc.CurrentPrompt()
	require.NoError(t, err)
	assert.Equal(t, DefaultGradingTemplate, current.Text)
}

func TestPromptHistoryAndRevert(t *testing.T) {
	svc := newPromptService(t)

	v1 := "V1 {question} {response} {ideal} {feedback}"
	v2 := "V2 {question} {response} {ideal} {feedback}"
	_, err := svc.SavePrompt(v1, "admin-1")
	require.NoError(t, err)
	_, err = svc.SavePrompt(v2, "admin-1")
	require.NoError(t, err)

	histories, err := svc.History()
	require.NoError(t, err)
	require.Len(t, histories, 2)

	var v1History string
	for _, h := range histories {
		if h.Text == v1 {
			v1History = h.ID
		}
	}
	require.NotEmpty(t, v1History)

	reverted, err := svc.Revert(v1History, "admin-2")
	require.NoError(t, err)
	assert.Equal(t, v1, reverted.Text)

	// 回滚本身也写入历史
	histories, err = svc.History()
	require.NoError(t, err)
	assert.Len(t, histories, 3)

	_, err = svc.Revert("missing", "admin-2")
	assert.ErrorIs(t, err, util.ErrPromptNotFound)
}

func TestResetPrompt(t *testing.T) {
	svc := newPromptService(t)

	_, err := svc.SavePrompt("custom {question} {response} {ideal} {feedback}", "admin-1")
	require.NoError(t, err)

	reset, err := svc.ResetPrompt("admin-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultGradingTemplate, reset.Text)
}
