package service

import (
	"testing"

	"csa_sim_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	rendered, err := RenderTemplate("Q: {question} A: {response}", map[string]string{
		"question": "How do I reset my password?",
		"response": "Click forgot password.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Q: How do I reset my password? A: Click forgot password.", rendered)
}

func TestRenderTemplateRepeatedPlaceholder(t *testing.T) {
	rendered, err := RenderTemplate("{feedback} ... {feedback}", map[string]string{
		"feedback": "complete",
	})
	require.NoError(t, err)
	assert.Equal(t, "complete ... complete", rendered)
}

func TestRenderTemplateMissingField(t *testing.T) {
	_, err := RenderTemplate("Q: {question} Ideal: {ideal}", map[string]string{
		"question": "something",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrMissingPlaceholder)
	assert.Contains(t, err.Error(), "ideal")
}

func TestDefaultTemplatesRender(t *testing.T) {
	_, err := RenderTemplate(DefaultGradingTemplate, map[string]string{
		"question": "q",
		"response": "r",
		"ideal":    "i",
		"feedback": "f",
	})
	assert.NoError(t, err)

	_, err = RenderTemplate(DefaultImprovementTemplate, map[string]string{
		"question":             "q",
		"ideal":                "i",
		"ideal_system_name":    "",
		"ideal_system_url":     "",
		"previous_answer":      "a1",
		"previous_accuracy":    "3",
		"previous_precision":   "3",
		"previous_tone":        "3",
		"previous_system_name": "",
		"previous_system_url":  "",
		"last_answer":          "a2",
		"last_accuracy":        "5",
		"last_precision":       "2",
		"last_tone":            "4",
		"last_system_name":     "",
		"last_system_url":      "",
	})
	assert.NoError(t, err)
}

func TestValidateGradingTemplate(t *testing.T) {
	assert.NoError(t, ValidateGradingTemplate(DefaultGradingTemplate))

	err := ValidateGradingTemplate("Question: {question} Response: {response}")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrMissingPlaceholder)
	assert.Contains(t, err.Error(), "ideal")
	assert.Contains(t, err.Error(), "feedback")
}

// 评分时不提供的占位符必须在保存时拒绝，不能留到学员提交时才失败
func TestValidateGradingTemplateRejectsUnknownPlaceholder(t *testing.T) {
	tmpl := "Q: {question} R: {response} I: {ideal} F: {feedback} Tier: {customer_tier}"
	err := ValidateGradingTemplate(tmpl)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrMissingPlaceholder)
	assert.Contains(t, err.Error(), "customer_tier")

	// 可选的系统名占位符属于已知集合
	assert.NoError(t, ValidateGradingTemplate(
		"Q: {question} R: {response} I: {ideal} F: {feedback} Systems: {ideal_system_name} {ideal_system_url} {system_name} {system_url}"))
}
