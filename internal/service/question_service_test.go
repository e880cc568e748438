package service

import (
	"strings"
	"testing"

	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuestionFixture(t *testing.T) (*QuestionService, *SchemeService, *gorm.DB) {
	db := newTestDB(t)
	schemeRepo := repository.NewSchemeRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	schemeSvc := NewSchemeService(schemeRepo, questionRepo)
	return NewQuestionService(questionRepo, schemeSvc), schemeSvc, db
}

const sampleDataset = `Scheme,Question,Complexity,Enquiry,Reply,System 1,System 1 URL,System 2,System 2 URL
billing,1,Easy,How do I dispute a charge?,Open a dispute via the billing portal.,Billing Portal,https://billing.example.com,,
billing,2,Hard,Why was I double charged?,Check for duplicate transactions and refund one.,Billing Portal,https://billing.example.com,Case Management,https://cases.example.com
refunds,1,Easy,How long do refunds take?,Refunds take 5-7 business days.,,,,
`

func TestImportDataset(t *testing.T) {
	svc, schemeSvc, db := newQuestionFixture(t)

	summary, err := svc.ImportDataset(strings.NewReader(sampleDataset))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)

	// 方案按归一化名字自动创建
	billing, err := schemeSvc.GetScheme(mustSchemeID(t, db, "Billing"))
	require.NoError(t, err)
	assert.Equal(t, "Billing", billing.Name)

	var questions []model.Question
	require.NoError(t, db.Where("scheme_id = ?", billing.ID).Order("created_at asc").Find(&questions).Error)
	require.Len(t, questions, 2)

	assert.Equal(t, "Question 1", questions[0].Title)
	assert.Equal(t, "Easy", questions[0].Difficulty)
	assert.Equal(t, "How do I dispute a charge?", questions[0].Details)
	assert.Equal(t, "Billing Portal", questions[0].IdealSystemName)

	// 多个参考系统逗号拼接
	assert.Equal(t, "Question 2", questions[1].Title)
	assert.Equal(t, "Billing Portal,Case Management", questions[1].IdealSystemName)
	assert.Equal(t, "https://billing.example.com,https://cases.example.com", questions[1].IdealSystemURL)
}

func TestImportDatasetSkipsDuplicates(t *testing.T) {
	svc, _, _ := newQuestionFixture(t)

	_, err := svc.ImportDataset(strings.NewReader(sampleDataset))
	require.NoError(t, err)

	// 重复导入同一份数据集，题干查重全部跳过
	summary, err := svc.ImportDataset(strings.NewReader(sampleDataset))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 3, summary.Skipped)
}

func TestImportDatasetMissingColumn(t *testing.T) {
	svc, _, _ := newQuestionFixture(t)

	_, err := svc.ImportDataset(strings.NewReader("Scheme,Question,Complexity\nbilling,1,Easy\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Enquiry")
}

func mustSchemeID(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	var scheme model.Scheme
	require.NoError(t, db.Where("name = ?", name).First(&scheme).Error)
	return scheme.ID
}
