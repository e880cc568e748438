package controller

import (
	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DatasetController 题库与检索语料的 CSV 批量导入
type DatasetController struct {
	QuestionService  *service.QuestionService
	RetrieverService *service.RetrieverService
}

func NewDatasetController(questionService *service.QuestionService, retrieverService *service.RetrieverService) *DatasetController {
	return &DatasetController{QuestionService: questionService, RetrieverService: retrieverService}
}

// ImportQuestions godoc
// @Summary 导入题库 CSV
// @Description 按固定表头解析，方案不存在自动创建，重复题干跳过
// @Tags 数据集
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "题库 CSV 文件"
// @Success 200 {object} util.Response{data=service.ImportSummary}
// @Failure 400 {object} util.Response "文件缺失或表头不合法"
// @Router /api/datasets/questions [post]
func (c *DatasetController) ImportQuestions(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	summary, err := c.QuestionService.ImportDataset(file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, summary)
}

// ReloadCorpus godoc
// @Summary 替换检索语料 CSV
// @Description 整体替换评分时注入的问答语料，并清空检索缓存
// @Tags 数据集
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "语料 CSV 文件（question,answer,source 列）"
// @Success 200 {object} util.Response{data=object} "载入条数"
// @Failure 400 {object} util.Response "文件缺失或格式不合法"
// @Router /api/datasets/corpus [post]
func (c *DatasetController) ReloadCorpus(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	loaded, err := c.RetrieverService.Reload(ctx.Request.Context(), file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"loaded": loaded})
}
