package controller

import (
	"errors"
	"fmt"

	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	AttemptService  *service.AttemptService
}

func NewQuestionController(questionService *service.QuestionService, attemptService *service.AttemptService) *QuestionController {
	return &QuestionController{QuestionService: questionService, AttemptService: attemptService}
}

// CreateQuestion godoc
// @Summary 创建题目
// @Tags 题目
// @Accept  json
// @Produce  json
// @Param   body body service.CreateQuestionInput true "题目信息"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "方案不存在"
// @Failure 409 {object} util.Response "同方案下题目标题重复"
// @Router /api/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var input service.CreateQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.CreateQuestion(input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSchemeNotFound):
			util.NotFound(ctx, "培训方案不存在")
		case errors.Is(err, util.ErrQuestionExists):
			util.Error(ctx, 409, "同方案下已存在同名题目")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, question)
}

// GetQuestion godoc
// @Summary 查询单个题目
// @Tags 题目
// @Produce  json
// @Param   id path string true "题目ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	question, err := c.QuestionService.GetQuestion(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, "题目不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// ListQuestions godoc
// @Summary 题目列表
// @Description 可按 scheme_id 过滤，不传则返回全部题目
// @Tags 题目
// @Produce  json
// @Param   scheme_id query string false "方案ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 404 {object} util.Response "方案不存在"
// @Router /api/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.ListQuestions(ctx.Query("scheme_id"))
	if err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx, "培训方案不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, questions)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 题目
// @Accept  json
// @Produce  json
// @Param   id path string true "题目ID"
// @Param   body body service.UpdateQuestionInput true "更新字段"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	var input service.UpdateQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.UpdateQuestion(ctx.Param("id"), input)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, "题目不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Description 删除题目并级联清理作答与对比记录
// @Tags 题目
// @Produce  json
// @Param   id path string true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuestionService.DeleteQuestion(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, "题目不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// RegradeQuestion godoc
// @Summary 重评某题全部历史作答
// @Description 题目或评分模板调整后，对该题所有作答原地重评并重算对比记录
// @Tags 题目
// @Produce  json
// @Param   id path string true "题目ID"
// @Success 200 {object} util.Response{data=object} "重评数量"
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 503 {object} util.Response "评分服务不可用"
// @Router /api/questions/{id}/regrade [post]
func (c *QuestionController) RegradeQuestion(ctx *gin.Context) {
	regraded, err := c.AttemptService.RegradeQuestion(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx, "题目不存在")
		case errors.Is(err, util.ErrGradingUnavailable):
			util.Error(ctx, 503, fmt.Sprintf("评分服务暂不可用，已重评 %d 条", regraded))
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"regraded": regraded})
}
