package controller

import (
	"errors"

	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// CreateAttemptRequest 学员提交作答
// swagger:model CreateAttemptRequest
type CreateAttemptRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
	SystemName string `json:"system_name"`
	SystemURL  string `json:"system_url"`
}

// CreateAttempt godoc
// @Summary 提交作答并评分
// @Description 调用评分模型打分后落库，模型不可用时整个提交失败，不产生作答记录
// @Tags 作答
// @Accept  json
// @Produce  json
// @Param   body body CreateAttemptRequest true "作答内容"
// @Success 201 {object} util.Response{data=service.CreateAttemptResult}
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 503 {object} util.Response "评分服务不可用"
// @Router /api/attempts [post]
func (c *AttemptController) CreateAttempt(ctx *gin.Context) {
	var req CreateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.AttemptService.CreateAttempt(ctx.Request.Context(), service.CreateAttemptInput{
		UserID:     claims.UserID,
		QuestionID: req.QuestionID,
		Answer:     req.Answer,
		SystemName: req.SystemName,
		SystemURL:  req.SystemURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx, "题目不存在")
		case errors.Is(err, util.ErrGradingUnavailable):
			util.Error(ctx, 503, "评分服务暂不可用，请稍后重试")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, result)
}

// GetAttempt godoc
// @Summary 查询作答详情
// @Description 返回作答记录及其题目、方案信息
// @Tags 作答
// @Produce  json
// @Param   id path string true "作答ID"
// @Success 200 {object} util.Response{data=service.AttemptDetail}
// @Failure 404 {object} util.Response "作答记录不存在"
// @Router /api/attempts/{id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	detail, err := c.AttemptService.GetAttempt(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx, "作答记录不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

type manualFeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// SaveManualFeedback godoc
// @Summary 培训师人工点评
// @Description 对某条作答补充人工点评，重复提交覆盖旧点评
// @Tags 作答
// @Accept  json
// @Produce  json
// @Param   id path string true "作答ID"
// @Param   body body manualFeedbackRequest true "点评内容"
// @Success 200 {object} util.Response{data=model.ManualFeedback}
// @Failure 404 {object} util.Response "作答记录不存在"
// @Router /api/attempts/{id}/feedback [put]
func (c *AttemptController) SaveManualFeedback(ctx *gin.Context) {
	var req manualFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	fb, err := c.AttemptService.SaveManualFeedback(ctx.Param("id"), req.Feedback)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx, "作答记录不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, fb)
}

// GetManualFeedback godoc
// @Summary 查询作答的人工点评
// @Tags 作答
// @Produce  json
// @Param   id path string true "作答ID"
// @Success 200 {object} util.Response{data=model.ManualFeedback}
// @Failure 404 {object} util.Response "暂无人工点评"
// @Router /api/attempts/{id}/feedback [get]
func (c *AttemptController) GetManualFeedback(ctx *gin.Context) {
	fb, err := c.AttemptService.GetManualFeedback(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, "暂无人工点评")
		return
	}
	util.Success(ctx, fb)
}
