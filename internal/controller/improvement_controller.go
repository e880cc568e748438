package controller

import (
	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ImprovementController struct {
	ImprovementService *service.ImprovementService
}

func NewImprovementController(improvementService *service.ImprovementService) *ImprovementController {
	return &ImprovementController{ImprovementService: improvementService}
}

// GetImprovement godoc
// @Summary 查询单条对比记录
// @Tags 进步分析
// @Produce  json
// @Param   id path string true "对比记录ID"
// @Success 200 {object} util.Response{data=model.Improvement}
// @Failure 404 {object} util.Response "对比记录不存在"
// @Router /api/improvements/{id} [get]
func (c *ImprovementController) GetImprovement(ctx *gin.Context) {
	imp, err := c.ImprovementService.GetByID(ctx.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.NotFound(ctx, "对比记录不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, imp)
}

// GetByQuestionAndUser godoc
// @Summary 查询用户在某题上的对比记录
// @Description 每个用户每道题最多一条，记录最近两次作答的分差与建议
// @Tags 进步分析
// @Produce  json
// @Param   question_id query string true "题目ID"
// @Param   user_id query string true "用户ID"
// @Success 200 {object} util.Response{data=model.Improvement}
// @Failure 404 {object} util.Response "对比记录不存在"
// @Router /api/improvements [get]
func (c *ImprovementController) GetByQuestionAndUser(ctx *gin.Context) {
	questionID := ctx.Query("question_id")
	userID := ctx.Query("user_id")
	if questionID == "" || userID == "" {
		util.BadRequest(ctx, "question_id and user_id are required")
		return
	}

	imp, err := c.ImprovementService.GetByQuestionAndUser(questionID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.NotFound(ctx, "对比记录不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, imp)
}

// ListByUser godoc
// @Summary 用户的全部对比记录
// @Tags 进步分析
// @Produce  json
// @Param   id path string true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Improvement}
// @Router /api/users/{id}/improvements [get]
func (c *ImprovementController) ListByUser(ctx *gin.Context) {
	imps, err := c.ImprovementService.ListByUser(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, imps)
}
