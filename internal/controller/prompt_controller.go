package controller

import (
	"errors"

	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PromptController struct {
	PromptService *service.PromptService
}

func NewPromptController(promptService *service.PromptService) *PromptController {
	return &PromptController{PromptService: promptService}
}

// GetPrompt godoc
// @Summary 当前评分提示词模板
// @Description 没有保存过覆盖时返回内置默认模板
// @Tags 提示词
// @Produce  json
// @Success 200 {object} util.Response{data=model.Prompt}
// @Router /api/prompt [get]
func (c *PromptController) GetPrompt(ctx *gin.Context) {
	prompt, err := c.PromptService.CurrentPrompt()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, prompt)
}

type savePromptRequest struct {
	Text string `json:"prompt_text" binding:"required"`
}

// SavePrompt godoc
// @Summary 覆盖评分提示词模板
// @Description 保存前校验评分必需的占位符齐全，缺失则拒绝
// @Tags 提示词
// @Accept  json
// @Produce  json
// @Param   body body savePromptRequest true "模板文本"
// @Success 200 {object} util.Response{data=model.Prompt}
// @Failure 400 {object} util.Response "缺少必需占位符"
// @Router /api/prompt [put]
func (c *PromptController) SavePrompt(ctx *gin.Context) {
	var req savePromptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	updatedBy := ""
	if claims != nil {
		updatedBy = claims.UserID
	}

	prompt, err := c.PromptService.SavePrompt(req.Text, updatedBy)
	if err != nil {
		if errors.Is(err, util.ErrMissingPlaceholder) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, prompt)
}

// ResetPrompt godoc
// @Summary 恢复内置默认模板
// @Tags 提示词
// @Produce  json
// @Success 200 {object} util.Response{data=model.Prompt}
// @Router /api/prompt/reset [post]
func (c *PromptController) ResetPrompt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	updatedBy := ""
	if claims != nil {
		updatedBy = claims.UserID
	}

	prompt, err := c.PromptService.ResetPrompt(updatedBy)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, prompt)
}

// PromptHistory godoc
// @Summary 模板修改历史
// @Tags 提示词
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.PromptHistory}
// @Router /api/prompt/history [get]
func (c *PromptController) PromptHistory(ctx *gin.Context) {
	histories, err := c.PromptService.History()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, histories)
}

// RevertPrompt godoc
// @Summary 回滚到历史版本
// @Tags 提示词
// @Produce  json
// @Param   history_id path string true "历史记录ID"
// @Success 200 {object} util.Response{data=model.Prompt}
// @Failure 404 {object} util.Response "历史记录不存在"
// @Router /api/prompt/revert/{history_id} [post]
func (c *PromptController) RevertPrompt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	updatedBy := ""
	if claims != nil {
		updatedBy = claims.UserID
	}

	prompt, err := c.PromptService.Revert(ctx.Param("history_id"), updatedBy)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPromptNotFound):
			util.NotFound(ctx, "历史记录不存在")
		case errors.Is(err, util.ErrMissingPlaceholder):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, prompt)
}
