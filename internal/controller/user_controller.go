package controller

import (
	"errors"

	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	AttemptService *service.AttemptService
}

func NewUserController(userService *service.UserService, attemptService *service.AttemptService) *UserController {
	return &UserController{UserService: userService, AttemptService: attemptService}
}

// CreateUser godoc
// @Summary 创建用户
// @Description 管理员创建新的学员、培训师或管理员账号
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param   body body service.CreateUserInput true "用户信息"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var input service.CreateUserInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.CreateUser(input)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, 409, "该邮箱已被注册")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, user)
}

// GetUser godoc
// @Summary 查询单个用户
// @Tags 用户
// @Produce  json
// @Param   id path string true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.UserService.GetUser(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// ListUsers godoc
// @Summary 用户列表
// @Description 返回全部用户及其关联的培训方案
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.UserService.ListUsers()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// UpdateUser godoc
// @Summary 更新用户
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param   id path string true "用户ID"
// @Param   body body service.UpdateUserInput true "更新字段"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var input service.UpdateUserInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(ctx.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "用户不存在")
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, 409, "该邮箱已被注册")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary 删除用户
// @Description 删除用户并清理其作答、对比记录与人工点评
// @Tags 用户
// @Produce  json
// @Param   id path string true "用户ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	if err := c.UserService.DeleteUser(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type assignSchemeRequest struct {
	SchemeID string `json:"scheme_id" binding:"required"`
}

// AssignScheme godoc
// @Summary 为用户关联培训方案
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param   id path string true "用户ID"
// @Param   body body assignSchemeRequest true "方案ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "用户或方案不存在"
// @Failure 409 {object} util.Response "用户已关联该方案"
// @Router /api/users/{id}/schemes [post]
func (c *UserController) AssignScheme(ctx *gin.Context) {
	var req assignSchemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.UserService.AssignScheme(ctx.Param("id"), req.SchemeID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "用户不存在")
		case errors.Is(err, util.ErrSchemeNotFound):
			util.NotFound(ctx, "培训方案不存在")
		case errors.Is(err, util.ErrUserAlreadyInScheme):
			util.Error(ctx, 409, "用户已关联该方案")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UnassignScheme godoc
// @Summary 解除用户与培训方案的关联
// @Tags 用户
// @Produce  json
// @Param   id path string true "用户ID"
// @Param   scheme_id path string true "方案ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "用户或方案不存在"
// @Router /api/users/{id}/schemes/{scheme_id} [delete]
func (c *UserController) UnassignScheme(ctx *gin.Context) {
	err := c.UserService.UnassignScheme(ctx.Param("id"), ctx.Param("scheme_id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "用户不存在")
		case errors.Is(err, util.ErrSchemeNotFound):
			util.NotFound(ctx, "培训方案不存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UserSchemes godoc
// @Summary 用户已关联的方案与进度
// @Description 学员主页数据：各方案的题目数与完成数
// @Tags 用户
// @Produce  json
// @Param   id path string true "用户ID"
// @Success 200 {object} util.Response{data=[]service.SchemeProgress}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id}/schemes [get]
func (c *UserController) UserSchemes(ctx *gin.Context) {
	progress, err := c.UserService.UserSchemes(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// UserAttempts godoc
// @Summary 用户的全部作答
// @Tags 用户
// @Produce  json
// @Param   id path string true "用户ID"
// @Success 200 {object} util.Response{data=[]service.AttemptDetail}
// @Router /api/users/{id}/attempts [get]
func (c *UserController) UserAttempts(ctx *gin.Context) {
	attempts, err := c.AttemptService.ListUserAttempts(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// UserAverageScores godoc
// @Summary 用户各方案平均分
// @Description 按方案统计每题最佳作答的三项平均分，末尾含全方案汇总行
// @Tags 用户
// @Produce  json
// @Param   id path string true "用户ID"
// @Success 200 {object} util.Response{data=[]service.SchemeAverage}
// @Router /api/users/{id}/scores [get]
func (c *UserController) UserAverageScores(ctx *gin.Context) {
	averages, err := c.AttemptService.AverageScores(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, averages)
}

// UserProgressTable godoc
// @Summary 用户在某方案下的逐题进度表
// @Tags 用户
// @Produce  json
// @Param   id path string true "用户ID"
// @Param   scheme_id path string true "方案ID"
// @Success 200 {object} util.Response{data=[]service.TableRow}
// @Failure 404 {object} util.Response "方案下没有题目"
// @Router /api/users/{id}/schemes/{scheme_id}/table [get]
func (c *UserController) UserProgressTable(ctx *gin.Context) {
	rows, err := c.AttemptService.ProgressTable(ctx.Param("id"), ctx.Param("scheme_id"))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, "方案下没有题目")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, rows)
}
