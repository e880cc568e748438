package controller

import (
	"strconv"

	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SystemController struct {
	SystemService *service.SystemService
}

func NewSystemController(systemService *service.SystemService) *SystemController {
	return &SystemController{SystemService: systemService}
}

// ListSystems godoc
// @Summary 参考系统目录
// @Description 学员作答时可引用的参考系统，default=true 只返回默认项
// @Tags 参考系统
// @Produce  json
// @Param   default query bool false "只要默认系统"
// @Success 200 {object} util.Response{data=[]model.ReferenceSystem}
// @Router /api/systems [get]
func (c *SystemController) ListSystems(ctx *gin.Context) {
	var (
		systems interface{}
		err     error
	)
	if ctx.Query("default") == "true" {
		systems, err = c.SystemService.ListDefaults()
	} else {
		systems, err = c.SystemService.ListSystems()
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, systems)
}

type systemRequest struct {
	Name      string `json:"name" binding:"required"`
	URL       string `json:"url"`
	IsDefault bool   `json:"is_default"`
}

// CreateSystem godoc
// @Summary 新增参考系统
// @Tags 参考系统
// @Accept  json
// @Produce  json
// @Param   body body systemRequest true "系统信息"
// @Success 201 {object} util.Response{data=model.ReferenceSystem}
// @Router /api/systems [post]
func (c *SystemController) CreateSystem(ctx *gin.Context) {
	var req systemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	system, err := c.SystemService.CreateSystem(req.Name, req.URL, req.IsDefault)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, system)
}

type updateSystemRequest struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	IsDefault *bool  `json:"is_default"`
}

// UpdateSystem godoc
// @Summary 更新参考系统
// @Tags 参考系统
// @Accept  json
// @Produce  json
// @Param   id path int true "系统ID"
// @Param   body body updateSystemRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.ReferenceSystem}
// @Failure 404 {object} util.Response "系统不存在"
// @Router /api/systems/{id} [put]
func (c *SystemController) UpdateSystem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid system id")
		return
	}

	var req updateSystemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	system, err := c.SystemService.UpdateSystem(uint(id), req.Name, req.URL, req.IsDefault)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.NotFound(ctx, "参考系统不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, system)
}

// DeleteSystem godoc
// @Summary 删除参考系统
// @Tags 参考系统
// @Produce  json
// @Param   id path int true "系统ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "系统不存在"
// @Router /api/systems/{id} [delete]
func (c *SystemController) DeleteSystem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid system id")
		return
	}

	if err := c.SystemService.DeleteSystem(uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			util.NotFound(ctx, "参考系统不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
