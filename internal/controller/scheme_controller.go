package controller

import (
	"errors"

	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SchemeController struct {
	SchemeService *service.SchemeService
}

func NewSchemeController(schemeService *service.SchemeService) *SchemeController {
	return &SchemeController{SchemeService: schemeService}
}

type createSchemeRequest struct {
	Name        string `json:"scheme_name" binding:"required"`
	CsaImageURL string `json:"scheme_csa_img_path"`
	AdminImgURL string `json:"admin_img_url"`
}

// CreateScheme godoc
// @Summary 创建培训方案
// @Tags 方案
// @Accept  json
// @Produce  json
// @Param   body body createSchemeRequest true "方案信息"
// @Success 201 {object} util.Response{data=model.Scheme}
// @Failure 409 {object} util.Response "方案名已存在"
// @Router /api/schemes [post]
func (c *SchemeController) CreateScheme(ctx *gin.Context) {
	var req createSchemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	scheme, err := c.SchemeService.CreateScheme(req.Name, req.CsaImageURL, req.AdminImgURL)
	if err != nil {
		if errors.Is(err, util.ErrSchemeExists) {
			util.Error(ctx, 409, "方案名已存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, scheme)
}

// GetScheme godoc
// @Summary 查询单个方案
// @Tags 方案
// @Produce  json
// @Param   id path string true "方案ID"
// @Success 200 {object} util.Response{data=model.Scheme}
// @Failure 404 {object} util.Response "方案不存在"
// @Router /api/schemes/{id} [get]
func (c *SchemeController) GetScheme(ctx *gin.Context) {
	scheme, err := c.SchemeService.GetScheme(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx, "培训方案不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, scheme)
}

// ListSchemes godoc
// @Summary 方案列表
// @Description 返回全部方案及各自的题目
// @Tags 方案
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Scheme}
// @Router /api/schemes [get]
func (c *SchemeController) ListSchemes(ctx *gin.Context) {
	schemes, err := c.SchemeService.ListSchemes()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, schemes)
}

// SchemeNames godoc
// @Summary 去重后的方案名列表
// @Tags 方案
// @Produce  json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/schemes/names [get]
func (c *SchemeController) SchemeNames(ctx *gin.Context) {
	names, err := c.SchemeService.SchemeNames()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, names)
}

// UpdateScheme godoc
// @Summary 更新方案
// @Tags 方案
// @Accept  json
// @Produce  json
// @Param   id path string true "方案ID"
// @Param   body body service.UpdateSchemeInput true "更新字段"
// @Success 200 {object} util.Response{data=model.Scheme}
// @Failure 404 {object} util.Response "方案不存在"
// @Failure 409 {object} util.Response "方案名已存在"
// @Router /api/schemes/{id} [put]
func (c *SchemeController) UpdateScheme(ctx *gin.Context) {
	var input service.UpdateSchemeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	scheme, err := c.SchemeService.UpdateScheme(ctx.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSchemeNotFound):
			util.NotFound(ctx, "培训方案不存在")
		case errors.Is(err, util.ErrSchemeExists):
			util.Error(ctx, 409, "方案名已存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, scheme)
}

// DeleteScheme godoc
// @Summary 删除方案
// @Description 删除方案并级联清理题目、作答与对比记录
// @Tags 方案
// @Produce  json
// @Param   id path string true "方案ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "方案不存在"
// @Router /api/schemes/{id} [delete]
func (c *SchemeController) DeleteScheme(ctx *gin.Context) {
	if err := c.SchemeService.DeleteScheme(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx, "培训方案不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
