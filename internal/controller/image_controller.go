package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"csa_sim_backend/internal/service"
	"csa_sim_backend/internal/util"
	"csa_sim_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageController 方案配图上传
type ImageController struct {
	StorageService *service.StorageService
	SchemeService  *service.SchemeService
}

func NewImageController(storageService *service.StorageService, schemeService *service.SchemeService) *ImageController {
	return &ImageController{StorageService: storageService, SchemeService: schemeService}
}

// UploadSchemeImage godoc
// @Summary 上传方案配图
// @Description kind=csa 为学员端配图，kind=admin 为管理端配图，上传后回写方案记录
// @Tags 图片
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path string true "方案ID"
// @Param   kind formData string false "配图用途 csa/admin，默认csa"
// @Param   file formData file true "图片文件"
// @Success 200 {object} util.Response{data=model.Scheme}
// @Failure 404 {object} util.Response "方案不存在"
// @Router /api/schemes/{id}/image [post]
func (c *ImageController) UploadSchemeImage(ctx *gin.Context) {
	scheme, err := c.SchemeService.GetScheme(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx, "培训方案不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

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

	kind := ctx.DefaultPostForm("kind", "csa")
	filename := fmt.Sprintf("schemes/%s_%s%s", scheme.ID, kind, filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	input := service.UpdateSchemeInput{}
	if kind == "admin" {
		input.AdminImgURL = url
	} else {
		input.CsaImageURL = url
	}

	updated, err := c.SchemeService.UpdateScheme(scheme.ID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// DeleteSchemeImage godoc
// @Summary 删除方案配图
// @Description 清除方案记录上的配图字段并删除存储中的图片文件
// @Tags 图片
// @Produce  json
// @Param   id path string true "方案ID"
// @Param   kind query string false "配图用途 csa/admin，默认csa"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "方案不存在"
// @Router /api/schemes/{id}/image [delete]
func (c *ImageController) DeleteSchemeImage(ctx *gin.Context) {
	kind := ctx.DefaultQuery("kind", "csa")

	url, err := c.SchemeService.ClearSchemeImage(ctx.Param("id"), kind)
	if err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx, "培训方案不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	// 存储对象以 schemes/ 为前缀；删除失败只记录，字段已清除
	if idx := strings.Index(url, "schemes/"); idx >= 0 {
		if err := c.StorageService.Delete(ctx.Request.Context(), url[idx:]); err != nil {
			logger.Log.Warn("删除方案配图失败", zap.String("url", url), zap.Error(err))
		}
	}
	util.Success(ctx, gin.H{"deleted": url})
}
