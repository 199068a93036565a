package controller

import (
	"errors"
	"summit_training_backend/internal/model"
	"summit_training_backend/internal/service"
	"summit_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	ActivityService *service.ActivityService
}

func NewActivityController(activityService *service.ActivityService) *ActivityController {
	return &ActivityController{ActivityService: activityService}
}

// Create godoc
// @Summary 创建训练活动
// @Description 创建一条计划中的训练活动
// @Tags 训练
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateActivityRequest true "训练活动"
// @Success 201 {object} util.Response{data=model.TrainingActivity}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/training/activities [post]
func (c *ActivityController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CreateActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.ActivityService.CreateActivity(ctx.Request.Context(), claims.UserID, &req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, activity)
}

// List godoc
// @Summary 训练活动列表
// @Description 按日期升序返回当前用户的全部训练活动
// @Tags 训练
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TrainingActivity}
// @Router /api/training/activities [get]
func (c *ActivityController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	activities, err := c.ActivityService.ListActivities(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, activities)
}

// Get godoc
// @Summary 训练活动详情
// @Tags 训练
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response{data=model.TrainingActivity}
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/training/activities/{id} [get]
func (c *ActivityController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	activity, err := c.ActivityService.GetActivity(claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, activity)
}

// Update godoc
// @Summary 更新训练活动
// @Tags 训练
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Param   body body service.UpdateActivityRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.TrainingActivity}
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/training/activities/{id} [put]
func (c *ActivityController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.UpdateActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.ActivityService.UpdateActivity(ctx.Request.Context(), claims.UserID, ctx.Param("id"), &req)
	if err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, activity)
}

// Delete godoc
// @Summary 删除训练活动
// @Tags 训练
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/training/activities/{id} [delete]
func (c *ActivityController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.ActivityService.DeleteActivity(ctx.Request.Context(), claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// RecordResult godoc
// @Summary 记录训练结果
// @Description 提交实际训练数据并重算达成度
// @Tags 训练
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "活动ID"
// @Param   body body model.ActualResult true "实际训练结果"
// @Success 200 {object} util.Response{data=model.TrainingActivity}
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/training/activities/{id}/result [post]
func (c *ActivityController) RecordResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var result model.ActualResult
	if err := ctx.ShouldBindJSON(&result); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.ActivityService.RecordResult(ctx.Request.Context(), claims.UserID, ctx.Param("id"), result)
	if err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, activity)
}

// ImportRequest 批量导入请求体
type ImportRequest struct {
	Activities []service.CreateActivityRequest `json:"activities" binding:"required,min=1,dive"`
}

// Import godoc
// @Summary 批量导入训练计划
// @Description 批量创建同步自外部计划的训练活动
// @Tags 训练
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ImportRequest true "活动列表"
// @Success 201 {object} util.Response{data=[]model.TrainingActivity}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/training/activities/import [post]
func (c *ActivityController) Import(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activities, err := c.ActivityService.ImportActivities(ctx.Request.Context(), claims.UserID, req.Activities)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, activities)
}

// UploadPlan godoc
// @Summary 上传训练计划文件
// @Description 保存原始计划文件（xlsx/xls/csv），不做解析
// @Tags 训练
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "计划文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "不支持的文件类型"
// @Router /api/training/upload [post]
func (c *ActivityController) UploadPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.ActivityService.UploadPlanFile(ctx.Request.Context(), claims.UserID, header)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
