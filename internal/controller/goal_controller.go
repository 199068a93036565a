package controller

import (
	"errors"
	"summit_training_backend/internal/model"
	"summit_training_backend/internal/service"
	"summit_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// Create godoc
// @Summary 创建训练目标
// @Tags 目标
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateGoalRequest true "训练目标"
// @Success 201 {object} util.Response{data=model.TrainingGoal}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/goals [post]
func (c *GoalController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.CreateGoal(claims.UserID, &req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, goal)
}

// List godoc
// @Summary 训练目标列表
// @Description 返回当前用户的目标，可按分类过滤
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Param   category query string false "目标分类" Enums(fitness, strength, endurance, weight, skill)
// @Success 200 {object} util.Response{data=[]model.TrainingGoal}
// @Router /api/goals [get]
func (c *GoalController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	category := model.GoalCategory(ctx.Query("category"))

	goals, err := c.GoalService.ListGoals(claims.UserID, category)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, goals)
}

// Get godoc
// @Summary 训练目标详情
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "目标ID"
// @Success 200 {object} util.Response{data=model.TrainingGoal}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [get]
func (c *GoalController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	goal, err := c.GoalService.GetGoal(claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, goal)
}

// Update godoc
// @Summary 更新训练目标
// @Tags 目标
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "目标ID"
// @Param   body body service.UpdateGoalRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.TrainingGoal}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [put]
func (c *GoalController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.UpdateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.UpdateGoal(claims.UserID, ctx.Param("id"), &req)
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, goal)
}

// Delete godoc
// @Summary 删除训练目标
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "目标ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [delete]
func (c *GoalController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.GoalService.DeleteGoal(claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// Progress godoc
// @Summary 目标进度分析
// @Description 计算目标的进度、趋势、预测与里程碑
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "目标ID"
// @Success 200 {object} util.Response{data=model.GoalProgress}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id}/progress [get]
func (c *GoalController) Progress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	progress, err := c.GoalService.ProgressForGoal(claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, progress)
}

// Insights godoc
// @Summary 目标可达性洞察
// @Description 计算目标的可达性评分、风险与加速因素
// @Tags 目标
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "目标ID"
// @Success 200 {object} util.Response{data=model.GoalInsights}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id}/insights [get]
func (c *GoalController) Insights(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	insights, err := c.GoalService.InsightsForGoal(claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, insights)
}
