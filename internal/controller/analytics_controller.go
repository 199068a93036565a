package controller

import (
	"fmt"
	"summit_training_backend/internal/model"
	"summit_training_backend/internal/service"
	"summit_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	ComplianceService *service.ComplianceService
	GoalService       *service.GoalService
}

func NewAnalyticsController(complianceService *service.ComplianceService, goalService *service.GoalService) *AnalyticsController {
	return &AnalyticsController{
		ComplianceService: complianceService,
		GoalService:       goalService,
	}
}

// GetCompliance godoc
// @Summary 达成度综合分析
// @Description 按时间窗分析当前用户的训练达成度，结果带缓存
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Param   timeframe query string false "时间窗" Enums(week, month, quarter) default(month)
// @Success 200 {object} util.Response{data=model.ComplianceReport}
// @Router /api/analytics/compliance [get]
func (c *AnalyticsController) GetCompliance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	timeframe := ctx.DefaultQuery("timeframe", "month")
	switch timeframe {
	case "week", "month", "quarter":
	default:
		util.BadRequest(ctx, "timeframe must be one of: week, month, quarter")
		return
	}

	report, err := c.ComplianceService.AnalyzeForUser(ctx.Request.Context(), claims.UserID, timeframe)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}

// AnalyzeRequest 即席分析请求体，直接提交活动数据而不读库
type AnalyzeRequest struct {
	Action     string                   `json:"action" binding:"required,oneof=calculate_compliance analyze_performance analyze_trends full_analysis"`
	Activities []model.TrainingActivity `json:"activities" binding:"required"`
}

// Analyze godoc
// @Summary 即席达成度分析
// @Description 对请求体中的活动数据执行指定的分析动作
// @Tags 分析
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AnalyzeRequest true "活动数据与分析动作"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/analytics/compliance [post]
func (c *AnalyticsController) Analyze(ctx *gin.Context) {
	var req AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	switch req.Action {
	case "calculate_compliance":
		for i := range req.Activities {
			metrics := c.ComplianceService.CalculateCompliance(&req.Activities[i], &req.Activities[i])
			req.Activities[i].Compliance = &metrics
		}
		util.Success(ctx, gin.H{
			"action":     req.Action,
			"activities": req.Activities,
			"message":    fmt.Sprintf("Calculated compliance for %d activities", len(req.Activities)),
		})

	case "analyze_performance":
		analytics := c.ComplianceService.CalculatePerformanceAnalytics(req.Activities)
		util.Success(ctx, gin.H{
			"action":    req.Action,
			"analytics": analytics,
			"message":   "Performance analysis completed",
		})

	case "analyze_trends":
		trends := c.ComplianceService.AnalyzeTrends(req.Activities)
		util.Success(ctx, gin.H{
			"action":  req.Action,
			"trends":  trends,
			"message": "Trend analysis completed",
		})

	case "full_analysis":
		report := c.ComplianceService.AnalyzeCompliance(req.Activities)
		util.Success(ctx, gin.H{
			"action":  req.Action,
			"report":  report,
			"message": "Full compliance analysis completed",
		})
	}
}

// GetRisk godoc
// @Summary 过训风险评估
// @Description 基于全部活动历史评估训练风险并给出个性化建议
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/analytics/risk [get]
func (c *AnalyticsController) GetRisk(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	assessment, insights, err := c.ComplianceService.RiskForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"assessment": assessment,
		"insights":   insights,
	})
}

// GetPredictions godoc
// @Summary 表现预测
// @Description 对训练频次、完成率与综合表现做1周/1月/3月预测
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.PerformancePrediction}
// @Router /api/analytics/predictions [get]
func (c *AnalyticsController) GetPredictions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	predictions, err := c.GoalService.PredictionsForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, predictions)
}
