package model

import "time"

// GoalTrend 目标进度相对预期的分档
type GoalTrend string

const (
	GoalAhead   GoalTrend = "ahead"
	GoalOnTrack GoalTrend = "on_track"
	GoalBehind  GoalTrend = "behind"
	GoalAtRisk  GoalTrend = "at_risk"
)

// GoalProjectionDetail 目标完成预测
type GoalProjectionDetail struct {
	EstimatedCompletion time.Time `json:"estimatedCompletion"`
	Confidence          float64   `json:"confidence"`
	RequiredDailyRate   float64   `json:"requiredDailyRate"`
}

// Milestone 已达成的阶段性检查点（目标值的 25/50/75/90%）
type Milestone struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
	Notes string  `json:"notes,omitempty"`
}

// GoalProgress 目标进度分析结果
type GoalProgress struct {
	GoalID     string               `json:"goalId"`
	Progress   float64              `json:"progress"` // 百分比 0-100
	Trend      GoalTrend            `json:"trend"`
	Projection GoalProjectionDetail `json:"projection"`
	Milestones []Milestone          `json:"milestones"`
}

// GoalInsights 目标可达性洞察
type GoalInsights struct {
	AchievabilityScore     float64  `json:"achievabilityScore"` // 0-100
	TimeToCompletion       int      `json:"timeToCompletion"`   // 天数
	RiskFactors            []string `json:"riskFactors"`
	Accelerators           []string `json:"accelerators"`
	SimilarGoalsCompletion int      `json:"similarGoalsCompletion"` // 同类目标的参考完成率
}

// PredictionHorizon 预测时间跨度
type PredictionHorizon string

const (
	HorizonOneWeek     PredictionHorizon = "1_week"
	HorizonOneMonth    PredictionHorizon = "1_month"
	HorizonThreeMonths PredictionHorizon = "3_months"
)

// PredictionPoint 单个时间跨度的预测值
type PredictionPoint struct {
	Timeframe      PredictionHorizon `json:"timeframe"`
	PredictedValue float64           `json:"predictedValue"`
	Confidence     float64           `json:"confidence"`
	Factors        []string          `json:"factors"`
}

// ImpactLevel 建议的影响/投入程度
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// PredictionRecommendation 预测附带的行动建议
type PredictionRecommendation struct {
	Action string      `json:"action"`
	Impact ImpactLevel `json:"impact"`
	Effort ImpactLevel `json:"effort"`
}

// PerformancePrediction 单项指标的多跨度预测
type PerformancePrediction struct {
	Metric          string                     `json:"metric"`
	CurrentValue    float64                    `json:"currentValue"`
	Predictions     []PredictionPoint          `json:"predictions"`
	Recommendations []PredictionRecommendation `json:"recommendations"`
}
