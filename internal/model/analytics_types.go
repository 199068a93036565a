package model

// ImprovementTrend 表现趋势
type ImprovementTrend string

const (
	TrendImproving ImprovementTrend = "improving"
	TrendDeclining ImprovementTrend = "declining"
	TrendStable    ImprovementTrend = "stable"
)

// PerformanceAnalytics 时间窗内的群体统计
type PerformanceAnalytics struct {
	WeeklyCompliance  int              `json:"weeklyCompliance"`
	MonthlyCompliance int              `json:"monthlyCompliance"`
	TotalWorkouts     int              `json:"totalWorkouts"`
	CompletedWorkouts int              `json:"completedWorkouts"`
	SkippedWorkouts   int              `json:"skippedWorkouts"`
	AverageDuration   int              `json:"averageDuration"`
	AverageIntensity  float64          `json:"averageIntensity"` // 1-3 数值刻度
	ImprovementTrend  ImprovementTrend `json:"improvementTrend"`
	RiskFactors       []string         `json:"riskFactors"`
	Recommendations   []string         `json:"recommendations"`
}

// ComplianceHistoryPoint 单日达成度汇总
type ComplianceHistoryPoint struct {
	Date              Date `json:"date"`
	Score             int  `json:"score"`
	WorkoutsCompleted int  `json:"workoutsCompleted"`
	WorkoutsPlanned   int  `json:"workoutsPlanned"`
}

// PerformancePatterns 周内表现规律
type PerformancePatterns struct {
	BestDays           []string `json:"bestDays"`
	WorstDays          []string `json:"worstDays"`
	OptimalDuration    int      `json:"optimalDuration"`
	PreferredIntensity string   `json:"preferredIntensity"`
}

// GoalMetrics 当前周/月目标进度计数
type GoalMetrics struct {
	WeeklyTarget         int `json:"weeklyTarget"`
	MonthlyTarget        int `json:"monthlyTarget"`
	CurrentWeekProgress  int `json:"currentWeekProgress"`
	CurrentMonthProgress int `json:"currentMonthProgress"`
	StreakDays           int `json:"streakDays"`
	LongestStreak        int `json:"longestStreak"`
}

// GoalProjection 基于完成率的短期预测
type GoalProjection struct {
	Timeframe          string  `json:"timeframe"` // week, month
	Target             int     `json:"target"`
	Projected          int     `json:"projected"`
	Confidence         float64 `json:"confidence"`
	RequiredWeeklyRate int     `json:"requiredWeeklyRate"`
}

// TrendGoals 目标快照与预测
type TrendGoals struct {
	Current     GoalMetrics      `json:"current"`
	Projections []GoalProjection `json:"projections"`
}

// TrendAnalysis 达成度历史与表现规律
type TrendAnalysis struct {
	ComplianceHistory   []ComplianceHistoryPoint `json:"complianceHistory"`
	PerformancePatterns PerformancePatterns      `json:"performancePatterns"`
	Goals               TrendGoals               `json:"goals"`
}

// AlertType 提醒类型
type AlertType string

const (
	AlertMissedWorkout          AlertType = "missed_workout"
	AlertDecliningPerformance   AlertType = "declining_performance"
	AlertGoalAtRisk             AlertType = "goal_at_risk"
	AlertImprovementOpportunity AlertType = "improvement_opportunity"
)

// AlertSeverity 提醒级别
type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// ComplianceAlert 规则触发的达成度提醒
type ComplianceAlert struct {
	Type        AlertType     `json:"type"`
	Severity    AlertSeverity `json:"severity"`
	Title       string        `json:"title"`
	Message     string        `json:"message"`
	ActionItems []string      `json:"actionItems"`
	DueDate     *Date         `json:"dueDate,omitempty"`
}

// ComplianceSummary 综合分析的摘要
type ComplianceSummary struct {
	OverallHealth string   `json:"overallHealth"` // excellent, good, needs_improvement
	KeyInsights   []string `json:"keyInsights"`
	NextActions   []string `json:"nextActions"`
}

// ComplianceReport 综合达成度分析结果
type ComplianceReport struct {
	Analytics PerformanceAnalytics `json:"analytics"`
	Trends    TrendAnalysis        `json:"trends"`
	Alerts    []ComplianceAlert    `json:"alerts"`
	Summary   ComplianceSummary    `json:"summary"`
}

// RiskLevel 综合风险等级
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskFactor 单项风险因子
type RiskFactor struct {
	Factor      string `json:"factor"`
	Impact      int    `json:"impact"`
	Description string `json:"description"`
}

// RiskAssessment 综合风险评估
type RiskAssessment struct {
	RiskLevel RiskLevel    `json:"riskLevel"`
	RiskScore int          `json:"riskScore"`
	Factors   []RiskFactor `json:"factors"`
}
