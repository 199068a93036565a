package service

import (
	"math"
	"sort"
	"summit_training_backend/internal/model"
)

// 风险评估各分项权重，进度分暂以固定值代入
const (
	consistencyWeight          = 0.30
	intensityVariabilityWeight = 0.25
	recoveryWeight             = 0.25
	progressWeight             = 0.20
	defaultProgressScore       = 75
)

// 数据不足时的中性分
const neutralScore = 50

// 高低强度搭配的理想方差
const optimalIntensityVariance = 0.75

// 性能分级阈值
const (
	performanceExcellent = 90
	performanceGood      = 75
	performanceAverage   = 60
	performancePoor      = 40
)

// CategorizePerformance 按阈值把达成度分数映射为等级
func CategorizePerformance(score int) string {
	switch {
	case score >= performanceExcellent:
		return "excellent"
	case score >= performanceGood:
		return "good"
	case score >= performanceAverage:
		return "average"
	case score >= performancePoor:
		return "poor"
	default:
		return "critical"
	}
}

// ConsistencyScore 衡量训练的规律性
// 基于已完成活动之间间隔天数的标准差，间隔越稳定分数越高
func (s *ComplianceService) ConsistencyScore(activities []model.TrainingActivity) int {
	if len(activities) < 7 {
		return 0
	}

	completed := make([]model.TrainingActivity, 0, len(activities))
	for _, a := range activities {
		if a.Completed {
			completed = append(completed, a)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Date.Time.Before(completed[j].Date.Time)
	})

	if len(completed) < 2 {
		return 0
	}

	gaps := make([]float64, 0, len(completed)-1)
	for i := 1; i < len(completed); i++ {
		days := math.Abs(completed[i].Date.Time.Sub(completed[i-1].Date.Time).Hours() / 24)
		gaps = append(gaps, days)
	}

	avgGap := meanFloat(gaps)
	variance := 0.0
	for _, gap := range gaps {
		variance += math.Pow(gap-avgGap, 2)
	}
	variance /= float64(len(gaps))
	standardDeviation := math.Sqrt(variance)

	return int(math.Round(math.Max(0, 100-standardDeviation*10)))
}

// IntensityVariabilityScore 衡量训练负荷分布
// 强度方差越接近理想值分数越高
func (s *ComplianceService) IntensityVariabilityScore(activities []model.TrainingActivity) int {
	var levels []float64
	for _, a := range activities {
		if a.Completed {
			levels = append(levels, float64(a.Intensity.Level()))
		}
	}
	if len(levels) < 3 {
		return neutralScore
	}

	avgLevel := meanFloat(levels)
	variance := 0.0
	for _, level := range levels {
		variance += math.Pow(level-avgLevel, 2)
	}
	variance /= float64(len(levels))

	varianceDiff := math.Abs(variance - optimalIntensityVariance)
	return int(math.Round(math.Max(0, 100-varianceDiff*80)))
}

// RecoveryScore 衡量休息日分布
// 连续超过3天高强度训练记为一次恢复违规，休息或未完成会重置计数
func (s *ComplianceService) RecoveryScore(activities []model.TrainingActivity) int {
	if len(activities) < 7 {
		return neutralScore
	}

	sorted := make([]model.TrainingActivity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Time.Before(sorted[j].Date.Time)
	})

	consecutiveWorkoutDays := 0
	recoveryViolations := 0
	for _, a := range sorted {
		if a.Completed && a.Intensity == model.IntensityHigh {
			consecutiveWorkoutDays++
			if consecutiveWorkoutDays > 3 {
				recoveryViolations++
			}
		} else if a.Type == model.ActivityRest || !a.Completed {
			consecutiveWorkoutDays = 0
		}
	}

	return int(math.Round(math.Max(0, float64(100-recoveryViolations*20))))
}

// AssessRisk 综合规律性、强度分布与恢复情况给出过训风险评估
func (s *ComplianceService) AssessRisk(activities []model.TrainingActivity) model.RiskAssessment {
	consistencyScore := s.ConsistencyScore(activities)
	intensityScore := s.IntensityVariabilityScore(activities)
	recoveryScore := s.RecoveryScore(activities)

	riskScore := int(math.Round(
		float64(consistencyScore)*consistencyWeight +
			float64(intensityScore)*intensityVariabilityWeight +
			float64(recoveryScore)*recoveryWeight +
			defaultProgressScore*progressWeight))

	consistencyDesc := "Good workout consistency"
	if consistencyScore < 60 {
		consistencyDesc = "Irregular workout pattern detected"
	}
	intensityDesc := "Well-balanced training intensity"
	if intensityScore < 60 {
		intensityDesc = "Poor intensity distribution"
	}
	recoveryDesc := "Adequate recovery management"
	if recoveryScore < 70 {
		recoveryDesc = "Insufficient recovery periods"
	}

	factors := []model.RiskFactor{
		{Factor: "Consistency", Impact: consistencyScore, Description: consistencyDesc},
		{Factor: "Intensity Balance", Impact: intensityScore, Description: intensityDesc},
		{Factor: "Recovery Balance", Impact: recoveryScore, Description: recoveryDesc},
	}

	var riskLevel model.RiskLevel
	switch {
	case riskScore >= 80:
		riskLevel = model.RiskLow
	case riskScore >= 65:
		riskLevel = model.RiskModerate
	case riskScore >= 50:
		riskLevel = model.RiskHigh
	default:
		riskLevel = model.RiskCritical
	}

	return model.RiskAssessment{
		RiskLevel: riskLevel,
		RiskScore: riskScore,
		Factors:   factors,
	}
}

// GeneratePersonalizedInsights 基于各分项分数生成最多3条个性化建议
func (s *ComplianceService) GeneratePersonalizedInsights(activities []model.TrainingActivity) []string {
	insights := []string{}

	consistencyScore := s.ConsistencyScore(activities)
	intensityScore := s.IntensityVariabilityScore(activities)
	recoveryScore := s.RecoveryScore(activities)

	var durationSum, completedCount int
	for _, a := range activities {
		if a.Completed {
			completedCount++
			durationSum += a.Duration
		}
	}
	avgDuration := 0.0
	if completedCount > 0 {
		avgDuration = float64(durationSum) / float64(completedCount)
	}

	if consistencyScore < 50 {
		insights = append(insights, "Your workout schedule is irregular. Try to establish a consistent routine for better results.")
	} else if consistencyScore > 85 {
		insights = append(insights, "Excellent workout consistency! You're building strong training habits.")
	}

	if intensityScore < 50 {
		insights = append(insights, "Consider varying your workout intensities more for balanced training adaptation.")
	} else if intensityScore > 80 {
		insights = append(insights, "Great intensity balance! You're effectively mixing high and low intensity sessions.")
	}

	if recoveryScore < 60 {
		insights = append(insights, "You may be overtraining. Consider adding more rest days for better recovery.")
	}

	if avgDuration > 90 {
		insights = append(insights, "Your workouts are quite long. Consider shorter, more focused sessions for consistency.")
	} else if avgDuration < 30 {
		insights = append(insights, "Your average workout duration is short. Consider extending sessions for greater training effect.")
	}

	if len(insights) > 3 {
		insights = insights[:3]
	}
	return insights
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
