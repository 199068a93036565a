package service

import (
	"math"
	"sort"
	"summit_training_backend/internal/model"
	"summit_training_backend/pkg/monitoring"
	"time"
)

// 少于该数量的活动不足以支撑趋势外推
const minActivitiesForPrediction = 5

// GeneratePerformancePredictions 对训练频次、完成率与综合表现做三个跨度的预测
func (s *GoalService) GeneratePerformancePredictions(activities []model.TrainingActivity) []model.PerformancePrediction {
	return []model.PerformancePrediction{
		s.predictWorkoutFrequency(activities),
		s.predictComplianceRate(activities),
		s.predictOverallPerformance(activities),
	}
}

// PredictionsForUser 拉取用户活动并生成预测
func (s *GoalService) PredictionsForUser(userID uint) ([]model.PerformancePrediction, error) {
	activities, err := s.ActivityRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	predictions := s.GeneratePerformancePredictions(activities)
	monitoring.ObserveAnalysis("predictions", start)

	return predictions, nil
}

// predictWorkoutFrequency 基于本周与上周完成次数外推训练频次，周频次上限为7
func (s *GoalService) predictWorkoutFrequency(activities []model.TrainingActivity) model.PerformancePrediction {
	weeklyFrequency := float64(s.completedInWindow(activities, 7, 0))

	if len(activities) < minActivitiesForPrediction {
		return insufficientDataPrediction("workout_frequency", weeklyFrequency)
	}

	previousFrequency := float64(s.completedInWindow(activities, 14, 7))
	trend := (weeklyFrequency - previousFrequency) / math.Max(1, previousFrequency)

	predictions := []model.PredictionPoint{
		{
			Timeframe:      model.HorizonOneWeek,
			PredictedValue: weeklyFrequency,
			Confidence:     90,
			Factors:        s.frequencyFactors(activities),
		},
		{
			Timeframe:      model.HorizonOneMonth,
			PredictedValue: math.Min(7, weeklyFrequency*1.1),
			Confidence:     75,
			Factors:        []string{"Habit formation", "Schedule optimization"},
		},
		{
			Timeframe:      model.HorizonThreeMonths,
			PredictedValue: math.Min(7, weeklyFrequency*1.2),
			Confidence:     60,
			Factors:        []string{"Long-term commitment", "Lifestyle integration"},
		},
	}

	return model.PerformancePrediction{
		Metric:          "workout_frequency",
		CurrentValue:    weeklyFrequency,
		Predictions:     predictions,
		Recommendations: frequencyRecommendations(weeklyFrequency, trend),
	}
}

// predictComplianceRate 以近14天与前14天的完成率差估算日变化斜率并外推
func (s *GoalService) predictComplianceRate(activities []model.TrainingActivity) model.PerformancePrediction {
	recentCompliance := s.recentComplianceRate(activities)

	if len(activities) < minActivitiesForPrediction {
		return insufficientDataPrediction("compliance_rate", recentCompliance)
	}

	olderCompliance := s.complianceForPeriod(activities, 28, 14)
	slope := (recentCompliance - olderCompliance) / 14

	project := func(days float64) float64 {
		return math.Max(0, math.Min(100, recentCompliance+slope*days))
	}

	predictions := []model.PredictionPoint{
		{
			Timeframe:      model.HorizonOneWeek,
			PredictedValue: project(7),
			Confidence:     85,
			Factors:        []string{"Recent performance", "Consistency trend", "Seasonal patterns"},
		},
		{
			Timeframe:      model.HorizonOneMonth,
			PredictedValue: project(30),
			Confidence:     70,
			Factors:        []string{"Long-term trend", "Goal trajectory", "Historical patterns"},
		},
		{
			Timeframe:      model.HorizonThreeMonths,
			PredictedValue: project(90),
			Confidence:     55,
			Factors:        []string{"Training adaptation", "Motivation cycles", "External factors"},
		},
	}

	return model.PerformancePrediction{
		Metric:          "compliance_rate",
		CurrentValue:    recentCompliance,
		Predictions:     predictions,
		Recommendations: complianceRecommendations(recentCompliance, slope),
	}
}

// predictOverallPerformance 完成率与达成度加权得到综合表现分后按趋势外推
func (s *GoalService) predictOverallPerformance(activities []model.TrainingActivity) model.PerformancePrediction {
	if len(activities) < minActivitiesForPrediction {
		return insufficientDataPrediction("overall_performance", 70)
	}

	sorted := make([]model.TrainingActivity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Time.Before(sorted[j].Date.Time)
	})

	recentStart := len(sorted) - 14
	if recentStart < 0 {
		recentStart = 0
	}
	recent := sorted[recentStart:]

	oldEnd := recentStart
	oldStart := oldEnd - 14
	if oldStart < 0 {
		oldStart = 0
	}
	old := sorted[oldStart:oldEnd]

	currentPerformance := math.Round(performanceScore(recent))
	oldPerformance := performanceScore(old)
	performanceTrend := (currentPerformance - oldPerformance) / math.Max(1, oldPerformance)

	project := func(scale float64) float64 {
		return math.Max(0, math.Min(100, currentPerformance*(1+performanceTrend*scale)))
	}

	performanceFactors := []string{
		"Overall compliance trends",
		"Workout completion rates",
		"Training consistency",
		"Goal achievement pace",
	}

	predictions := []model.PredictionPoint{
		{
			Timeframe:      model.HorizonOneWeek,
			PredictedValue: project(0.5),
			Confidence:     math.Min(88, 50+float64(len(recent))*3),
			Factors:        performanceFactors,
		},
		{
			Timeframe:      model.HorizonOneMonth,
			PredictedValue: project(1.5),
			Confidence:     math.Min(82, 45+float64(len(recent))*2.5),
			Factors:        performanceFactors,
		},
		{
			Timeframe:      model.HorizonThreeMonths,
			PredictedValue: project(3),
			Confidence:     math.Min(75, 40+float64(len(recent))*2),
			Factors:        performanceFactors,
		},
	}

	return model.PerformancePrediction{
		Metric:          "overall_performance",
		CurrentValue:    currentPerformance,
		Predictions:     predictions,
		Recommendations: performanceRecommendations(currentPerformance, performanceTrend),
	}
}

// performanceScore 完成率占40分，平均达成度按0.6折算
func performanceScore(activities []model.TrainingActivity) float64 {
	if len(activities) == 0 {
		return 0
	}

	var completed, scored, scoreSum int
	for _, a := range activities {
		if a.Completed {
			completed++
		}
		if a.Compliance != nil {
			scored++
			scoreSum += a.Compliance.OverallScore
		}
	}

	completionRate := float64(completed) / float64(len(activities))
	averageCompliance := float64(scoreSum) / math.Max(1, float64(scored))

	return completionRate*40 + averageCompliance*0.6
}

// completedInWindow 统计 [now-startDaysAgo, now-endDaysAgo] 区间内的完成次数
func (s *GoalService) completedInWindow(activities []model.TrainingActivity, startDaysAgo, endDaysAgo int) int {
	now := s.now()
	windowStart := model.DateOf(now.AddDate(0, 0, -startDaysAgo))
	windowEnd := model.DateOf(now.AddDate(0, 0, -endDaysAgo))

	count := 0
	for _, a := range activities {
		if !a.Completed {
			continue
		}
		if !a.Date.Time.Before(windowStart.Time) && !a.Date.Time.After(windowEnd.Time) {
			count++
		}
	}
	return count
}

// complianceForPeriod 统计 daysAgo 天前结束、长度 periodLength 天的窗口内完成率
func (s *GoalService) complianceForPeriod(activities []model.TrainingActivity, daysAgo, periodLength int) float64 {
	now := s.now()
	endDate := model.DateOf(now.AddDate(0, 0, -daysAgo))
	startDate := model.DateOf(endDate.Time.AddDate(0, 0, -periodLength))

	var total, completed int
	for _, a := range activities {
		if a.Date.Time.Before(startDate.Time) || a.Date.Time.After(endDate.Time) {
			continue
		}
		total++
		if a.Completed {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func (s *GoalService) frequencyFactors(activities []model.TrainingActivity) []string {
	factors := []string{"Historical workout patterns", "Seasonal trends"}

	weekStart := model.DateOf(s.now().AddDate(0, 0, -7))
	recentSkipped := 0
	for _, a := range activities {
		if !a.Completed && !a.Date.Time.Before(weekStart.Time) {
			recentSkipped++
		}
	}
	if recentSkipped > 2 {
		factors = append(factors, "Recent missed sessions")
	}
	return factors
}

func frequencyRecommendations(frequency, trend float64) []model.PredictionRecommendation {
	recommendations := []model.PredictionRecommendation{}

	if frequency < 3 {
		recommendations = append(recommendations, model.PredictionRecommendation{
			Action: "Increase workout frequency to at least 3 times per week",
			Impact: model.ImpactHigh,
			Effort: model.ImpactMedium,
		})
	}

	if trend < -0.2 {
		recommendations = append(recommendations, model.PredictionRecommendation{
			Action: "Address recent decline in workout frequency",
			Impact: model.ImpactHigh,
			Effort: model.ImpactHigh,
		})
	} else if trend > 0.2 {
		recommendations = append(recommendations, model.PredictionRecommendation{
			Action: "Maintain current positive momentum",
			Impact: model.ImpactMedium,
			Effort: model.ImpactLow,
		})
	}

	return recommendations
}

func complianceRecommendations(compliance, slope float64) []model.PredictionRecommendation {
	recommendations := []model.PredictionRecommendation{}

	if compliance < 60 {
		recommendations = append(recommendations, model.PredictionRecommendation{
			Action: "Focus on completing planned workout durations",
			Impact: model.ImpactHigh,
			Effort: model.ImpactMedium,
		})
	}

	if slope < -0.5 {
		recommendations = append(recommendations, model.PredictionRecommendation{
			Action: "Review and adjust workout intensity levels",
			Impact: model.ImpactMedium,
			Effort: model.ImpactLow,
		})
	}

	return recommendations
}

func performanceRecommendations(performance, trend float64) []model.PredictionRecommendation {
	recommendations := []model.PredictionRecommendation{}

	if performance < 70 {
		recommendations = append(recommendations, model.PredictionRecommendation{
			Action: "Implement structured workout plan",
			Impact: model.ImpactHigh,
			Effort: model.ImpactHigh,
		})
	}

	if trend < -0.1 {
		recommendations = append(recommendations, model.PredictionRecommendation{
			Action: "Add recovery periods to prevent burnout",
			Impact: model.ImpactMedium,
			Effort: model.ImpactLow,
		})
	}

	return recommendations
}

// insufficientDataPrediction 历史数据不足时按当前值持平输出低置信度预测
func insufficientDataPrediction(metric string, currentValue float64) model.PerformancePrediction {
	factors := []string{"Insufficient historical data"}

	return model.PerformancePrediction{
		Metric:       metric,
		CurrentValue: currentValue,
		Predictions: []model.PredictionPoint{
			{Timeframe: model.HorizonOneWeek, PredictedValue: currentValue, Confidence: 30, Factors: factors},
			{Timeframe: model.HorizonOneMonth, PredictedValue: currentValue, Confidence: 25, Factors: factors},
			{Timeframe: model.HorizonThreeMonths, PredictedValue: currentValue, Confidence: 20, Factors: factors},
		},
		Recommendations: []model.PredictionRecommendation{
			{
				Action: "Continue tracking workouts for better predictions",
				Impact: model.ImpactMedium,
				Effort: model.ImpactLow,
			},
		},
	}
}
