package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"summit_training_backend/internal/config"
	"summit_training_backend/internal/model"
	"summit_training_backend/internal/repository"
	"summit_training_backend/pkg/logger"
	"summit_training_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 达成度各分项权重，按实际存在的计划字段重新归一化
const (
	durationWeight   = 0.4
	intensityWeight  = 0.3
	completionWeight = 0.3
)

// 周/月默认训练目标次数
const (
	defaultWeeklyTarget  = 5
	defaultMonthlyTarget = 20
)

// 时长差异超过该比例时附加说明
const durationVarianceNoteThreshold = 0.2

// heartRateZone 计划强度对应的目标平均心率区间（bpm）
type heartRateZone struct {
	Min int
	Max int
}

var heartRateZones = map[model.Intensity]heartRateZone{
	model.IntensityLow:    {Min: 60, Max: 130},
	model.IntensityMedium: {Min: 130, Max: 160},
	model.IntensityHigh:   {Min: 160, Max: 200},
}

const complianceCacheKeyPrefix = "analytics:compliance:"

// ComplianceService 训练达成度分析引擎
// 计算本身是无状态的纯函数，now 可注入以便对时间窗口做确定性测试
type ComplianceService struct {
	ActivityRepo *repository.ActivityRepository
	Redis        *redis.Client
	CacheTTL     time.Duration

	now func() time.Time
}

func NewComplianceService(activityRepo *repository.ActivityRepository, rdb *redis.Client, cfg *config.Config) *ComplianceService {
	ttl := time.Duration(cfg.Analytics.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ComplianceService{
		ActivityRepo: activityRepo,
		Redis:        rdb,
		CacheTTL:     ttl,
		now:          time.Now,
	}
}

// CalculateCompliance 计算单次活动的计划/实际达成度
// actual 缺失或未完成时返回全零记录
func (s *ComplianceService) CalculateCompliance(planned *model.TrainingActivity, actual *model.TrainingActivity) model.ComplianceMetrics {
	if actual == nil || !actual.Completed {
		return model.ComplianceMetrics{
			Notes: []string{"Workout not completed"},
		}
	}

	metrics := model.ComplianceMetrics{
		DurationMatch:   100,
		IntensityMatch:  100,
		CompletionMatch: 100,
		OverallScore:    100,
		Completed:       true,
		Notes:           []string{},
	}

	// 时长达成度
	if planned.Duration > 0 && actual.Actual != nil && actual.Actual.Duration > 0 {
		variance := math.Abs(float64(actual.Actual.Duration-planned.Duration)) / float64(planned.Duration)
		metrics.DurationMatch = int(math.Round(math.Max(0, 100-variance*100)))

		if variance > durationVarianceNoteThreshold {
			diff := actual.Actual.Duration - planned.Duration
			direction := "under"
			if diff > 0 {
				direction = "exceeded"
			}
			metrics.Notes = append(metrics.Notes,
				fmt.Sprintf("Duration %s target by %d minutes", direction, absInt(diff)))
		}
	}

	// 强度达成度（有平均心率时基于目标心率区间）
	if zone, ok := heartRateZones[planned.Intensity]; ok &&
		actual.Actual != nil && actual.Actual.HeartRate != nil && actual.Actual.HeartRate.Avg > 0 {
		avgHR := actual.Actual.HeartRate.Avg

		if avgHR >= zone.Min && avgHR <= zone.Max {
			metrics.IntensityMatch = 100
		} else {
			var distance float64
			direction := "lower"
			if avgHR < zone.Min {
				distance = float64(zone.Min-avgHR) / float64(zone.Min)
			} else {
				distance = float64(avgHR-zone.Max) / float64(zone.Max)
				direction = "higher"
			}

			metrics.IntensityMatch = int(math.Round(math.Max(0, 100-distance*100)))
			metrics.Notes = append(metrics.Notes,
				fmt.Sprintf("Heart rate %s than target %s zone", direction, planned.Intensity))
		}
	}

	// 动作完成度（计划列出动作时按完成比例计）
	if len(planned.Exercises) > 0 {
		plannedCount := len(planned.Exercises)
		completedCount := len(actual.Exercises)
		if completedCount > plannedCount {
			completedCount = plannedCount
		}
		metrics.CompletionMatch = int(math.Round(float64(completedCount) / float64(plannedCount) * 100))

		if completedCount < plannedCount {
			metrics.Notes = append(metrics.Notes,
				fmt.Sprintf("Completed %d/%d exercises", completedCount, plannedCount))
		}
	}

	// 加权总分：缺失的计划字段不计入权重
	totalWeight := completionWeight
	weightedSum := float64(metrics.CompletionMatch) * completionWeight
	if planned.Duration > 0 {
		totalWeight += durationWeight
		weightedSum += float64(metrics.DurationMatch) * durationWeight
	}
	if planned.Intensity.Level() > 0 {
		totalWeight += intensityWeight
		weightedSum += float64(metrics.IntensityMatch) * intensityWeight
	}
	metrics.OverallScore = int(math.Round(weightedSum / totalWeight))

	return metrics
}

// CalculatePerformanceAnalytics 计算时间窗内的群体统计
func (s *ComplianceService) CalculatePerformanceAnalytics(activities []model.TrainingActivity) model.PerformanceAnalytics {
	now := s.now()
	weekCutoff := model.DateOf(now.AddDate(0, 0, -7))
	monthCutoff := model.DateOf(now.AddDate(0, 0, -30))

	var completedActivities, skippedCount int
	var weeklyScores []int

	// 月度分数按日期升序收集，便于做近14条 vs 更早的趋势比较
	monthlyScored := make([]model.TrainingActivity, 0, len(activities))
	for _, a := range activities {
		if a.Completed {
			completedActivities++
		}
		if a.Status == model.StatusSkipped {
			skippedCount++
		}
		if a.Compliance != nil {
			if !a.Date.Time.Before(weekCutoff.Time) {
				weeklyScores = append(weeklyScores, a.Compliance.OverallScore)
			}
			if !a.Date.Time.Before(monthCutoff.Time) {
				monthlyScored = append(monthlyScored, a)
			}
		}
	}
	sort.SliceStable(monthlyScored, func(i, j int) bool {
		return monthlyScored[i].Date.Time.Before(monthlyScored[j].Date.Time)
	})
	monthlyScores := make([]int, len(monthlyScored))
	for i, a := range monthlyScored {
		monthlyScores[i] = a.Compliance.OverallScore
	}

	weeklyCompliance := roundedMean(weeklyScores)
	monthlyCompliance := roundedMean(monthlyScores)

	// 平均时长与平均强度只看已完成的活动
	var durationSum, intensitySum, completedCount int
	for _, a := range activities {
		if !a.Completed {
			continue
		}
		completedCount++
		durationSum += effectiveDuration(&a)
		intensitySum += a.Intensity.Level()
	}
	averageDuration := 0
	averageIntensity := 0.0
	if completedCount > 0 {
		averageDuration = int(math.Round(float64(durationSum) / float64(completedCount)))
		averageIntensity = float64(intensitySum) / float64(completedCount)
	}

	improvementTrend := classifyTrend(monthlyScores)

	var riskFactors, recommendations []string
	if weeklyCompliance < 70 {
		riskFactors = append(riskFactors, "Low weekly compliance")
		recommendations = append(recommendations, "Focus on consistency rather than intensity")
	}
	if float64(skippedCount) > float64(completedCount)*0.2 {
		riskFactors = append(riskFactors, "High skip rate")
		recommendations = append(recommendations, "Review workout difficulty and scheduling")
	}
	if improvementTrend == model.TrendDeclining {
		riskFactors = append(riskFactors, "Declining performance trend")
		recommendations = append(recommendations, "Consider rest days or reduce training intensity")
	}
	if averageDuration < 30 {
		recommendations = append(recommendations, "Consider increasing workout duration for better results")
	}

	return model.PerformanceAnalytics{
		WeeklyCompliance:  weeklyCompliance,
		MonthlyCompliance: monthlyCompliance,
		TotalWorkouts:     len(activities),
		CompletedWorkouts: completedActivities,
		SkippedWorkouts:   skippedCount,
		AverageDuration:   averageDuration,
		AverageIntensity:  averageIntensity,
		ImprovementTrend:  improvementTrend,
		RiskFactors:       riskFactors,
		Recommendations:   recommendations,
	}
}

// classifyTrend 比较按时间排列的最近14个数据点与更早数据的均值
// 相对变化超过 ±5% 判定为 improving/declining，数据不足时视为 stable
func classifyTrend(orderedScores []int) model.ImprovementTrend {
	split := len(orderedScores) - 14
	if split <= 0 {
		return model.TrendStable
	}
	earlier := orderedScores[:split]
	recent := orderedScores[split:]

	earlierAvg := mean(earlier)
	recentAvg := mean(recent)
	if earlierAvg == 0 {
		return model.TrendStable
	}

	improvement := (recentAvg - earlierAvg) / earlierAvg * 100
	if improvement > 5 {
		return model.TrendImproving
	}
	if improvement < -5 {
		return model.TrendDeclining
	}
	return model.TrendStable
}

// AnalyzeTrends 计算达成度历史、周内规律与目标快照
func (s *ComplianceService) AnalyzeTrends(activities []model.TrainingActivity) model.TrendAnalysis {
	history := s.buildComplianceHistory(activities)
	patterns := s.analyzePatterns(activities)
	goals := s.buildGoalSnapshot(activities)

	return model.TrendAnalysis{
		ComplianceHistory:   history,
		PerformancePatterns: patterns,
		Goals:               goals,
	}
}

type dayGroup struct {
	date      model.Date
	planned   int
	completed int
	scoreSum  int
	scored    int
}

func (s *ComplianceService) buildComplianceHistory(activities []model.TrainingActivity) []model.ComplianceHistoryPoint {
	groups := make(map[string]*dayGroup)
	for _, a := range activities {
		key := a.Date.String()
		g, ok := groups[key]
		if !ok {
			g = &dayGroup{date: a.Date}
			groups[key] = g
		}
		g.planned++
		if a.Completed {
			g.completed++
			if a.Compliance != nil {
				g.scoreSum += a.Compliance.OverallScore
				g.scored++
			}
		}
	}

	history := make([]model.ComplianceHistoryPoint, 0, len(groups))
	for _, g := range groups {
		score := 0
		if g.scored > 0 {
			score = int(math.Round(float64(g.scoreSum) / float64(g.scored)))
		}
		history = append(history, model.ComplianceHistoryPoint{
			Date:              g.date,
			Score:             score,
			WorkoutsCompleted: g.completed,
			WorkoutsPlanned:   g.planned,
		})
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.Time.Before(history[j].Date.Time)
	})
	return history
}

type weekdayStats struct {
	day       string
	total     int
	completed int
	scoreSum  int
}

func (s *ComplianceService) analyzePatterns(activities []model.TrainingActivity) model.PerformancePatterns {
	byDay := make(map[string]*weekdayStats)
	for _, a := range activities {
		day := a.Date.Weekday().String()
		st, ok := byDay[day]
		if !ok {
			st = &weekdayStats{day: day}
			byDay[day] = st
		}
		st.total++
		if a.Completed {
			st.completed++
			if a.Compliance != nil {
				st.scoreSum += a.Compliance.OverallScore
			}
		}
	}

	ranked := make([]*weekdayStats, 0, len(byDay))
	for _, st := range byDay {
		ranked = append(ranked, st)
	}
	avgScore := func(st *weekdayStats) float64 {
		if st.completed == 0 {
			return 0
		}
		return float64(st.scoreSum) / float64(st.completed)
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := avgScore(ranked[i]), avgScore(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].day < ranked[j].day
	})

	var bestDays, worstDays []string
	for i := 0; i < len(ranked) && i < 3; i++ {
		bestDays = append(bestDays, ranked[i].day)
	}
	worstStart := len(ranked) - 2
	if worstStart < 0 {
		worstStart = 0
	}
	for _, st := range ranked[worstStart:] {
		worstDays = append(worstDays, st.day)
	}

	// 最优时长：达成度 >= 80 的已完成活动的平均时长
	var scoredCount, highCount, highDurationSum int
	intensityPerf := make(map[model.Intensity]*struct {
		count    int
		scoreSum int
	})
	for _, a := range activities {
		if !a.Completed || a.Compliance == nil {
			continue
		}
		scoredCount++
		if a.Compliance.OverallScore >= 80 {
			highCount++
			highDurationSum += effectiveDuration(&a)
		}
		perf, ok := intensityPerf[a.Intensity]
		if !ok {
			perf = &struct {
				count    int
				scoreSum int
			}{}
			intensityPerf[a.Intensity] = perf
		}
		perf.count++
		perf.scoreSum += a.Compliance.OverallScore
	}

	optimalDuration := 60
	if scoredCount > 0 {
		optimalDuration = int(math.Round(float64(highDurationSum) / float64(maxInt(highCount, 1))))
	}

	preferredIntensity := string(model.IntensityMedium)
	bestAvg := -1.0
	for intensity, perf := range intensityPerf {
		avg := float64(perf.scoreSum) / float64(perf.count)
		if avg > bestAvg || (avg == bestAvg && string(intensity) < preferredIntensity) {
			bestAvg = avg
			preferredIntensity = string(intensity)
		}
	}

	return model.PerformancePatterns{
		BestDays:           bestDays,
		WorstDays:          worstDays,
		OptimalDuration:    optimalDuration,
		PreferredIntensity: preferredIntensity,
	}
}

func (s *ComplianceService) buildGoalSnapshot(activities []model.TrainingActivity) model.TrendGoals {
	now := s.now()
	// 周起点为本周周日（day-0），月起点为本月1日
	weekStart := model.DateOf(now.AddDate(0, 0, -int(now.Weekday())))
	monthStart := model.NewDate(now.Year(), now.Month(), 1)

	var weekTotal, weekCompleted, monthTotal, monthCompleted int
	for _, a := range activities {
		if !a.Date.Time.Before(weekStart.Time) {
			weekTotal++
			if a.Completed {
				weekCompleted++
			}
		}
		if !a.Date.Time.Before(monthStart.Time) {
			monthTotal++
			if a.Completed {
				monthCompleted++
			}
		}
	}

	streakDays, longestStreak := calculateStreaks(activities)

	weeklyRate := float64(weekCompleted) / float64(maxInt(weekTotal, 1))
	monthlyRate := float64(monthCompleted) / float64(maxInt(monthTotal, 1))

	projections := []model.GoalProjection{
		{
			Timeframe:          "week",
			Target:             defaultWeeklyTarget,
			Projected:          int(math.Round(weeklyRate * defaultWeeklyTarget)),
			Confidence:         math.Min(95, weeklyRate*100),
			RequiredWeeklyRate: defaultWeeklyTarget,
		},
		{
			Timeframe:          "month",
			Target:             defaultMonthlyTarget,
			Projected:          int(math.Round(monthlyRate * defaultMonthlyTarget)),
			Confidence:         math.Min(95, monthlyRate*100),
			RequiredWeeklyRate: int(math.Ceil(float64(defaultMonthlyTarget) / 4)),
		},
	}

	return model.TrendGoals{
		Current: model.GoalMetrics{
			WeeklyTarget:         defaultWeeklyTarget,
			MonthlyTarget:        defaultMonthlyTarget,
			CurrentWeekProgress:  weekCompleted,
			CurrentMonthProgress: monthCompleted,
			StreakDays:           streakDays,
			LongestStreak:        longestStreak,
		},
		Projections: projections,
	}
}

// calculateStreaks 按日期倒序遍历，第一段连续完成的长度为当前连胜，
// 最长的一段为历史最长连胜
func calculateStreaks(activities []model.TrainingActivity) (current, longest int) {
	sorted := make([]model.TrainingActivity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Time.After(sorted[j].Date.Time)
	})

	run := 0
	firstRunEnded := false
	for _, a := range sorted {
		if a.Completed {
			run++
			if !firstRunEnded {
				current = run
			}
			if run > longest {
				longest = run
			}
		} else {
			firstRunEnded = true
			run = 0
		}
	}
	return current, longest
}

// GenerateAlerts 按固定规则生成达成度提醒，各规则独立触发
func (s *ComplianceService) GenerateAlerts(analytics model.PerformanceAnalytics, trends model.TrendAnalysis) []model.ComplianceAlert {
	alerts := []model.ComplianceAlert{}

	if analytics.WeeklyCompliance < 60 {
		alerts = append(alerts, model.ComplianceAlert{
			Type:     model.AlertMissedWorkout,
			Severity: model.SeverityHigh,
			Title:    "Low Weekly Compliance",
			Message:  fmt.Sprintf("Your weekly compliance is %d%%, significantly below target.", analytics.WeeklyCompliance),
			ActionItems: []string{
				"Review your weekly schedule for better workout timing",
				"Consider shorter but more frequent sessions",
				"Identify and remove scheduling conflicts",
			},
		})
	}

	if analytics.ImprovementTrend == model.TrendDeclining {
		alerts = append(alerts, model.ComplianceAlert{
			Type:     model.AlertDecliningPerformance,
			Severity: model.SeverityMedium,
			Title:    "Performance Decline Detected",
			Message:  "Your performance metrics show a declining trend over the past two weeks.",
			ActionItems: []string{
				"Consider adding more rest days",
				"Review workout intensity levels",
				"Ensure adequate nutrition and sleep",
			},
		})
	}

	for _, projection := range trends.Goals.Projections {
		if projection.Timeframe != "week" {
			continue
		}
		if projection.Confidence < 70 {
			remaining := projection.Target - trends.Goals.Current.CurrentWeekProgress
			alerts = append(alerts, model.ComplianceAlert{
				Type:     model.AlertGoalAtRisk,
				Severity: model.SeverityMedium,
				Title:    "Weekly Goal at Risk",
				Message:  fmt.Sprintf("Only %.0f%% confidence in meeting weekly goal.", projection.Confidence),
				ActionItems: []string{
					fmt.Sprintf("Complete %d more workouts this week", remaining),
					"Focus on high-impact, shorter sessions",
					"Prioritize remaining planned workouts",
				},
			})
		}
		break
	}

	if analytics.WeeklyCompliance > 80 && analytics.AverageDuration < 45 {
		alerts = append(alerts, model.ComplianceAlert{
			Type:     model.AlertImprovementOpportunity,
			Severity: model.SeverityLow,
			Title:    "Opportunity to Increase Duration",
			Message:  "You're consistently completing workouts. Consider increasing duration for better results.",
			ActionItems: []string{
				"Gradually increase workout duration by 5-10 minutes",
				"Add warm-up and cool-down periods",
				"Include additional exercises in strength sessions",
			},
		})
	}

	return alerts
}

// AnalyzeCompliance 组合统计、趋势与提醒并生成摘要
func (s *ComplianceService) AnalyzeCompliance(activities []model.TrainingActivity) model.ComplianceReport {
	analytics := s.CalculatePerformanceAnalytics(activities)
	trends := s.AnalyzeTrends(activities)
	alerts := s.GenerateAlerts(analytics, trends)

	overallHealth := "needs_improvement"
	if analytics.MonthlyCompliance >= 80 {
		overallHealth = "excellent"
	} else if analytics.MonthlyCompliance >= 60 {
		overallHealth = "good"
	}

	keyInsights := []string{
		fmt.Sprintf("%d%% weekly compliance", analytics.WeeklyCompliance),
		fmt.Sprintf("%s performance trend", analytics.ImprovementTrend),
		fmt.Sprintf("%d day current streak", trends.Goals.Current.StreakDays),
	}

	var nextActions []string
	for i, alert := range alerts {
		if i >= 3 {
			break
		}
		if len(alert.ActionItems) > 0 {
			nextActions = append(nextActions, alert.ActionItems[0])
		}
	}

	return model.ComplianceReport{
		Analytics: analytics,
		Trends:    trends,
		Alerts:    alerts,
		Summary: model.ComplianceSummary{
			OverallHealth: overallHealth,
			KeyInsights:   keyInsights,
			NextActions:   nextActions,
		},
	}
}

// AnalyzeForUser 拉取用户时间窗内的活动并做综合分析，结果带 Redis 缓存
func (s *ComplianceService) AnalyzeForUser(ctx context.Context, userID uint, timeframe string) (*model.ComplianceReport, error) {
	cacheKey := fmt.Sprintf("%s%d:%s", complianceCacheKeyPrefix, userID, timeframe)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var report model.ComplianceReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				monitoring.AnalysisCacheHits.WithLabelValues("hit").Inc()
				return &report, nil
			}
		}
		monitoring.AnalysisCacheHits.WithLabelValues("miss").Inc()
	}

	activities, err := s.activitiesInTimeframe(userID, timeframe)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := s.AnalyzeCompliance(activities)
	monitoring.ObserveAnalysis("compliance", start)

	if s.Redis != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache compliance report", zap.Error(err))
			}
		}
	}

	return &report, nil
}

// RiskForUser 拉取用户全部活动并做风险评估
func (s *ComplianceService) RiskForUser(userID uint) (*model.RiskAssessment, []string, error) {
	activities, err := s.ActivityRepo.FindByUserID(userID)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	assessment := s.AssessRisk(activities)
	insights := s.GeneratePersonalizedInsights(activities)
	monitoring.ObserveAnalysis("risk", start)

	return &assessment, insights, nil
}

// InvalidateCache 活动数据变化后清除该用户的分析缓存
func (s *ComplianceService) InvalidateCache(ctx context.Context, userID uint) {
	if s.Redis == nil {
		return
	}
	for _, timeframe := range []string{"week", "month", "quarter"} {
		key := fmt.Sprintf("%s%d:%s", complianceCacheKeyPrefix, userID, timeframe)
		if err := s.Redis.Del(ctx, key).Err(); err != nil {
			logger.Log.Warn("Failed to invalidate analytics cache", zap.Error(err))
		}
	}
}

func (s *ComplianceService) activitiesInTimeframe(userID uint, timeframe string) ([]model.TrainingActivity, error) {
	days := 30
	switch timeframe {
	case "week":
		days = 7
	case "quarter":
		days = 90
	}
	since := model.DateOf(s.now().AddDate(0, 0, -days))
	return s.ActivityRepo.FindByUserIDSince(userID, since)
}

// effectiveDuration 实际时长缺失时退回计划时长
func effectiveDuration(a *model.TrainingActivity) int {
	if a.Actual != nil && a.Actual.Duration > 0 {
		return a.Actual.Duration
	}
	return a.Duration
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func roundedMean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return int(math.Round(mean(values)))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
