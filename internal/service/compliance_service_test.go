package service

import (
	"summit_training_backend/internal/model"
	"testing"
	"time"
)

// 固定在周日中午，便于验证周/月窗口边界
var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestComplianceService() *ComplianceService {
	return &ComplianceService{
		now: func() time.Time { return testNow },
	}
}

func daysAgo(n int) model.Date {
	return model.DateOf(testNow.AddDate(0, 0, -n))
}

func completedActivity(date model.Date, score int) model.TrainingActivity {
	return model.TrainingActivity{
		Title:     "Morning run",
		Type:      model.ActivityCardio,
		Duration:  60,
		Intensity: model.IntensityMedium,
		Date:      date,
		Completed: true,
		Status:    model.StatusCompleted,
		Actual:    &model.ActualResult{Duration: 60},
		Compliance: &model.ComplianceMetrics{
			DurationMatch:   score,
			IntensityMatch:  score,
			CompletionMatch: score,
			OverallScore:    score,
			Completed:       true,
		},
	}
}

func skippedActivity(date model.Date) model.TrainingActivity {
	return model.TrainingActivity{
		Title:  "Evening strength",
		Type:   model.ActivityStrength,
		Date:   date,
		Status: model.StatusSkipped,
	}
}

func TestCalculateComplianceNotCompleted(t *testing.T) {
	s := newTestComplianceService()
	planned := &model.TrainingActivity{Duration: 60}

	tests := []struct {
		name   string
		actual *model.TrainingActivity
	}{
		{"nil actual", nil},
		{"not completed", &model.TrainingActivity{Duration: 60, Completed: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.CalculateCompliance(planned, tt.actual)
			if got.OverallScore != 0 || got.Completed {
				t.Errorf("expected zero metrics, got overall=%d completed=%v", got.OverallScore, got.Completed)
			}
			if len(got.Notes) != 1 || got.Notes[0] != "Workout not completed" {
				t.Errorf("unexpected notes: %v", got.Notes)
			}
		})
	}
}

func TestCalculateComplianceDuration(t *testing.T) {
	s := newTestComplianceService()

	tests := []struct {
		name          string
		planned       int
		actual        int
		wantMatch     int
		wantNotesLen  int
	}{
		{"exact match", 60, 60, 100, 0},
		{"moderate overshoot", 60, 70, 83, 0},
		{"large overshoot", 60, 90, 50, 1},
		{"double planned", 60, 120, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planned := &model.TrainingActivity{Duration: tt.planned}
			actual := &model.TrainingActivity{
				Duration:  tt.planned,
				Completed: true,
				Actual:    &model.ActualResult{Duration: tt.actual},
			}
			got := s.CalculateCompliance(planned, actual)
			if got.DurationMatch != tt.wantMatch {
				t.Errorf("DurationMatch = %d, want %d", got.DurationMatch, tt.wantMatch)
			}
			if len(got.Notes) != tt.wantNotesLen {
				t.Errorf("Notes = %v, want %d entries", got.Notes, tt.wantNotesLen)
			}
		})
	}
}

func TestCalculateComplianceIntensity(t *testing.T) {
	s := newTestComplianceService()

	tests := []struct {
		name      string
		intensity model.Intensity
		avgHR     int
		wantMatch int
		wantNote  bool
	}{
		{"medium in zone", model.IntensityMedium, 145, 100, false},
		{"medium at boundary", model.IntensityMedium, 160, 100, false},
		{"low zone exceeded", model.IntensityLow, 200, 46, true},
		{"high zone undershot", model.IntensityHigh, 140, 88, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planned := &model.TrainingActivity{Intensity: tt.intensity}
			actual := &model.TrainingActivity{
				Completed: true,
				Actual: &model.ActualResult{
					HeartRate: &model.HeartRate{Avg: tt.avgHR},
				},
			}
			got := s.CalculateCompliance(planned, actual)
			if got.IntensityMatch != tt.wantMatch {
				t.Errorf("IntensityMatch = %d, want %d", got.IntensityMatch, tt.wantMatch)
			}
			if hasNote := len(got.Notes) > 0; hasNote != tt.wantNote {
				t.Errorf("Notes = %v, wantNote %v", got.Notes, tt.wantNote)
			}
		})
	}
}

func TestCalculateComplianceExercises(t *testing.T) {
	s := newTestComplianceService()

	four := []model.Exercise{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}
	planned := &model.TrainingActivity{Exercises: four}
	actual := &model.TrainingActivity{
		Completed: true,
		Exercises: four[:2],
	}

	got := s.CalculateCompliance(planned, actual)
	if got.CompletionMatch != 50 {
		t.Errorf("CompletionMatch = %d, want 50", got.CompletionMatch)
	}
	if len(got.Notes) != 1 || got.Notes[0] != "Completed 2/4 exercises" {
		t.Errorf("unexpected notes: %v", got.Notes)
	}
}

func TestCalculateComplianceWeightRenormalization(t *testing.T) {
	s := newTestComplianceService()

	// 计划只有动作列表时总分就是动作完成度
	planned := &model.TrainingActivity{
		Exercises: []model.Exercise{{Name: "a"}, {Name: "b"}},
	}
	actual := &model.TrainingActivity{
		Completed: true,
		Exercises: []model.Exercise{{Name: "a"}},
	}
	got := s.CalculateCompliance(planned, actual)
	if got.OverallScore != got.CompletionMatch {
		t.Errorf("OverallScore = %d, want CompletionMatch %d", got.OverallScore, got.CompletionMatch)
	}

	// 全部字段齐全且完全吻合时总分为100
	full := &model.TrainingActivity{
		Duration:  60,
		Intensity: model.IntensityMedium,
		Exercises: []model.Exercise{{Name: "a"}},
	}
	fullActual := &model.TrainingActivity{
		Completed: true,
		Exercises: []model.Exercise{{Name: "a"}},
		Actual: &model.ActualResult{
			Duration:  60,
			HeartRate: &model.HeartRate{Avg: 145},
		},
	}
	if got := s.CalculateCompliance(full, fullActual); got.OverallScore != 100 {
		t.Errorf("OverallScore = %d, want 100", got.OverallScore)
	}
}

func TestCalculatePerformanceAnalyticsEmpty(t *testing.T) {
	s := newTestComplianceService()
	got := s.CalculatePerformanceAnalytics(nil)

	if got.WeeklyCompliance != 0 || got.MonthlyCompliance != 0 || got.TotalWorkouts != 0 {
		t.Errorf("expected zero analytics, got %+v", got)
	}
	if got.ImprovementTrend != model.TrendStable {
		t.Errorf("ImprovementTrend = %s, want stable", got.ImprovementTrend)
	}
}

func TestCalculatePerformanceAnalyticsAggregates(t *testing.T) {
	s := newTestComplianceService()
	activities := []model.TrainingActivity{
		completedActivity(daysAgo(2), 80),
		completedActivity(daysAgo(4), 60),
		skippedActivity(daysAgo(3)),
	}

	got := s.CalculatePerformanceAnalytics(activities)

	if got.WeeklyCompliance != 70 {
		t.Errorf("WeeklyCompliance = %d, want 70", got.WeeklyCompliance)
	}
	if got.MonthlyCompliance != 70 {
		t.Errorf("MonthlyCompliance = %d, want 70", got.MonthlyCompliance)
	}
	if got.TotalWorkouts != 3 || got.CompletedWorkouts != 2 || got.SkippedWorkouts != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", got.TotalWorkouts, got.CompletedWorkouts, got.SkippedWorkouts)
	}
	if got.AverageDuration != 60 {
		t.Errorf("AverageDuration = %d, want 60", got.AverageDuration)
	}
	if got.AverageIntensity != 2 {
		t.Errorf("AverageIntensity = %v, want 2", got.AverageIntensity)
	}
}

func TestCalculatePerformanceAnalyticsRiskRules(t *testing.T) {
	s := newTestComplianceService()
	activities := []model.TrainingActivity{
		completedActivity(daysAgo(1), 50),
		completedActivity(daysAgo(2), 60),
	}

	got := s.CalculatePerformanceAnalytics(activities)
	if got.WeeklyCompliance != 55 {
		t.Fatalf("WeeklyCompliance = %d, want 55", got.WeeklyCompliance)
	}
	if !containsString(got.RiskFactors, "Low weekly compliance") {
		t.Errorf("RiskFactors = %v, want low compliance flag", got.RiskFactors)
	}
	if !containsString(got.Recommendations, "Focus on consistency rather than intensity") {
		t.Errorf("Recommendations = %v, missing consistency recommendation", got.Recommendations)
	}
}

func TestCalculateStreaks(t *testing.T) {
	tests := []struct {
		name        string
		completed   []bool // 按最近到最早排列
		wantCurrent int
		wantLongest int
	}{
		{"empty", nil, 0, 0},
		{"all completed", []bool{true, true, true}, 3, 3},
		{"broken after two", []bool{true, true, false, true}, 2, 2},
		{"longer run in history", []bool{true, false, true, true, true}, 1, 3},
		{"leading miss", []bool{false, true, true}, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activities := make([]model.TrainingActivity, len(tt.completed))
			for i, done := range tt.completed {
				activities[i] = model.TrainingActivity{
					Date:      daysAgo(i),
					Completed: done,
				}
			}
			current, longest := calculateStreaks(activities)
			if current != tt.wantCurrent || longest != tt.wantLongest {
				t.Errorf("streaks = %d/%d, want %d/%d", current, longest, tt.wantCurrent, tt.wantLongest)
			}
		})
	}
}

func TestAnalyzeTrendsHistoryAndSnapshot(t *testing.T) {
	s := newTestComplianceService()
	activities := []model.TrainingActivity{
		completedActivity(daysAgo(1), 90),
		completedActivity(daysAgo(2), 80),
		skippedActivity(daysAgo(1)),
	}

	got := s.AnalyzeTrends(activities)

	if len(got.ComplianceHistory) != 2 {
		t.Fatalf("ComplianceHistory length = %d, want 2", len(got.ComplianceHistory))
	}
	// 按日期升序
	if !got.ComplianceHistory[0].Date.Time.Before(got.ComplianceHistory[1].Date.Time) {
		t.Error("ComplianceHistory not sorted ascending")
	}
	latest := got.ComplianceHistory[1]
	if latest.WorkoutsPlanned != 2 || latest.WorkoutsCompleted != 1 || latest.Score != 90 {
		t.Errorf("latest day = %+v, want planned 2 completed 1 score 90", latest)
	}

	goals := got.Goals.Current
	if goals.WeeklyTarget != defaultWeeklyTarget || goals.MonthlyTarget != defaultMonthlyTarget {
		t.Errorf("targets = %d/%d, want %d/%d", goals.WeeklyTarget, goals.MonthlyTarget, defaultWeeklyTarget, defaultMonthlyTarget)
	}
	if len(got.Goals.Projections) != 2 {
		t.Fatalf("projections length = %d, want 2", len(got.Goals.Projections))
	}
	for _, p := range got.Goals.Projections {
		if p.Confidence > 95 {
			t.Errorf("projection confidence %v exceeds 95", p.Confidence)
		}
	}
}

func TestGenerateAlertsRules(t *testing.T) {
	s := newTestComplianceService()

	analytics := model.PerformanceAnalytics{
		WeeklyCompliance: 50,
		ImprovementTrend: model.TrendDeclining,
		AverageDuration:  40,
	}
	trends := model.TrendAnalysis{
		Goals: model.TrendGoals{
			Current: model.GoalMetrics{WeeklyTarget: 5, CurrentWeekProgress: 2},
			Projections: []model.GoalProjection{
				{Timeframe: "week", Target: 5, Confidence: 40},
			},
		},
	}

	alerts := s.GenerateAlerts(analytics, trends)

	wantTypes := map[model.AlertType]bool{
		model.AlertMissedWorkout:        false,
		model.AlertDecliningPerformance: false,
		model.AlertGoalAtRisk:           false,
	}
	for _, a := range alerts {
		if _, ok := wantTypes[a.Type]; ok {
			wantTypes[a.Type] = true
		}
	}
	for typ, seen := range wantTypes {
		if !seen {
			t.Errorf("expected alert %s not generated", typ)
		}
	}

	// 高完成率且时长偏短时触发提升机会提醒
	improving := model.PerformanceAnalytics{WeeklyCompliance: 85, AverageDuration: 40}
	alerts = s.GenerateAlerts(improving, model.TrendAnalysis{})
	if len(alerts) != 1 || alerts[0].Type != model.AlertImprovementOpportunity {
		t.Errorf("alerts = %+v, want single improvement_opportunity", alerts)
	}
}

func TestAnalyzeComplianceReport(t *testing.T) {
	s := newTestComplianceService()
	activities := []model.TrainingActivity{
		completedActivity(daysAgo(1), 97),
		completedActivity(daysAgo(2), 97),
		completedActivity(daysAgo(3), 94),
		skippedActivity(daysAgo(4)),
	}

	report := s.AnalyzeCompliance(activities)

	if report.Analytics.WeeklyCompliance != 96 {
		t.Errorf("WeeklyCompliance = %d, want 96", report.Analytics.WeeklyCompliance)
	}
	if report.Summary.OverallHealth != "excellent" {
		t.Errorf("OverallHealth = %s, want excellent", report.Summary.OverallHealth)
	}
	if len(report.Summary.KeyInsights) != 3 {
		t.Errorf("KeyInsights = %v, want 3 entries", report.Summary.KeyInsights)
	}
	if len(report.Summary.NextActions) != len(report.Alerts) && len(report.Summary.NextActions) > 3 {
		t.Errorf("NextActions = %v inconsistent with alerts", report.Summary.NextActions)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
