package service

import (
	"summit_training_backend/internal/model"
	"testing"
)

func highIntensityDay(n int, completed bool) model.TrainingActivity {
	return model.TrainingActivity{
		Type:      model.ActivityCardio,
		Intensity: model.IntensityHigh,
		Date:      daysAgo(n),
		Completed: completed,
	}
}

func restDay(n int) model.TrainingActivity {
	return model.TrainingActivity{
		Type: model.ActivityRest,
		Date: daysAgo(n),
	}
}

func TestCategorizePerformance(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "excellent"},
		{90, "excellent"},
		{80, "good"},
		{65, "average"},
		{45, "poor"},
		{20, "critical"},
	}
	for _, tt := range tests {
		if got := CategorizePerformance(tt.score); got != tt.want {
			t.Errorf("CategorizePerformance(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestConsistencyScore(t *testing.T) {
	s := newTestComplianceService()

	t.Run("too few activities", func(t *testing.T) {
		activities := []model.TrainingActivity{
			completedActivity(daysAgo(1), 80),
			completedActivity(daysAgo(3), 80),
		}
		if got := s.ConsistencyScore(activities); got != 0 {
			t.Errorf("ConsistencyScore = %d, want 0", got)
		}
	})

	t.Run("perfectly regular", func(t *testing.T) {
		var activities []model.TrainingActivity
		for i := 0; i < 8; i++ {
			activities = append(activities, completedActivity(daysAgo(i*2), 80))
		}
		if got := s.ConsistencyScore(activities); got != 100 {
			t.Errorf("ConsistencyScore = %d, want 100", got)
		}
	})

	t.Run("irregular gaps lower the score", func(t *testing.T) {
		gaps := []int{0, 1, 2, 10, 11, 25, 26, 27}
		var activities []model.TrainingActivity
		for _, g := range gaps {
			activities = append(activities, completedActivity(daysAgo(g), 80))
		}
		regular := s.ConsistencyScore(makeRegular(8))
		irregular := s.ConsistencyScore(activities)
		if irregular >= regular {
			t.Errorf("irregular score %d should be below regular score %d", irregular, regular)
		}
	})
}

func makeRegular(n int) []model.TrainingActivity {
	var activities []model.TrainingActivity
	for i := 0; i < n; i++ {
		activities = append(activities, completedActivity(daysAgo(i*2), 80))
	}
	return activities
}

func TestIntensityVariabilityScore(t *testing.T) {
	s := newTestComplianceService()

	t.Run("insufficient data is neutral", func(t *testing.T) {
		activities := []model.TrainingActivity{
			completedActivity(daysAgo(1), 80),
		}
		if got := s.IntensityVariabilityScore(activities); got != neutralScore {
			t.Errorf("IntensityVariabilityScore = %d, want %d", got, neutralScore)
		}
	})

	t.Run("zero variance penalized", func(t *testing.T) {
		// 全部同一强度时方差为0，与理想值0.75的偏差压低得分
		activities := makeRegular(5)
		got := s.IntensityVariabilityScore(activities)
		want := 40 // 100 - 0.75*80
		if got != want {
			t.Errorf("IntensityVariabilityScore = %d, want %d", got, want)
		}
	})

	t.Run("balanced mix scores high", func(t *testing.T) {
		intensities := []model.Intensity{
			model.IntensityLow, model.IntensityMedium, model.IntensityHigh,
			model.IntensityMedium, model.IntensityLow, model.IntensityHigh,
		}
		var activities []model.TrainingActivity
		for i, intensity := range intensities {
			a := completedActivity(daysAgo(i), 80)
			a.Intensity = intensity
			activities = append(activities, a)
		}
		if got := s.IntensityVariabilityScore(activities); got < 90 {
			t.Errorf("IntensityVariabilityScore = %d, want >= 90 for a balanced mix", got)
		}
	})
}

func TestRecoveryScore(t *testing.T) {
	s := newTestComplianceService()

	t.Run("insufficient data is neutral", func(t *testing.T) {
		activities := makeRegular(3)
		if got := s.RecoveryScore(activities); got != neutralScore {
			t.Errorf("RecoveryScore = %d, want %d", got, neutralScore)
		}
	})

	t.Run("no violations", func(t *testing.T) {
		activities := []model.TrainingActivity{
			highIntensityDay(8, true),
			highIntensityDay(7, true),
			restDay(6),
			highIntensityDay(5, true),
			highIntensityDay(4, true),
			restDay(3),
			highIntensityDay(2, true),
		}
		if got := s.RecoveryScore(activities); got != 100 {
			t.Errorf("RecoveryScore = %d, want 100", got)
		}
	})

	t.Run("consecutive high days penalized", func(t *testing.T) {
		// 连续5天高强度，第4、5天各记一次违规
		var activities []model.TrainingActivity
		for i := 0; i < 5; i++ {
			activities = append(activities, highIntensityDay(5-i, true))
		}
		activities = append(activities, restDay(0), restDay(6))
		if got := s.RecoveryScore(activities); got != 60 {
			t.Errorf("RecoveryScore = %d, want 60", got)
		}
	})
}

func TestAssessRiskWellFormedOnSparseData(t *testing.T) {
	s := newTestComplianceService()
	activities := makeRegular(2)

	got := s.AssessRisk(activities)

	// 一致性0、强度50、恢复50、进度占位75 → 40 分，critical
	if got.RiskScore != 40 {
		t.Errorf("RiskScore = %d, want 40", got.RiskScore)
	}
	if got.RiskLevel != model.RiskCritical {
		t.Errorf("RiskLevel = %s, want critical", got.RiskLevel)
	}
	if len(got.Factors) != 3 {
		t.Fatalf("Factors length = %d, want 3", len(got.Factors))
	}
	for _, f := range got.Factors {
		if f.Factor == "" || f.Description == "" {
			t.Errorf("factor not well-formed: %+v", f)
		}
	}
}

func TestAssessRiskLevels(t *testing.T) {
	s := newTestComplianceService()

	// 规律、强度均衡、恢复良好的组合应落在低风险档
	intensities := []model.Intensity{
		model.IntensityLow, model.IntensityMedium, model.IntensityHigh,
		model.IntensityMedium, model.IntensityLow, model.IntensityHigh,
		model.IntensityMedium, model.IntensityLow,
	}
	var activities []model.TrainingActivity
	for i, intensity := range intensities {
		a := completedActivity(daysAgo(i*2), 85)
		a.Intensity = intensity
		activities = append(activities, a)
	}

	got := s.AssessRisk(activities)
	if got.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %s (score %d), want low", got.RiskLevel, got.RiskScore)
	}
}

func TestGeneratePersonalizedInsights(t *testing.T) {
	s := newTestComplianceService()

	t.Run("caps at three insights", func(t *testing.T) {
		// 稀疏且时长过短的数据会同时命中多条规则
		activities := []model.TrainingActivity{
			completedActivity(daysAgo(1), 50),
			completedActivity(daysAgo(20), 50),
		}
		for i := range activities {
			activities[i].Duration = 15
			activities[i].Actual = nil
		}
		insights := s.GeneratePersonalizedInsights(activities)
		if len(insights) > 3 {
			t.Errorf("insights length = %d, want <= 3", len(insights))
		}
	})

	t.Run("praises regular schedules", func(t *testing.T) {
		insights := s.GeneratePersonalizedInsights(makeRegular(10))
		if !containsString(insights, "Excellent workout consistency! You're building strong training habits.") {
			t.Errorf("insights = %v, missing consistency praise", insights)
		}
	})
}
