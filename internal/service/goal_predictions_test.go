package service

import (
	"summit_training_backend/internal/model"
	"testing"
)

func TestGeneratePerformancePredictionsInsufficientData(t *testing.T) {
	s := newTestGoalService()
	activities := []model.TrainingActivity{
		completedActivity(daysAgo(1), 80),
		completedActivity(daysAgo(2), 80),
	}

	predictions := s.GeneratePerformancePredictions(activities)

	if len(predictions) != 3 {
		t.Fatalf("predictions length = %d, want 3", len(predictions))
	}
	wantMetrics := []string{"workout_frequency", "compliance_rate", "overall_performance"}
	for i, p := range predictions {
		if p.Metric != wantMetrics[i] {
			t.Errorf("metric[%d] = %s, want %s", i, p.Metric, wantMetrics[i])
		}
		if len(p.Predictions) != 3 {
			t.Fatalf("%s horizons = %d, want 3", p.Metric, len(p.Predictions))
		}
		wantConfidence := []float64{30, 25, 20}
		for j, point := range p.Predictions {
			if point.PredictedValue != p.CurrentValue {
				t.Errorf("%s[%s] = %v, want flat %v", p.Metric, point.Timeframe, point.PredictedValue, p.CurrentValue)
			}
			if point.Confidence != wantConfidence[j] {
				t.Errorf("%s[%s] confidence = %v, want %v", p.Metric, point.Timeframe, point.Confidence, wantConfidence[j])
			}
			if !containsString(point.Factors, "Insufficient historical data") {
				t.Errorf("%s[%s] factors = %v", p.Metric, point.Timeframe, point.Factors)
			}
		}
	}
}

func TestPredictWorkoutFrequency(t *testing.T) {
	s := newTestGoalService()

	// 本周4次、上周2次完成
	var activities []model.TrainingActivity
	for _, n := range []int{1, 2, 4, 6} {
		activities = append(activities, completedActivity(daysAgo(n), 85))
	}
	for _, n := range []int{9, 12} {
		activities = append(activities, completedActivity(daysAgo(n), 85))
	}

	got := s.predictWorkoutFrequency(activities)

	if got.CurrentValue != 4 {
		t.Fatalf("CurrentValue = %v, want 4", got.CurrentValue)
	}
	week := got.Predictions[0]
	if week.PredictedValue != 4 || week.Confidence != 90 {
		t.Errorf("1_week = %v@%v, want 4@90", week.PredictedValue, week.Confidence)
	}
	month := got.Predictions[1]
	if month.PredictedValue != 4.4 {
		t.Errorf("1_month = %v, want 4.4", month.PredictedValue)
	}
	quarterly := got.Predictions[2]
	if quarterly.PredictedValue != 4.8 {
		t.Errorf("3_months = %v, want 4.8", quarterly.PredictedValue)
	}
}

func TestPredictWorkoutFrequencyCeiling(t *testing.T) {
	s := newTestGoalService()

	var activities []model.TrainingActivity
	for n := 0; n < 7; n++ {
		activities = append(activities, completedActivity(daysAgo(n), 85))
	}

	got := s.predictWorkoutFrequency(activities)
	for _, p := range got.Predictions {
		if p.PredictedValue > 7 {
			t.Errorf("%s predicted %v workouts, ceiling is 7", p.Timeframe, p.PredictedValue)
		}
	}
}

func TestFrequencyRecommendations(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		trend     float64
		want      []string
	}{
		{"low frequency", 2, 0, []string{"Increase workout frequency to at least 3 times per week"}},
		{"declining", 4, -0.5, []string{"Address recent decline in workout frequency"}},
		{"rising", 4, 0.5, []string{"Maintain current positive momentum"}},
		{"steady adequate", 4, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := frequencyRecommendations(tt.frequency, tt.trend)
			if len(got) != len(tt.want) {
				t.Fatalf("recommendations = %+v, want %d entries", got, len(tt.want))
			}
			for i, action := range tt.want {
				if got[i].Action != action {
					t.Errorf("action[%d] = %s, want %s", i, got[i].Action, action)
				}
			}
		})
	}
}

func TestPredictComplianceRateClampsAndSlope(t *testing.T) {
	s := newTestGoalService()

	// 近14天完成率100%，前14天50%：斜率为正，预测不突破100
	var activities []model.TrainingActivity
	for _, n := range []int{1, 3, 5, 7, 9, 11} {
		activities = append(activities, completedActivity(daysAgo(n), 85))
	}
	for _, n := range []int{16, 20} {
		activities = append(activities, completedActivity(daysAgo(n), 85))
	}
	for _, n := range []int{18, 22} {
		activities = append(activities, skippedActivity(daysAgo(n)))
	}

	got := s.predictComplianceRate(activities)

	if got.CurrentValue != 100 {
		t.Fatalf("CurrentValue = %v, want 100", got.CurrentValue)
	}
	wantConfidence := []float64{85, 70, 55}
	for i, p := range got.Predictions {
		if p.PredictedValue != 100 {
			t.Errorf("%s = %v, want clamped 100", p.Timeframe, p.PredictedValue)
		}
		if p.Confidence != wantConfidence[i] {
			t.Errorf("%s confidence = %v, want %v", p.Timeframe, p.Confidence, wantConfidence[i])
		}
	}
}

func TestComplianceRecommendations(t *testing.T) {
	got := complianceRecommendations(50, -1)
	if len(got) != 2 {
		t.Fatalf("recommendations = %+v, want 2 entries", got)
	}
	if got[0].Action != "Focus on completing planned workout durations" {
		t.Errorf("unexpected first action: %s", got[0].Action)
	}
	if got[1].Action != "Review and adjust workout intensity levels" {
		t.Errorf("unexpected second action: %s", got[1].Action)
	}

	if extra := complianceRecommendations(90, 0); len(extra) != 0 {
		t.Errorf("recommendations = %+v, want none for healthy compliance", extra)
	}
}

func TestPredictOverallPerformance(t *testing.T) {
	s := newTestGoalService()

	var activities []model.TrainingActivity
	for n := 0; n < 14; n++ {
		activities = append(activities, completedActivity(daysAgo(n), 90))
	}

	got := s.predictOverallPerformance(activities)

	// 完成率1.0×40 + 平均达成度90×0.6 = 94
	if got.CurrentValue != 94 {
		t.Fatalf("CurrentValue = %v, want 94", got.CurrentValue)
	}
	for _, p := range got.Predictions {
		if p.PredictedValue < 0 || p.PredictedValue > 100 {
			t.Errorf("%s = %v out of range", p.Timeframe, p.PredictedValue)
		}
	}
	if got.Predictions[0].Confidence != 88 {
		t.Errorf("1_week confidence = %v, want capped 88", got.Predictions[0].Confidence)
	}
	if len(got.Recommendations) != 0 {
		t.Errorf("recommendations = %+v, want none for strong performance", got.Recommendations)
	}
}
