package service

import (
	"math"
	"summit_training_backend/internal/model"
	"testing"
	"time"
)

func newTestGoalService() *GoalService {
	return &GoalService{
		now: func() time.Time { return testNow },
	}
}

func frequencyGoal(target float64, createdDaysAgo, deadlineInDays int) *model.TrainingGoal {
	deadline := model.DateOf(testNow.AddDate(0, 0, deadlineInDays))
	goal := &model.TrainingGoal{
		UserID:   1,
		Title:    "Weekly training frequency",
		Category: model.GoalFitness,
		Type:     model.GoalFrequency,
		Target: model.GoalTarget{
			Value:     target,
			Unit:      "workouts",
			Timeframe: model.TimeframeWeekly,
		},
		Deadline: &deadline,
		Priority: model.PriorityMedium,
	}
	goal.ID = "goal-1"
	goal.CreatedAt = testNow.AddDate(0, 0, -createdDaysAgo)
	return goal
}

func TestFilterActivitiesForGoal(t *testing.T) {
	s := newTestGoalService()

	cardioDone := completedActivity(daysAgo(1), 80)
	strengthDone := completedActivity(daysAgo(2), 80)
	strengthDone.Type = model.ActivityStrength
	strengthDone.Title = "Gym session"
	planned := model.TrainingActivity{
		Title: "Summit push",
		Type:  model.ActivityExpedition,
		Date:  daysAgo(3),
	}
	activities := []model.TrainingActivity{cardioDone, strengthDone, planned}

	tests := []struct {
		name     string
		category model.GoalCategory
		tags     []string
		want     int
	}{
		{"fitness keeps all completed", model.GoalFitness, nil, 2},
		{"strength matches type", model.GoalStrength, nil, 1},
		{"endurance matches cardio", model.GoalEndurance, nil, 1},
		{"wildcard keeps everything", model.GoalSkill, []string{"all"}, 3},
		{"tag matches title", model.GoalSkill, []string{"summit"}, 1},
		{"tag matches type", model.GoalSkill, []string{"strength"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := &model.TrainingGoal{Category: tt.category, Tags: tt.tags}
			got := s.filterActivitiesForGoal(goal, activities)
			if len(got) != tt.want {
				t.Errorf("filtered %d activities, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCalculateCurrentValue(t *testing.T) {
	s := newTestGoalService()

	inWindow := completedActivity(daysAgo(2), 80)
	outOfWindow := completedActivity(daysAgo(10), 80)
	notDone := model.TrainingActivity{Date: daysAgo(1), Duration: 45}
	activities := []model.TrainingActivity{inWindow, outOfWindow, notDone}

	t.Run("frequency counts window completions", func(t *testing.T) {
		goal := &model.TrainingGoal{
			Type:   model.GoalFrequency,
			Target: model.GoalTarget{Value: 5, Timeframe: model.TimeframeWeekly},
		}
		if got := s.calculateCurrentValue(goal, activities); got != 1 {
			t.Errorf("current = %v, want 1", got)
		}
	})

	t.Run("duration sums completed time", func(t *testing.T) {
		goal := &model.TrainingGoal{Type: model.GoalDuration}
		if got := s.calculateCurrentValue(goal, activities); got != 120 {
			t.Errorf("current = %v, want 120", got)
		}
	})

	t.Run("numeric compliance rate", func(t *testing.T) {
		goal := &model.TrainingGoal{
			Type:   model.GoalNumeric,
			Target: model.GoalTarget{Unit: "compliance_rate"},
		}
		got := s.calculateCurrentValue(goal, activities)
		want := 2.0 / 3.0 * 100
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("current = %v, want %v", got, want)
		}
	})

	t.Run("milestone counts completions", func(t *testing.T) {
		goal := &model.TrainingGoal{Type: model.GoalMilestone}
		if got := s.calculateCurrentValue(goal, activities); got != 2 {
			t.Errorf("current = %v, want 2", got)
		}
	})
}

func TestCalculateTrendBands(t *testing.T) {
	s := newTestGoalService()
	// 创建于100天前，截止于100天后，预期进度恰为50%
	goal := frequencyGoal(5, 100, 100)

	tests := []struct {
		progress float64
		want     model.GoalTrend
	}{
		{75, model.GoalAhead},
		{45, model.GoalOnTrack},
		{25, model.GoalBehind},
		{10, model.GoalAtRisk},
	}

	for _, tt := range tests {
		if got := s.calculateTrend(goal, tt.progress); got != tt.want {
			t.Errorf("calculateTrend(progress=%v) = %s, want %s", tt.progress, got, tt.want)
		}
	}
}

func TestCalculateGoalProgress(t *testing.T) {
	s := newTestGoalService()
	goal := frequencyGoal(5, 100, 100)

	activities := []model.TrainingActivity{
		completedActivity(daysAgo(1), 90),
		completedActivity(daysAgo(3), 85),
		completedActivity(daysAgo(5), 80),
	}

	got := s.CalculateGoalProgress(goal, activities)

	if got.GoalID != "goal-1" {
		t.Errorf("GoalID = %s, want goal-1", got.GoalID)
	}
	if got.Progress != 60 {
		t.Errorf("Progress = %v, want 60", got.Progress)
	}
	if got.Projection.Confidence != 30 {
		t.Errorf("Confidence = %v, want 30", got.Projection.Confidence)
	}
	// 截止日按日历日零点计，距检验时刻99.5天
	if got.Projection.RequiredDailyRate != 2.0/99.5 {
		t.Errorf("RequiredDailyRate = %v, want %v", got.Projection.RequiredDailyRate, 2.0/99.5)
	}
	if got.Projection.EstimatedCompletion.Before(testNow) {
		t.Error("EstimatedCompletion should not be in the past")
	}
}

func TestProgressClampedAtHundred(t *testing.T) {
	s := newTestGoalService()
	goal := frequencyGoal(2, 100, 100)

	activities := []model.TrainingActivity{
		completedActivity(daysAgo(1), 90),
		completedActivity(daysAgo(2), 90),
		completedActivity(daysAgo(3), 90),
	}

	got := s.CalculateGoalProgress(goal, activities)
	if got.Progress != 100 {
		t.Errorf("Progress = %v, want clamped 100", got.Progress)
	}
}

func TestProgressZeroTargetValue(t *testing.T) {
	s := newTestGoalService()
	goal := frequencyGoal(0, 10, 10)

	activities := []model.TrainingActivity{completedActivity(daysAgo(1), 90)}

	got := s.CalculateGoalProgress(goal, activities)
	if got.Progress != 0 {
		t.Errorf("Progress = %v, want 0", got.Progress)
	}
}

func TestGenerateMilestones(t *testing.T) {
	s := newTestGoalService()
	goal := &model.TrainingGoal{
		Category: model.GoalFitness,
		Type:     model.GoalMilestone,
		Target:   model.GoalTarget{Value: 4},
	}

	activities := []model.TrainingActivity{
		completedActivity(daysAgo(8), 80),
		completedActivity(daysAgo(6), 80),
		completedActivity(daysAgo(4), 80),
		completedActivity(daysAgo(2), 80),
	}

	milestones := s.generateMilestones(goal, activities)

	if len(milestones) != 4 {
		t.Fatalf("milestones length = %d, want 4", len(milestones))
	}
	for i := 1; i < len(milestones); i++ {
		if milestones[i].Date.Time.Before(milestones[i-1].Date.Time) {
			t.Error("milestones not sorted ascending by date")
		}
	}
	if milestones[0].Value != 1 || milestones[0].Notes != "25% milestone achieved" {
		t.Errorf("first milestone = %+v, want value 1 at 25%%", milestones[0])
	}
	// 90% 检查点（3.6次）在第4次完成时达成
	last := milestones[len(milestones)-1]
	if last.Value != 3.6 || !last.Date.Time.Equal(daysAgo(2).Time) {
		t.Errorf("last milestone = %+v, want value 3.6 on %s", last, daysAgo(2))
	}
}

func TestGenerateGoalInsights(t *testing.T) {
	s := newTestGoalService()
	goal := frequencyGoal(5, 100, 100)

	t.Run("no activity data", func(t *testing.T) {
		got := s.GenerateGoalInsights(goal, nil)

		if got.AchievabilityScore < 0 || got.AchievabilityScore > 100 {
			t.Errorf("AchievabilityScore = %v out of range", got.AchievabilityScore)
		}
		if got.SimilarGoalsCompletion != 72 {
			t.Errorf("SimilarGoalsCompletion = %d, want 72 for fitness", got.SimilarGoalsCompletion)
		}
		if !containsString(got.RiskFactors, "Behind target timeline") {
			t.Errorf("RiskFactors = %v, want timeline risk", got.RiskFactors)
		}
	})

	t.Run("strong recent compliance surfaces accelerators", func(t *testing.T) {
		var activities []model.TrainingActivity
		for i := 0; i < 10; i++ {
			a := completedActivity(daysAgo(i), 90)
			a.Duration = 40
			a.Actual = &model.ActualResult{Duration: 40}
			activities = append(activities, a)
		}
		got := s.GenerateGoalInsights(goal, activities)

		if !containsString(got.Accelerators, "High compliance rate - consider increasing intensity") {
			t.Errorf("Accelerators = %v, missing compliance accelerator", got.Accelerators)
		}
		if !containsString(got.Accelerators, "Room to increase workout duration") {
			t.Errorf("Accelerators = %v, missing duration accelerator", got.Accelerators)
		}
	})
}

func TestSimilarGoalsCompletionTable(t *testing.T) {
	tests := []struct {
		category model.GoalCategory
		want     int
	}{
		{model.GoalFitness, 72},
		{model.GoalStrength, 68},
		{model.GoalEndurance, 75},
		{model.GoalWeight, 65},
		{model.GoalSkill, 58},
		{model.GoalCategory("unknown"), 70},
	}
	for _, tt := range tests {
		if got := similarGoalsCompletion(tt.category); got != tt.want {
			t.Errorf("similarGoalsCompletion(%s) = %d, want %d", tt.category, got, tt.want)
		}
	}
}
