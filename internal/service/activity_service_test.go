package service

import (
	"summit_training_backend/internal/model"
	"testing"
	"time"
)

func newTestActivityService() *ActivityService {
	return &ActivityService{
		Compliance: newTestComplianceService(),
		now:        func() time.Time { return testNow },
	}
}

func plannedRun(date model.Date) *model.TrainingActivity {
	return &model.TrainingActivity{
		Title:    "Morning run",
		Type:     model.ActivityCardio,
		Duration: 60,
		Date:     date,
		Status:   model.StatusPlanned,
	}
}

func TestApplyResultDefaultsCompletedAt(t *testing.T) {
	s := newTestActivityService()
	activity := plannedRun(daysAgo(0))

	s.applyResult(activity, model.ActualResult{Duration: 60})

	if activity.Actual == nil || activity.Actual.CompletedAt == nil {
		t.Fatal("expected completedAt to be set")
	}
	if !activity.Actual.CompletedAt.Equal(testNow) {
		t.Errorf("completedAt = %v, want %v", activity.Actual.CompletedAt, testNow)
	}
	if !activity.Completed || activity.Status != model.StatusCompleted {
		t.Errorf("expected completed activity, got completed=%v status=%s", activity.Completed, activity.Status)
	}
	if activity.Compliance == nil || activity.Compliance.OverallScore != 100 {
		t.Errorf("unexpected compliance metrics: %+v", activity.Compliance)
	}
}

func TestApplyResultKeepsProvidedCompletedAt(t *testing.T) {
	s := newTestActivityService()
	activity := plannedRun(daysAgo(1))
	completedAt := testNow.AddDate(0, 0, -1)

	s.applyResult(activity, model.ActualResult{Duration: 45, CompletedAt: &completedAt})

	if activity.Actual.CompletedAt == nil || !activity.Actual.CompletedAt.Equal(completedAt) {
		t.Errorf("completedAt = %v, want %v", activity.Actual.CompletedAt, completedAt)
	}
}
