package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"summit_training_backend/internal/model"
	"summit_training_backend/internal/repository"
	"summit_training_backend/internal/util"
	"summit_training_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// 无截止日期的目标默认按创建后一年推算
const defaultGoalHorizonDays = 365

// 线性外推时的最低日完成速率，避免除零与无穷远的预测
const minProjectionRate = 0.1

// 里程碑检查点（目标值的百分比）
var milestoneCheckpoints = []int{25, 50, 75, 90}

// similarGoalsCompletionRates 各目标分类的参考完成率基准
var similarGoalsCompletionRates = map[model.GoalCategory]int{
	model.GoalFitness:   72,
	model.GoalStrength:  68,
	model.GoalEndurance: 75,
	model.GoalWeight:    65,
	model.GoalSkill:     58,
}

const defaultSimilarGoalsCompletion = 70

// GoalService 训练目标进度与预测引擎
type GoalService struct {
	GoalRepo     *repository.GoalRepository
	ActivityRepo *repository.ActivityRepository

	now func() time.Time
}

func NewGoalService(goalRepo *repository.GoalRepository, activityRepo *repository.ActivityRepository) *GoalService {
	return &GoalService{
		GoalRepo:     goalRepo,
		ActivityRepo: activityRepo,
		now:          time.Now,
	}
}

// CalculateGoalProgress 根据活动记录计算目标的进度、趋势、预测与里程碑
func (s *GoalService) CalculateGoalProgress(goal *model.TrainingGoal, activities []model.TrainingActivity) model.GoalProgress {
	goalEnd := s.goalDeadline(goal)
	relevant := s.filterActivitiesForGoal(goal, activities)

	currentValue := s.calculateCurrentValue(goal, relevant)
	progress := 0.0
	if goal.Target.Value > 0 {
		progress = math.Min(100, currentValue/goal.Target.Value*100)
	}

	return model.GoalProgress{
		GoalID:     goal.ID,
		Progress:   progress,
		Trend:      s.calculateTrend(goal, progress),
		Projection: s.generateProjection(goal, relevant, currentValue, goalEnd),
		Milestones: s.generateMilestones(goal, relevant),
	}
}

// filterActivitiesForGoal 按目标分类和标签筛选相关活动
// fitness 取全部已完成，strength/endurance 按活动类型匹配，
// 其余按标签与活动类型或标题做包含匹配，标签 all 表示不过滤
func (s *GoalService) filterActivitiesForGoal(goal *model.TrainingGoal, activities []model.TrainingActivity) []model.TrainingActivity {
	hasWildcard := false
	for _, tag := range goal.Tags {
		if tag == "all" {
			hasWildcard = true
			break
		}
	}

	relevant := make([]model.TrainingActivity, 0, len(activities))
	for _, a := range activities {
		if hasWildcard {
			relevant = append(relevant, a)
			continue
		}

		switch goal.Category {
		case model.GoalFitness:
			if a.Completed {
				relevant = append(relevant, a)
			}
			continue
		case model.GoalStrength:
			if a.Type == model.ActivityStrength && a.Completed {
				relevant = append(relevant, a)
			}
			continue
		case model.GoalEndurance:
			if (a.Type == model.ActivityCardio || a.Type == model.ActivityExpedition) && a.Completed {
				relevant = append(relevant, a)
			}
			continue
		}

		for _, tag := range goal.Tags {
			if strings.Contains(string(a.Type), tag) ||
				strings.Contains(strings.ToLower(a.Title), strings.ToLower(tag)) {
				relevant = append(relevant, a)
				break
			}
		}
	}
	return relevant
}

// calculateCurrentValue 按目标度量方式分派到对应的取值函数
func (s *GoalService) calculateCurrentValue(goal *model.TrainingGoal, activities []model.TrainingActivity) float64 {
	switch goal.Type {
	case model.GoalFrequency:
		return s.frequencyValue(goal, activities)
	case model.GoalDuration:
		return totalDurationValue(activities)
	case model.GoalNumeric:
		return numericValue(goal, activities)
	default:
		return float64(completedCount(activities))
	}
}

// frequencyValue 目标时间窗内的已完成次数
func (s *GoalService) frequencyValue(goal *model.TrainingGoal, activities []model.TrainingActivity) float64 {
	windowStart := model.DateOf(s.now().AddDate(0, 0, -goal.Target.Timeframe.Days()))

	count := 0
	for _, a := range activities {
		if a.Completed && !a.Date.Time.Before(windowStart.Time) {
			count++
		}
	}
	return float64(count)
}

// totalDurationValue 已完成活动的实际时长合计（缺实际值时用计划值）
func totalDurationValue(activities []model.TrainingActivity) float64 {
	total := 0
	for _, a := range activities {
		if !a.Completed {
			continue
		}
		total += effectiveDuration(&a)
	}
	return float64(total)
}

// numericValue 数值型目标，目前支持以 compliance_rate 为单位的完成率
func numericValue(goal *model.TrainingGoal, activities []model.TrainingActivity) float64 {
	if goal.Target.Unit == "compliance_rate" {
		if len(activities) == 0 {
			return 0
		}
		return float64(completedCount(activities)) / float64(len(activities)) * 100
	}
	return float64(completedCount(activities))
}

func completedCount(activities []model.TrainingActivity) int {
	count := 0
	for _, a := range activities {
		if a.Completed {
			count++
		}
	}
	return count
}

func (s *GoalService) goalDeadline(goal *model.TrainingGoal) time.Time {
	if goal.Deadline != nil {
		return goal.Deadline.Time
	}
	return goal.CreatedAt.AddDate(0, 0, defaultGoalHorizonDays)
}

// calculateTrend 比较实际进度与按时间线性推算的预期进度
func (s *GoalService) calculateTrend(goal *model.TrainingGoal, progress float64) model.GoalTrend {
	now := s.now()
	deadline := s.goalDeadline(goal)

	totalTime := deadline.Sub(goal.CreatedAt)
	if totalTime <= 0 {
		return model.GoalAtRisk
	}
	elapsed := now.Sub(goal.CreatedAt)
	expectedProgress := elapsed.Seconds() / totalTime.Seconds() * 100

	diff := progress - expectedProgress
	switch {
	case diff > 20:
		return model.GoalAhead
	case diff > -10:
		return model.GoalOnTrack
	case diff > -30:
		return model.GoalBehind
	default:
		return model.GoalAtRisk
	}
}

// generateProjection 基于近14天完成速率做线性外推
func (s *GoalService) generateProjection(goal *model.TrainingGoal, activities []model.TrainingActivity, currentValue float64, goalEnd time.Time) model.GoalProjectionDetail {
	now := s.now()
	twoWeeksAgo := model.DateOf(now.AddDate(0, 0, -14))

	recentCount := 0
	for _, a := range activities {
		if a.Completed && !a.Date.Time.Before(twoWeeksAgo.Time) {
			recentCount++
		}
	}

	recentRate := float64(recentCount) / 14
	remainingValue := math.Max(0, goal.Target.Value-currentValue)
	daysToGoal := remainingValue / math.Max(recentRate, minProjectionRate)

	daysUntilDeadline := goalEnd.Sub(now).Hours() / 24

	return model.GoalProjectionDetail{
		EstimatedCompletion: now.Add(time.Duration(daysToGoal * 24 * float64(time.Hour))),
		Confidence:          math.Min(95, math.Max(10, float64(recentCount)*10)),
		RequiredDailyRate:   remainingValue / math.Max(1, daysUntilDeadline),
	}
}

// generateMilestones 记录已达成的检查点及其大致达成日期
func (s *GoalService) generateMilestones(goal *model.TrainingGoal, activities []model.TrainingActivity) []model.Milestone {
	currentValue := s.calculateCurrentValue(goal, activities)

	milestones := []model.Milestone{}
	for _, percentage := range milestoneCheckpoints {
		targetValue := goal.Target.Value * float64(percentage) / 100
		if currentValue < targetValue {
			continue
		}
		milestones = append(milestones, model.Milestone{
			Date:  s.findMilestoneDate(activities, targetValue),
			Value: targetValue,
			Notes: fmt.Sprintf("%d%% milestone achieved", percentage),
		})
	}

	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].Date.Time.Before(milestones[j].Date.Time)
	})
	return milestones
}

// findMilestoneDate 按日期顺序累计完成次数，返回首次达到检查点的活动日期
func (s *GoalService) findMilestoneDate(activities []model.TrainingActivity, targetValue float64) model.Date {
	completed := make([]model.TrainingActivity, 0, len(activities))
	for _, a := range activities {
		if a.Completed {
			completed = append(completed, a)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Date.Time.Before(completed[j].Date.Time)
	})

	runningTotal := 0.0
	for _, a := range completed {
		runningTotal++
		if runningTotal >= targetValue {
			return a.Date
		}
	}
	return model.DateOf(s.now())
}

// GenerateGoalInsights 计算目标的可达性、预计完成时间与风险/加速因素
func (s *GoalService) GenerateGoalInsights(goal *model.TrainingGoal, activities []model.TrainingActivity) model.GoalInsights {
	relevant := s.filterActivitiesForGoal(goal, activities)
	progress := s.CalculateGoalProgress(goal, activities)

	return model.GoalInsights{
		AchievabilityScore:     s.achievabilityScore(progress, relevant),
		TimeToCompletion:       estimateTimeToCompletion(goal, progress),
		RiskFactors:            s.identifyRiskFactors(progress, relevant),
		Accelerators:           s.identifyAccelerators(progress, relevant),
		SimilarGoalsCompletion: similarGoalsCompletion(goal.Category),
	}
}

// achievabilityScore 基础分50，按进度区间、趋势和近期完成率修正后截断到 [0,100]
func (s *GoalService) achievabilityScore(progress model.GoalProgress, activities []model.TrainingActivity) float64 {
	score := 50.0

	switch {
	case progress.Progress > 75:
		score += 30
	case progress.Progress > 50:
		score += 20
	case progress.Progress > 25:
		score += 10
	}

	switch progress.Trend {
	case model.GoalAhead:
		score += 25
	case model.GoalOnTrack:
		score += 15
	case model.GoalBehind:
		score -= 10
	case model.GoalAtRisk:
		score -= 25
	}

	score += (s.recentComplianceRate(activities) - 50) * 0.4

	return math.Max(0, math.Min(100, score))
}

func estimateTimeToCompletion(goal *model.TrainingGoal, progress model.GoalProgress) int {
	if progress.Projection.RequiredDailyRate == 0 {
		return 0
	}
	remainingValue := goal.Target.Value * (1 - progress.Progress/100)
	return int(math.Ceil(remainingValue / progress.Projection.RequiredDailyRate))
}

func (s *GoalService) identifyRiskFactors(progress model.GoalProgress, activities []model.TrainingActivity) []string {
	riskFactors := []string{}

	if progress.Trend == model.GoalBehind || progress.Trend == model.GoalAtRisk {
		riskFactors = append(riskFactors, "Behind target timeline")
	}
	if progress.Projection.Confidence < 60 {
		riskFactors = append(riskFactors, "Low projection confidence")
	}
	if s.recentComplianceRate(activities) < 60 {
		riskFactors = append(riskFactors, "Low recent compliance rate")
	}
	if s.workoutDayConsistency(activities) < 0.7 {
		riskFactors = append(riskFactors, "Inconsistent workout schedule")
	}

	return riskFactors
}

func (s *GoalService) identifyAccelerators(progress model.GoalProgress, activities []model.TrainingActivity) []string {
	accelerators := []string{}

	if progress.Trend == model.GoalAhead {
		accelerators = append(accelerators, "Ahead of schedule - maintain momentum")
	}
	if s.recentComplianceRate(activities) > 80 {
		accelerators = append(accelerators, "High compliance rate - consider increasing intensity")
	}

	if n := completedCount(activities); n > 0 {
		avgDuration := totalDurationValue(activities) / float64(n)
		if avgDuration < 45 {
			accelerators = append(accelerators, "Room to increase workout duration")
		}
	}

	return accelerators
}

// recentComplianceRate 近14天的完成百分比
func (s *GoalService) recentComplianceRate(activities []model.TrainingActivity) float64 {
	twoWeeksAgo := model.DateOf(s.now().AddDate(0, 0, -14))

	var total, completed int
	for _, a := range activities {
		if a.Date.Time.Before(twoWeeksAgo.Time) {
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

// workoutDayConsistency 近30天内有训练的天数占比
func (s *GoalService) workoutDayConsistency(activities []model.TrainingActivity) float64 {
	monthAgo := model.DateOf(s.now().AddDate(0, 0, -30))

	days := make(map[string]struct{})
	for _, a := range activities {
		if a.Completed && !a.Date.Time.Before(monthAgo.Time) {
			days[a.Date.String()] = struct{}{}
		}
	}
	return float64(len(days)) / 30
}

func similarGoalsCompletion(category model.GoalCategory) int {
	if rate, ok := similarGoalsCompletionRates[category]; ok {
		return rate
	}
	return defaultSimilarGoalsCompletion
}

// CreateGoalRequest 创建目标的请求体
type CreateGoalRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Category    model.GoalCategory  `json:"category" binding:"required,oneof=fitness strength endurance weight skill"`
	Type        model.GoalType      `json:"type" binding:"required,oneof=numeric duration frequency milestone"`
	TargetValue float64             `json:"targetValue" binding:"required,gt=0"`
	TargetUnit  string              `json:"targetUnit"`
	Timeframe   model.GoalTimeframe `json:"timeframe" binding:"required,oneof=daily weekly monthly quarterly yearly"`
	Deadline    *model.Date         `json:"deadline"`
	Priority    model.GoalPriority  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Tags        []string            `json:"tags"`
}

// UpdateGoalRequest 更新目标的请求体，零值字段不变更
type UpdateGoalRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	TargetValue float64            `json:"targetValue" binding:"omitempty,gt=0"`
	Deadline    *model.Date        `json:"deadline"`
	Priority    model.GoalPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	Tags        []string           `json:"tags"`
}

// CreateGoal 创建训练目标
func (s *GoalService) CreateGoal(userID uint, req *CreateGoalRequest) (*model.TrainingGoal, error) {
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	goal := &model.TrainingGoal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Type:        req.Type,
		Target: model.GoalTarget{
			Value:     req.TargetValue,
			Unit:      req.TargetUnit,
			Timeframe: req.Timeframe,
		},
		Current: model.GoalCurrent{
			Value:       0,
			LastUpdated: s.now(),
		},
		Deadline: req.Deadline,
		Priority: priority,
		Tags:     req.Tags,
	}
	if err := s.GoalRepo.Create(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// ListGoals 查询用户目标，category 为空时返回全部
func (s *GoalService) ListGoals(userID uint, category model.GoalCategory) ([]model.TrainingGoal, error) {
	if category != "" {
		return s.GoalRepo.FindByUserIDAndCategory(userID, category)
	}
	return s.GoalRepo.FindByUserID(userID)
}

// GetGoal 查询单个目标
func (s *GoalService) GetGoal(userID uint, goalID string) (*model.TrainingGoal, error) {
	return s.findOwned(userID, goalID)
}

func (s *GoalService) findOwned(userID uint, goalID string) (*model.TrainingGoal, error) {
	goal, err := s.GoalRepo.FindByIDAndUserID(goalID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGoalNotFound
	}
	return goal, err
}

// UpdateGoal 更新目标字段
func (s *GoalService) UpdateGoal(userID uint, goalID string, req *UpdateGoalRequest) (*model.TrainingGoal, error) {
	goal, err := s.findOwned(userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		goal.Title = req.Title
	}
	if req.Description != "" {
		goal.Description = req.Description
	}
	if req.TargetValue > 0 {
		goal.Target.Value = req.TargetValue
	}
	if req.Deadline != nil {
		goal.Deadline = req.Deadline
	}
	if req.Priority != "" {
		goal.Priority = req.Priority
	}
	if req.Tags != nil {
		goal.Tags = req.Tags
	}

	if err := s.GoalRepo.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal 删除目标
func (s *GoalService) DeleteGoal(userID uint, goalID string) error {
	if _, err := s.findOwned(userID, goalID); err != nil {
		return err
	}
	return s.GoalRepo.Delete(goalID)
}

// ProgressForGoal 拉取目标与活动并计算进度，顺带刷新目标的当前值
func (s *GoalService) ProgressForGoal(userID uint, goalID string) (*model.GoalProgress, error) {
	goal, err := s.findOwned(userID, goalID)
	if err != nil {
		return nil, err
	}
	activities, err := s.ActivityRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	progress := s.CalculateGoalProgress(goal, activities)
	monitoring.ObserveAnalysis("goal_progress", start)

	relevant := s.filterActivitiesForGoal(goal, activities)
	goal.Current.Value = s.calculateCurrentValue(goal, relevant)
	goal.Current.LastUpdated = s.now()
	if err := s.GoalRepo.Update(goal); err != nil {
		return nil, err
	}

	return &progress, nil
}

// InsightsForGoal 拉取目标与活动并生成可达性洞察
func (s *GoalService) InsightsForGoal(userID uint, goalID string) (*model.GoalInsights, error) {
	goal, err := s.findOwned(userID, goalID)
	if err != nil {
		return nil, err
	}
	activities, err := s.ActivityRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	insights := s.GenerateGoalInsights(goal, activities)
	monitoring.ObserveAnalysis("goal_insights", start)

	return &insights, nil
}
