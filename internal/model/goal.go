package model

import "time"

// GoalCategory 训练目标分类
type GoalCategory string

const (
	GoalFitness   GoalCategory = "fitness"
	GoalStrength  GoalCategory = "strength"
	GoalEndurance GoalCategory = "endurance"
	GoalWeight    GoalCategory = "weight"
	GoalSkill     GoalCategory = "skill"
)

// GoalType 目标度量方式
type GoalType string

const (
	GoalNumeric   GoalType = "numeric"
	GoalDuration  GoalType = "duration"
	GoalFrequency GoalType = "frequency"
	GoalMilestone GoalType = "milestone"
)

// GoalTimeframe 目标统计周期
type GoalTimeframe string

const (
	TimeframeDaily     GoalTimeframe = "daily"
	TimeframeWeekly    GoalTimeframe = "weekly"
	TimeframeMonthly   GoalTimeframe = "monthly"
	TimeframeQuarterly GoalTimeframe = "quarterly"
	TimeframeYearly    GoalTimeframe = "yearly"
)

// Days 统计周期对应的天数，未知周期按周处理
func (t GoalTimeframe) Days() int {
	switch t {
	case TimeframeDaily:
		return 1
	case TimeframeWeekly:
		return 7
	case TimeframeMonthly:
		return 30
	case TimeframeQuarterly:
		return 90
	case TimeframeYearly:
		return 365
	default:
		return 7
	}
}

// GoalPriority 目标优先级
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// GoalTarget 目标值定义
type GoalTarget struct {
	Value     float64       `json:"value"`
	Unit      string        `gorm:"size:50" json:"unit"`
	Timeframe GoalTimeframe `gorm:"size:20" json:"timeframe"`
}

// GoalCurrent 目标当前值
type GoalCurrent struct {
	Value       float64   `json:"value"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// TrainingGoal 用户自定义的训练目标，对分析引擎只读
// swagger:model TrainingGoal
type TrainingGoal struct {
	UUIDBase
	UserID      uint         `gorm:"index;type:bigint unsigned" json:"-"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Category    GoalCategory `gorm:"size:20;index" json:"category"`
	Type        GoalType     `gorm:"size:20" json:"type"`
	Target      GoalTarget   `gorm:"embedded;embeddedPrefix:target_" json:"target"`
	Current     GoalCurrent  `gorm:"embedded;embeddedPrefix:current_" json:"current"`
	Deadline    *Date        `json:"deadline,omitempty"`
	Priority    GoalPriority `gorm:"size:10;default:'medium'" json:"priority"`
	Tags        []string     `gorm:"serializer:json" json:"tags"`
}

func (TrainingGoal) TableName() string {
	return "training_goals"
}
