package model

import "time"

// ActivityType 训练活动类型
type ActivityType string

const (
	ActivityCardio     ActivityType = "cardio"
	ActivityStrength   ActivityType = "strength"
	ActivityTechnical  ActivityType = "technical"
	ActivityRest       ActivityType = "rest"
	ActivityExpedition ActivityType = "expedition"
)

// Intensity 计划训练强度
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Level 将强度映射到 1-3 数值刻度，未知强度返回 0
func (i Intensity) Level() int {
	switch i {
	case IntensityLow:
		return 1
	case IntensityMedium:
		return 2
	case IntensityHigh:
		return 3
	default:
		return 0
	}
}

// ActivityStatus 活动状态
type ActivityStatus string

const (
	StatusPlanned   ActivityStatus = "planned"
	StatusSynced    ActivityStatus = "synced"
	StatusCompleted ActivityStatus = "completed"
	StatusSkipped   ActivityStatus = "skipped"
)

// Exercise 力量训练中的单个动作
type Exercise struct {
	Name     string  `json:"name"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	RPE      string  `json:"rpe"`
	Weight   float64 `json:"weight,omitempty"`
	RestTime int     `json:"restTime,omitempty"` // 组间休息（秒）
}

// HeartRate 实际心率数据（bpm）
type HeartRate struct {
	Avg int `json:"avg"`
	Max int `json:"max"`
}

// ActualResult 活动的实际完成数据，仅在 completed=true 时存在
type ActualResult struct {
	Duration    int        `json:"duration,omitempty"` // 实际时长（分钟）
	HeartRate   *HeartRate `json:"heartRate,omitempty"`
	Calories    int        `json:"calories,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ComplianceMetrics 单次活动的达成度评分，全部取值 [0,100]
// 由计划/实际对按需计算，只整体替换、不做部分更新
type ComplianceMetrics struct {
	DurationMatch   int      `json:"durationMatch"`
	IntensityMatch  int      `json:"intensityMatch"`
	CompletionMatch int      `json:"completionMatch"` // 动作完成比例（历史上叫 distanceMatch）
	OverallScore    int      `json:"overallScore"`
	Completed       bool     `json:"completed"`
	Notes           []string `json:"notes"`
}

// TrainingActivity 一条计划训练活动，可嵌套实际结果与达成度
// swagger:model TrainingActivity
type TrainingActivity struct {
	UUIDBase
	UserID     uint               `gorm:"index;type:bigint unsigned" json:"-"`
	Title      string             `gorm:"size:255;not null" json:"title"`
	Type       ActivityType       `gorm:"size:20;index" json:"type"`
	Duration   int                `gorm:"not null" json:"duration"` // 计划时长（分钟）
	Intensity  Intensity          `gorm:"size:10" json:"intensity"`
	Exercises  []Exercise         `gorm:"serializer:json" json:"exercises,omitempty"`
	Location   string             `gorm:"size:255" json:"location,omitempty"`
	Notes      string             `gorm:"type:text" json:"notes,omitempty"`
	Completed  bool               `gorm:"index" json:"completed"`
	Date       Date               `gorm:"index" json:"date"`
	Actual     *ActualResult      `gorm:"serializer:json" json:"actual,omitempty"`
	Status     ActivityStatus     `gorm:"size:20;index" json:"status"`
	Compliance *ComplianceMetrics `gorm:"serializer:json" json:"compliance,omitempty"`
}

func (TrainingActivity) TableName() string {
	return "training_activities"
}
