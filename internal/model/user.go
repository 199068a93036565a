package model

import "time"

// UserRole 用户角色
type UserRole string

const (
	Athlete UserRole = "athlete"
	Coach   UserRole = "coach"
	Admin   UserRole = "admin"
)

// User 账号信息
// swagger:model User
type User struct {
	BaseModel
	Name       string     `gorm:"size:100;not null" json:"name"`
	Email      string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string     `gorm:"size:255;not null" json:"-"`
	Role       UserRole   `gorm:"size:20;default:'athlete'" json:"role"`
	LastSeenAt *time.Time `json:"lastSeenAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}
