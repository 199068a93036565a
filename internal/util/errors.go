package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrActivityNotFound = errors.New("activity not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrInvalidPassword  = errors.New("invalid email or password")
)
