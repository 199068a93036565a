package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"summit_training_backend/internal/model"
	"summit_training_backend/internal/repository"
	"summit_training_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// ActivityService 训练活动管理
type ActivityService struct {
	ActivityRepo *repository.ActivityRepository
	Compliance   *ComplianceService
	Storage      *StorageService

	now func() time.Time
}

func NewActivityService(activityRepo *repository.ActivityRepository, compliance *ComplianceService, storage *StorageService) *ActivityService {
	return &ActivityService{
		ActivityRepo: activityRepo,
		Compliance:   compliance,
		Storage:      storage,
		now:          time.Now,
	}
}

// CreateActivityRequest 创建训练活动的请求体
type CreateActivityRequest struct {
	Title     string             `json:"title" binding:"required"`
	Type      model.ActivityType `json:"type" binding:"required,oneof=cardio strength technical rest expedition"`
	Duration  int                `json:"duration" binding:"omitempty,gte=0"`
	Intensity model.Intensity    `json:"intensity" binding:"omitempty,oneof=low medium high"`
	Exercises []model.Exercise   `json:"exercises"`
	Location  string             `json:"location"`
	Notes     string             `json:"notes"`
	Date      model.Date         `json:"date" binding:"required"`
}

// UpdateActivityRequest 更新训练活动的请求体，零值字段不变更
type UpdateActivityRequest struct {
	Title     string               `json:"title"`
	Duration  int                  `json:"duration" binding:"omitempty,gte=0"`
	Intensity model.Intensity      `json:"intensity" binding:"omitempty,oneof=low medium high"`
	Exercises []model.Exercise     `json:"exercises"`
	Location  string               `json:"location"`
	Notes     string               `json:"notes"`
	Date      *model.Date          `json:"date"`
	Status    model.ActivityStatus `json:"status" binding:"omitempty,oneof=planned synced completed skipped"`
}

// CreateActivity 创建计划中的训练活动
func (s *ActivityService) CreateActivity(ctx context.Context, userID uint, req *CreateActivityRequest) (*model.TrainingActivity, error) {
	activity := &model.TrainingActivity{
		UserID:    userID,
		Title:     req.Title,
		Type:      req.Type,
		Duration:  req.Duration,
		Intensity: req.Intensity,
		Exercises: req.Exercises,
		Location:  req.Location,
		Notes:     req.Notes,
		Date:      req.Date,
		Status:    model.StatusPlanned,
	}
	if err := s.ActivityRepo.Create(activity); err != nil {
		return nil, err
	}

	s.Compliance.InvalidateCache(ctx, userID)
	return activity, nil
}

// ListActivities 查询用户全部训练活动（按日期升序）
func (s *ActivityService) ListActivities(userID uint) ([]model.TrainingActivity, error) {
	return s.ActivityRepo.FindByUserID(userID)
}

// GetActivity 查询单个训练活动
func (s *ActivityService) GetActivity(userID uint, activityID string) (*model.TrainingActivity, error) {
	return s.findOwned(userID, activityID)
}

func (s *ActivityService) findOwned(userID uint, activityID string) (*model.TrainingActivity, error) {
	activity, err := s.ActivityRepo.FindByIDAndUserID(activityID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrActivityNotFound
	}
	return activity, err
}

// UpdateActivity 更新训练活动
func (s *ActivityService) UpdateActivity(ctx context.Context, userID uint, activityID string, req *UpdateActivityRequest) (*model.TrainingActivity, error) {
	activity, err := s.findOwned(userID, activityID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		activity.Title = req.Title
	}
	if req.Duration > 0 {
		activity.Duration = req.Duration
	}
	if req.Intensity != "" {
		activity.Intensity = req.Intensity
	}
	if req.Exercises != nil {
		activity.Exercises = req.Exercises
	}
	if req.Location != "" {
		activity.Location = req.Location
	}
	if req.Notes != "" {
		activity.Notes = req.Notes
	}
	if req.Date != nil {
		activity.Date = *req.Date
	}
	if req.Status != "" {
		activity.Status = req.Status
		if req.Status == model.StatusSkipped {
			activity.Completed = false
			metrics := s.Compliance.CalculateCompliance(activity, activity)
			activity.Compliance = &metrics
		}
	}

	if err := s.ActivityRepo.Update(activity); err != nil {
		return nil, err
	}

	s.Compliance.InvalidateCache(ctx, userID)
	return activity, nil
}

// DeleteActivity 删除训练活动
func (s *ActivityService) DeleteActivity(ctx context.Context, userID uint, activityID string) error {
	if _, err := s.findOwned(userID, activityID); err != nil {
		return err
	}
	if err := s.ActivityRepo.Delete(activityID); err != nil {
		return err
	}

	s.Compliance.InvalidateCache(ctx, userID)
	return nil
}

// RecordResult 记录实际训练结果并重算达成度
func (s *ActivityService) RecordResult(ctx context.Context, userID uint, activityID string, result model.ActualResult) (*model.TrainingActivity, error) {
	activity, err := s.findOwned(userID, activityID)
	if err != nil {
		return nil, err
	}

	s.applyResult(activity, result)

	if err := s.ActivityRepo.Update(activity); err != nil {
		return nil, err
	}

	s.Compliance.InvalidateCache(ctx, userID)
	return activity, nil
}

// applyResult 将实际结果写入活动，完成时间缺省取当前时间
func (s *ActivityService) applyResult(activity *model.TrainingActivity, result model.ActualResult) {
	if result.CompletedAt == nil {
		completedAt := s.now()
		result.CompletedAt = &completedAt
	}
	activity.Actual = &result
	activity.Completed = true
	activity.Status = model.StatusCompleted

	metrics := s.Compliance.CalculateCompliance(activity, activity)
	activity.Compliance = &metrics
}

// ImportActivities 批量导入计划活动（如从外部训练计划同步）
func (s *ActivityService) ImportActivities(ctx context.Context, userID uint, requests []CreateActivityRequest) ([]model.TrainingActivity, error) {
	activities := make([]model.TrainingActivity, 0, len(requests))
	for _, req := range requests {
		activities = append(activities, model.TrainingActivity{
			UserID:    userID,
			Title:     req.Title,
			Type:      req.Type,
			Duration:  req.Duration,
			Intensity: req.Intensity,
			Exercises: req.Exercises,
			Location:  req.Location,
			Notes:     req.Notes,
			Date:      req.Date,
			Status:    model.StatusSynced,
		})
	}
	if err := s.ActivityRepo.CreateBatch(activities); err != nil {
		return nil, err
	}

	s.Compliance.InvalidateCache(ctx, userID)
	return activities, nil
}

// UploadPlanFile 保存上传的训练计划原始文件，不做内容解析
func (s *ActivityService) UploadPlanFile(ctx context.Context, userID uint, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, e := range util.AllowedPlanExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("unsupported plan file type: %s", ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	filename := fmt.Sprintf("plans/%d/%s_%s", userID, s.now().Format("20060102150405"), filepath.Base(header.Filename))
	return s.Storage.Upload(ctx, filename, file, header.Size, contentType)
}
