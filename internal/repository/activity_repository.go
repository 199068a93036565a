package repository

import (
	"summit_training_backend/internal/model"

	"gorm.io/gorm"
)

// ActivityRepository 处理训练活动的数据访问

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// Create 创建训练活动
func (r *ActivityRepository) Create(activity *model.TrainingActivity) error {
	return r.DB.Create(activity).Error
}

// CreateBatch 批量创建训练活动（计划导入）
func (r *ActivityRepository) CreateBatch(activities []model.TrainingActivity) error {
	if len(activities) == 0 {
		return nil
	}
	return r.DB.Create(&activities).Error
}

// Update 整体更新训练活动
func (r *ActivityRepository) Update(activity *model.TrainingActivity) error {
	return r.DB.Save(activity).Error
}

// Delete 删除训练活动
func (r *ActivityRepository) Delete(id string) error {
	return r.DB.Delete(&model.TrainingActivity{}, "id = ?", id).Error
}

// FindByIDAndUserID 根据ID和用户查找训练活动
func (r *ActivityRepository) FindByIDAndUserID(id string, userID uint) (*model.TrainingActivity, error) {
	var activity model.TrainingActivity
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&activity).Error
	return &activity, err
}

// FindByUserID 获取用户的全部训练活动，按日期升序
func (r *ActivityRepository) FindByUserID(userID uint) ([]model.TrainingActivity, error) {
	var activities []model.TrainingActivity
	err := r.DB.Where("user_id = ?", userID).Order("date").Find(&activities).Error
	return activities, err
}

// FindByUserIDSince 获取用户指定日期之后（含当日）的训练活动
func (r *ActivityRepository) FindByUserIDSince(userID uint, since model.Date) ([]model.TrainingActivity, error) {
	var activities []model.TrainingActivity
	err := r.DB.Where("user_id = ? AND date >= ?", userID, since).Order("date").Find(&activities).Error
	return activities, err
}
