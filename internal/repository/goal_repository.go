package repository

import (
	"summit_training_backend/internal/model"

	"gorm.io/gorm"
)

// GoalRepository 处理训练目标的数据访问

type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

// Create 创建训练目标
func (r *GoalRepository) Create(goal *model.TrainingGoal) error {
	return r.DB.Create(goal).Error
}

// Update 整体更新训练目标
func (r *GoalRepository) Update(goal *model.TrainingGoal) error {
	return r.DB.Save(goal).Error
}

// Delete 删除训练目标
func (r *GoalRepository) Delete(id string) error {
	return r.DB.Delete(&model.TrainingGoal{}, "id = ?", id).Error
}

// FindByIDAndUserID 根据ID和用户查找训练目标
func (r *GoalRepository) FindByIDAndUserID(id string, userID uint) (*model.TrainingGoal, error) {
	var goal model.TrainingGoal
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error
	return &goal, err
}

// FindByUserID 获取用户的所有训练目标
func (r *GoalRepository) FindByUserID(userID uint) ([]model.TrainingGoal, error) {
	var goals []model.TrainingGoal
	err := r.DB.Where("user_id = ?", userID).Order("created_at").Find(&goals).Error
	return goals, err
}

// FindByUserIDAndCategory 获取用户特定分类的训练目标
func (r *GoalRepository) FindByUserIDAndCategory(userID uint, category model.GoalCategory) ([]model.TrainingGoal, error) {
	var goals []model.TrainingGoal
	err := r.DB.Where("user_id = ? AND category = ?", userID, category).Order("created_at").Find(&goals).Error
	return goals, err
}
