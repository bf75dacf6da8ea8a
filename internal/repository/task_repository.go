package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tasktracker/internal/model"
)

// TaskRepository handles CRUD for tasks. Every query is scoped to the
// owning user so one user can never reach another's tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListPage returns one page of the user's tasks in insertion order
// together with the total number of tasks the user owns.
func (r *TaskRepository) ListPage(ctx context.Context, userID uint, offset, limit int) ([]model.Task, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Task{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var tasks []model.Task
	if err := db.Where("user_id = ?", userID).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleStatus flips the completion flag of the user's task inside a
// transaction and returns the updated row.
func (r *TaskRepository) ToggleStatus(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
			return err
		}
		task.Status = !task.Status
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes the user's task. Returns gorm.ErrRecordNotFound when
// no owned task matches.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
