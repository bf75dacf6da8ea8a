package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

// PageSize is the number of tasks shown per list page.
const PageSize = 5

// DefaultPriority is applied when a task is created without one.
const DefaultPriority = "Low"

var (
	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrTaskNotFound is returned when no task owned by the caller matches.
	ErrTaskNotFound = errors.New("task not found")
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
}

// TaskPage is one bounded slice of a user's task list.
type TaskPage struct {
	Tasks      []model.Task `json:"tasks"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalItems int64        `json:"total_items"`
	TotalPages int          `json:"total_pages"`
}

// TaskService wraps task-related business logic. Every operation is
// scoped to the calling user.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) Create(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = DefaultPriority
	}

	task := model.Task{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    priority,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns one page of the user's tasks in creation order. Pages
// below 1 are clamped to 1 and pages past the end come back empty.
func (s *TaskService) List(ctx context.Context, user *model.User, page int) (*TaskPage, error) {
	if page < 1 {
		page = 1
	}

	tasks, total, err := s.taskRepo.ListPage(ctx, user.ID, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	return &TaskPage{
		Tasks:      tasks,
		Page:       page,
		PageSize:   PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Toggle flips the completion status of one of the user's tasks.
func (s *TaskService) Toggle(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.ToggleStatus(ctx, user.ID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(ctx context.Context, user *model.User, taskID uint) error {
	if err := s.taskRepo.Delete(ctx, user.ID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}
