package model

import "time"

// Task represents a single item in a user's list. Status is false
// while the task is open and true once completed.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `gorm:"default:Low" json:"priority"`
	Status      bool   `gorm:"default:false" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
