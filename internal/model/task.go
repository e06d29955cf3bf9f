package model

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// Toggle flips between PENDING and COMPLETED.
func (s TaskStatus) Toggle() TaskStatus {
	if s == TaskStatusPending {
		return TaskStatusCompleted
	}
	return TaskStatusPending
}

// ParseTaskStatus accepts either status name in any letter case.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: invalid status: %s. Valid values are: PENDING, COMPLETED", ErrInvalidInput, raw)
	}
	return status, nil
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	UserID      int64      `json:"userId"`
}
