package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// IsPending reports whether the task still blocks deletion of its owner.
func (s TaskStatus) IsPending() bool {
	return s == StatusTodo || s == StatusInProgress
}

// ParseTaskStatus normalizes casing and accepts "in progress" and
// "in-progress" as spellings of IN_PROGRESS.
func ParseTaskStatus(s string) (TaskStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	status := TaskStatus(normalized)
	if !status.Valid() {
		return "", fmt.Errorf("invalid task status %q", s)
	}
	return status, nil
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q", s)
	}
	return p, nil
}

// DateLayout is the wire format of task due dates.
const DateLayout = "2006-01-02"

// ParseDueDate parses a calendar date. An empty string means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", s)
	}
	return &d, nil
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"type:text"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;index"`
	Priority    Priority   `gorm:"type:varchar(10);not null"`
	DueDate     *time.Time `gorm:"type:date"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index"`
	// Owner is a lookup relation only. RESTRICT keeps the database from
	// dropping a user that still has tasks pointing at it.
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}

// TaskSummary is the projection used when listing a user's tasks for the
// deletion check.
type TaskSummary struct {
	ID     uuid.UUID  `json:"id"`
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
}
