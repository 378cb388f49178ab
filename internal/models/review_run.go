package models

import "time"

type ReviewRunStatus string

const (
	ReviewRunRunning   ReviewRunStatus = "running"
	ReviewRunCompleted ReviewRunStatus = "completed"
	ReviewRunLimited   ReviewRunStatus = "step_limit"
	ReviewRunFailed    ReviewRunStatus = "failed"
)

// ReviewRun records one review invocation.
type ReviewRun struct {
	ID          uint            `gorm:"primaryKey"`
	RunKey      string          `gorm:"size:36;not null;uniqueIndex"`
	RootDir     string          `gorm:"size:1024;not null"`
	Branch      string          `gorm:"size:255"`
	HeadCommit  string          `gorm:"size:64"`
	Prompt      string          `gorm:"type:text"`
	Provider    string          `gorm:"size:64;not null"`
	Model       string          `gorm:"size:128"`
	OutputPath  string          `gorm:"size:1024"`
	Status      ReviewRunStatus `gorm:"size:32;not null;index"`
	Steps       int
	ToolCalls   int
	FailedTools int
	Error       string `gorm:"type:text"`
	StartedAt   time.Time
	FinishedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
