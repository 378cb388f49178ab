package services

import (
	"fmt"
	"strings"
	"time"

	"codereview/internal/models"
	"codereview/internal/repositories"

	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// RunOutcome is what the review loop reports back when it stops.
type RunOutcome struct {
	Steps          int
	ToolCalls      int
	FailedTools    int
	StoppedAtLimit bool
	Err            error
}

type ReviewRunService interface {
	Start(run *models.ReviewRun) (*models.ReviewRun, error)
	Finish(run *models.ReviewRun, outcome RunOutcome) error
	Get(runKey string) (*models.ReviewRun, error)
	List(limit int) ([]models.ReviewRun, error)
}

type reviewRunService struct {
	repo repositories.ReviewRunRepository
	now  func() time.Time
}

func NewReviewRunService(repo repositories.ReviewRunRepository) ReviewRunService {
	return &reviewRunService{repo: repo, now: time.Now}
}

// Start assigns a run key and persists run in the running state.
func (s *reviewRunService) Start(run *models.ReviewRun) (*models.ReviewRun, error) {
	if run == nil {
		return nil, fmt.Errorf("run is required")
	}
	run.RootDir = strings.TrimSpace(run.RootDir)
	run.Provider = strings.TrimSpace(run.Provider)
	if run.RootDir == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if run.Provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	run.RunKey = uuid.NewString()
	run.Status = models.ReviewRunRunning
	run.StartedAt = s.now()
	run.FinishedAt = nil

	if err := s.repo.Create(run); err != nil {
		return nil, fmt.Errorf("record review run: %w", err)
	}
	return run, nil
}

func (s *reviewRunService) Finish(run *models.ReviewRun, outcome RunOutcome) error {
	if run == nil || run.ID == 0 {
		return fmt.Errorf("run ID is required")
	}

	finished := s.now()
	run.FinishedAt = &finished
	run.Steps = outcome.Steps
	run.ToolCalls = outcome.ToolCalls
	run.FailedTools = outcome.FailedTools

	switch {
	case outcome.Err != nil:
		run.Status = models.ReviewRunFailed
		run.Error = outcome.Err.Error()
	case outcome.StoppedAtLimit:
		run.Status = models.ReviewRunLimited
	default:
		run.Status = models.ReviewRunCompleted
	}

	if err := s.repo.Update(run); err != nil {
		return fmt.Errorf("update review run %s: %w", run.RunKey, err)
	}
	return nil
}

func (s *reviewRunService) Get(runKey string) (*models.ReviewRun, error) {
	runKey = strings.TrimSpace(runKey)
	if runKey == "" {
		return nil, fmt.Errorf("run key is required")
	}
	run, err := s.repo.GetByRunKey(runKey)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("review run %s not found", runKey)
	}
	return run, nil
}

// List returns the most recent runs first. A non-positive limit uses the default.
func (s *reviewRunService) List(limit int) ([]models.ReviewRun, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.repo.ListRecent(limit)
}
