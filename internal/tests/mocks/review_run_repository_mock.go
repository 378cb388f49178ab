package mocks

import (
	"codereview/internal/models"
)

type ReviewRunRepositoryMock struct {
	CreateFunc      func(run *models.ReviewRun) error
	UpdateFunc      func(run *models.ReviewRun) error
	GetByRunKeyFunc func(runKey string) (*models.ReviewRun, error)
	ListRecentFunc  func(limit int) ([]models.ReviewRun, error)
}

func (m *ReviewRunRepositoryMock) Create(run *models.ReviewRun) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(run)
	}
	return nil
}

func (m *ReviewRunRepositoryMock) Update(run *models.ReviewRun) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(run)
	}
	return nil
}

func (m *ReviewRunRepositoryMock) GetByRunKey(runKey string) (*models.ReviewRun, error) {
	if m.GetByRunKeyFunc != nil {
		return m.GetByRunKeyFunc(runKey)
	}
	return nil, nil
}

func (m *ReviewRunRepositoryMock) ListRecent(limit int) ([]models.ReviewRun, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(limit)
	}
	return nil, nil
}
