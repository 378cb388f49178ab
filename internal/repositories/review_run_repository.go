package repositories

import (
	"errors"
	"fmt"

	"codereview/internal/models"

	"gorm.io/gorm"
)

type ReviewRunRepository interface {
	Create(run *models.ReviewRun) error
	Update(run *models.ReviewRun) error
	GetByRunKey(runKey string) (*models.ReviewRun, error)
	ListRecent(limit int) ([]models.ReviewRun, error)
}

type reviewRunRepository struct {
	db *gorm.DB
}

func NewReviewRunRepository(db *gorm.DB) ReviewRunRepository {
	return &reviewRunRepository{db: db}
}

func (r *reviewRunRepository) Create(run *models.ReviewRun) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	return r.db.Create(run).Error
}

func (r *reviewRunRepository) Update(run *models.ReviewRun) error {
	if run == nil || run.ID == 0 {
		return fmt.Errorf("run ID is required")
	}
	return r.db.Save(run).Error
}

// GetByRunKey returns nil, nil when no run has the key.
func (r *reviewRunRepository) GetByRunKey(runKey string) (*models.ReviewRun, error) {
	var run models.ReviewRun
	res := r.db.Where("run_key = ?", runKey).Take(&run)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, res.Error
	}
	return &run, nil
}

func (r *reviewRunRepository) ListRecent(limit int) ([]models.ReviewRun, error) {
	var runs []models.ReviewRun
	q := r.db.Order("started_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
