package repository

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"import-service/internal/models"
)

type ImportRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// CreateJob records a finished import run
func (r *ImportRepository) CreateJob(job *models.ImportJob) error {
	if job.TenantID == "" {
		return fmt.Errorf("tenant ID is required")
	}
	return r.db.Create(job).Error
}

// GetJob fetches a single import run
func (r *ImportRepository) GetJob(tenantID string, id uuid.UUID) (*models.ImportJob, error) {
	var job models.ImportJob
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs returns a tenant's import runs, newest first
func (r *ImportRepository) ListJobs(tenantID string, entity *models.ImportEntity, page, limit int) ([]models.ImportJob, int64, error) {
	var jobs []models.ImportJob
	var total int64
	query := r.db.Where("tenant_id = ?", tenantID)

	if entity != nil {
		query = query.Where("entity = ?", *entity)
	}

	// Get total count
	if err := query.Model(&models.ImportJob{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination if specified
	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("created_at DESC").Find(&jobs).Error
	return jobs, total, err
}
