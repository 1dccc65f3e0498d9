package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlens/interview-api/internal/models"
)

// CandidateRepository provides access to candidate records.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (models.Candidate, error)
	List(ctx context.Context) ([]models.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository constructs a candidate repository.
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		return models.Candidate{}, err
	}

	return candidate, nil
}

func (r *candidateRepository) List(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&candidates).Error; err != nil {
		return nil, err
	}

	return candidates, nil
}
