package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlens/interview-api/internal/models"
)

// VideoRepository provides append-only access to persisted video records.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	List(ctx context.Context) ([]models.Video, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Video, error)
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository constructs a video repository.
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) List(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&videos).Error; err != nil {
		return nil, err
	}

	return videos, nil
}

func (r *videoRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Video, error) {
	var videos []models.Video
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("question_id ASC").Find(&videos).Error; err != nil {
		return nil, err
	}

	return videos, nil
}
