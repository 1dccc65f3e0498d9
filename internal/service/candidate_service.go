package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/dto"
	"github.com/talentlens/interview-api/internal/models"
	"github.com/talentlens/interview-api/internal/repository"
)

// ErrProfileCreation indicates the relational store rejected the
// candidate record.
var ErrProfileCreation = errors.New("failed to create candidate profile")

// CandidateService validates and persists candidate profiles.
type CandidateService interface {
	Create(ctx context.Context, req dto.CandidateCreateRequest) (models.Candidate, error)
}

type candidateService struct {
	repo      repository.CandidateRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCandidateService constructs a candidate service.
func NewCandidateService(repo repository.CandidateRepository, validate *validator.Validate, logger zerolog.Logger) CandidateService {
	return &candidateService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "candidate_service").Logger(),
	}
}

func (s *candidateService) Create(ctx context.Context, req dto.CandidateCreateRequest) (models.Candidate, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Candidate{}, err
	}

	candidate := models.Candidate{
		FullName:    strings.TrimSpace(s.sanitizer.Sanitize(req.FullName)),
		CollegeName: strings.TrimSpace(s.sanitizer.Sanitize(req.CollegeName)),
		DateOfBirth: req.DateOfBirth,
		Department:  models.Department(req.Department),
	}

	if !candidate.Department.Valid() {
		return models.Candidate{}, fmt.Errorf("unknown department %q", req.Department)
	}

	if err := s.repo.Create(ctx, &candidate); err != nil {
		return models.Candidate{}, fmt.Errorf("%w: %v", ErrProfileCreation, err)
	}

	s.logger.Info().Str("candidate_id", candidate.ID.String()).Str("department", string(candidate.Department)).Msg("candidate created")

	return candidate, nil
}
