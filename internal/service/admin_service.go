package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/dto"
	"github.com/talentlens/interview-api/internal/repository"
)

const adminCandidatesCacheKey = "admin:candidates"

// ErrInvalidCredentials indicates the credential pair did not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminConfig carries the fixed credential pair and token secret.
type AdminConfig struct {
	Username  string
	Password  string
	JWTSecret string
	TokenTTL  time.Duration
}

// AdminService authenticates the admin and serves the review listing.
type AdminService interface {
	Login(ctx context.Context, req dto.AdminLoginRequest) (string, error)
	ListCandidates(ctx context.Context) ([]dto.AdminCandidateResponse, error)
}

type adminService struct {
	candidates repository.CandidateRepository
	videos     repository.VideoRepository
	redis      *redis.Client
	cacheTTL   time.Duration
	cfg        AdminConfig
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAdminService constructs an admin service. The redis client may be
// nil, in which case listings are served uncached.
func NewAdminService(candidates repository.CandidateRepository, videos repository.VideoRepository, redisClient *redis.Client, cacheTTL time.Duration, cfg AdminConfig, logger zerolog.Logger) AdminService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	return &adminService{
		candidates: candidates,
		videos:     videos,
		redis:      redisClient,
		cacheTTL:   cacheTTL,
		cfg:        cfg,
		logger:     logger.With().Str("component", "admin_service").Logger(),
		now:        time.Now,
	}
}

func (s *adminService) Login(_ context.Context, req dto.AdminLoginRequest) (string, error) {
	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Username))
	passMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Password))
	if userMatch != 1 || passMatch != 1 {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.TokenTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}

	s.logger.Info().Msg("admin logged in")
	return signed, nil
}

func (s *adminService) ListCandidates(ctx context.Context) ([]dto.AdminCandidateResponse, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, err
	}

	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}

	byCandidate := make(map[uuid.UUID][]dto.VideoResponse)
	for _, video := range videos {
		byCandidate[video.CandidateID] = append(byCandidate[video.CandidateID], dto.NewVideoResponse(video))
	}

	listing := make([]dto.AdminCandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		listing = append(listing, dto.AdminCandidateResponse{
			Candidate: dto.NewCandidateResponse(candidate),
			Videos:    byCandidate[candidate.ID],
		})
	}

	s.toCache(ctx, listing)
	return listing, nil
}

func (s *adminService) fromCache(ctx context.Context) ([]dto.AdminCandidateResponse, bool) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return nil, false
	}

	payload, err := s.redis.Get(ctx, adminCandidatesCacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var listing []dto.AdminCandidateResponse
	if err := json.Unmarshal(payload, &listing); err != nil {
		return nil, false
	}

	return listing, true
}

func (s *adminService) toCache(ctx context.Context, listing []dto.AdminCandidateResponse) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}

	payload, err := json.Marshal(listing)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, adminCandidatesCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache candidate listing")
	}
}
