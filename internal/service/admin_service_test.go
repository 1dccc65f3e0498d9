package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/interview-api/internal/dto"
	"github.com/talentlens/interview-api/internal/models"
)

type countingCandidateRepo struct {
	stubCandidateRepo
	listCalls int
}

func (r *countingCandidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	r.listCalls++
	return r.stubCandidateRepo.List(ctx)
}

func adminConfig() AdminConfig {
	return AdminConfig{
		Username:  "admin",
		Password:  "s3cret",
		JWTSecret: "test-signing-key",
		TokenTTL:  time.Hour,
	}
}

func TestAdminServiceLogin(t *testing.T) {
	svc := NewAdminService(&stubCandidateRepo{}, &stubVideoRepo{}, nil, 0, adminConfig(), testLogger())

	signed, err := svc.Login(context.Background(), dto.AdminLoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) {
		return []byte("test-signing-key"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "admin", claims["role"])
	require.Equal(t, "admin", claims["sub"])
}

func TestAdminServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAdminService(&stubCandidateRepo{}, &stubVideoRepo{}, nil, 0, adminConfig(), testLogger())

	_, err := svc.Login(context.Background(), dto.AdminLoginRequest{Username: "admin", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.AdminLoginRequest{Username: "root", Password: "s3cret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminServiceListCandidates(t *testing.T) {
	candidateID := uuid.New()
	candidateRepo := &stubCandidateRepo{candidates: []models.Candidate{{
		ID:          candidateID,
		FullName:    "Jane Doe",
		CollegeName: "Example Institute of Technology",
		Department:  models.DepartmentCivil,
	}}}
	videoRepo := &stubVideoRepo{videos: []models.Video{
		{ID: uuid.New(), CandidateID: candidateID, QuestionID: 1, VideoURL: "https://cdn.example.com/a.webm", DurationSeconds: 42},
		{ID: uuid.New(), CandidateID: candidateID, QuestionID: 2, VideoURL: "https://cdn.example.com/b.webm", DurationSeconds: 17},
	}}

	svc := NewAdminService(candidateRepo, videoRepo, nil, 0, adminConfig(), testLogger())

	listing, err := svc.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, listing, 1)
	require.Equal(t, candidateID.String(), listing[0].Candidate.ID)
	require.Len(t, listing[0].Videos, 2)
	require.Equal(t, "https://cdn.example.com/a.webm", listing[0].Videos[0].VideoURL)
}

func TestAdminServiceListCandidatesUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	candidateRepo := &countingCandidateRepo{}
	candidateRepo.candidates = []models.Candidate{{
		ID:         uuid.New(),
		FullName:   "Jane Doe",
		Department: models.DepartmentMechanical,
	}}

	svc := NewAdminService(candidateRepo, &stubVideoRepo{}, client, 5*time.Minute, adminConfig(), testLogger())

	first, err := svc.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, candidateRepo.listCalls)
	require.True(t, mr.Exists("admin:candidates"))

	second, err := svc.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, candidateRepo.listCalls)
	require.Equal(t, first, second)
}
