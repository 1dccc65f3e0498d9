package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/interview-api/internal/dto"
	"github.com/talentlens/interview-api/internal/handler"
	"github.com/talentlens/interview-api/internal/middleware"
	"github.com/talentlens/interview-api/internal/service"
)

const testSecret = "test-signing-key"

type stubAdminService struct {
	token   string
	listing []dto.AdminCandidateResponse
	listErr error
}

func (s *stubAdminService) Login(_ context.Context, req dto.AdminLoginRequest) (string, error) {
	if req.Username != "admin" || req.Password != "s3cret" {
		return "", service.ErrInvalidCredentials
	}
	return s.token, nil
}

func (s *stubAdminService) ListCandidates(context.Context) ([]dto.AdminCandidateResponse, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listing, nil
}

func signedAdminToken(t *testing.T, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAdminApp(svc service.AdminService) *fiber.App {
	h := handler.NewAdminHandler(svc, validator.New(validator.WithRequiredStructEnabled()), zerolog.New(io.Discard))

	app := fiber.New()
	admin := app.Group("/api/v1/admin")
	h.RegisterPublic(admin)
	h.RegisterProtected(admin.Group("", middleware.JWTProtected(testSecret)))
	return app
}

func TestAdminLogin(t *testing.T) {
	app := newAdminApp(&stubAdminService{token: "issued-token"})

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/login", dto.AdminLoginRequest{
		Username: "admin",
		Password: "s3cret",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out dto.AdminLoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Equal(t, "issued-token", out.Token)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	app := newAdminApp(&stubAdminService{token: "issued-token"})

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/login", dto.AdminLoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.False(t, env.Success)
}

func TestAdminLoginValidatesBody(t *testing.T) {
	app := newAdminApp(&stubAdminService{})

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/admin/login", dto.AdminLoginRequest{Username: "admin"})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAdminCandidatesRequiresToken(t *testing.T) {
	app := newAdminApp(&stubAdminService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/candidates", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/candidates", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminCandidatesRequiresAdminRole(t *testing.T) {
	app := newAdminApp(&stubAdminService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/candidates", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "viewer"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminCandidatesListing(t *testing.T) {
	listing := []dto.AdminCandidateResponse{{
		Candidate: dto.CandidateResponse{FullName: "Jane Doe", Department: "Civil"},
		Videos:    []dto.VideoResponse{{QuestionID: 1, VideoURL: "https://cdn.example.com/a.webm"}},
	}}
	app := newAdminApp(&stubAdminService{listing: listing})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/candidates", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "admin"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))

	var out []dto.AdminCandidateResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 1)
	require.Equal(t, "Jane Doe", out[0].Candidate.FullName)
}

func TestAdminCandidatesServiceFailure(t *testing.T) {
	app := newAdminApp(&stubAdminService{listErr: errors.New("store down")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/candidates", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "admin"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
