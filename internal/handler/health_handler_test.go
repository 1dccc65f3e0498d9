package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/interview-api/internal/config"
	"github.com/talentlens/interview-api/internal/handler"
	"github.com/talentlens/interview-api/internal/models"
)

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", handler.HealthCheck(config.Config{AppName: "Interview API", AppEnv: "test"}))

	resp, env := doJSON(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	var out handler.HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Equal(t, "ok", out.Status)
	require.Equal(t, "Interview API", out.Service)
	require.Equal(t, "test", out.Environment)
}

func TestQuestions(t *testing.T) {
	app := fiber.New()
	app.Get("/questions", handler.Questions())

	resp, env := doJSON(t, app, http.MethodGet, "/questions", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []models.Question
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 6)
	require.Equal(t, 1, out[0].ID)
	require.NotEmpty(t, out[0].Text)
}
