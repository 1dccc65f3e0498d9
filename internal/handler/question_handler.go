package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talentlens/interview-api/internal/models"
	"github.com/talentlens/interview-api/internal/utils"
)

// Questions returns a handler serving the fixed interview script.
func Questions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "questions", models.Questions())
	}
}
