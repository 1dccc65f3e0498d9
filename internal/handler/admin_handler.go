package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/dto"
	"github.com/talentlens/interview-api/internal/service"
	"github.com/talentlens/interview-api/internal/utils"
)

// AdminHandler wires the admin login and review listing endpoints.
type AdminHandler struct {
	service   service.AdminService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(service service.AdminService, validate *validator.Validate, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "admin_handler").Logger(),
	}
}

// RegisterPublic binds the unauthenticated admin routes.
func (h *AdminHandler) RegisterPublic(router fiber.Router) {
	router.Post("/login", h.login)
}

// RegisterProtected binds routes behind the JWT guard.
func (h *AdminHandler) RegisterProtected(router fiber.Router) {
	router.Get("/candidates", h.candidates)
}

func (h *AdminHandler) login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "username and password are required")
	}

	token, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		h.logger.Error().Err(err).Msg("admin login failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "login failed")
	}

	return utils.SendSuccess(c, "logged in", dto.AdminLoginResponse{Token: token})
}

func (h *AdminHandler) candidates(c *fiber.Ctx) error {
	listing, err := h.service.ListCandidates(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list candidates")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list candidates")
	}

	return utils.SendSuccess(c, "candidates", listing)
}
