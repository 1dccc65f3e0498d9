package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/capture"
	"github.com/talentlens/interview-api/internal/dto"
	"github.com/talentlens/interview-api/internal/interview"
	"github.com/talentlens/interview-api/internal/recorder"
	"github.com/talentlens/interview-api/internal/service"
	"github.com/talentlens/interview-api/internal/utils"
)

// InterviewHandler wires the candidate-facing session endpoints,
// including the websocket recording stream.
type InterviewHandler struct {
	registry  *interview.Registry
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewInterviewHandler constructs an interview handler.
func NewInterviewHandler(registry *interview.Registry, validate *validator.Validate, logger zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		registry:  registry,
		validator: validate,
		logger:    logger.With().Str("component", "interview_handler").Logger(),
	}
}

// Register binds interview routes under the provided router group.
func (h *InterviewHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/:id", h.show)
	router.Post("/:id/advance", h.advance)
	router.Post("/:id/profile", h.profile)
	router.Post("/:id/questions/:qid/select", h.selectQuestion)
	router.Post("/:id/recordings/finalize", h.finalize)
	router.Post("/:id/recordings/discard", h.discard)
	router.Post("/:id/submit", h.submit)

	router.Use("/:id/record/:qid", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/:id/record/:qid", websocket.New(h.record))
}

func (h *InterviewHandler) create(c *fiber.Ctx) error {
	ctrl := h.registry.Create()
	h.logger.Info().Str("session_id", ctrl.ID().String()).Msg("interview session created")
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "interview created", h.response(ctrl))
}

func (h *InterviewHandler) show(c *fiber.Ctx) error {
	ctrl, err := h.lookup(c)
	if ctrl == nil {
		return err
	}
	return utils.SendSuccess(c, "interview", h.response(ctrl))
}

func (h *InterviewHandler) advance(c *fiber.Ctx) error {
	ctrl, err := h.lookup(c)
	if ctrl == nil {
		return err
	}

	var req dto.AdvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "trigger is required")
	}

	ctrl.Advance(interview.Trigger(req.Trigger))
	return utils.SendSuccess(c, "stage", h.response(ctrl))
}

func (h *InterviewHandler) profile(c *fiber.Ctx) error {
	ctrl, err := h.lookup(c)
	if ctrl == nil {
		return err
	}

	var req dto.CandidateCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	candidate, err := ctrl.SubmitProfile(c.UserContext(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, interview.ErrStageMismatch):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrProfileCreation):
			h.logger.Error().Err(err).Msg("profile creation failed")
			return utils.SendError(c, fiber.StatusBadGateway, "failed to save candidate information, please try again")
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "profile created", dto.NewCandidateResponse(candidate))
}

func (h *InterviewHandler) selectQuestion(c *fiber.Ctx) error {
	ctrl, err := h.lookup(c)
	if ctrl == nil {
		return err
	}

	questionID, err := strconv.Atoi(c.Params("qid"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	if err := ctrl.SelectQuestion(questionID); err != nil {
		switch {
		case errors.Is(err, interview.ErrQuestionUnknown):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, interview.ErrQuestionAnswered), errors.Is(err, interview.ErrRecordingActive), errors.Is(err, interview.ErrStageMismatch):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccess(c, "question selected", h.response(ctrl))
}

// record owns the capture stream for one recording attempt. The remote
// browser pushes encoded chunks as binary frames and may send a text
// "stop"; the session also stops itself at the ceiling. The device is
// released on every exit path before the final result frame is written.
func (h *InterviewHandler) record(conn *websocket.Conn) {
	defer conn.Close()

	sessionID, err := uuid.Parse(conn.Params("id"))
	if err != nil {
		h.closeWithReason(conn, "invalid session id")
		return
	}
	ctrl, ok := h.registry.Get(sessionID)
	if !ok {
		h.closeWithReason(conn, "interview not found")
		return
	}

	questionID, err := strconv.Atoi(conn.Params("qid"))
	if err != nil {
		h.closeWithReason(conn, "invalid question id")
		return
	}

	device := capture.NewSocketDevice(conn, h.logger)
	session, err := ctrl.StartRecording(context.Background(), questionID, device)
	if err != nil {
		h.closeWithReason(conn, err.Error())
		return
	}
	defer session.Stop()

	<-session.Done()

	result := dto.RecordingResponse{
		QuestionID:     questionID,
		State:          string(session.State()),
		ElapsedSeconds: session.Elapsed(),
	}
	if sessionErr := session.Err(); sessionErr != nil {
		result.Error = sessionErr.Error()
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write recording result")
	}
}

func (h *InterviewHandler) closeWithReason(conn *websocket.Conn, reason string) {
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, reason))
}

func (h *InterviewHandler) finalize(c *fiber.Ctx) error {
	ctrl, err := h.lookup(c)
	if ctrl == nil {
		return err
	}

	clip, complete, err := ctrl.FinalizeRecording()
	if err != nil {
		switch {
		case errors.Is(err, interview.ErrNoActiveQuestion), errors.Is(err, recorder.ErrNoClip), errors.Is(err, interview.ErrStageMismatch):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccess(c, "answer recorded", fiber.Map{
		"question_id": clip.QuestionID,
		"complete":    complete,
	})
}

func (h *InterviewHandler) discard(c *fiber.Ctx) error {
	ctrl, err := h.lookup(c)
	if ctrl == nil {
		return err
	}

	if err := ctrl.DiscardRecording(); err != nil {
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	}

	return utils.SendSuccess(c, "clip discarded", h.response(ctrl))
}

func (h *InterviewHandler) submit(c *fiber.Ctx) error {
	ctrl, err := h.lookup(c)
	if ctrl == nil {
		return err
	}

	if err := ctrl.Submit(c.UserContext()); err != nil {
		var pipelineErr *service.PipelineError
		switch {
		case errors.As(err, &pipelineErr):
			h.logger.Error().Err(err).Msg("submission pipeline aborted")
			failed := pipelineErr.Index
			return c.Status(fiber.StatusBadGateway).JSON(utils.APIResponse{
				Success: false,
				Message: "failed to save some video responses, please try again",
				Data: dto.SubmitResponse{
					Stage:          string(ctrl.Stage()),
					PersistedClips: pipelineErr.Index,
					FailedIndex:    &failed,
				},
			})
		case errors.Is(err, interview.ErrStageMismatch), errors.Is(err, interview.ErrQuestionsRemaining), errors.Is(err, interview.ErrNoCandidate):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, "submission failed")
		}
	}

	clips := len(ctrl.Board().Answered())
	return utils.SendSuccess(c, "interview complete", dto.SubmitResponse{
		Stage:          string(ctrl.Stage()),
		PersistedClips: clips,
	})
}

func (h *InterviewHandler) lookup(c *fiber.Ctx) (*interview.Controller, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, utils.SendError(c, fiber.StatusBadRequest, "invalid interview id")
	}

	ctrl, ok := h.registry.Get(id)
	if !ok {
		return nil, utils.SendError(c, fiber.StatusNotFound, "interview not found")
	}

	return ctrl, nil
}

func (h *InterviewHandler) response(ctrl *interview.Controller) dto.InterviewResponse {
	return dto.InterviewResponse{
		ID:                ctrl.ID().String(),
		Stage:             string(ctrl.Stage()),
		AnsweredQuestions: ctrl.Board().Answered(),
		Complete:          ctrl.Board().Complete(),
	}
}
