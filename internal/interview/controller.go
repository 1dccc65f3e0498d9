package interview

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/capture"
	"github.com/talentlens/interview-api/internal/dto"
	"github.com/talentlens/interview-api/internal/models"
	"github.com/talentlens/interview-api/internal/recorder"
)

// Stage is the coarse-grained phase of one interview session.
type Stage string

const (
	StageLoading      Stage = "loading"
	StageLanding      Stage = "landing"
	StageProfileForm  Stage = "profile-form"
	StageInstructions Stage = "instructions"
	StageAnswering    Stage = "answering"
	StageComplete     Stage = "complete"
)

// Trigger advances the session stage machine.
type Trigger string

const (
	TriggerLoaderFinished           Trigger = "loader-finished"
	TriggerStartClicked             Trigger = "start-clicked"
	TriggerProfileSubmitted         Trigger = "profile-submitted"
	TriggerInstructionsAcknowledged Trigger = "instructions-acknowledged"
	TriggerAllQuestionsSubmitted    Trigger = "all-questions-submitted"
)

var (
	// ErrStageMismatch indicates the operation is not valid for the
	// session's current stage.
	ErrStageMismatch = errors.New("operation not valid in current stage")
	// ErrNoCandidate indicates the profile has not been created yet.
	ErrNoCandidate = errors.New("candidate profile missing")
	// ErrQuestionsRemaining indicates submission was attempted before
	// every question was answered.
	ErrQuestionsRemaining = errors.New("not all questions answered")
)

// CandidateStore creates the candidate profile in the relational store.
type CandidateStore interface {
	Create(ctx context.Context, req dto.CandidateCreateRequest) (models.Candidate, error)
}

// SubmissionRunner persists the accumulated clips against the external
// stores, returning the first error encountered.
type SubmissionRunner interface {
	Submit(ctx context.Context, candidate models.Candidate, clips []recorder.Clip) error
}

// CompletionNotifier is told when a session reaches the complete stage.
type CompletionNotifier interface {
	SessionCompleted(ctx context.Context, candidate models.Candidate, clips int)
}

// Controller is the top-level stage machine for one interview session.
// It owns the candidate profile and, through the board, the accumulated
// clips. Stages only move forward and only through explicit triggers.
type Controller struct {
	id         uuid.UUID
	board      *Board
	candidates CandidateStore
	runner     SubmissionRunner
	notifier   CompletionNotifier
	logger     zerolog.Logger

	mu        sync.Mutex
	stage     Stage
	candidate *models.Candidate
}

// NewController constructs a session starting at the loading stage.
func NewController(board *Board, candidates CandidateStore, runner SubmissionRunner, notifier CompletionNotifier, logger zerolog.Logger) *Controller {
	id := uuid.New()
	return &Controller{
		id:         id,
		board:      board,
		candidates: candidates,
		runner:     runner,
		notifier:   notifier,
		logger:     logger.With().Str("component", "session_controller").Str("session_id", id.String()).Logger(),
		stage:      StageLoading,
	}
}

// ID returns the session identifier.
func (c *Controller) ID() uuid.UUID { return c.id }

// Stage returns the current stage.
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Candidate returns the stored profile, if created.
func (c *Controller) Candidate() (models.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.candidate == nil {
		return models.Candidate{}, false
	}
	return *c.candidate, true
}

// Board exposes the question board for read access.
func (c *Controller) Board() *Board { return c.board }

// Advance applies a pure stage trigger. Triggers that are illegal for the
// current stage, and the two triggers with side effects (profile and
// final submission, which go through SubmitProfile and Submit), leave the
// stage unchanged.
func (c *Controller) Advance(trigger Trigger) Stage {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.stage
	switch {
	case c.stage == StageLoading && trigger == TriggerLoaderFinished:
		c.stage = StageLanding
	case c.stage == StageLanding && trigger == TriggerStartClicked:
		c.stage = StageProfileForm
	case c.stage == StageInstructions && trigger == TriggerInstructionsAcknowledged:
		c.stage = StageAnswering
	}

	if before != c.stage {
		c.logger.Info().Str("trigger", string(trigger)).Str("stage", string(c.stage)).Msg("stage advanced")
	}
	return c.stage
}

// SubmitProfile creates the candidate record and raises the
// profile-submitted trigger. On store failure the stage stays at
// profile-form so the candidate can retry.
func (c *Controller) SubmitProfile(ctx context.Context, req dto.CandidateCreateRequest) (models.Candidate, error) {
	c.mu.Lock()
	if c.stage != StageProfileForm {
		c.mu.Unlock()
		return models.Candidate{}, ErrStageMismatch
	}
	c.mu.Unlock()

	candidate, err := c.candidates.Create(ctx, req)
	if err != nil {
		return models.Candidate{}, err
	}

	c.mu.Lock()
	c.candidate = &candidate
	c.stage = StageInstructions
	c.mu.Unlock()

	c.logger.Info().Str("candidate_id", candidate.ID.String()).Msg("profile created")
	return candidate, nil
}

// SelectQuestion forwards to the board while answering.
func (c *Controller) SelectQuestion(id int) error {
	if c.Stage() != StageAnswering {
		return ErrStageMismatch
	}
	return c.board.Select(id)
}

// StartRecording opens a recording session over the given device while
// answering.
func (c *Controller) StartRecording(ctx context.Context, questionID int, device capture.Device) (*recorder.Session, error) {
	if c.Stage() != StageAnswering {
		return nil, ErrStageMismatch
	}
	return c.board.StartRecording(ctx, questionID, device)
}

// FinalizeRecording commits the pending clip and reports whether the
// question set is now fully answered.
func (c *Controller) FinalizeRecording() (recorder.Clip, bool, error) {
	if c.Stage() != StageAnswering {
		return recorder.Clip{}, false, ErrStageMismatch
	}
	return c.board.Finalize()
}

// DiscardRecording drops the pending clip.
func (c *Controller) DiscardRecording() error {
	if c.Stage() != StageAnswering {
		return ErrStageMismatch
	}
	return c.board.Discard()
}

// Submit raises the all-questions-submitted trigger: it runs the
// persistence pipeline over every recorded answer and moves to complete
// only when the whole batch persisted. On pipeline failure the stage
// stays at answering; there is no automatic retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.stage != StageAnswering {
		c.mu.Unlock()
		return ErrStageMismatch
	}
	if c.candidate == nil {
		c.mu.Unlock()
		return ErrNoCandidate
	}
	candidate := *c.candidate
	c.mu.Unlock()

	if !c.board.Complete() {
		return ErrQuestionsRemaining
	}

	clips := c.board.Clips()
	if err := c.runner.Submit(ctx, candidate, clips); err != nil {
		c.logger.Error().Err(err).Msg("submission pipeline failed")
		return err
	}

	c.mu.Lock()
	c.stage = StageComplete
	c.mu.Unlock()
	c.logger.Info().Int("clips", len(clips)).Msg("interview complete")

	if c.notifier != nil {
		c.notifier.SessionCompleted(ctx, candidate, len(clips))
	}
	return nil
}
