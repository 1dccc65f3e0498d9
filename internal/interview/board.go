package interview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/capture"
	"github.com/talentlens/interview-api/internal/models"
	"github.com/talentlens/interview-api/internal/recorder"
)

var (
	// ErrQuestionUnknown indicates the id is not part of the script.
	ErrQuestionUnknown = errors.New("unknown question")
	// ErrQuestionAnswered indicates the question already has a clip.
	ErrQuestionAnswered = errors.New("question already answered")
	// ErrRecordingActive indicates a recording session is underway.
	ErrRecordingActive = errors.New("a recording is already in progress")
	// ErrNoActiveQuestion indicates no question has been selected.
	ErrNoActiveQuestion = errors.New("no question selected")
	// ErrQuestionNotSelected indicates the recording targets a question
	// other than the selected one.
	ErrQuestionNotSelected = errors.New("question is not the selected one")
)

// Board tracks the answered/unanswered partition over the fixed question
// set and mediates access to the per-question recording session. At most
// one session is active at a time and each question id lands in at most
// one clip.
type Board struct {
	questions  map[int]models.Question
	ceiling    time.Duration
	logger     zerolog.Logger
	newSession func(questionID int, device capture.Device) *recorder.Session

	mu       sync.Mutex
	answered map[int]recorder.Clip
	order    []int
	activeID int
	session  *recorder.Session
}

// NewBoard constructs a board over the fixed interview script.
func NewBoard(questions []models.Question, ceiling time.Duration, logger zerolog.Logger) *Board {
	byID := make(map[int]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	boardLogger := logger.With().Str("component", "question_board").Logger()

	return &Board{
		questions: byID,
		ceiling:   ceiling,
		logger:    boardLogger,
		answered:  make(map[int]recorder.Clip),
		newSession: func(questionID int, device capture.Device) *recorder.Session {
			return recorder.NewSession(questionID, ceiling, capture.NewManager(device, boardLogger), boardLogger)
		},
	}
}

// Select marks a question as the active one. Rejected when the id is
// unknown, already answered, or a recording session is active.
func (b *Board) Select(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.questions[id]; !ok {
		return ErrQuestionUnknown
	}
	if _, done := b.answered[id]; done {
		return ErrQuestionAnswered
	}
	if b.sessionBusy() {
		return ErrRecordingActive
	}

	b.activeID = id
	return nil
}

// sessionBusy reports whether the current session still owns the flow:
// acquiring the device, recording, or holding an unfinalized clip.
// Callers must hold b.mu.
func (b *Board) sessionBusy() bool {
	if b.session == nil {
		return false
	}
	switch b.session.State() {
	case recorder.StateRequestingDevice, recorder.StateRecording, recorder.StateStoppedReady:
		return true
	default:
		return false
	}
}

// StartRecording opens a recording session for the selected question over
// the given device.
func (b *Board) StartRecording(ctx context.Context, questionID int, device capture.Device) (*recorder.Session, error) {
	b.mu.Lock()
	if b.activeID == 0 {
		b.mu.Unlock()
		return nil, ErrNoActiveQuestion
	}
	if b.activeID != questionID {
		b.mu.Unlock()
		return nil, ErrQuestionNotSelected
	}
	if b.sessionBusy() {
		b.mu.Unlock()
		return nil, ErrRecordingActive
	}
	session := b.newSession(questionID, device)
	b.session = session
	b.mu.Unlock()

	if err := session.Start(ctx); err != nil {
		b.mu.Lock()
		b.session = nil
		b.mu.Unlock()
		return nil, err
	}

	return session, nil
}

// Finalize hands the finished clip over and reports whether every
// question now has exactly one answer. Completion is recomputed from the
// answered set after the clip lands, so the final answer counts itself.
func (b *Board) Finalize() (recorder.Clip, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return recorder.Clip{}, false, ErrNoActiveQuestion
	}

	clip, err := b.session.Finalize()
	if err != nil {
		return recorder.Clip{}, false, err
	}

	b.answered[clip.QuestionID] = clip
	b.order = append(b.order, clip.QuestionID)
	b.session = nil
	b.activeID = 0

	complete := len(b.answered) == len(b.questions)
	b.logger.Info().Int("question_id", clip.QuestionID).Int("answered", len(b.answered)).Bool("complete", complete).Msg("answer finalized")

	return clip, complete, nil
}

// Discard drops the pending clip; the question stays selected so the
// candidate can record again.
func (b *Board) Discard() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return ErrNoActiveQuestion
	}
	if err := b.session.Discard(); err != nil {
		return err
	}

	b.session = nil
	return nil
}

// Complete reports whether every question has an answer.
func (b *Board) Complete() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.answered) == len(b.questions)
}

// Answered returns the ids of answered questions in submission order.
func (b *Board) Answered() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int, len(b.order))
	copy(out, b.order)
	return out
}

// Clips returns the finished clips in submission order.
func (b *Board) Clips() []recorder.Clip {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recorder.Clip, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.answered[id])
	}
	return out
}
