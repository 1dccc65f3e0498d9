package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/capture"
)

// State identifies the recording lifecycle phase for one question.
type State string

const (
	StateIdle             State = "idle"
	StateRequestingDevice State = "requesting-device"
	StateRecording        State = "recording"
	StateStoppedReady     State = "stopped-ready"
	StateSubmitted        State = "submitted"
)

var (
	// ErrNotIdle indicates Start was called while an attempt is underway.
	ErrNotIdle = errors.New("recording already in progress")
	// ErrNoClip indicates there is no finished clip to finalize or discard.
	ErrNoClip = errors.New("no finished clip")
	// ErrRecorderFailure indicates chunk assembly failed; the attempt is
	// discarded and the session returns to idle.
	ErrRecorderFailure = errors.New("failed to assemble recording")
)

// Clip is one finished recorded answer, not yet persisted.
type Clip struct {
	QuestionID int
	Data       []byte
	Duration   time.Duration
	CapturedAt time.Time
}

// ticker abstracts time.Ticker so tests can drive the elapsed clock.
type ticker interface {
	C() <-chan time.Time
	Stop()
}

type wallTicker struct{ *time.Ticker }

func (w wallTicker) C() <-chan time.Time { return w.Ticker.C }

// Session drives the recording lifecycle for a single question:
// idle -> requesting-device -> recording -> stopped-ready -> submitted.
// The capture stream, elapsed clock, and chunk buffer are owned by the
// session and travel with its state rather than living in shared refs.
type Session struct {
	questionID int
	ceiling    time.Duration
	manager    *capture.Manager
	logger     zerolog.Logger
	newTicker  func(time.Duration) ticker
	now        func() time.Time

	mu         sync.Mutex
	state      State
	chunks     [][]byte
	elapsedSec int
	clip       *Clip
	lastErr    error
	startedAt  time.Time
	stopCh     chan struct{}
	stopOnce   *sync.Once
	doneCh     chan struct{}
}

// NewSession constructs an idle session for the given question. The
// ceiling bounds captured duration; reaching it stops the recording
// exactly as a manual stop would.
func NewSession(questionID int, ceiling time.Duration, manager *capture.Manager, logger zerolog.Logger) *Session {
	return &Session{
		questionID: questionID,
		ceiling:    ceiling,
		manager:    manager,
		logger:     logger.With().Str("component", "recording_session").Int("question_id", questionID).Logger(),
		newTicker:  func(d time.Duration) ticker { return wallTicker{time.NewTicker(d)} },
		now:        time.Now,
		state:      StateIdle,
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns whole seconds recorded so far.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedSec
}

// Err returns the error that aborted the last attempt, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Done is closed once the active recording loop has fully settled,
// including device release. It is only valid after a successful Start.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneCh
}

// Start acquires the device and begins buffering chunks. On device
// failure the session returns to idle with no timer running and no
// stream held.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrNotIdle
	}
	s.state = StateRequestingDevice
	s.mu.Unlock()

	stream, err := s.manager.Acquire(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = StateIdle
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn().Err(err).Msg("device acquisition failed")
		return err
	}

	s.mu.Lock()
	s.state = StateRecording
	s.chunks = nil
	s.clip = nil
	s.lastErr = nil
	s.elapsedSec = 0
	s.startedAt = s.now()
	s.stopCh = make(chan struct{})
	s.stopOnce = &sync.Once{}
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info().Msg("recording started")
	go s.record(stream)

	return nil
}

// record is the single event loop ordering chunk delivery, timer ticks,
// and stop signals for one attempt.
func (s *Session) record(stream capture.Stream) {
	defer close(s.doneCh)
	defer s.finish()

	tk := s.newTicker(time.Second)
	defer tk.Stop()

	for {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				return
			}
			s.mu.Lock()
			s.chunks = append(s.chunks, chunk.Data)
			s.mu.Unlock()
		case <-tk.C():
			s.mu.Lock()
			s.elapsedSec++
			reached := time.Duration(s.elapsedSec)*time.Second >= s.ceiling
			s.mu.Unlock()
			if reached {
				s.logger.Info().Int("elapsed_seconds", s.Elapsed()).Msg("recording ceiling reached")
				return
			}
		case <-s.stopCh:
			return
		}
	}
}

// finish releases the device and assembles the buffered chunks into a
// finished clip. An assembly failure discards the attempt and returns
// the session to idle so the candidate can retry from scratch.
func (s *Session) finish() {
	s.manager.Release()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return
	}

	clip, err := s.assemble()
	if err != nil {
		s.chunks = nil
		s.state = StateIdle
		s.lastErr = err
		s.logger.Error().Err(err).Msg("recording attempt discarded")
		return
	}

	s.clip = &clip
	s.state = StateStoppedReady
	s.logger.Info().Int("bytes", len(clip.Data)).Dur("duration", clip.Duration).Msg("recording stopped")
}

// assemble concatenates buffered chunks. Callers must hold s.mu.
func (s *Session) assemble() (Clip, error) {
	if len(s.chunks) == 0 {
		return Clip{}, fmt.Errorf("%w: no media captured", ErrRecorderFailure)
	}

	var buf bytes.Buffer
	for _, chunk := range s.chunks {
		if _, err := buf.Write(chunk); err != nil {
			return Clip{}, fmt.Errorf("%w: %v", ErrRecorderFailure, err)
		}
	}

	return Clip{
		QuestionID: s.questionID,
		Data:       buf.Bytes(),
		Duration:   time.Duration(s.elapsedSec) * time.Second,
		CapturedAt: s.startedAt,
	}, nil
}

// Stop halts an active recording and waits for the loop to settle. It is
// a no-op when the session is not currently recording.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return
	}
	once := s.stopOnce
	stopCh := s.stopCh
	done := s.doneCh
	s.mu.Unlock()

	once.Do(func() { close(stopCh) })
	<-done
}

// Discard drops the finished clip and returns to idle without
// finalizing. Valid only from stopped-ready.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStoppedReady {
		return ErrNoClip
	}

	s.clip = nil
	s.chunks = nil
	s.elapsedSec = 0
	s.state = StateIdle
	s.logger.Info().Msg("clip discarded")
	return nil
}

// Finalize hands over the finished clip and moves to submitted, the
// terminal state for this question. Valid only from stopped-ready.
func (s *Session) Finalize() (Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStoppedReady || s.clip == nil {
		return Clip{}, ErrNoClip
	}

	clip := *s.clip
	s.clip = nil
	s.chunks = nil
	s.state = StateSubmitted
	return clip, nil
}
