package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/models"
	"github.com/talentlens/interview-api/internal/observability"
)

const completionSubject = "interview.session.completed"

// CompletionNotifier publishes an event when an interview session
// reaches the complete stage. The NATS connection may be nil, in which
// case only the counter is recorded.
type CompletionNotifier struct {
	nats   *nats.Conn
	logger zerolog.Logger
}

type completionEvent struct {
	CandidateID string    `json:"candidate_id"`
	FullName    string    `json:"full_name"`
	Department  string    `json:"department"`
	Clips       int       `json:"clips"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewCompletionNotifier constructs a completion notifier.
func NewCompletionNotifier(conn *nats.Conn, logger zerolog.Logger) *CompletionNotifier {
	return &CompletionNotifier{
		nats:   conn,
		logger: logger.With().Str("component", "completion_notifier").Logger(),
	}
}

// SessionCompleted records the completion and publishes it downstream.
// Publish failures are logged, never surfaced: the session is already
// complete and must stay that way.
func (n *CompletionNotifier) SessionCompleted(_ context.Context, candidate models.Candidate, clips int) {
	observability.SessionsCompleted().Inc()

	if n.nats == nil {
		return
	}

	payload, err := json.Marshal(completionEvent{
		CandidateID: candidate.ID.String(),
		FullName:    candidate.FullName,
		Department:  string(candidate.Department),
		Clips:       clips,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		n.logger.Warn().Err(err).Msg("failed to encode completion event")
		return
	}

	if err := n.nats.Publish(completionSubject, payload); err != nil {
		n.logger.Warn().Err(err).Msg("failed to publish completion event")
		return
	}

	n.logger.Info().Str("candidate_id", candidate.ID.String()).Msg("completion event published")
}
