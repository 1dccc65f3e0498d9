package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/interview-api/internal/models"
)

func seedVideo(t *testing.T, repo VideoRepository, candidateID uuid.UUID, questionID int) models.Video {
	t.Helper()

	video := models.Video{
		CandidateID:     candidateID,
		QuestionID:      questionID,
		VideoURL:        "https://cdn.example.com/clip.webm",
		DurationSeconds: 42,
	}
	require.NoError(t, repo.Create(context.Background(), &video))
	return video
}

func TestVideoRepositoryCreateAssignsID(t *testing.T) {
	db := setupTestDB(t)
	candidates := NewCandidateRepository(db)
	videos := NewVideoRepository(db)

	candidate := seedCandidate(t, candidates, "Jane Doe")
	video := seedVideo(t, videos, candidate.ID, 1)

	require.NotEqual(t, uuid.Nil, video.ID)
	require.False(t, video.CreatedAt.IsZero())
}

func TestVideoRepositoryListByCandidate(t *testing.T) {
	db := setupTestDB(t)
	candidates := NewCandidateRepository(db)
	videos := NewVideoRepository(db)

	first := seedCandidate(t, candidates, "Jane Doe")
	second := seedCandidate(t, candidates, "John Roe")

	seedVideo(t, videos, first.ID, 2)
	seedVideo(t, videos, first.ID, 1)
	seedVideo(t, videos, second.ID, 1)

	listing, err := videos.ListByCandidate(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, listing, 2)

	// Ordered by question id regardless of insertion order.
	require.Equal(t, 1, listing[0].QuestionID)
	require.Equal(t, 2, listing[1].QuestionID)
}

func TestVideoRepositoryList(t *testing.T) {
	db := setupTestDB(t)
	candidates := NewCandidateRepository(db)
	videos := NewVideoRepository(db)

	candidate := seedCandidate(t, candidates, "Jane Doe")
	seedVideo(t, videos, candidate.ID, 1)
	seedVideo(t, videos, candidate.ID, 2)

	listing, err := videos.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listing, 2)
}
