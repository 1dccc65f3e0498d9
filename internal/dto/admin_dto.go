package dto

import (
	"time"

	"github.com/talentlens/interview-api/internal/models"
)

// AdminLoginRequest carries the fixed credential pair.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse returns the bearer token for the admin surface.
type AdminLoginResponse struct {
	Token string `json:"token"`
}

// VideoResponse is one persisted answer clip reference.
type VideoResponse struct {
	ID              string    `json:"id"`
	QuestionID      int       `json:"question_id"`
	VideoURL        string    `json:"video_url"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// AdminCandidateResponse is a candidate together with their persisted
// videos, as shown on the review dashboard.
type AdminCandidateResponse struct {
	Candidate CandidateResponse `json:"candidate"`
	Videos    []VideoResponse   `json:"videos"`
}

// NewVideoResponse maps a video record to its response shape.
func NewVideoResponse(video models.Video) VideoResponse {
	return VideoResponse{
		ID:              video.ID.String(),
		QuestionID:      video.QuestionID,
		VideoURL:        video.VideoURL,
		DurationSeconds: video.DurationSeconds,
		CreatedAt:       video.CreatedAt,
	}
}
