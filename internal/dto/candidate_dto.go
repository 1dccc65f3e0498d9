package dto

import (
	"time"

	"github.com/talentlens/interview-api/internal/models"
)

// CandidateCreateRequest carries the profile fields collected from the
// candidate form.
type CandidateCreateRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	CollegeName string `json:"college_name" validate:"required,max=255"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Department  string `json:"department" validate:"required,oneof='Computer Science' 'Civil' 'Mechanical' 'Electrical'"`
}

// CandidateResponse is the stored profile returned after creation.
type CandidateResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	CollegeName string    `json:"college_name"`
	DateOfBirth string    `json:"date_of_birth"`
	Department  string    `json:"department"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCandidateResponse maps a candidate record to its response shape.
func NewCandidateResponse(candidate models.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:          candidate.ID.String(),
		FullName:    candidate.FullName,
		CollegeName: candidate.CollegeName,
		DateOfBirth: candidate.DateOfBirth,
		Department:  string(candidate.Department),
		CreatedAt:   candidate.CreatedAt,
	}
}
