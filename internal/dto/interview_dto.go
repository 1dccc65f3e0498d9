package dto

// AdvanceRequest names the stage trigger to apply.
type AdvanceRequest struct {
	Trigger string `json:"trigger" validate:"required"`
}

// InterviewResponse describes the observable state of one session.
type InterviewResponse struct {
	ID                string `json:"id"`
	Stage             string `json:"stage"`
	AnsweredQuestions []int  `json:"answered_questions"`
	Complete          bool   `json:"complete"`
}

// RecordingResponse describes the recording session after a capture
// stream ends.
type RecordingResponse struct {
	QuestionID     int    `json:"question_id"`
	State          string `json:"state"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	Error          string `json:"error,omitempty"`
}

// SubmitResponse reports the outcome of a pipeline invocation.
type SubmitResponse struct {
	Stage          string `json:"stage"`
	PersistedClips int    `json:"persisted_clips"`
	FailedIndex    *int   `json:"failed_index,omitempty"`
}
