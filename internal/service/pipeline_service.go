package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/talentlens/interview-api/internal/models"
	"github.com/talentlens/interview-api/internal/observability"
	"github.com/talentlens/interview-api/internal/recorder"
	"github.com/talentlens/interview-api/internal/repository"
)

const clipContentType = "video/webm"

var (
	// ErrUploadFailed indicates the object store rejected a clip upload.
	ErrUploadFailed = errors.New("video upload failed")
	// ErrMetadataWrite indicates the relational store rejected a video record.
	ErrMetadataWrite = errors.New("video metadata write failed")
)

// FileStorage abstracts the external object store. The locator is the
// exact key the object is stored under; a collision is a failure.
type FileStorage interface {
	Upload(ctx context.Context, locator, contentType string, reader io.Reader) (string, error)
}

// PipelineError reports the clip at which a pipeline invocation aborted.
type PipelineError struct {
	Index      int
	QuestionID int
	Err        error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("clip %d (question %d): %v", e.Index, e.QuestionID, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// PipelineResult describes the outcome of one pipeline invocation.
// FailedIndex is -1 when the whole batch persisted; otherwise clips
// before it are persisted and it plus all later clips are not.
type PipelineResult struct {
	Persisted   []models.Video
	FailedIndex int
	Err         error
}

// Success reports whether every clip was uploaded and recorded.
func (r PipelineResult) Success() bool { return r.Err == nil }

// SubmissionPipeline persists finished clips one at a time, in
// submission order, against the object and relational stores.
type SubmissionPipeline interface {
	Run(ctx context.Context, candidate models.Candidate, clips []recorder.Clip) PipelineResult
	Submit(ctx context.Context, candidate models.Candidate, clips []recorder.Clip) error
}

type submissionPipeline struct {
	storage FileStorage
	videos  repository.VideoRepository
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewSubmissionPipeline constructs a submission pipeline.
func NewSubmissionPipeline(storage FileStorage, videos repository.VideoRepository, logger zerolog.Logger) SubmissionPipeline {
	return &submissionPipeline{
		storage: storage,
		videos:  videos,
		logger:  logger.With().Str("component", "submission_pipeline").Logger(),
		tracer:  otel.Tracer("github.com/talentlens/interview-api/internal/service/pipeline"),
	}
}

// Run processes the clips strictly sequentially and aborts on the first
// failure: clips already persisted stay persisted, the failing clip and
// everything after it are neither uploaded nor recorded.
func (p *submissionPipeline) Run(ctx context.Context, candidate models.Candidate, clips []recorder.Clip) PipelineResult {
	ctx, span := p.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	span.SetAttributes(
		attribute.String("pipeline.candidate_id", candidate.ID.String()),
		attribute.Int("pipeline.clips", len(clips)),
	)

	start := time.Now()
	defer func() {
		observability.PipelineLatency().Observe(time.Since(start).Seconds())
	}()

	result := PipelineResult{FailedIndex: -1}
	for i, clip := range clips {
		video, err := p.persist(ctx, candidate, clip)
		if err != nil {
			step := "upload"
			if errors.Is(err, ErrMetadataWrite) {
				step = "metadata"
			}
			observability.PipelineFailures().WithLabelValues(step).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "aborted")

			result.FailedIndex = i
			result.Err = &PipelineError{Index: i, QuestionID: clip.QuestionID, Err: err}
			p.logger.Error().Err(err).Int("clip_index", i).Int("question_id", clip.QuestionID).Msg("pipeline aborted")
			return result
		}

		result.Persisted = append(result.Persisted, video)
		observability.ClipsPersisted().Inc()
	}

	span.SetStatus(codes.Ok, "persisted")
	p.logger.Info().Int("clips", len(clips)).Msg("all clips persisted")
	return result
}

// Submit runs the pipeline and reduces the result to an error.
func (p *submissionPipeline) Submit(ctx context.Context, candidate models.Candidate, clips []recorder.Clip) error {
	return p.Run(ctx, candidate, clips).Err
}

func (p *submissionPipeline) persist(ctx context.Context, candidate models.Candidate, clip recorder.Clip) (models.Video, error) {
	// The captured container is stored verbatim; a mismatched type is
	// only worth a warning.
	if detected := mimetype.Detect(clip.Data); !detected.Is(clipContentType) {
		p.logger.Warn().Str("detected", detected.String()).Int("question_id", clip.QuestionID).Msg("clip is not webm")
	}

	locator := fmt.Sprintf("%s/question_%d_%d.webm", candidate.ID, clip.QuestionID, clip.CapturedAt.UnixMilli())

	url, err := p.storage.Upload(ctx, locator, clipContentType, bytes.NewReader(clip.Data))
	if err != nil {
		return models.Video{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	video := models.Video{
		CandidateID:     candidate.ID,
		QuestionID:      clip.QuestionID,
		VideoURL:        url,
		DurationSeconds: int(clip.Duration / time.Second),
	}
	if err := p.videos.Create(ctx, &video); err != nil {
		return models.Video{}, fmt.Errorf("%w: %v", ErrMetadataWrite, err)
	}

	p.logger.Info().Str("locator", locator).Int("question_id", clip.QuestionID).Msg("clip persisted")
	return video, nil
}
