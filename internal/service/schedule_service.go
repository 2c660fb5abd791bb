package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/model"
	"github.com/uwplan/planner-backend/internal/sequence"
)

type ScheduleService interface {
	Validate(ctx context.Context, req *model.ValidateScheduleRequest) (*model.ScheduleValidationOutput, error)
}

type scheduleValidator interface {
	ValidatePlan(ctx context.Context, sched model.Schedule, plan model.AcademicPlan, seq model.SequenceMap) (*model.ScheduleValidationOutput, error)
}

type scheduleService struct {
	validator       scheduleValidator
	sequences       *sequence.Generator
	defaultSequence string
	publisher       RunPublisher
	log             zerolog.Logger
}

// NewScheduleService creates a ScheduleService. publisher may be nil, in which
// case runs are not recorded.
func NewScheduleService(
	validator scheduleValidator,
	sequences *sequence.Generator,
	defaultSequence string,
	publisher RunPublisher,
	log zerolog.Logger,
) ScheduleService {
	return &scheduleService{
		validator:       validator,
		sequences:       sequences,
		defaultSequence: defaultSequence,
		publisher:       publisher,
		log:             log.With().Str("component", "schedule_service").Logger(),
	}
}

// Validate resolves the requested sequence and validates the schedule against
// it. An unknown sequence name wraps sequence.ErrUnknownSequence.
func (s *scheduleService) Validate(ctx context.Context, req *model.ValidateScheduleRequest) (*model.ScheduleValidationOutput, error) {
	seqName := strings.TrimSpace(req.Sequence)
	if seqName == "" {
		seqName = s.defaultSequence
	}

	seq, err := s.sequences.GenerateSequence(seqName)
	if err != nil {
		return nil, err
	}

	out, err := s.validator.ValidatePlan(ctx, req.Schedule, req.Plan(), seq)
	if err != nil {
		return nil, fmt.Errorf("validate schedule: %w", err)
	}

	s.record(ctx, req, seqName, out)
	return out, nil
}

// record publishes an audit run. Failures are logged and never reach the caller.
func (s *scheduleService) record(ctx context.Context, req *model.ValidateScheduleRequest, seqName string, out *model.ScheduleValidationOutput) {
	if s.publisher == nil {
		return
	}

	findings := make([]string, len(out.DegreeValidationResult))
	for i, f := range out.DegreeValidationResult {
		findings[i] = string(f)
	}

	run := &model.ValidationRun{
		ID:                uuid.New(),
		Degree:            req.Degree,
		Sequence:          seqName,
		CourseCount:       req.Schedule.CourseCount(),
		FailedCourseCount: out.FailedCourseCount(),
		DegreeFindings:    findings,
		OverallResult:     out.OverallResult,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, run); err != nil {
		s.log.Warn().Err(err).Str("run_id", run.ID.String()).Msg("Failed to queue validation run")
	}
}
