// Package schedule validates a student's term-by-term course schedule against
// course rules (availability, minimum level, prerequisites) and whole-plan
// degree rules (communication course timing, requirement counts).
package schedule

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/model"
)

// PrerequisiteProvider loads parsed prerequisite records in bulk. Courses it
// does not know are absent from the returned map.
type PrerequisiteProvider interface {
	GetParsedPrereqData(ctx context.Context, courseIDs []string) (map[string]model.ParsedPrereqData, error)
}

// ProgramRegistry resolves a degree name. It returns (nil, nil) when the name
// is unknown; errors are reserved for lookup failures.
type ProgramRegistry interface {
	GetProgramByName(ctx context.Context, name string) (*model.Program, error)
}

// PlanRegistry is a ProgramRegistry that can also fold the requirements of
// minors and specializations into the resolved degree.
type PlanRegistry interface {
	ProgramRegistry
	ResolvePlan(ctx context.Context, plan model.AcademicPlan) (*model.Program, error)
}

// Validator evaluates schedules. It holds no per-request state and is safe for
// concurrent use when its providers are.
type Validator struct {
	prereqs  PrerequisiteProvider
	programs ProgramRegistry
	courses  *CourseEngine
	degree   *DegreeEngine
	log      zerolog.Logger
}

// NewValidator creates a Validator with the default course and degree rules.
func NewValidator(prereqs PrerequisiteProvider, programs ProgramRegistry, log zerolog.Logger) *Validator {
	return NewValidatorWithEngines(prereqs, programs, NewCourseEngine(), NewDegreeEngine(), log)
}

// NewValidatorWithEngines creates a Validator with caller-supplied rule engines.
func NewValidatorWithEngines(
	prereqs PrerequisiteProvider,
	programs ProgramRegistry,
	courses *CourseEngine,
	degree *DegreeEngine,
	log zerolog.Logger,
) *Validator {
	return &Validator{
		prereqs:  prereqs,
		programs: programs,
		courses:  courses,
		degree:   degree,
		log:      log.With().Str("component", "schedule_validator").Logger(),
	}
}

// ValidateSchedule checks every course of sched in order and the plan as a
// whole.
//
// Unknown courses and unknown degrees are reported as findings. Only a failed
// prerequisite or program lookup returns an error, and then no output.
// Degree-level findings are advisory: OverallResult is false only when some
// course has a failure.
func (v *Validator) ValidateSchedule(
	ctx context.Context,
	sched model.Schedule,
	degree string,
	sequence model.SequenceMap,
) (*model.ScheduleValidationOutput, error) {
	return v.ValidatePlan(ctx, sched, model.AcademicPlan{Degree: degree}, sequence)
}

// ValidatePlan is ValidateSchedule for a degree with minors or
// specializations. Their requirements are merged into the degree's when the
// registry is a PlanRegistry and ignored otherwise.
func (v *Validator) ValidatePlan(
	ctx context.Context,
	sched model.Schedule,
	plan model.AcademicPlan,
	sequence model.SequenceMap,
) (*model.ScheduleValidationOutput, error) {
	degree := plan.Degree
	scheduled := sched.CourseIDs()

	prereqs, err := v.prereqs.GetParsedPrereqData(ctx, distinct(scheduled))
	if err != nil {
		return nil, fmt.Errorf("get parsed prerequisite data: %w", err)
	}

	program, err := v.resolve(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("get program %q: %w", degree, err)
	}

	out := &model.ScheduleValidationOutput{
		CourseValidationResult: make(model.CourseValidationResult, 0, len(sched)),
		OverallResult:          true,
	}

	out.DegreeValidationResult = v.degree.Evaluate(&DegreeCheck{
		Schedule: sched,
		Degree:   degree,
		Program:  program,
		Sequence: sequence,
	})

	taken := make(Taken, len(scheduled))
	for _, tc := range sched {
		season, hasSeason := sequence.Season(tc.Term)
		termResult := model.TermResult{
			Term:    tc.Term,
			Courses: make([]model.ResultSet, 0, len(tc.Courses)),
		}
		var completed []string

		for _, course := range tc.Courses {
			id := course.ID()
			if _, ok := prereqs[id]; !ok {
				termResult.Courses = append(termResult.Courses, model.ResultSet{model.ResultNoSuchCourse})
				out.OverallResult = false
				continue
			}

			failures := v.courses.Evaluate(&CourseCheck{
				Course:    course,
				Term:      tc.Term,
				Season:    season,
				HasSeason: hasSeason,
				Taken:     taken,
				Scheduled: scheduled,
				Degree:    degree,
				Prereqs:   prereqs,
			}).Failures()
			if len(failures) > 0 {
				out.OverallResult = false
			}
			termResult.Courses = append(termResult.Courses, failures)
			completed = append(completed, id)
		}

		// Courses only count as taken once their whole term is over.
		for _, id := range completed {
			taken[id] = struct{}{}
		}
		out.CourseValidationResult = append(out.CourseValidationResult, termResult)
	}

	v.log.Debug().
		Str("degree", degree).
		Int("terms", len(sched)).
		Int("courses", len(scheduled)).
		Int("failed_courses", out.FailedCourseCount()).
		Int("degree_findings", len(out.DegreeValidationResult)).
		Bool("overall_result", out.OverallResult).
		Msg("Schedule validated")

	return out, nil
}

func (v *Validator) resolve(ctx context.Context, plan model.AcademicPlan) (*model.Program, error) {
	if pr, ok := v.programs.(PlanRegistry); ok && plan.HasExtras() {
		return pr.ResolvePlan(ctx, plan)
	}
	return v.programs.GetProgramByName(ctx, plan.Degree)
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
