package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/model"
	"github.com/uwplan/planner-backend/internal/repository"
	"github.com/uwplan/planner-backend/internal/sequence"
)

// ErrCourseNotFound is returned when a course ID is not in the catalog.
var ErrCourseNotFound = errors.New("course not found")

type courseStore interface {
	GetAll(ctx context.Context, subject string) ([]model.Course, error)
	GetByID(ctx context.Context, courseID string) (*model.Course, error)
	GetAllIDAndNames(ctx context.Context) ([]model.CourseIDName, error)
}

type communicationStore interface {
	GetAll(ctx context.Context) ([]model.Communication, error)
}

type prerequisiteProvider interface {
	GetParsedPrereqData(ctx context.Context, courseIDs []string) (map[string]model.ParsedPrereqData, error)
}

// CourseDetail is a catalog course with its prerequisite record, if any.
type CourseDetail struct {
	model.Course
	Prerequisite *model.ParsedPrereqData `json:"prerequisite"`
}

// CatalogService serves the read-only catalog: courses, communication courses,
// plan names and co-op sequences.
type CatalogService struct {
	courseRepo        courseStore
	prereqs           prerequisiteProvider
	programRepo       repository.ProgramRepository
	communicationRepo communicationStore
	sequences         *sequence.Generator
	log               zerolog.Logger
}

func NewCatalogService(
	courseRepo courseStore,
	prereqs prerequisiteProvider,
	programRepo repository.ProgramRepository,
	communicationRepo communicationStore,
	sequences *sequence.Generator,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		courseRepo:        courseRepo,
		prereqs:           prereqs,
		programRepo:       programRepo,
		communicationRepo: communicationRepo,
		sequences:         sequences,
		log:               log.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *CatalogService) ListCourses(ctx context.Context, subject string) ([]model.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

func (s *CatalogService) GetCourse(ctx context.Context, courseID string) (*CourseDetail, error) {
	c, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrCourseNotFound, courseID)
	}

	prereqs, err := s.prereqs.GetParsedPrereqData(ctx, []string{courseID})
	if err != nil {
		return nil, fmt.Errorf("get prerequisites: %w", err)
	}

	detail := &CourseDetail{Course: *c}
	if p, ok := prereqs[courseID]; ok {
		detail.Prerequisite = &p
	}
	return detail, nil
}

func (s *CatalogService) ListCommunications(ctx context.Context) ([]model.Communication, error) {
	comms, err := s.communicationRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	if comms == nil {
		comms = []model.Communication{}
	}
	return comms, nil
}

// GetPlans lists every major, minor and specialization name plus every course.
func (s *CatalogService) GetPlans(ctx context.Context) (*model.Plans, error) {
	plans := &model.Plans{}

	var err error
	if plans.Majors, err = s.programRepo.GetAllNames(ctx, model.ProgramKindMajor); err != nil {
		return nil, fmt.Errorf("list majors: %w", err)
	}
	if plans.Minors, err = s.programRepo.GetAllNames(ctx, model.ProgramKindMinor); err != nil {
		return nil, fmt.Errorf("list minors: %w", err)
	}
	if plans.Specializations, err = s.programRepo.GetAllNames(ctx, model.ProgramKindSpecialization); err != nil {
		return nil, fmt.Errorf("list specializations: %w", err)
	}
	if plans.Courses, err = s.courseRepo.GetAllIDAndNames(ctx); err != nil {
		return nil, fmt.Errorf("list course names: %w", err)
	}
	if plans.Courses == nil {
		plans.Courses = []model.CourseIDName{}
	}
	return plans, nil
}

func (s *CatalogService) ListSequences() []string {
	return s.sequences.Names()
}

// GetSequence wraps sequence.ErrUnknownSequence for unknown names.
func (s *CatalogService) GetSequence(name string) (model.SequenceMap, error) {
	return s.sequences.GenerateSequence(name)
}
