package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/model"
	"github.com/uwplan/planner-backend/internal/repository"
)

// ErrProgramNotFound is returned by lookups that require the program to exist.
var ErrProgramNotFound = errors.New("program not found")

type requirementStore interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Requirements, error)
}

// ProgramService resolves degree names to program metadata with requirement
// trees attached. Resolved programs are cached in Redis when a client is set.
type ProgramService struct {
	programRepo     repository.ProgramRepository
	requirementRepo requirementStore
	rdb             *redis.Client
	ttl             time.Duration
	log             zerolog.Logger
}

func NewProgramService(
	programRepo repository.ProgramRepository,
	requirementRepo requirementStore,
	rdb *redis.Client,
	ttl time.Duration,
	log zerolog.Logger,
) *ProgramService {
	return &ProgramService{
		programRepo:     programRepo,
		requirementRepo: requirementRepo,
		rdb:             rdb,
		ttl:             ttl,
		log:             log.With().Str("component", "program_service").Logger(),
	}
}

// GetProgramByName returns the major named name, or (nil, nil) when there is none.
func (s *ProgramService) GetProgramByName(ctx context.Context, name string) (*model.Program, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	if p := s.cached(ctx, name); p != nil {
		return p, nil
	}

	p, err := s.programRepo.GetByName(ctx, model.ProgramKindMajor, name)
	if err != nil {
		return nil, fmt.Errorf("get major: %w", err)
	}
	if p == nil {
		return nil, nil
	}

	if p.RequirementID != nil {
		trees, err := s.requirementRepo.GetByIDs(ctx, []int64{*p.RequirementID})
		if err != nil {
			return nil, fmt.Errorf("get requirements: %w", err)
		}
		if tree, ok := trees[*p.RequirementID]; ok {
			p.Requirements = &tree
		}
	}

	s.store(ctx, p)
	return p, nil
}

// ResolvePlan returns the plan's major with the requirement trees of its minors
// and specializations merged into its own. Unknown minors and specializations
// are skipped. It returns (nil, nil) when the major is unknown.
func (s *ProgramService) ResolvePlan(ctx context.Context, plan model.AcademicPlan) (*model.Program, error) {
	major, err := s.GetProgramByName(ctx, plan.Degree)
	if err != nil || major == nil || !plan.HasExtras() {
		return major, err
	}

	extras := []struct {
		kind  model.ProgramKind
		names []string
	}{
		{model.ProgramKindMinor, plan.Minors},
		{model.ProgramKindSpecialization, plan.Specializations},
	}

	var ids []int64
	for _, e := range extras {
		for _, name := range e.names {
			p, err := s.programRepo.GetByName(ctx, e.kind, strings.TrimSpace(name))
			if err != nil {
				return nil, fmt.Errorf("get %s: %w", e.kind, err)
			}
			if p == nil {
				s.log.Debug().Str("kind", string(e.kind)).Str("name", name).Msg("Unknown program in plan, skipping")
				continue
			}
			if p.RequirementID != nil {
				ids = append(ids, *p.RequirementID)
			}
		}
	}
	if len(ids) == 0 {
		return major, nil
	}

	trees, err := s.requirementRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get requirements: %w", err)
	}

	var merged model.Requirements
	if major.Requirements != nil {
		merged = *major.Requirements
	}
	for _, id := range ids {
		if tree, ok := trees[id]; ok {
			merged = merged.Merge(tree)
		}
	}

	resolved := *major
	resolved.Requirements = &merged
	return &resolved, nil
}

// GetProgram is GetProgramByName for callers that treat an unknown name as an error.
func (s *ProgramService) GetProgram(ctx context.Context, name string) (*model.Program, error) {
	p, err := s.GetProgramByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrProgramNotFound, name)
	}
	return p, nil
}

// Invalidate drops the cached programs named names.
func (s *ProgramService) Invalidate(ctx context.Context, names ...string) error {
	if s.rdb == nil || len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = config.CacheKey.ProgramKey(name)
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *ProgramService) cached(ctx context.Context, name string) *model.Program {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, config.CacheKey.ProgramKey(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("program", name).Msg("Cache read failed")
		}
		return nil
	}
	var p model.Program
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Warn().Err(err).Str("program", name).Msg("Corrupt cache entry")
		return nil
	}
	return &p
}

func (s *ProgramService) store(ctx context.Context, p *model.Program) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ProgramKey(p.Name), data, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("program", p.Name).Msg("Cache write failed")
	}
}
