// Package catalog loads a course catalog file and writes it to PostgreSQL.
package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/model"
	"github.com/uwplan/planner-backend/internal/repository"
	"github.com/uwplan/planner-backend/internal/term"
	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog layout.
type File struct {
	Courses        []CourseEntry         `yaml:"courses"`
	Communications []model.Communication `yaml:"communications"`
	Programs       []ProgramEntry        `yaml:"programs"`
}

type CourseEntry struct {
	CourseID      string         `yaml:"course_id"`
	Subject       string         `yaml:"subject"`
	Code          string         `yaml:"code"`
	Name          string         `yaml:"name"`
	Availability  []model.Season `yaml:"availability"`
	MinimumLevel  string         `yaml:"minimum_level"`
	Prerequisites [][]string     `yaml:"prerequisites"`
}

type ProgramEntry struct {
	Name           string              `yaml:"name"`
	Kind           model.ProgramKind   `yaml:"kind"`
	IsDoubleDegree bool                `yaml:"is_double_degree"`
	Requirements   *model.Requirements `yaml:"requirements"`
}

// Load decodes and checks a catalog file. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	seen := make(map[string]struct{}, len(f.Courses))
	for i, c := range f.Courses {
		id := c.id()
		if id == "" {
			return fmt.Errorf("course %d: course_id or subject and code required", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("course %q: duplicate", id)
		}
		seen[id] = struct{}{}

		for _, s := range c.Availability {
			if !s.Valid() {
				return fmt.Errorf("course %q: invalid season %q", id, s)
			}
		}
		if c.MinimumLevel != "" && !term.Valid(c.MinimumLevel) {
			return fmt.Errorf("course %q: invalid minimum_level %q", id, c.MinimumLevel)
		}
	}

	for _, c := range f.Communications {
		if c.CourseID == "" || c.ListNumber <= 0 {
			return fmt.Errorf("communication %q: course_id and positive list_number required", c.CourseID)
		}
	}

	names := make(map[string]struct{}, len(f.Programs))
	for _, p := range f.Programs {
		switch p.Kind {
		case model.ProgramKindMajor, model.ProgramKindMinor, model.ProgramKindSpecialization:
		default:
			return fmt.Errorf("program %q: invalid kind %q", p.Name, p.Kind)
		}
		key := string(p.Kind) + ":" + p.Name
		if p.Name == "" {
			return fmt.Errorf("program of kind %q: name required", p.Kind)
		}
		if _, dup := names[key]; dup {
			return fmt.Errorf("program %q: duplicate %s", p.Name, p.Kind)
		}
		names[key] = struct{}{}

		if p.Requirements == nil {
			continue
		}
		for _, opt := range p.Requirements.OptionalCourses {
			if opt.NOf < 1 || opt.NOf > len(opt.Courses) {
				return fmt.Errorf("program %q: n_of %d out of range for %d courses", p.Name, opt.NOf, len(opt.Courses))
			}
		}
	}
	return nil
}

func (c CourseEntry) id() string {
	return model.Course{CourseID: c.CourseID, Subject: c.Subject, Code: c.Code}.ID()
}

// CourseIDs lists the IDs of every course in the file.
func (f *File) CourseIDs() []string {
	ids := make([]string, len(f.Courses))
	for i, c := range f.Courses {
		ids[i] = c.id()
	}
	return ids
}

// ProgramNames lists the distinct program names in the file.
func (f *File) ProgramNames() []string {
	seen := make(map[string]struct{}, len(f.Programs))
	names := make([]string, 0, len(f.Programs))
	for _, p := range f.Programs {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return names
}

// Stats counts what Seed wrote.
type Stats struct {
	Courses        int
	Prerequisites  int
	Communications int
	Programs       int
}

// Seed upserts the whole catalog through db, usually a transaction.
func Seed(ctx context.Context, db repository.DBTX, f *File, log zerolog.Logger) (Stats, error) {
	var stats Stats
	courses := repository.NewCourseRepository(db)
	prereqs := repository.NewPrerequisiteRepository(db)
	comms := repository.NewCommunicationRepository(db)
	reqs := repository.NewRequirementRepository(db)
	programs := repository.NewProgramRepository(db)

	for _, c := range f.Courses {
		course := &model.Course{
			CourseID:     c.id(),
			Subject:      c.Subject,
			Code:         c.Code,
			Name:         c.Name,
			Availability: c.Availability,
		}
		if err := courses.Upsert(ctx, course); err != nil {
			return stats, fmt.Errorf("upsert course %q: %w", course.CourseID, err)
		}
		stats.Courses++

		p := &model.ParsedPrereqData{
			CourseID:     course.CourseID,
			MinimumLevel: c.MinimumLevel,
			Courses:      c.Prerequisites,
		}
		if err := prereqs.Upsert(ctx, p); err != nil {
			return stats, fmt.Errorf("upsert prerequisites of %q: %w", course.CourseID, err)
		}
		stats.Prerequisites++
	}

	for i := range f.Communications {
		if err := comms.Upsert(ctx, &f.Communications[i]); err != nil {
			return stats, fmt.Errorf("upsert communication %q: %w", f.Communications[i].CourseID, err)
		}
		stats.Communications++
	}

	for _, p := range f.Programs {
		program := &model.Program{Name: p.Name, Kind: p.Kind, IsDoubleDegree: p.IsDoubleDegree}
		if p.Requirements != nil {
			id, err := reqs.Insert(ctx, p.Requirements)
			if err != nil {
				return stats, fmt.Errorf("insert requirements of %q: %w", p.Name, err)
			}
			program.RequirementID = &id
		}
		if err := programs.Upsert(ctx, program); err != nil {
			return stats, fmt.Errorf("upsert program %q: %w", p.Name, err)
		}
		stats.Programs++
	}

	log.Info().
		Int("courses", stats.Courses).
		Int("prerequisites", stats.Prerequisites).
		Int("communications", stats.Communications).
		Int("programs", stats.Programs).
		Msg("Catalog seeded")
	return stats, nil
}
