package repository

import (
	"context"

	"github.com/uwplan/planner-backend/internal/model"
)

// PrerequisiteRepository reads parsed prerequisite records. Alternatives are
// stored as a JSONB array of arrays of course IDs.
type PrerequisiteRepository struct {
	db DBTX
}

// NewPrerequisiteRepository creates a new PrerequisiteRepository.
func NewPrerequisiteRepository(db DBTX) *PrerequisiteRepository {
	return &PrerequisiteRepository{db: db}
}

// GetParsedPrereqData loads the records of courseIDs in one query. Unknown
// courses are absent from the result.
func (r *PrerequisiteRepository) GetParsedPrereqData(ctx context.Context, courseIDs []string) (map[string]model.ParsedPrereqData, error) {
	out := make(map[string]model.ParsedPrereqData, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT course_id, minimum_level, courses
		 FROM prerequisites
		 WHERE course_id = ANY($1)`, courseIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.ParsedPrereqData
		if err := rows.Scan(&p.CourseID, &p.MinimumLevel, &p.Courses); err != nil {
			return nil, err
		}
		out[p.CourseID] = p
	}
	return out, rows.Err()
}

// GetAll loads every prerequisite record.
func (r *PrerequisiteRepository) GetAll(ctx context.Context) ([]model.ParsedPrereqData, error) {
	rows, err := r.db.Query(ctx, `SELECT course_id, minimum_level, courses FROM prerequisites ORDER BY course_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ParsedPrereqData
	for rows.Next() {
		var p model.ParsedPrereqData
		if err := rows.Scan(&p.CourseID, &p.MinimumLevel, &p.Courses); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

// Upsert inserts or replaces a course's prerequisite record.
func (r *PrerequisiteRepository) Upsert(ctx context.Context, p *model.ParsedPrereqData) error {
	courses := p.Courses
	if courses == nil {
		courses = [][]string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO prerequisites (course_id, minimum_level, courses)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (course_id) DO UPDATE
		 SET minimum_level = EXCLUDED.minimum_level, courses = EXCLUDED.courses`,
		p.CourseID, p.MinimumLevel, courses,
	)
	return err
}
