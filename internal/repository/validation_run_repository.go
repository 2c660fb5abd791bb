package repository

import (
	"context"

	"github.com/uwplan/planner-backend/internal/model"
)

// ValidationRunRepository persists validation audit records.
type ValidationRunRepository struct {
	db DBTX
}

func NewValidationRunRepository(db DBTX) *ValidationRunRepository {
	return &ValidationRunRepository{db: db}
}

// Insert stores a run. Re-delivered runs with the same ID are ignored.
func (r *ValidationRunRepository) Insert(ctx context.Context, run *model.ValidationRun) error {
	findings := run.DegreeFindings
	if findings == nil {
		findings = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO validation_runs
		   (id, degree, sequence, course_count, failed_course_count, degree_findings, overall_result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		run.ID, run.Degree, run.Sequence, run.CourseCount, run.FailedCourseCount,
		findings, run.OverallResult, run.CreatedAt,
	)
	return err
}

// CountByDegree returns how many runs were recorded for a degree.
func (r *ValidationRunRepository) CountByDegree(ctx context.Context, degree string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM validation_runs WHERE degree = $1`, degree).Scan(&n)
	return n, err
}
