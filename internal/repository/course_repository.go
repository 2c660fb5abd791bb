package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/uwplan/planner-backend/internal/model"
)

// CourseRepository handles course catalog data access.
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetAll lists catalog courses ordered by ID, optionally restricted to one subject.
func (r *CourseRepository) GetAll(ctx context.Context, subject string) ([]model.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT course_id, subject, code, name, availability
		 FROM courses
		 WHERE $1 = '' OR subject = $1
		 ORDER BY subject ASC, code ASC`, subject,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var (
			c            model.Course
			availability []string
		)
		if err := rows.Scan(&c.CourseID, &c.Subject, &c.Code, &c.Name, &availability); err != nil {
			return nil, err
		}
		c.Availability = toSeasons(availability)
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// GetByID returns (nil, nil) when the course is not in the catalog.
func (r *CourseRepository) GetByID(ctx context.Context, courseID string) (*model.Course, error) {
	var (
		c            model.Course
		availability []string
	)
	err := r.db.QueryRow(ctx,
		`SELECT course_id, subject, code, name, availability FROM courses WHERE course_id = $1`, courseID,
	).Scan(&c.CourseID, &c.Subject, &c.Code, &c.Name, &availability)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Availability = toSeasons(availability)
	return &c, nil
}

// GetAllIDAndNames lists the ID and name of every course.
func (r *CourseRepository) GetAllIDAndNames(ctx context.Context) ([]model.CourseIDName, error) {
	rows, err := r.db.Query(ctx, `SELECT course_id, name FROM courses ORDER BY course_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.CourseIDName
	for rows.Next() {
		var c model.CourseIDName
		if err := rows.Scan(&c.CourseID, &c.Name); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Upsert inserts a course or refreshes its name and availability.
func (r *CourseRepository) Upsert(ctx context.Context, c *model.Course) error {
	availability := make([]string, len(c.Availability))
	for i, s := range c.Availability {
		availability[i] = string(s)
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO courses (course_id, subject, code, name, availability)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (course_id) DO UPDATE
		 SET subject = EXCLUDED.subject, code = EXCLUDED.code, name = EXCLUDED.name,
		     availability = EXCLUDED.availability, updated_at = NOW()`,
		c.ID(), c.Subject, c.Code, c.Name, availability,
	)
	return err
}

func toSeasons(raw []string) []model.Season {
	seasons := make([]model.Season, 0, len(raw))
	for _, s := range raw {
		seasons = append(seasons, model.Season(s))
	}
	return seasons
}
