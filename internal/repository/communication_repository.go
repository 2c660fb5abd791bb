package repository

import (
	"context"

	"github.com/uwplan/planner-backend/internal/model"
)

type CommunicationRepository struct {
	db DBTX
}

func NewCommunicationRepository(db DBTX) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

// GetAll lists communication courses ordered by list number then course ID.
func (r *CommunicationRepository) GetAll(ctx context.Context) ([]model.Communication, error) {
	rows, err := r.db.Query(ctx,
		`SELECT course_id, list_number, name FROM communications ORDER BY list_number ASC, course_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comms := []model.Communication{}
	for rows.Next() {
		var c model.Communication
		if err := rows.Scan(&c.CourseID, &c.ListNumber, &c.Name); err != nil {
			return nil, err
		}
		comms = append(comms, c)
	}
	return comms, rows.Err()
}

func (r *CommunicationRepository) Upsert(ctx context.Context, c *model.Communication) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO communications (course_id, list_number, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (course_id) DO UPDATE SET list_number = EXCLUDED.list_number, name = EXCLUDED.name`,
		c.CourseID, c.ListNumber, c.Name,
	)
	return err
}
