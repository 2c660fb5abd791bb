package repository

import (
	"context"

	"github.com/uwplan/planner-backend/internal/model"
)

// RequirementRepository stores parsed requirement trees as JSONB.
type RequirementRepository struct {
	db DBTX
}

func NewRequirementRepository(db DBTX) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// GetByIDs loads the trees with the given IDs. Missing IDs are absent from the map.
func (r *RequirementRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Requirements, error) {
	out := make(map[int64]model.Requirements, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, courses FROM requirements WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  int64
			req model.Requirements
		)
		if err := rows.Scan(&id, &req); err != nil {
			return nil, err
		}
		out[id] = req
	}
	return out, rows.Err()
}

// Insert stores a new tree and returns its ID.
func (r *RequirementRepository) Insert(ctx context.Context, req *model.Requirements) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO requirements (courses) VALUES ($1) RETURNING id`, req,
	).Scan(&id)
	return id, err
}
