package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/uwplan/planner-backend/internal/model"
)

type ProgramRepository interface {
	GetByName(ctx context.Context, kind model.ProgramKind, name string) (*model.Program, error)
	GetAllNames(ctx context.Context, kind model.ProgramKind) ([]string, error)
	Upsert(ctx context.Context, program *model.Program) error
}

type programRepository struct {
	db DBTX
}

func NewProgramRepository(db DBTX) ProgramRepository {
	return &programRepository{db: db}
}

var programTables = map[model.ProgramKind]string{
	model.ProgramKindMajor:          "majors",
	model.ProgramKindMinor:          "minors",
	model.ProgramKindSpecialization: "specializations",
}

func programTable(kind model.ProgramKind) (string, error) {
	table, ok := programTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown program kind %q", kind)
	}
	return table, nil
}

// GetByName returns (nil, nil) when no program of that kind has the name.
func (r *programRepository) GetByName(ctx context.Context, kind model.ProgramKind, name string) (*model.Program, error) {
	table, err := programTable(kind)
	if err != nil {
		return nil, err
	}

	var query string
	if kind == model.ProgramKindMajor {
		query = `SELECT name, is_double_degree, requirement_id FROM majors WHERE name = $1`
	} else {
		query = `SELECT name, FALSE, requirement_id FROM ` + table + ` WHERE name = $1`
	}

	p := &model.Program{Kind: kind}
	err = r.db.QueryRow(ctx, query, name).Scan(&p.Name, &p.IsDoubleDegree, &p.RequirementID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *programRepository) GetAllNames(ctx context.Context, kind model.ProgramKind) ([]string, error) {
	table, err := programTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT name FROM `+table+` ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *programRepository) Upsert(ctx context.Context, p *model.Program) error {
	table, err := programTable(p.Kind)
	if err != nil {
		return err
	}

	if p.Kind == model.ProgramKindMajor {
		_, err = r.db.Exec(ctx,
			`INSERT INTO majors (name, is_double_degree, requirement_id)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO UPDATE
			 SET is_double_degree = EXCLUDED.is_double_degree, requirement_id = EXCLUDED.requirement_id`,
			p.Name, p.IsDoubleDegree, p.RequirementID,
		)
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO `+table+` (name, requirement_id)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET requirement_id = EXCLUDED.requirement_id`,
		p.Name, p.RequirementID,
	)
	return err
}
