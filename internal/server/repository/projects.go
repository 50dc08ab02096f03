package repository

import (
	"context"
	"database/sql"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// ProjectsRepository хранит проекты портфолио.
type ProjectsRepository struct {
	db *sql.DB
}

func NewProjectsRepository(db *sql.DB) *ProjectsRepository {
	return &ProjectsRepository{db: db}
}

func (r *ProjectsRepository) Create(ctx context.Context, p models.Project) (models.Project, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO projects (title, description, image_url)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.Title, p.Description, p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return models.Project{}, serr.ErrInternal
	}
	return p, nil
}

// List возвращает проекты в порядке создания.
func (r *ProjectsRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, image_url, created_at
		   FROM projects
		  ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	out := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, serr.ErrInternal
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return out, nil
}
