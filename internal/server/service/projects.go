package service

import (
	"context"
	"strings"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// ProjectInput — поля формы проекта.
type ProjectInput struct {
	Title       string
	Description string
}

// ProjectService ведёт каталог проектов портфолио.
type ProjectService struct {
	projects ProjectsRepo
	files    FileStore
}

func NewProjectService(projects ProjectsRepo, files FileStore) *ProjectService {
	return &ProjectService{projects: projects, files: files}
}

// Create добавляет проект. Без картинки запись не создаётся: ErrImageRequired.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput, img *Upload) (models.Project, error) {
	if img == nil {
		return models.Project{}, serr.ErrImageRequired
	}

	p := models.Project{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	if p.Title == "" {
		return models.Project{}, serr.ErrInvalidInput
	}

	url, err := saveUpload(ctx, s.files, img)
	if err != nil {
		return models.Project{}, err
	}
	p.ImageURL = url

	created, err := s.projects.Create(ctx, p)
	if err != nil {
		_ = s.files.Remove(ctx, url)
		return models.Project{}, err
	}
	return created, nil
}

// List — проекты в порядке создания, для главной страницы.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.projects.List(ctx)
}
