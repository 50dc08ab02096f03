// Package service содержит бизнес-логику сайта.
// Это прослойка между HTTP-обработчиками (web) и хранилищем данных (repository).
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/config"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users    UsersRepo
	Quotes   QuotesRepo
	Projects ProjectsRepo
	Health   HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth     *AuthService
	Quotes   *QuoteService
	Projects *ProjectService
	Health   HealthRepo
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (какой хэшер паролей и с какими параметрами).
func NewServices(repos Repositories, files FileStore, cfg *config.Config) (*Services, error) {
	a := cfg.Password.Argon2
	hasher, err := crypto.NewPasswordHasher(cfg.Password.Hasher, crypto.Argon2Params{
		Time:      a.Time,
		MemoryKiB: a.MemoryKiB,
		Threads:   a.Threads,
		KeyLen:    a.KeyLen,
		SaltLen:   a.SaltLen,
	}, cfg.Password.Bcrypt.Cost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	return &Services{
		Auth:     NewAuthService(repos.Users, hasher),
		Quotes:   NewQuoteService(repos.Quotes, files),
		Projects: NewProjectService(repos.Projects, files),
		Health:   repos.Health,
	}, nil
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей (регистрация, вход, Session Gate).
type UsersRepo interface {
	Create(ctx context.Context, name, email, passwordHash string, forceAdmin bool) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// QuotesRepo — репозиторий заявок.
type QuotesRepo interface {
	Create(ctx context.Context, q models.Quote) (models.Quote, error)
	List(ctx context.Context) ([]models.Quote, error)
}

// ProjectsRepo — репозиторий проектов портфолио.
type ProjectsRepo interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
}

// FileStore — куда складываются загруженные картинки.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// Upload — загруженный файл из multipart-формы.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}
