package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MinPasswordLen — минимальная длина пароля.
const MinPasswordLen = 8

// passwordLimiter — хэшер с ограничением длины пароля в байтах.
type passwordLimiter interface {
	MaxPasswordBytes() int
}

// AuthService реализует регистрацию и вход пользователей.
//
// Ответственность:
//   - регистрация (первый пользователь становится админом)
//   - аутентификация по email и паролю
//   - получение текущего пользователя для Session Gate
//   - явное создание админа из CLI
type AuthService struct {
	users  UsersRepo
	hasher crypto.PasswordHasher
}

// NewAuthService создаёт AuthService.
func NewAuthService(users UsersRepo, hasher crypto.PasswordHasher) *AuthService {
	return &AuthService{users: users, hasher: hasher}
}

// Register регистрирует нового пользователя.
//
// Валидация:
//   - имя обязательно
//   - email обязателен и должен быть валидным
//   - пароль обязателен и длиной >= 8 символов
//   - для bcrypt пароль не длиннее 72 байт
//
// Ошибки:
//   - ErrInvalidInput, ErrHashFailed, ErrAlreadyExists, ErrInternal
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	return s.create(ctx, name, email, password, false)
}

// CreateAdmin создаёт пользователя-админа независимо от того, есть ли уже пользователи.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (models.User, error) {
	return s.create(ctx, name, email, password, true)
}

func (s *AuthService) create(ctx context.Context, name, email, password string, forceAdmin bool) (models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || !emailRe.MatchString(email) || len(password) < MinPasswordLen {
		return models.User{}, serr.ErrInvalidInput
	}
	if l, ok := s.hasher.(passwordLimiter); ok && len(password) > l.MaxPasswordBytes() {
		return models.User{}, serr.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, serr.ErrHashFailed
	}
	return s.users.Create(ctx, name, email, hash, forceAdmin)
}

// Login проверяет email и пароль.
//
// Не раскрывает, существует ли email: и неизвестный email,
// и неверный пароль дают ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, serr.ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := crypto.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return models.User{}, serr.ErrInternal
	}
	if !ok {
		return models.User{}, serr.ErrInvalidCredentials
	}
	return u, nil
}

// CurrentUser возвращает пользователя сессии. Если его нет, ErrNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
