package tests

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/config"
	crypt "github.com/IvanChernomyrdin/go-showcase/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// лёгкие параметры argon2, чтобы тесты были быстрыми
func testParams() crypt.Argon2Params {
	return crypt.Argon2Params{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	p := testParams()
	cfg.Password.Argon2 = config.Argon2Config{
		Time: p.Time, MemoryKiB: p.MemoryKiB, Threads: p.Threads, KeyLen: p.KeyLen, SaltLen: p.SaltLen,
	}
	cfg.Password.Bcrypt.Cost = 4
	return cfg
}

// создаём сервис
func newAuthService(t *testing.T) (*service.AuthService, *mocks.MockUsersRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepo(ctrl)

	return service.NewAuthService(users, crypt.Argon2Hasher{Params: testParams()}), users
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := crypt.HashPassword(password, testParams())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return h
}

// memUsers повторяет поведение UsersRepository в памяти:
// первый созданный пользователь становится админом.
type memUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (m *memUsers) Create(_ context.Context, name, email, hash string, forceAdmin bool) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return models.User{}, serr.ErrAlreadyExists
		}
	}
	u := models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      forceAdmin || len(m.users) == 0,
		CreatedAt:    time.Now(),
	}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, serr.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, serr.ErrNotFound
}
