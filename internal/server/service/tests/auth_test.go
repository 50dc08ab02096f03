package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	crypt "github.com/IvanChernomyrdin/go-showcase/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// Первый зарегистрированный — админ, второй — нет
func TestAuthService_Register_FirstUserIsAdmin(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAuthService(&memUsers{}, crypt.Argon2Hasher{Params: testParams()})

	first, err := svc.Register(ctx, "Ann", "ann@mail.com", "password1")
	require.NoError(t, err)
	require.True(t, first.IsAdmin)

	second, err := svc.Register(ctx, "Bob", "bob@mail.com", "password2")
	require.NoError(t, err)
	require.False(t, second.IsAdmin)
}

// Пароль хэшируется, email нормализуется, в репозиторий уходит forceAdmin=false
func TestAuthService_Register_OK(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().
		Create(ctx, "Ann", "ann@mail.com", gomock.Any(), false).
		DoAndReturn(func(_ context.Context, name, email, hash string, _ bool) (models.User, error) {
			require.NotEqual(t, "password1", hash)
			ok, err := crypt.VerifyPassword("password1", hash)
			require.NoError(t, err)
			require.True(t, ok)
			return models.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash}, nil
		})

	u, err := svc.Register(ctx, "  Ann ", " ANN@mail.com ", "password1")
	require.NoError(t, err)
	require.Equal(t, "ann@mail.com", u.Email)
}

// Невалидные данные: до репозитория не доходим
func TestAuthService_Register_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	cases := []struct {
		name, email, password string
	}{
		{"", "ann@mail.com", "password1"},
		{"Ann", "not-an-email", "password1"},
		{"Ann", "ann@mail.com", "short"},
	}
	for _, c := range cases {
		_, err := svc.Register(ctx, c.name, c.email, c.password)
		require.ErrorIs(t, err, serr.ErrInvalidInput)
	}
}

// bcrypt: лимит в байтах, а не в символах; argon2 таких паролей не боится
func TestAuthService_Register_BcryptPasswordTooLong(t *testing.T) {
	ctx := context.Background()
	// 40 символов, 80 байт
	password := strings.Repeat("ж", 40)

	ctrl := gomock.NewController(t)
	svc := service.NewAuthService(mocks.NewMockUsersRepo(ctrl), crypt.BcryptHasher{Cost: 4})
	_, err := svc.Register(ctx, "Ann", "ann@mail.com", password)
	require.ErrorIs(t, err, serr.ErrInvalidInput)

	svc = service.NewAuthService(&memUsers{}, crypt.Argon2Hasher{Params: testParams()})
	_, err = svc.Register(ctx, "Ann", "ann@mail.com", password)
	require.NoError(t, err)
}

// email уже занят
func TestAuthService_Register_AlreadyExists(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().
		Create(ctx, "Ann", "ann@mail.com", gomock.Any(), false).
		Return(models.User{}, serr.ErrAlreadyExists)

	_, err := svc.Register(ctx, "Ann", "ann@mail.com", "password1")
	require.ErrorIs(t, err, serr.ErrAlreadyExists)
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("boom") }

// ошибка хэширования отличается от ошибки хранилища
func TestAuthService_Register_HashFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := service.NewAuthService(mocks.NewMockUsersRepo(ctrl), failingHasher{})

	_, err := svc.Register(context.Background(), "Ann", "ann@mail.com", "password1")
	require.ErrorIs(t, err, serr.ErrHashFailed)
}

// Хранилище недоступно
func TestAuthService_Register_StoreDown(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.User{}, serr.ErrInternal)

	_, err := svc.Register(ctx, "Ann", "ann@mail.com", "password1")
	require.ErrorIs(t, err, serr.ErrInternal)
}

// CLI: админ создаётся явно
func TestAuthService_CreateAdmin(t *testing.T) {
	ctx := context.Background()
	repo := &memUsers{}
	svc := service.NewAuthService(repo, crypt.Argon2Hasher{Params: testParams()})

	_, err := svc.Register(ctx, "First", "first@mail.com", "password1")
	require.NoError(t, err)

	adm, err := svc.CreateAdmin(ctx, "Root", "root@mail.com", "password2")
	require.NoError(t, err)
	require.True(t, adm.IsAdmin)
}

// Успех
func TestAuthService_Login_OK(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	userID := uuid.New()
	password := "strongpassword"

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: userID, Email: "test@mail.com", PasswordHash: mustHash(t, password), IsAdmin: true}, nil)

	u, err := svc.Login(ctx, " Test@mail.com", password)

	require.NoError(t, err)
	require.Equal(t, userID, u.ID)
	require.True(t, u.IsAdmin)
}

// Вход по bcrypt-хэшу работает так же
func TestAuthService_Login_BcryptHash(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	hash, err := crypt.BcryptHasher{Cost: 4}.Hash("strongpassword")
	require.NoError(t, err)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: uuid.New(), PasswordHash: hash}, nil)

	_, err = svc.Login(ctx, "test@mail.com", "strongpassword")
	require.NoError(t, err)
}

// Неверный пароль: и у админа, и у обычного пользователя
func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()

	for _, isAdmin := range []bool{true, false} {
		svc, users := newAuthService(t)

		users.EXPECT().
			GetByEmail(ctx, "test@mail.com").
			Return(models.User{ID: uuid.New(), PasswordHash: mustHash(t, "correct-password"), IsAdmin: isAdmin}, nil)

		_, err := svc.Login(ctx, "test@mail.com", "wrong-password")
		require.ErrorIs(t, err, serr.ErrInvalidCredentials)
	}
}

// Неизвестный email не отличается от неверного пароля
func TestAuthService_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().
		GetByEmail(ctx, "nobody@mail.com").
		Return(models.User{}, serr.ErrNotFound)

	_, err := svc.Login(ctx, "nobody@mail.com", "whatever1")
	require.ErrorIs(t, err, serr.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	require.ErrorIs(t, err, serr.ErrInvalidCredentials)
}

// Ошибка сервера при поиске пользователя
func TestAuthService_Login_StoreDown(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{}, serr.ErrInternal)

	_, err := svc.Login(ctx, "test@mail.com", "whatever1")
	require.ErrorIs(t, err, serr.ErrInternal)
}

// битый хэш в базе
func TestAuthService_Login_CorruptedHash(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{PasswordHash: "argon2id$broken"}, nil)

	_, err := svc.Login(ctx, "test@mail.com", "whatever1")
	require.ErrorIs(t, err, serr.ErrInternal)
}

func TestAuthService_CurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)
	id := uuid.New()

	users.EXPECT().GetByID(ctx, id).Return(models.User{ID: id, Name: "Ann"}, nil)

	u, err := svc.CurrentUser(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Ann", u.Name)
}

func TestNewServices(t *testing.T) {
	ctrl := gomock.NewController(t)
	repos := service.Repositories{
		Users:    mocks.NewMockUsersRepo(ctrl),
		Quotes:   mocks.NewMockQuotesRepo(ctrl),
		Projects: mocks.NewMockProjectsRepo(ctrl),
		Health:   mocks.NewMockHealthRepo(ctrl),
	}

	svc, err := service.NewServices(repos, mocks.NewMockFileStore(ctrl), testConfig())
	require.NoError(t, err)
	require.NotNil(t, svc.Auth)
	require.NotNil(t, svc.Quotes)
	require.NotNil(t, svc.Projects)
	require.NotNil(t, svc.Health)

	cfg := testConfig()
	cfg.Password.Hasher = "md5"
	_, err = service.NewServices(repos, mocks.NewMockFileStore(ctrl), cfg)
	require.Error(t, err)
}
