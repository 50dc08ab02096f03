package tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-showcase/internal/server/crypto"
)

func defaultParams() crypt.Argon2Params {
	return crypt.Argon2Params{
		Time:      1,
		MemoryKiB: 32 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}
}

// Хэширование и успешная проверка
func TestHashAndVerifyPassword_OK(t *testing.T) {
	params := defaultParams()
	password := "super-secret-password"

	hash, err := crypt.HashPassword(password, params)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := crypt.VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}

	if !ok {
		t.Fatal("expected password to be valid")
	}
}

// Неверный пароль
func TestVerifyPassword_InvalidPassword(t *testing.T) {
	hash, err := crypt.HashPassword("correct-password", defaultParams())
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := crypt.VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}

	if ok {
		t.Fatal("expected password to be invalid")
	}
}

// Пустой пароль
func TestHashPassword_EmptyPassword(t *testing.T) {
	_, err := crypt.HashPassword("", defaultParams())
	if err == nil {
		t.Fatal("expected error for empty password")
	}
}

// Битый формат хэша
func TestVerifyPassword_InvalidFormat(t *testing.T) {
	_, err := crypt.VerifyPassword("password", "not-a-valid-hash")
	if err == nil {
		t.Fatal("expected error for invalid hash format")
	}

	_, err = crypt.VerifyPassword("password", "argon2id$v=19$broken")
	if err == nil {
		t.Fatal("expected error for truncated argon2 hash")
	}
}

// Проверка: соль разная (хэши разные)
func TestHashPassword_DifferentSalt(t *testing.T) {
	params := defaultParams()
	password := "same-password"

	h1, _ := crypt.HashPassword(password, params)
	h2, _ := crypt.HashPassword(password, params)

	if h1 == h2 {
		t.Fatal("expected different hashes for same password")
	}
}

// bcrypt хэшер и проверка
func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := crypt.BcryptHasher{Cost: 4}

	hash, err := h.Hash("bcrypt-password")
	require.NoError(t, err)
	require.NotContains(t, hash, "argon2id")

	ok, err := crypt.VerifyPassword("bcrypt-password", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = crypt.VerifyPassword("other", hash)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = h.Hash("   ")
	require.Error(t, err)
}

// bcrypt смотрит только на первые 72 байта: длинный пароль не проходит
func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	h := crypt.BcryptHasher{Cost: 4}
	require.Equal(t, 72, h.MaxPasswordBytes())

	// 36 символов, но 72 байта
	base := strings.Repeat("ж", 36)
	hash, err := h.Hash(base)
	require.NoError(t, err)

	ok, err := crypt.VerifyPassword(base+"x", hash)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = h.Hash(base + "x")
	require.Error(t, err)
}

// Выбор хэшера по конфигу
func TestNewPasswordHasher(t *testing.T) {
	h, err := crypt.NewPasswordHasher("argon2id", defaultParams(), 4)
	require.NoError(t, err)
	require.IsType(t, crypt.Argon2Hasher{}, h)

	h, err = crypt.NewPasswordHasher("BCRYPT", defaultParams(), 4)
	require.NoError(t, err)
	require.IsType(t, crypt.BcryptHasher{}, h)

	_, err = crypt.NewPasswordHasher("md5", defaultParams(), 4)
	require.Error(t, err)
}
