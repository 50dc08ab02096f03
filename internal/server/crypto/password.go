// Хэширование паролей
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const argon2Prefix = "argon2id$"

type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

// PasswordHasher считает необратимый хэш пароля со случайной солью на каждый вызов.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Argon2Hasher — хэширование через argon2id.
type Argon2Hasher struct {
	Params Argon2Params
}

func (h Argon2Hasher) Hash(password string) (string, error) {
	return HashPassword(password, h.Params)
}

// BcryptMaxPasswordBytes — bcrypt не принимает пароли длиннее 72 байт.
const BcryptMaxPasswordBytes = 72

// BcryptHasher — хэширование через bcrypt.
type BcryptHasher struct {
	Cost int
}

// MaxPasswordBytes — предел длины пароля в байтах (не в символах).
func (h BcryptHasher) MaxPasswordBytes() int { return BcryptMaxPasswordBytes }

func (h BcryptHasher) Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// NewPasswordHasher выбирает хэшер по имени из конфига (argon2id|bcrypt).
func NewPasswordHasher(kind string, a Argon2Params, bcryptCost int) (PasswordHasher, error) {
	switch strings.ToLower(kind) {
	case "argon2id":
		return Argon2Hasher{Params: a}, nil
	case "bcrypt":
		return BcryptHasher{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", kind)
	}
}

// HashPassword возвращает строку формата:
// argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
func HashPassword(password string, p Argon2Params) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("empty password")
	}

	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf(
		"argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.MemoryKiB, p.Time, p.Threads,
		b64Salt, b64Hash,
	)
	return encoded, nil
}

// VerifyPassword сверяет пароль с сохранённым хэшем.
//
// Формат определяется по самому хэшу, поэтому смена password.hasher
// в конфиге не ломает вход уже зарегистрированным пользователям.
func VerifyPassword(password, encoded string) (bool, error) {
	if !strings.HasPrefix(encoded, argon2Prefix) {
		return verifyBcrypt(password, encoded)
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		return false, errors.New("invalid hash format")
	}

	// parts[0] = argon2id
	// parts[1] = v=19
	// parts[2] = m=...,t=...,p=...
	// parts[3] = salt
	// parts[4] = hash

	var memory uint32
	var time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, errors.New("invalid params format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, errors.New("invalid salt")
	}

	wantHash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errors.New("invalid hash")
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(wantHash)))
	return subtle.ConstantTimeCompare(got, wantHash) == 1, nil
}

func verifyBcrypt(password, encoded string) (bool, error) {
	// Compare обрезает пароль до 72 байт, длинный пароль совпасть не может
	if len(password) > BcryptMaxPasswordBytes {
		if _, err := bcrypt.Cost([]byte(encoded)); err != nil {
			return false, fmt.Errorf("invalid hash format: %w", err)
		}
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, fmt.Errorf("invalid hash format: %w", err)
	}
}
