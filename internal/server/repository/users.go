// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// firstUserLockKey — ключ advisory-lock, под которым решается, кто первый пользователь.
const firstUserLockKey int64 = 0x73686f77 // "show"

const userColumns = `id, name, email, password_hash, is_admin, created_at`

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет нового пользователя.
//
// Пользователь становится админом, если forceAdmin=true или если в таблице
// ещё нет ни одной записи. Проверка и вставка идут в одной транзакции под
// pg_advisory_xact_lock, так что две одновременные первые регистрации
// не могут обе получить is_admin.
//
// Ошибки:
//   - ErrAlreadyExists — email уже занят
//   - ErrInternal — ошибка базы данных
func (r *UsersRepository) Create(ctx context.Context, name, email, passwordHash string, forceAdmin bool) (models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, serr.ErrInternal
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, firstUserLockKey); err != nil {
		return models.User{}, serr.ErrInternal
	}

	var u models.User
	err = tx.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, is_admin)
		 SELECT $1, $2, $3, $4 OR NOT EXISTS (SELECT 1 FROM users)
		 RETURNING `+userColumns,
		name, email, passwordHash, forceAdmin,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return models.User{}, serr.ErrAlreadyExists
		}
		return models.User{}, serr.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, serr.ErrInternal
	}
	return u, nil
}

// GetByEmail ищет пользователя по email без учёта регистра.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// GetByID ищет пользователя по id. Используется Session Gate на каждом запросе.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepository) getOne(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}
	return u, nil
}
