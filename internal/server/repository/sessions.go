package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// SessionsRepository хранит серверные сессии в таблице sessions.
//
// Данные сессии лежат как есть (JSON), репозиторий их не разбирает.
// Используется как session.Store при session.store=db.
type SessionsRepository struct {
	db *sql.DB
}

// NewSessionsRepository создает новый SessionsRepository.
func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Get возвращает данные живой сессии.
//
// Ошибки:
//   - ErrNotFound если сессии нет, она просрочена или id не uuid
//   - ErrInternal при ошибке БД
func (r *SessionsRepository) Get(ctx context.Context, id string) ([]byte, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, serr.ErrNotFound
	}

	var data []byte
	err = r.db.QueryRowContext(ctx,
		`SELECT data
		   FROM sessions
		  WHERE id = $1
		    AND expires_at > now()`,
		sid,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serr.ErrNotFound
		}
		return nil, serr.ErrInternal
	}
	return data, nil
}

// Save создаёт или перезаписывает сессию.
func (r *SessionsRepository) Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	sid, err := uuid.Parse(id)
	if err != nil {
		return serr.ErrInvalidInput
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		    SET data = EXCLUDED.data,
		        expires_at = EXCLUDED.expires_at,
		        updated_at = now()`,
		sid, data, expiresAt,
	)
	if err != nil {
		return serr.ErrInternal
	}
	return nil
}

// Delete удаляет сессию. Отсутствие сессии ошибкой не считается.
func (r *SessionsRepository) Delete(ctx context.Context, id string) error {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, sid); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// DeleteExpired удаляет все просроченные сессии и возвращает их количество.
// Вызывается фоновым janitor-ом сервера.
func (r *SessionsRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return n, nil
}
