package repository

import (
	"context"
	"database/sql"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// QuotesRepository хранит заявки клиентов (PostgreSQL).
type QuotesRepository struct {
	db *sql.DB
}

// NewQuotesRepository создаёт новый экземпляр QuotesRepository.
func NewQuotesRepository(db *sql.DB) *QuotesRepository {
	return &QuotesRepository{db: db}
}

// Create сохраняет заявку и возвращает её с id и created_at из базы.
//
// Ошибки:
//   - ErrInternal — ошибка базы данных
func (r *QuotesRepository) Create(ctx context.Context, q models.Quote) (models.Quote, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO quotes (customer_name, email, service, details, reference_image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		q.CustomerName,
		q.Email,
		q.Service,
		q.Details,
		q.ReferenceImage,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return models.Quote{}, serr.ErrInternal
	}
	return q, nil
}

// List возвращает все заявки, новые первыми.
func (r *QuotesRepository) List(ctx context.Context) ([]models.Quote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_name, email, service, details, reference_image, created_at
		FROM quotes
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	out := make([]models.Quote, 0)
	for rows.Next() {
		var (
			q   models.Quote
			img sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.CustomerName, &q.Email, &q.Service, &q.Details, &img, &q.CreatedAt); err != nil {
			return nil, serr.ErrInternal
		}
		if img.Valid {
			s := img.String
			q.ReferenceImage = &s
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return out, nil
}
