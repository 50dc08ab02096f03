package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-showcase/internal/shared/utils"
)

// QuoteInput — поля формы заявки.
type QuoteInput struct {
	CustomerName string
	Email        string
	Service      string
	Details      string
}

// QuoteService принимает заявки клиентов и отдаёт их админке.
type QuoteService struct {
	quotes QuotesRepo
	files  FileStore
}

func NewQuoteService(quotes QuotesRepo, files FileStore) *QuoteService {
	return &QuoteService{quotes: quotes, files: files}
}

// Create сохраняет заявку. Картинка необязательна: без неё ReferenceImage = nil.
//
// Если картинку сохранили, а запись в базу не удалась, файл удаляется.
func (s *QuoteService) Create(ctx context.Context, in QuoteInput, img *Upload) (models.Quote, error) {
	q := models.Quote{
		CustomerName: strings.TrimSpace(in.CustomerName),
		Email:        normalizeEmail(in.Email),
		Service:      strings.TrimSpace(in.Service),
		Details:      strings.TrimSpace(in.Details),
	}
	if q.CustomerName == "" || q.Email == "" {
		return models.Quote{}, serr.ErrInvalidInput
	}

	if img != nil {
		url, err := saveUpload(ctx, s.files, img)
		if err != nil {
			return models.Quote{}, err
		}
		q.ReferenceImage = utils.NonEmptyPtr(url)
	}

	created, err := s.quotes.Create(ctx, q)
	if err != nil {
		if q.ReferenceImage != nil {
			_ = s.files.Remove(ctx, *q.ReferenceImage)
		}
		return models.Quote{}, err
	}
	return created, nil
}

// List — все заявки, новые первыми.
func (s *QuoteService) List(ctx context.Context) ([]models.Quote, error) {
	return s.quotes.List(ctx)
}

// saveUpload сохраняет файл, пропуская наверх только ошибки, понятные пользователю.
func saveUpload(ctx context.Context, files FileStore, img *Upload) (string, error) {
	url, err := files.Save(ctx, img.Filename, img.Content)
	if err != nil {
		if errors.Is(err, serr.ErrUnsupportedMedia) || errors.Is(err, serr.ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	return url, nil
}
