package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

func newQuoteService(t *testing.T) (*service.QuoteService, *mocks.MockQuotesRepo, *mocks.MockFileStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	quotes := mocks.NewMockQuotesRepo(ctrl)
	files := mocks.NewMockFileStore(ctrl)
	return service.NewQuoteService(quotes, files), quotes, files
}

var quoteInput = service.QuoteInput{
	CustomerName: "Bob",
	Email:        "bob@mail.com",
	Service:      "Roofing",
	Details:      "two floors",
}

// Заявка без картинки всё равно создаётся, ReferenceImage = nil
func TestQuoteService_Create_NoImage(t *testing.T) {
	ctx := context.Background()
	svc, quotes, _ := newQuoteService(t)

	quotes.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, q models.Quote) (models.Quote, error) {
			require.Nil(t, q.ReferenceImage)
			require.Equal(t, "Bob", q.CustomerName)
			q.ID = uuid.New()
			return q, nil
		})

	got, err := svc.Create(ctx, quoteInput, nil)
	require.NoError(t, err)
	require.Nil(t, got.ReferenceImage)
	require.NotEqual(t, uuid.Nil, got.ID)
}

// С картинкой сохраняется её URL
func TestQuoteService_Create_WithImage(t *testing.T) {
	ctx := context.Background()
	svc, quotes, files := newQuoteService(t)

	files.EXPECT().
		Save(ctx, "ref.png", gomock.Any()).
		Return("/uploads/img-1-abcdef01.png", nil)
	quotes.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, q models.Quote) (models.Quote, error) {
			require.NotNil(t, q.ReferenceImage)
			require.Equal(t, "/uploads/img-1-abcdef01.png", *q.ReferenceImage)
			return q, nil
		})

	_, err := svc.Create(ctx, quoteInput, &service.Upload{Filename: "ref.png", Content: strings.NewReader("x")})
	require.NoError(t, err)
}

// Запись не сохранилась: файл удаляется
func TestQuoteService_Create_StoreDownRemovesFile(t *testing.T) {
	ctx := context.Background()
	svc, quotes, files := newQuoteService(t)

	files.EXPECT().Save(ctx, "ref.png", gomock.Any()).Return("/uploads/a.png", nil)
	quotes.EXPECT().Create(ctx, gomock.Any()).Return(models.Quote{}, serr.ErrInternal)
	files.EXPECT().Remove(ctx, "/uploads/a.png").Return(nil)

	_, err := svc.Create(ctx, quoteInput, &service.Upload{Filename: "ref.png", Content: strings.NewReader("x")})
	require.ErrorIs(t, err, serr.ErrInternal)
}

// Не картинка
func TestQuoteService_Create_UnsupportedMedia(t *testing.T) {
	ctx := context.Background()
	svc, _, files := newQuoteService(t)

	files.EXPECT().Save(ctx, "doc.pdf", gomock.Any()).Return("", serr.ErrUnsupportedMedia)

	_, err := svc.Create(ctx, quoteInput, &service.Upload{Filename: "doc.pdf", Content: strings.NewReader("%PDF")})
	require.ErrorIs(t, err, serr.ErrUnsupportedMedia)
}

// Ошибка диска превращается в ErrInternal
func TestQuoteService_Create_DiskError(t *testing.T) {
	ctx := context.Background()
	svc, _, files := newQuoteService(t)

	files.EXPECT().Save(ctx, gomock.Any(), gomock.Any()).Return("", errors.New("disk full"))

	_, err := svc.Create(ctx, quoteInput, &service.Upload{Filename: "a.png", Content: strings.NewReader("x")})
	require.ErrorIs(t, err, serr.ErrInternal)
}

// Без имени или email заявку не принимаем
func TestQuoteService_Create_InvalidInput(t *testing.T) {
	svc, _, _ := newQuoteService(t)

	_, err := svc.Create(context.Background(), service.QuoteInput{Email: "bob@mail.com"}, nil)
	require.ErrorIs(t, err, serr.ErrInvalidInput)

	_, err = svc.Create(context.Background(), service.QuoteInput{CustomerName: "Bob", Email: "  "}, nil)
	require.ErrorIs(t, err, serr.ErrInvalidInput)
}

func TestQuoteService_List(t *testing.T) {
	ctx := context.Background()
	svc, quotes, _ := newQuoteService(t)

	want := []models.Quote{{CustomerName: "New"}, {CustomerName: "Old"}}
	quotes.EXPECT().List(ctx).Return(want, nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
