package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

func newProjectService(t *testing.T) (*service.ProjectService, *mocks.MockProjectsRepo, *mocks.MockFileStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	projects := mocks.NewMockProjectsRepo(ctrl)
	files := mocks.NewMockFileStore(ctrl)
	return service.NewProjectService(projects, files), projects, files
}

// Без картинки проект не создаётся: ни файла, ни записи
func TestProjectService_Create_NoImage(t *testing.T) {
	svc, _, _ := newProjectService(t)

	_, err := svc.Create(context.Background(), service.ProjectInput{Title: "Kitchen"}, nil)
	require.ErrorIs(t, err, serr.ErrImageRequired)
}

func TestProjectService_Create_OK(t *testing.T) {
	ctx := context.Background()
	svc, projects, files := newProjectService(t)

	files.EXPECT().Save(ctx, "k.jpg", gomock.Any()).Return("/uploads/k.jpg", nil)
	projects.EXPECT().
		Create(ctx, models.Project{Title: "Kitchen", Description: "Oak", ImageURL: "/uploads/k.jpg"}).
		DoAndReturn(func(_ context.Context, p models.Project) (models.Project, error) { return p, nil })

	got, err := svc.Create(ctx, service.ProjectInput{Title: " Kitchen ", Description: "Oak"},
		&service.Upload{Filename: "k.jpg", Content: strings.NewReader("x")})
	require.NoError(t, err)
	require.Equal(t, "/uploads/k.jpg", got.ImageURL)
}

func TestProjectService_Create_NoTitle(t *testing.T) {
	svc, _, _ := newProjectService(t)

	_, err := svc.Create(context.Background(), service.ProjectInput{},
		&service.Upload{Filename: "k.jpg", Content: strings.NewReader("x")})
	require.ErrorIs(t, err, serr.ErrInvalidInput)
}

func TestProjectService_Create_StoreDownRemovesFile(t *testing.T) {
	ctx := context.Background()
	svc, projects, files := newProjectService(t)

	files.EXPECT().Save(ctx, "k.jpg", gomock.Any()).Return("/uploads/k.jpg", nil)
	projects.EXPECT().Create(ctx, gomock.Any()).Return(models.Project{}, serr.ErrInternal)
	files.EXPECT().Remove(ctx, "/uploads/k.jpg").Return(nil)

	_, err := svc.Create(ctx, service.ProjectInput{Title: "Kitchen"},
		&service.Upload{Filename: "k.jpg", Content: strings.NewReader("x")})
	require.ErrorIs(t, err, serr.ErrInternal)
}

func TestProjectService_Create_UnsupportedMedia(t *testing.T) {
	ctx := context.Background()
	svc, _, files := newProjectService(t)

	files.EXPECT().Save(ctx, "a.txt", gomock.Any()).Return("", serr.ErrUnsupportedMedia)

	_, err := svc.Create(ctx, service.ProjectInput{Title: "Kitchen"},
		&service.Upload{Filename: "a.txt", Content: strings.NewReader("hello")})
	require.ErrorIs(t, err, serr.ErrUnsupportedMedia)
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	svc, projects, _ := newProjectService(t)

	projects.EXPECT().List(ctx).Return([]models.Project{{Title: "A"}}, nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
