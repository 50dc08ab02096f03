// Package web реализует HTML-слой сайта.
//
// Пакет отвечает за:
//   - разбор форм (urlencoded и multipart с картинками);
//   - вызов сервисного слоя;
//   - маппинг доменных ошибок во flash-сообщения и редиректы;
//   - рендер встроенных html/template страниц.
package web

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/session"
	"github.com/IvanChernomyrdin/go-showcase/internal/shared/logger"
)

// multipartMemory — сколько формы держим в памяти, остальное уходит во временные файлы.
const multipartMemory = 1 << 20

// formOverhead — запас на текстовые поля и заголовки multipart поверх размера картинки.
const formOverhead = 1 << 20

// Uploads — откуда раздаются загруженные картинки.
type Uploads struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

// Handler агрегирует зависимости HTML-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Sessions: загрузка и сохранение сессий;
//   - Views: шаблоны страниц;
//   - Uploads: настройки загрузки картинок.
type Handler struct {
	Svc      *service.Services
	Log      *logger.Logger
	Sessions *session.Manager
	Views    *Renderer
	Uploads  Uploads
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.Logger, sessions *session.Manager, views *Renderer, uploads Uploads) *Handler {
	return &Handler{
		Svc:      svc,
		Log:      log,
		Sessions: sessions,
		Views:    views,
		Uploads:  uploads,
	}
}

// render отдаёт страницу. Flash-сообщения забираются из сессии и показываются один раз.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	vd := ViewData{Data: data}
	if u, ok := middleware.CurrentUser(r.Context()); ok {
		vd.CurrentUser = &u
	}
	if s := session.FromContext(r.Context()); s != nil {
		vd.SuccessMsgs = s.Flashes(session.FlashSuccess)
		vd.ErrorMsgs = s.Flashes(session.FlashError)
	}

	var buf bytes.Buffer
	if err := h.Views.Render(&buf, page, vd); err != nil {
		h.Log.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}

func flash(r *http.Request, kind string, msgs ...string) {
	s := session.FromContext(r.Context())
	if s == nil {
		return
	}
	for _, m := range msgs {
		s.AddFlash(kind, m)
	}
}

// parseUploadForm ограничивает размер тела и разбирает multipart-форму.
// Обычная urlencoded форма тоже принимается.
//
// Вызывающий обязан вызвать cleanup: net/http удаляет временные файлы
// формы только у исходного запроса, а сюда приходит копия из WithContext.
func (h *Handler) parseUploadForm(w http.ResponseWriter, r *http.Request) (cleanup func(), err error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Uploads.MaxBytes+formOverhead)
	err = r.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return func() {}, err
	}
	return func() {
		if r.MultipartForm != nil {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				h.Log.Warn("remove multipart temp files failed", zap.Error(err))
			}
		}
	}, nil
}

// formUpload достаёт файл из поля field. nil, если файл не прислали.
// Вызывающий обязан закрыть файл через close.
func formUpload(r *http.Request, field string) (*service.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	if header.Filename == "" && header.Size == 0 {
		file.Close()
		return nil, func() {}, nil
	}
	return uploadFrom(file, header), func() { file.Close() }, nil
}

func uploadFrom(file multipart.File, header *multipart.FileHeader) *service.Upload {
	return &service.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	// multipart не везде оборачивает ошибку через %w
	return strings.Contains(err.Error(), "request body too large")
}
