// Package storage сохраняет загруженные картинки на локальный диск.
//
// Файлы лежат в uploads.dir и отдаются статикой по uploads.url_prefix.
// В записи (Quote, Project) сохраняется только URL вида /uploads/<имя>.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// sniffLen — сколько байт читаем для определения типа.
const sniffLen = 3072

// Options — настройки локального хранилища.
type Options struct {
	Dir          string
	URLPrefix    string
	MaxBytes     int64
	AllowedTypes []string
}

// LocalStore пишет файлы в каталог на диске.
type LocalStore struct {
	opts Options
	now  func() time.Time
}

// NewLocalStore создаёт каталог загрузок, если его нет.
func NewLocalStore(opts Options) (*LocalStore, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	opts.URLPrefix = "/" + strings.Trim(opts.URLPrefix, "/")
	return &LocalStore{opts: opts, now: time.Now}, nil
}

// Dir — каталог, из которого раздаются файлы.
func (s *LocalStore) Dir() string { return s.opts.Dir }

// URLPrefix — префикс, по которому раздаются файлы.
func (s *LocalStore) URLPrefix() string { return s.opts.URLPrefix }

// Save сохраняет картинку и возвращает её URL.
//
// Тип определяется по содержимому, а не по имени файла. Если тип не
// из списка разрешённых, возвращается ErrUnsupportedMedia; если файл
// больше MaxBytes, то ErrFileTooLarge и на диске ничего не остаётся.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", serr.ErrUnsupportedMedia
	}

	detected := mimetype.Detect(head)
	if !mimetype.EqualsAny(detected.String(), s.opts.AllowedTypes...) {
		return "", serr.ErrUnsupportedMedia
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := s.fileName(originalName, detected)
	full := filepath.Join(s.opts.Dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(f, io.LimitReader(body, s.opts.MaxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	case closeErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("close upload file: %w", closeErr)
	case written > s.opts.MaxBytes:
		_ = os.Remove(full)
		return "", serr.ErrFileTooLarge
	}

	return path.Join(s.opts.URLPrefix, name), nil
}

// Remove удаляет файл по URL, который вернул Save.
// Если файла уже нет, ошибки нет.
func (s *LocalStore) Remove(_ context.Context, url string) error {
	name := path.Base(strings.TrimPrefix(url, s.opts.URLPrefix+"/"))
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.opts.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

// fileName строит имя img-<unix ms>-<8 hex><ext>.
//
// Расширение берётся из исходного имени, только если оно соответствует
// реальному типу содержимого; иначе берётся расширение найденного типа.
func (s *LocalStore) fileName(originalName string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || !extMatches(ext, detected) {
		ext = detected.Extension()
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("img-%d-%s%s", s.now().UnixMilli(), suffix, ext)
}

func extMatches(ext string, detected *mimetype.MIME) bool {
	byExt := mime.TypeByExtension(ext)
	if byExt == "" {
		return false
	}
	return detected.Is(byExt)
}
