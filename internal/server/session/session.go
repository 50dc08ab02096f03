// Package session реализует серверные сессии сайта.
//
// В cookie лежит только подписанный JWT с id сессии (jti). Сами данные
// (кто залогинен, флаг админа, flash-сообщения) хранятся на сервере:
// в таблице sessions или в Redis, в зависимости от session.store.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store — хранилище данных сессий.
//
// Get должен возвращать errors.ErrNotFound, если сессии нет или она просрочена.
type Store interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// Виды flash-сообщений.
const (
	FlashSuccess = "success_msg"
	FlashError   = "error_msg"
)

// Data — то, что сериализуется в хранилище.
//
// Пользователь хранится только как {id, isAdmin}; сама запись читается
// из базы на каждом запросе.
type Data struct {
	UserID  string              `json:"user_id,omitempty"`
	IsAdmin bool                `json:"is_admin,omitempty"`
	Flashes map[string][]string `json:"flashes,omitempty"`
}

// Session — сессия текущего запроса.
type Session struct {
	id        string
	data      Data
	modified  bool
	destroyed bool
}

func newSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID возвращает идентификатор сессии.
func (s *Session) ID() string { return s.id }

// Modified сообщает, нужно ли сохранять сессию в конце запроса.
func (s *Session) Modified() bool { return s.modified }

// Destroyed — сессия уничтожена (logout).
func (s *Session) Destroyed() bool { return s.destroyed }

// UserID возвращает id залогиненного пользователя.
func (s *Session) UserID() (uuid.UUID, bool) {
	if s.data.UserID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s.data.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// IsAdmin — флаг админа на момент входа.
func (s *Session) IsAdmin() bool { return s.data.IsAdmin }

// SetUser запоминает пользователя после успешного входа.
func (s *Session) SetUser(id uuid.UUID, isAdmin bool) {
	s.data.UserID = id.String()
	s.data.IsAdmin = isAdmin
	s.modified = true
}

// ClearUser забывает пользователя, flash-сообщения остаются.
func (s *Session) ClearUser() {
	if s.data.UserID == "" && !s.data.IsAdmin {
		return
	}
	s.data.UserID = ""
	s.data.IsAdmin = false
	s.modified = true
}

// AddFlash добавляет одноразовое сообщение вида kind.
func (s *Session) AddFlash(kind, msg string) {
	if s.data.Flashes == nil {
		s.data.Flashes = make(map[string][]string)
	}
	s.data.Flashes[kind] = append(s.data.Flashes[kind], msg)
	s.modified = true
}

// Flashes забирает сообщения вида kind: после вызова их в сессии нет.
func (s *Session) Flashes(kind string) []string {
	msgs, ok := s.data.Flashes[kind]
	if !ok {
		return nil
	}
	delete(s.data.Flashes, kind)
	s.modified = true
	return msgs
}

// Destroy помечает сессию на удаление. Удаление происходит в Manager.Save.
func (s *Session) Destroy() {
	s.data = Data{}
	s.destroyed = true
	s.modified = true
}

type ctxKey struct{}

// NewContext кладёт сессию в контекст запроса.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext достаёт сессию из контекста. nil, если Session Gate не отработал.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
