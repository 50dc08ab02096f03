// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/session"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-showcase/internal/shared/logger"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userKey — ключ контекста, под которым хранится текущий пользователь.
const userKey ctxKey = "current_user"

// UserResolver достаёт пользователя по id из сессии.
type UserResolver interface {
	CurrentUser(ctx context.Context, id uuid.UUID) (models.User, error)
}

// CurrentUser возвращает пользователя текущего запроса.
//
// Возвращает:
//   - пользователя
//   - false, если запрос анонимный
func CurrentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// WithUser кладёт пользователя в контекст.
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// SessionGate загружает сессию и определяет, кто делает запрос.
//
// Middleware:
//   - загружает сессию по cookie (или заводит новую)
//   - по id из сессии читает пользователя из базы, флаг админа берётся оттуда же
//     и переписывается в сессию, если расходится
//   - если пользователя больше нет, забывает его в сессии
//   - сохраняет сессию перед первой записью ответа, если она изменилась
func SessionGate(m *session.Manager, users UserResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			s, err := m.Load(ctx, r)
			if err != nil {
				log.Warn("session load failed", zap.Error(err))
			}

			if id, ok := s.UserID(); ok {
				u, err := users.CurrentUser(ctx, id)
				switch {
				case err == nil:
					ctx = WithUser(ctx, u)
					// флаг в сессии подтягивается к базе
					if s.IsAdmin() != u.IsAdmin {
						s.SetUser(u.ID, u.IsAdmin)
					}
				case errors.Is(err, serr.ErrNotFound):
					s.ClearUser()
				default:
					log.Error("resolve session user failed", zap.Error(err))
				}
			}

			ctx = session.NewContext(ctx, s)
			sw := &sessionWriter{ResponseWriter: w, save: func() {
				if err := m.Save(ctx, w, s); err != nil {
					log.Error("session save failed", zap.Error(err))
				}
			}}
			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.flush()
		})
	}
}

// RequireAdmin пускает дальше только админа, остальных отправляет на /login.
// Это редирект, а не 401/403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r.Context())
		if !ok || !u.IsAdmin {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionWriter сохраняет сессию до того, как уйдут заголовки:
// cookie можно поставить только до WriteHeader.
type sessionWriter struct {
	http.ResponseWriter
	save  func()
	saved bool
}

func (w *sessionWriter) flush() {
	if w.saved {
		return
	}
	w.saved = true
	w.save()
}

func (w *sessionWriter) WriteHeader(status int) {
	w.flush()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
