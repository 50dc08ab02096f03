package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// Options — параметры cookie и срока жизни сессии.
type Options struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
	Issuer     string
}

// Manager загружает и сохраняет сессии, ставит и стирает cookie.
type Manager struct {
	store Store
	opts  Options
	now   func() time.Time
}

// NewManager создаёт Manager поверх выбранного хранилища.
func NewManager(store Store, opts Options) *Manager {
	if opts.Issuer == "" {
		opts.Issuer = "showcase"
	}
	return &Manager{store: store, opts: opts, now: time.Now}
}

// CookieName возвращает имя cookie сессии.
func (m *Manager) CookieName() string { return m.opts.CookieName }

func (m *Manager) tokenConfig() crypto.SessionTokenConfig {
	return crypto.SessionTokenConfig{
		Issuer:     m.opts.Issuer,
		SigningKey: m.opts.Secret,
		TTL:        m.opts.TTL,
	}
}

// Load возвращает сессию запроса.
//
// Нет cookie, подпись не сошлась, сессия протухла или не разбирается:
// возвращается новая пустая сессия без ошибки. Ошибка только если
// хранилище недоступно, и тогда тоже вместе с пустой сессией.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return newSession(), nil
	}

	id, err := crypto.ParseSessionToken(c.Value, m.tokenConfig())
	if err != nil {
		return newSession(), nil
	}

	raw, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return newSession(), nil
		}
		return newSession(), fmt.Errorf("load session: %w", err)
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return newSession(), nil
	}
	return &Session{id: id, data: d}, nil
}

// Save сохраняет изменённую сессию и обновляет cookie.
// Неизменённая сессия не пишется никуда.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s == nil || !s.modified {
		return nil
	}

	// cookie стирается даже при ошибке хранилища
	if s.destroyed {
		http.SetCookie(w, m.cookie("", -1))
		s.modified = false
		if err := m.store.Delete(ctx, s.id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Save(ctx, s.id, raw, m.now().Add(m.opts.TTL)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	token, err := crypto.NewSessionToken(s.id, m.tokenConfig())
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, m.cookie(token, int(m.opts.TTL.Seconds())))
	s.modified = false
	return nil
}

// Renew выдаёт сессии новый id, старая запись удаляется.
// Вызывается при входе, чтобы id, выданный до логина, не стал id залогиненной сессии.
func (m *Manager) Renew(ctx context.Context, s *Session) error {
	if err := m.store.Delete(ctx, s.id); err != nil {
		return fmt.Errorf("renew session: %w", err)
	}
	s.id = uuid.NewString()
	s.destroyed = false
	s.modified = true
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
