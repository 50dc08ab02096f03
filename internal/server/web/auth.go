// Хендлеры регистрации, входа и выхода
package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/session"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// Тексты flash-сообщений
const (
	MsgRegistered         = "Registered! Please login."
	MsgRegisterFailed     = "Error registering."
	MsgInvalidCredentials = "Invalid credentials"
	MsgTryAgain           = "Something went wrong. Please try again."
)

// LoginPage отдаёт форму входа.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, PageLogin, nil)
}

// RegisterPage отдаёт форму регистрации.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, PageRegister, nil)
}

// Register обрабатывает регистрацию пользователя.
//
// Ответы:
//   - успех: flash "Registered! Please login." и редирект на /login;
//   - любая ошибка: flash "Error registering." и редирект на /register.
//
// Причина ошибки пользователю не показывается, но пишется в лог.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form := parseRegisterForm(r)
	if err := validate.Struct(form); err != nil {
		h.Log.Info("register rejected", zap.Strings("reasons", validationMessages(err)))
		flash(r, session.FlashError, MsgRegisterFailed)
		h.redirect(w, r, "/register")
		return
	}

	u, err := h.Svc.Auth.Register(r.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrInvalidInput), errors.Is(err, serr.ErrAlreadyExists):
			h.Log.Info("register rejected", zap.Error(err))
		default:
			h.Log.Error("register failed", zap.Error(err))
		}
		flash(r, session.FlashError, MsgRegisterFailed)
		h.redirect(w, r, "/register")
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.String()), zap.Bool("is_admin", u.IsAdmin))
	flash(r, session.FlashSuccess, MsgRegistered)
	h.redirect(w, r, "/login")
}

// Login проверяет email и пароль и начинает сессию.
//
// Админ уходит на /admin, остальные на /. При неверных данных
// flash "Invalid credentials" и редирект на /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := parseLoginForm(r)
	if err := validate.Struct(form); err != nil {
		flash(r, session.FlashError, MsgInvalidCredentials)
		h.redirect(w, r, "/login")
		return
	}

	u, err := h.Svc.Auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, serr.ErrInvalidCredentials) {
			h.Log.Error("login failed", zap.Error(err))
		}
		flash(r, session.FlashError, MsgInvalidCredentials)
		h.redirect(w, r, "/login")
		return
	}

	s := session.FromContext(r.Context())
	if err := h.Sessions.Renew(r.Context(), s); err != nil {
		h.Log.Error("session renew failed", zap.Error(err))
		flash(r, session.FlashError, MsgTryAgain)
		h.redirect(w, r, "/login")
		return
	}
	s.SetUser(u.ID, u.IsAdmin)

	if u.IsAdmin {
		h.redirect(w, r, "/admin")
		return
	}
	h.redirect(w, r, "/")
}

// Logout уничтожает сессию в любом случае.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if s := session.FromContext(r.Context()); s != nil {
		s.Destroy()
	}
	h.redirect(w, r, "/login")
}
