// Package http реализует маршрутизацию HTTP-слоя сайта.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - подключение Session Gate и проверки админа;
//   - раздачу статики и загруженных картинок.
package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/web"
)

// NewRouter создаёт и настраивает HTTP-роутер сайта.
//
// Роутер использует chi.Router и регистрирует:
//   - /healthz, /static/*, /uploads/* без сессии;
//   - страницы и формы за Session Gate;
//   - группу /admin, доступную только админу.
func NewRouter(h *web.Handler) http.Handler {
	r := chi.NewRouter()
	// паника в хендлере не роняет сервер
	r.Use(chimw.Recoverer)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))

	r.Get("/healthz", h.Healthz)
	r.Handle("/static/*", http.StripPrefix("/static/", noDirListing(http.FileServerFS(web.StaticFS()))))
	prefix := strings.TrimRight(h.Uploads.URLPrefix, "/")
	r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", noDirListing(http.FileServer(http.Dir(h.Uploads.Dir)))))

	r.Group(func(r chi.Router) {
		// кто делает запрос: аноним, пользователь или админ
		r.Use(middleware.SessionGate(h.Sessions, h.Svc.Auth, h.Log))

		r.Get("/", h.Home)
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
		r.Get("/register", h.RegisterPage)
		r.Post("/register", h.Register)
		r.Get("/logout", h.Logout)
		r.Post("/quote", h.SubmitQuote)

		// только для админа, остальных на /login
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/admin", h.Admin)
			r.Post("/admin/project", h.CreateProject)
		})
	})

	return r
}

// noDirListing не отдаёт список файлов каталога.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
