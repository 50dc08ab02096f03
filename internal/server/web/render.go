package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Страницы сайта. Каждая собирается вместе с layout.html.
const (
	PageIndex    = "index"
	PageLogin    = "login"
	PageRegister = "register"
	PageAdmin    = "admin"
)

// ViewData — то, что получает каждый шаблон.
//
// CurrentUser, SuccessMsgs и ErrorMsgs заполняются для любой страницы,
// Data — данные конкретной страницы.
type ViewData struct {
	CurrentUser *models.User
	SuccessMsgs []string
	ErrorMsgs   []string
	Data        any
}

// Renderer хранит разобранные шаблоны страниц.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer разбирает встроенные шаблоны. Ошибка здесь — ошибка сборки.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageLogin, PageRegister, PageAdmin} {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render выполняет страницу page в w.
func (r *Renderer) Render(w io.Writer, page string, data ViewData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// StaticFS — встроенные css и прочая статика, раздаётся по /static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
