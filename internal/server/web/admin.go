package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/models"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/session"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

const (
	MsgProjectAdded   = "Project added."
	MsgProjectFailed  = "Error saving project."
	MsgImageRequired  = "Project image is required."
	MsgProjectNoTitle = "Project title is required."
)

type adminPage struct {
	Quotes []models.Quote
}

// Admin отдаёт админку со списком заявок, новые первыми.
// Доступ проверяет middleware.RequireAdmin.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.Svc.Quotes.List(r.Context())
	if err != nil {
		h.Log.Error("list quotes failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, PageAdmin, adminPage{Quotes: quotes})
}

// CreateProject добавляет проект с обязательной картинкой projectImage.
//
// Без картинки запись не создаётся, админ получает flash
// "Project image is required.". Всегда редирект на /admin.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	const back = "/admin"

	cleanup, err := h.parseUploadForm(w, r)
	defer cleanup()
	if err != nil {
		if isTooLarge(err) {
			flash(r, session.FlashError, MsgImageTooLarge)
		} else {
			h.Log.Info("project form rejected", zap.Error(err))
			flash(r, session.FlashError, MsgProjectFailed)
		}
		h.redirect(w, r, back)
		return
	}

	img, closeImg, err := formUpload(r, "projectImage")
	if err != nil {
		h.Log.Info("project image rejected", zap.Error(err))
		flash(r, session.FlashError, MsgProjectFailed)
		h.redirect(w, r, back)
		return
	}
	defer closeImg()

	form := parseProjectForm(r)
	if img != nil {
		if err := validate.Struct(form); err != nil {
			flash(r, session.FlashError, validationMessages(err)...)
			h.redirect(w, r, back)
			return
		}
	}

	_, err = h.Svc.Projects.Create(r.Context(), service.ProjectInput{
		Title:       form.Title,
		Description: form.Description,
	}, img)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrImageRequired):
			flash(r, session.FlashError, MsgImageRequired)
		case errors.Is(err, serr.ErrInvalidInput):
			flash(r, session.FlashError, MsgProjectNoTitle)
		default:
			flash(r, session.FlashError, h.uploadErrorMessage(err, MsgProjectFailed))
		}
		h.redirect(w, r, back)
		return
	}

	flash(r, session.FlashSuccess, MsgProjectAdded)
	h.redirect(w, r, back)
}
