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
	MsgQuoteSent        = "Quote sent! We will contact you."
	MsgQuoteFailed      = "Error sending quote. Please try again."
	MsgOnlyImages       = "Only image files can be attached."
	MsgImageTooLarge    = "Image is too large."
	MsgProjectsNotShown = "Projects are temporarily unavailable."
)

type homePage struct {
	Projects []models.Project
}

// Home отдаёт главную страницу со списком проектов.
// Если проекты не загрузились, страница всё равно отдаётся, без них.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Svc.Projects.List(r.Context())
	if err != nil {
		h.Log.Error("list projects failed", zap.Error(err))
		flash(r, session.FlashError, MsgProjectsNotShown)
		projects = nil
	}
	h.render(w, r, http.StatusOK, PageIndex, homePage{Projects: projects})
}

// SubmitQuote принимает заявку с необязательной картинкой quoteImage.
//
// Всегда заканчивается редиректом на /#quote: с flash об успехе
// или с описанием, что не так с формой.
func (h *Handler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	const back = "/#quote"

	cleanup, err := h.parseUploadForm(w, r)
	defer cleanup()
	if err != nil {
		if isTooLarge(err) {
			flash(r, session.FlashError, MsgImageTooLarge)
		} else {
			h.Log.Info("quote form rejected", zap.Error(err))
			flash(r, session.FlashError, MsgQuoteFailed)
		}
		h.redirect(w, r, back)
		return
	}

	form := parseQuoteForm(r)
	if err := validate.Struct(form); err != nil {
		flash(r, session.FlashError, validationMessages(err)...)
		h.redirect(w, r, back)
		return
	}

	img, closeImg, err := formUpload(r, "quoteImage")
	if err != nil {
		h.Log.Info("quote image rejected", zap.Error(err))
		flash(r, session.FlashError, MsgQuoteFailed)
		h.redirect(w, r, back)
		return
	}
	defer closeImg()

	_, err = h.Svc.Quotes.Create(r.Context(), service.QuoteInput{
		CustomerName: form.CustomerName,
		Email:        form.Email,
		Service:      form.Service,
		Details:      form.Details,
	}, img)
	if err != nil {
		flash(r, session.FlashError, h.uploadErrorMessage(err, MsgQuoteFailed))
		h.redirect(w, r, back)
		return
	}

	flash(r, session.FlashSuccess, MsgQuoteSent)
	h.redirect(w, r, back)
}

// uploadErrorMessage выбирает текст для ошибок создания записи с картинкой.
func (h *Handler) uploadErrorMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, serr.ErrUnsupportedMedia):
		return MsgOnlyImages
	case errors.Is(err, serr.ErrFileTooLarge):
		return MsgImageTooLarge
	case errors.Is(err, serr.ErrInvalidInput):
		return fallback
	default:
		h.Log.Error("save record failed", zap.Error(err))
		return fallback
	}
}
