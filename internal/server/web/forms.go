package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type registerForm struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type quoteForm struct {
	CustomerName string `validate:"required,max=200"`
	Email        string `validate:"required,max=254"`
	Service      string `validate:"max=200"`
	Details      string `validate:"max=5000"`
}

type projectForm struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=5000"`
}

func parseRegisterForm(r *http.Request) registerForm {
	return registerForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

func parseQuoteForm(r *http.Request) quoteForm {
	return quoteForm{
		CustomerName: strings.TrimSpace(r.PostFormValue("customerName")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		Service:      strings.TrimSpace(r.PostFormValue("service")),
		Details:      strings.TrimSpace(r.PostFormValue("details")),
	}
}

func parseProjectForm(r *http.Request) projectForm {
	return projectForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
}

// validationMessages превращает ошибки validator в человекочитаемые строки.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid form."}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldLabel(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required.")
		case "email":
			msgs = append(msgs, field+" is not a valid email.")
		case "min":
			msgs = append(msgs, field+" must be at least "+fe.Param()+" characters.")
		case "max":
			msgs = append(msgs, field+" is too long.")
		default:
			msgs = append(msgs, field+" is invalid.")
		}
	}
	return msgs
}

func fieldLabel(field string) string {
	switch field {
	case "CustomerName":
		return "Name"
	default:
		return field
	}
}
