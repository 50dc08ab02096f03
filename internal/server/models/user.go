// Серверные модели сайта: пользователь, заявка, проект портфолио.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — зарегистрированный пользователь.
//
// IsAdmin проставляется один раз при создании и больше не меняется.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
