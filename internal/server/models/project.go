package models

import (
	"time"

	"github.com/google/uuid"
)

// Project — работа из портфолио, показывается на главной странице.
type Project struct {
	ID          uuid.UUID
	Title       string
	Description string
	ImageURL    string
	CreatedAt   time.Time
}
