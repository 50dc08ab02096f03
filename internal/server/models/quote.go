package models

import (
	"time"

	"github.com/google/uuid"
)

// Quote — заявка клиента на расчёт стоимости.
//
// ReferenceImage — относительный URL загруженной картинки, nil если картинки нет.
type Quote struct {
	ID             uuid.UUID
	CustomerName   string
	Email          string
	Service        string
	Details        string
	ReferenceImage *string
	CreatedAt      time.Time
}
