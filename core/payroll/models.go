package payroll

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Record is a salary payment. Amount is in naira.
type Record struct {
	ID          string     `json:"id" db:"id"`
	StaffID     string     `json:"staffId" db:"staff_id"`
	Amount      int64      `json:"amount" db:"amount"`
	Month       string     `json:"month" db:"month"` // full month name
	Year        string     `json:"year" db:"year"`
	Status      Status     `json:"status" db:"status"`
	ProcessedBy *string    `json:"processedBy" db:"processed_by"`
	ProcessedAt *time.Time `json:"processedAt" db:"processed_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

type Process struct {
	StaffID string `json:"staffId" validate:"required,uuid"`
	Amount  int64  `json:"amount" validate:"required,gt=0"`
}

func (p *Process) Validate(validate *validator.Validate) error {
	p.StaffID = core.CleanString(p.StaffID)
	return validate.Struct(p)
}

type QueryFilter struct {
	StaffID string `query:"staffId"`
	Month   string `query:"month"`
	Year    string `query:"year"`
}
