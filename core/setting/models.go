package setting

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
)

// Well-known keys
const (
	KeyResultsReleased = "results_released"
	KeySchoolName      = "school_name"
	KeySchoolAddress   = "school_address"
	KeySchoolPhone     = "school_phone"
	KeySchoolEmail     = "school_email"
	KeySchoolMotto     = "school_motto"
)

type Setting struct {
	ID          string    `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Description *string   `json:"description" db:"description"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type Pair struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value" validate:"max=2000"`
}

type Update struct {
	Settings []Pair `json:"settings" validate:"required,min=1,dive"`
}

func (u *Update) Validate(validate *validator.Validate) error {
	for i := range u.Settings {
		u.Settings[i].Key = core.CleanString(u.Settings[i].Key)
	}
	return validate.Struct(u)
}
