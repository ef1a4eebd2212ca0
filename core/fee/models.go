package fee

import (
	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
)

// Structure is the fee due for a class level in a term. Amount is in naira.
type Structure struct {
	ID                string        `json:"id" db:"id"`
	ClassLevel        string        `json:"classLevel" db:"class_level"`
	Department        *string       `json:"department" db:"department"`
	Amount            int64         `json:"amount" db:"amount"`
	Description       *string       `json:"description" db:"description"`
	BankAccountNumber string        `json:"bankAccountNumber" db:"bank_account_number"`
	BankName          string        `json:"bankName" db:"bank_name"`
	AcademicYear      string        `json:"academicYear" db:"academic_year"`
	Term              academic.Term `json:"term" db:"term"`
}

type NewStructure struct {
	ClassLevel        string        `json:"classLevel" validate:"required,max=50"`
	Department        string        `json:"department"`
	Amount            int64         `json:"amount" validate:"required,gt=0"`
	Description       string        `json:"description"`
	BankAccountNumber string        `json:"bankAccountNumber" validate:"required,numeric,min=6,max=20"`
	BankName          string        `json:"bankName" validate:"required"`
	AcademicYear      string        `json:"academicYear" validate:"required,max=20"`
	Term              academic.Term `json:"term" validate:"required,term"`
}

func (ns *NewStructure) Validate(validate *validator.Validate) error {
	ns.ClassLevel = core.CleanString(ns.ClassLevel)
	ns.Department = core.CleanString(ns.Department)
	ns.Description = core.CleanString(ns.Description)
	ns.BankAccountNumber = core.CleanString(ns.BankAccountNumber)
	ns.BankName = core.CleanString(ns.BankName)
	ns.AcademicYear = core.CleanString(ns.AcademicYear)
	ns.Term = academic.Term(core.CleanString(string(ns.Term), true))
	return validate.Struct(ns)
}

type QueryFilter struct {
	ClassLevel string `query:"classLevel"`
}
