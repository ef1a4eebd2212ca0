package user

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
)

type Role string

// Roles
const (
	RoleSuperAdmin Role = "super_admin"
	RoleManagement Role = "management"
	RoleStaff      Role = "staff"
	RoleStudent    Role = "student"
)

var (
	AllRoles   = []Role{RoleSuperAdmin, RoleManagement, RoleStaff, RoleStudent}
	AdminRoles = []Role{RoleSuperAdmin, RoleManagement}
)

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleManagement, RoleStaff, RoleStudent:
		return true
	}
	return false
}

// UniqueIDPrefix is the 3-letter prefix of the login IDs issued for the role.
func (r Role) UniqueIDPrefix() string {
	switch r {
	case RoleSuperAdmin:
		return "ADM"
	case RoleManagement:
		return "MGT"
	case RoleStaff:
		return "STF"
	default:
		return "STU"
	}
}

// IsAnyOf reports whether r is one of roles. No roles means everyone.
func (r Role) IsAnyOf(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID                string    `json:"id" db:"id"`
	UniqueID          string    `json:"uniqueId" db:"unique_id"`
	Surname           string    `json:"surname" db:"surname"`
	FirstName         string    `json:"firstName" db:"first_name"`
	MiddleName        *string   `json:"middleName" db:"middle_name"`
	Role              Role      `json:"role" db:"role"`
	Email             *string   `json:"email" db:"email"`
	Phone             *string   `json:"phone" db:"phone"`
	Address           *string   `json:"address" db:"address"`
	ProfileImage      *string   `json:"profileImage" db:"profile_image"`
	ClassLevel        *string   `json:"classLevel" db:"class_level"`
	Department        *string   `json:"department" db:"department"`
	BankAccountNumber *string   `json:"bankAccountNumber" db:"bank_account_number"`
	BankName          *string   `json:"bankName" db:"bank_name"`
	IsActive          bool      `json:"isActive" db:"is_active"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"` // UTC
}

// CheckPassword compares pwd against the surname, ignoring case.
func (u User) CheckPassword(pwd string) bool {
	want := []byte(strings.ToLower(u.Surname))
	got := []byte(strings.ToLower(pwd))
	return len(want) > 0 && subtle.ConstantTimeCompare(want, got) == 1
}

func (u User) FullName() string {
	parts := []string{u.FirstName}
	if u.MiddleName != nil && *u.MiddleName != "" {
		parts = append(parts, *u.MiddleName)
	}
	parts = append(parts, u.Surname)
	return strings.Join(parts, " ")
}

func (u User) HasRole(roles ...Role) bool { return u.Role.IsAnyOf(roles...) }

func (u User) IsAdmin() bool { return u.HasRole(AdminRoles...) }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Surname    string `json:"surname" validate:"required"`
	FirstName  string `json:"firstName" validate:"required"`
	MiddleName string `json:"middleName"`
	Role       Role   `json:"role" validate:"required,role"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	Address    string `json:"address"`
	ClassLevel string `json:"classLevel"`
	Department string `json:"department"`
	IsActive   *bool  `json:"isActive"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Surname = core.CleanString(nu.Surname)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.MiddleName = core.CleanString(nu.MiddleName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)
	return validate.Struct(nu)
}

// UpdateBankDetails holds the payout account of a staff member.
type UpdateBankDetails struct {
	BankAccountNumber string `json:"bankAccountNumber" validate:"required,numeric,min=6,max=20"`
	BankName          string `json:"bankName" validate:"required"`
}

func (ub *UpdateBankDetails) Validate(validate *validator.Validate) error {
	ub.BankAccountNumber = core.CleanString(ub.BankAccountNumber)
	ub.BankName = core.CleanString(ub.BankName)
	return validate.Struct(ub)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Roles    []Role `query:"role"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
