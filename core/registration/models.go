package registration

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

type ApplicationType string

// Application types
const (
	TypeStudentNursery   ApplicationType = "student_nursery"
	TypeStudentPrimary   ApplicationType = "student_primary"
	TypeStudentJSS       ApplicationType = "student_jss"
	TypeStudentSSS       ApplicationType = "student_sss"
	TypeStaffTeaching    ApplicationType = "staff_teaching"
	TypeStaffNonTeaching ApplicationType = "staff_non_teaching"
)

var AllApplicationTypes = []ApplicationType{
	TypeStudentNursery, TypeStudentPrimary, TypeStudentJSS, TypeStudentSSS, TypeStaffTeaching, TypeStaffNonTeaching,
}

func (t ApplicationType) Valid() bool {
	for _, at := range AllApplicationTypes {
		if t == at {
			return true
		}
	}
	return false
}

// Role is the role granted to the account created on approval.
func (t ApplicationType) Role() user.Role {
	switch t {
	case TypeStaffTeaching, TypeStaffNonTeaching:
		return user.RoleStaff
	case TypeStudentNursery, TypeStudentPrimary, TypeStudentJSS, TypeStudentSSS:
		return user.RoleStudent
	}
	return user.RoleStudent
}

// ClassLevel is the class level recorded on student accounts ("jss" for student_jss).
func (t ApplicationType) ClassLevel() string {
	if t.Role() != user.RoleStudent {
		return ""
	}
	return strings.TrimPrefix(string(t), "student_")
}

type Status string

// Application statuses
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID                  string          `json:"id" db:"id"`
	ApplicantName       string          `json:"applicantName" db:"applicant_name"`
	ApplicantEmail      *string         `json:"applicantEmail" db:"applicant_email"`
	ApplicantPhone      string          `json:"applicantPhone" db:"applicant_phone"`
	ApplicationType     ApplicationType `json:"applicationType" db:"application_type"`
	UploadedDocumentURL string          `json:"uploadedDocumentUrl" db:"uploaded_document_url"`
	Status              Status          `json:"status" db:"status"`
	ReviewedBy          *string         `json:"reviewedBy" db:"reviewed_by"`
	ReviewNotes         *string         `json:"reviewNotes" db:"review_notes"`
	GeneratedUserID     *string         `json:"generatedUserId" db:"generated_user_id"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	ReviewedAt          *time.Time      `json:"reviewedAt" db:"reviewed_at"`
}

// NewApplication holds the text fields of a submission; the document travels separately.
type NewApplication struct {
	ApplicantName   string          `json:"applicantName" form:"applicantName" validate:"required,fullname"`
	ApplicantEmail  string          `json:"applicantEmail" form:"applicantEmail" validate:"omitempty,email"`
	ApplicantPhone  string          `json:"applicantPhone" form:"applicantPhone" validate:"required,phone"`
	ApplicationType ApplicationType `json:"applicationType" form:"applicationType" validate:"required,apptype"`
}

func (na *NewApplication) Validate(validate *validator.Validate) error {
	na.ApplicantName = strings.Join(strings.Fields(na.ApplicantName), " ")
	na.ApplicantEmail = core.CleanString(na.ApplicantEmail, true /* lower */)
	na.ApplicantPhone = core.CleanString(na.ApplicantPhone)
	na.ApplicationType = ApplicationType(core.CleanString(string(na.ApplicationType), true))
	return validate.Struct(na)
}

// Review carries the reviewer's optional notes.
type Review struct {
	ReviewNotes string `json:"reviewNotes"`
}

type ApplicationFilter struct {
	Status Status `query:"status"`
}

// Credentials are the login details issued on approval.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Approval is the outcome of approving an Application.
type Approval struct {
	Application Application
	User        user.User
	Credentials Credentials
}

// SplitName breaks a full name into first, middle and surname.
// The first token is the first name, the last one the surname, anything in between is the middle name.
// ok is false when fewer than two tokens are present.
func SplitName(fullName string) (first, middle, surname string, ok bool) {
	parts := strings.Fields(fullName)
	if len(parts) < 2 {
		return "", "", "", false
	}
	return parts[0], strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1], true
}

type Form struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	FileURL     string    `json:"fileUrl" db:"file_url"`
	FormType    string    `json:"formType" db:"form_type"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	UploadedBy  *string   `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type NewForm struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description"`
	FormType    string `json:"formType" form:"formType" validate:"required,max=50"`
}

func (nf *NewForm) Validate(validate *validator.Validate) error {
	nf.Title = core.CleanString(nf.Title)
	nf.Description = core.CleanString(nf.Description)
	nf.FormType = core.CleanString(nf.FormType)
	return validate.Struct(nf)
}

// UpdateForm is a partial update; nil fields are left untouched.
type UpdateForm struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	FormType    *string `json:"formType" validate:"omitempty,min=1,max=50"`
	IsActive    *bool   `json:"isActive"`
}

func (uf *UpdateForm) Validate(validate *validator.Validate) error {
	if uf.Title != nil {
		*uf.Title = core.CleanString(*uf.Title)
	}
	if uf.FormType != nil {
		*uf.FormType = core.CleanString(*uf.FormType)
	}
	return validate.Struct(uf)
}
