package showcase

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
)

type Alumni struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	GraduationYear string    `json:"graduationYear" db:"graduation_year"`
	ProfileImage   *string   `json:"profileImage" db:"profile_image"`
	Description    *string   `json:"description" db:"description"`
	Achievement    *string   `json:"achievement" db:"achievement"`
	Profession     *string   `json:"profession" db:"profession"`
	IsVisible      bool      `json:"isVisible" db:"is_visible"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// AlumniInput creates an Alumni, or patches one when used with UpdateAlumni (nil fields are left untouched).
type AlumniInput struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=200"`
	GraduationYear *string `json:"graduationYear" validate:"omitempty,min=4,max=10"`
	ProfileImage   *string `json:"profileImage" validate:"omitempty,max=500"`
	Description    *string `json:"description"`
	Achievement    *string `json:"achievement"`
	Profession     *string `json:"profession"`
	IsVisible      *bool   `json:"isVisible"`
}

// Validate checks the input; creating requires the name and the graduation year.
func (in *AlumniInput) Validate(validate *validator.Validate, creating bool) error {
	cleanPtrs(in.Name, in.GraduationYear, in.ProfileImage, in.Description, in.Achievement, in.Profession)
	if creating {
		var flds []core.FieldError
		if in.Name == nil || *in.Name == "" {
			flds = append(flds, core.FieldError{Field: "name", Error: "this field is required"})
		}
		if in.GraduationYear == nil || *in.GraduationYear == "" {
			flds = append(flds, core.FieldError{Field: "graduationYear", Error: "this field is required"})
		}
		if len(flds) > 0 {
			return core.NewValidationError(nil, flds...)
		}
	}
	return validate.Struct(in)
}

func (in AlumniInput) apply(a *Alumni) {
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.GraduationYear != nil {
		a.GraduationYear = *in.GraduationYear
	}
	if in.ProfileImage != nil {
		a.ProfileImage = core.NullString(*in.ProfileImage)
	}
	if in.Description != nil {
		a.Description = core.NullString(*in.Description)
	}
	if in.Achievement != nil {
		a.Achievement = core.NullString(*in.Achievement)
	}
	if in.Profession != nil {
		a.Profession = core.NullString(*in.Profession)
	}
	if in.IsVisible != nil {
		a.IsVisible = *in.IsVisible
	}
}

type FeaturedTeacher struct {
	ID                string    `json:"id" db:"id"`
	UserID            *string   `json:"userId" db:"user_id"`
	Name              string    `json:"name" db:"name"`
	Position          *string   `json:"position" db:"position"`
	Department        *string   `json:"department" db:"department"`
	Specialization    *string   `json:"specialization" db:"specialization"`
	Subject           *string   `json:"subject" db:"subject"`
	Qualification     *string   `json:"qualification" db:"qualification"`
	ProfileImage      *string   `json:"profileImage" db:"profile_image"`
	Description       *string   `json:"description" db:"description"`
	YearsOfExperience *int      `json:"yearsOfExperience" db:"years_of_experience"`
	IsVisible         bool      `json:"isVisible" db:"is_visible"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// TeacherInput creates a FeaturedTeacher, or patches one when used with UpdateTeacher.
type TeacherInput struct {
	UserID            *string `json:"userId" validate:"omitempty,uuid"`
	Name              *string `json:"name" validate:"omitempty,min=1,max=200"`
	Position          *string `json:"position"`
	Department        *string `json:"department"`
	Specialization    *string `json:"specialization"`
	Subject           *string `json:"subject"`
	Qualification     *string `json:"qualification"`
	ProfileImage      *string `json:"profileImage" validate:"omitempty,max=500"`
	Description       *string `json:"description"`
	YearsOfExperience *int    `json:"yearsOfExperience" validate:"omitempty,min=0,max=80"`
	IsVisible         *bool   `json:"isVisible"`
}

// Validate checks the input; creating requires the name.
func (in *TeacherInput) Validate(validate *validator.Validate, creating bool) error {
	cleanPtrs(in.UserID, in.Name, in.Position, in.Department, in.Specialization, in.Subject, in.Qualification,
		in.ProfileImage, in.Description)
	if creating && (in.Name == nil || *in.Name == "") {
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "this field is required"})
	}
	return validate.Struct(in)
}

func (in TeacherInput) apply(t *FeaturedTeacher) {
	if in.UserID != nil {
		t.UserID = core.NullString(*in.UserID)
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Position != nil {
		t.Position = core.NullString(*in.Position)
	}
	if in.Department != nil {
		t.Department = core.NullString(*in.Department)
	}
	if in.Specialization != nil {
		t.Specialization = core.NullString(*in.Specialization)
	}
	if in.Subject != nil {
		t.Subject = core.NullString(*in.Subject)
	}
	if in.Qualification != nil {
		t.Qualification = core.NullString(*in.Qualification)
	}
	if in.ProfileImage != nil {
		t.ProfileImage = core.NullString(*in.ProfileImage)
	}
	if in.Description != nil {
		t.Description = core.NullString(*in.Description)
	}
	if in.YearsOfExperience != nil {
		yrs := *in.YearsOfExperience
		t.YearsOfExperience = &yrs
	}
	if in.IsVisible != nil {
		t.IsVisible = *in.IsVisible
	}
}

func cleanPtrs(ptrs ...*string) {
	for _, p := range ptrs {
		if p != nil {
			*p = core.CleanString(*p)
		}
	}
}
