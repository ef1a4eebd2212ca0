package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alfurqan/portal/core/user"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		in                      string
		first, middle, surname string
		ok                      bool
	}{
		{"Jane Doe", "Jane", "", "Doe", true},
		{"  Musa   Ibrahim  Bello ", "Musa", "Ibrahim", "Bello", true},
		{"Fatima Zahra Abdullahi Sani", "Fatima", "Zahra Abdullahi", "Sani", true},
		{"Jane", "", "", "", false},
		{"   ", "", "", "", false},
	}
	for _, tt := range tests {
		first, middle, surname, ok := SplitName(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.middle, middle, tt.in)
		assert.Equal(t, tt.surname, surname, tt.in)
	}
}

func TestApplicationType(t *testing.T) {
	tests := []struct {
		typ        ApplicationType
		role       user.Role
		classLevel string
	}{
		{TypeStudentNursery, user.RoleStudent, "nursery"},
		{TypeStudentPrimary, user.RoleStudent, "primary"},
		{TypeStudentJSS, user.RoleStudent, "jss"},
		{TypeStudentSSS, user.RoleStudent, "sss"},
		{TypeStaffTeaching, user.RoleStaff, ""},
		{TypeStaffNonTeaching, user.RoleStaff, ""},
	}
	for _, tt := range tests {
		assert.True(t, tt.typ.Valid(), tt.typ)
		assert.Equal(t, tt.role, tt.typ.Role(), tt.typ)
		assert.Equal(t, tt.classLevel, tt.typ.ClassLevel(), tt.typ)
	}
	assert.False(t, ApplicationType("student_university").Valid())
}
