package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckPassword(t *testing.T) {
	usr := User{Surname: "Doe"}
	tests := []struct {
		pwd  string
		want bool
	}{
		{"Doe", true},
		{"doe", true},
		{"DOE", true},
		{"Do", false},
		{"Doe ", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usr.CheckPassword(tt.pwd), tt.pwd)
	}

	assert.False(t, User{}.CheckPassword(""), "blank surname never matches")
}

func TestFullName(t *testing.T) {
	middle := "Ibrahim"
	empty := ""
	assert.Equal(t, "Musa Bello", User{FirstName: "Musa", Surname: "Bello"}.FullName())
	assert.Equal(t, "Musa Bello", User{FirstName: "Musa", MiddleName: &empty, Surname: "Bello"}.FullName())
	assert.Equal(t, "Musa Ibrahim Bello", User{FirstName: "Musa", MiddleName: &middle, Surname: "Bello"}.FullName())
}

func TestRoles(t *testing.T) {
	assert.Equal(t, "ADM", RoleSuperAdmin.UniqueIDPrefix())
	assert.Equal(t, "MGT", RoleManagement.UniqueIDPrefix())
	assert.Equal(t, "STF", RoleStaff.UniqueIDPrefix())
	assert.Equal(t, "STU", RoleStudent.UniqueIDPrefix())

	assert.True(t, User{Role: RoleManagement}.IsAdmin())
	assert.False(t, User{Role: RoleStaff}.IsAdmin())
	assert.True(t, RoleStudent.IsAnyOf(), "no roles means everyone")
	assert.False(t, Role("parent").Valid())
}

func TestGenerateUniqueID(t *testing.T) {
	defer func(f func() int) { RandomSuffixFunc = f }(RandomSuffixFunc)
	RandomSuffixFunc = func() int { return 42 }

	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "STU250042", GenerateUniqueID(RoleStudent, now))
	assert.Equal(t, "ADM250042", GenerateUniqueID(RoleSuperAdmin, now))

	RandomSuffixFunc = randomSuffix
	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^STF25\d{4}$`, GenerateUniqueID(RoleStaff, now))
	}
}
