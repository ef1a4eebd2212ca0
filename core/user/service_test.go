package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/core/user"
	inmemdb "github.com/alfurqan/portal/storage/database/inmem"
)

func newService() *user.Service {
	return user.NewService(inmemdb.NewUserRepository(inmemdb.Open()))
}

func TestCreateRetriesTakenUniqueID(t *testing.T) {
	defer func(f func() int) { user.RandomSuffixFunc = f }(user.RandomSuffixFunc)
	ctx := context.Background()
	svc := newService()

	suffixes := []int{1234, 1234, 1234, 5678}
	var calls int
	user.RandomSuffixFunc = func() int {
		s := suffixes[calls]
		calls++
		return s
	}

	first, err := svc.Create(ctx, user.NewUser{FirstName: "Jane", Surname: "Doe", Role: user.RoleStudent})
	require.NoError(t, err)
	second, err := svc.Create(ctx, user.NewUser{FirstName: "John", Surname: "Doe", Role: user.RoleStudent})
	require.NoError(t, err)

	assert.Equal(t, 4, calls)
	assert.Regexp(t, `^STU\d{2}1234$`, first.UniqueID)
	assert.Regexp(t, `^STU\d{2}5678$`, second.UniqueID)
}

func TestCreateGivesUp(t *testing.T) {
	defer func(f func() int) { user.RandomSuffixFunc = f }(user.RandomSuffixFunc)
	ctx := context.Background()
	svc := newService()
	user.RandomSuffixFunc = func() int { return 7 }

	_, err := svc.Create(ctx, user.NewUser{FirstName: "Jane", Surname: "Doe", Role: user.RoleStaff})
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.NewUser{FirstName: "John", Surname: "Doe", Role: user.RoleStaff})
	assert.Equal(t, user.ErrUniqueIDExhausted, err)

	// other roles do not share the prefix
	_, err = svc.Create(ctx, user.NewUser{FirstName: "John", Surname: "Doe", Role: user.RoleStudent})
	assert.NoError(t, err)
}

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	inactive := false

	usr, err := svc.Create(ctx, user.NewUser{FirstName: "Jane", Surname: "Doe", Role: user.RoleStudent, Email: "jane@example.com"})
	require.NoError(t, err)
	assert.True(t, usr.IsActive)
	assert.NotEmpty(t, usr.ID)
	require.NotNil(t, usr.Email)
	assert.Nil(t, usr.Phone)

	usr, err = svc.Create(ctx, user.NewUser{FirstName: "John", Surname: "Doe", Role: user.RoleStudent, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, usr.IsActive)
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Upsert(ctx, user.User{UniqueID: "ADM24001", FirstName: "School", Surname: "Administrator", Role: user.RoleSuperAdmin, IsActive: true})
	require.NoError(t, err)
	updated, err := svc.Upsert(ctx, user.User{UniqueID: "ADM24001", FirstName: "Head", Surname: "Administrator", Role: user.RoleSuperAdmin, IsActive: true})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Head", updated.FirstName)

	got, err := svc.GetByUniqueID(ctx, " adm24001 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	for _, nu := range []user.NewUser{
		{FirstName: "Jane", Surname: "Doe", Role: user.RoleStudent},
		{FirstName: "Amina", Surname: "Yusuf", Role: user.RoleStaff},
		{FirstName: "Tunde", Surname: "Doe", Role: user.RoleStaff},
	} {
		_, err := svc.Create(ctx, nu)
		require.NoError(t, err)
	}

	staff, err := svc.ListByRole(ctx, user.RoleStaff)
	require.NoError(t, err)
	assert.Len(t, staff, 2)

	does, err := svc.Query(ctx, user.QueryFilter{Search: " doe "})
	require.NoError(t, err)
	assert.Len(t, does, 2)

	does, err = svc.Query(ctx, user.QueryFilter{Search: "doe", Roles: []user.Role{user.RoleStaff}})
	require.NoError(t, err)
	require.Len(t, does, 1)
	assert.Equal(t, "Tunde", does[0].FirstName)
}
