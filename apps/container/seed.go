package container

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core/setting"
	"github.com/alfurqan/portal/core/user"
)

var (
	seedUsers = []user.User{
		{UniqueID: "ADM24001", FirstName: "School", Surname: "Administrator", Role: user.RoleSuperAdmin, IsActive: true},
		{UniqueID: "MGT24001", FirstName: "School", Surname: "Manager", Role: user.RoleManagement, IsActive: true},
		{UniqueID: "STF24001", FirstName: "Demo", Surname: "Teacher", Role: user.RoleStaff, IsActive: true},
		{UniqueID: "STU24001", FirstName: "Demo", Surname: "Student", Role: user.RoleStudent, IsActive: true},
	}

	seedSettings = []setting.Pair{
		{Key: setting.KeySchoolName, Value: "Al-Furqan Group of Schools"},
		{Key: setting.KeySchoolAddress, Value: "Airforce Road, GbaGba, Ilorin, Kwara State, Nigeria"},
		{Key: setting.KeySchoolPhone, Value: "+234 803 123 4567"},
		{Key: setting.KeySchoolEmail, Value: "info@alfurqan.edu.ng"},
		{Key: setting.KeySchoolMotto, Value: "Knowledge, Virtue, Excellence"},
		{Key: setting.KeyResultsReleased, Value: "false"},
	}
)

// Seed creates the default accounts and school settings. Running it again resets them.
func Seed(ctx context.Context, svcs *Services) error {
	for _, usr := range seedUsers {
		if _, err := svcs.User.Upsert(ctx, usr); err != nil {
			return errors.Wrapf(err, "seeding user %s", usr.UniqueID)
		}
	}
	if _, err := svcs.Setting.Upsert(ctx, seedSettings...); err != nil {
		return errors.Wrap(err, "seeding settings")
	}
	return nil
}
