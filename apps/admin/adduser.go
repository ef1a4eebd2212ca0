package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfurqan/portal/apps/container"
	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

// addUser creates a user.User, or updates the one holding uniqueID, and prints the login details.
func (cli *commandLine) addUser(uniqueID, role, firstName, middleName, surname, email string) error {
	ctx := context.Background()
	nu := user.NewUser{
		Role:       user.Role(role),
		FirstName:  firstName,
		MiddleName: middleName,
		Surname:    surname,
		Email:      email,
	}
	validate, _ := container.NewValidator()
	if err := nu.Validate(validate); err != nil {
		return err
	}

	var (
		usr user.User
		err error
	)
	if uniqueID = strings.ToUpper(core.CleanString(uniqueID)); uniqueID == "" {
		usr, err = cli.svcs.User.Create(ctx, nu)
	} else {
		usr, err = cli.svcs.User.Upsert(ctx, user.User{
			UniqueID:   uniqueID,
			FirstName:  nu.FirstName,
			MiddleName: core.NullString(nu.MiddleName),
			Surname:    nu.Surname,
			Role:       nu.Role,
			Email:      core.NullString(nu.Email),
			IsActive:   true,
		})
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Saved %s %s\n  User ID:  %s\n  Password: %s\n", usr.Role, usr.FullName(), usr.UniqueID, usr.Surname)
	return nil
}

func (cli *commandLine) setActive(uniqueID string, active bool) error {
	usr, err := cli.svcs.User.SetActive(context.Background(), uniqueID, active)
	if err != nil {
		return err
	}
	state := "deactivated"
	if usr.IsActive {
		state = "activated"
	}
	fmt.Fprintf(cli.out, "%s %s\n", usr.UniqueID, state)
	return nil
}

func (cli *commandLine) seed() error {
	if err := container.Seed(context.Background(), cli.svcs); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Seeded default accounts and settings")
	return nil
}
