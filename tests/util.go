// Package testutil holds fixtures shared by the test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alfurqan/portal/core/user"
)

// CreateUser stores a User under a hand-picked unique ID.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	uniqueID, firstName, surname string,
	role user.Role,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr, err := repo.CreateUser(context.Background(), user.User{
		UniqueID:  uniqueID,
		FirstName: firstName,
		Surname:   surname,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
