package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alfurqan/portal/core/user"
)

func TestMenuFor(t *testing.T) {
	for _, role := range user.AllRoles {
		menu := MenuFor(role)
		assert.Equal(t, DefaultRoute, menu.DefaultRoute, role)
		if assert.NotEmpty(t, menu.Items, role) {
			assert.Equal(t, "/dashboard", menu.Items[0].Path, role)
		}
	}

	assert.Equal(t, MenuFor(user.RoleStudent), MenuFor("parent"))

	// callers may not alter the shared menus
	menu := MenuFor(user.RoleStaff)
	menu.Items[0].Title = "Changed"
	assert.Equal(t, "Dashboard", MenuFor(user.RoleStaff).Items[0].Title)
}
