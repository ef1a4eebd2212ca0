// Package navigation maps each role to the dashboard menu it is offered.
package navigation

import "github.com/alfurqan/portal/core/user"

const DefaultRoute = "/dashboard"

type MenuItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

type Menu struct {
	DefaultRoute string     `json:"defaultRoute"`
	Items        []MenuItem `json:"items"`
}

var (
	dashboard = MenuItem{"Dashboard", "/dashboard"}
	notices   = MenuItem{"Notices", "/dashboard/notices"}

	menus = map[user.Role][]MenuItem{
		user.RoleSuperAdmin: {
			dashboard,
			{"Registration Forms", "/dashboard/forms"},
			{"Applications", "/dashboard/applications"},
			{"User Management", "/dashboard/users"},
			notices,
			{"Alumni", "/dashboard/alumni"},
			{"Teachers", "/dashboard/teachers-manage"},
			{"Settings", "/dashboard/settings"},
		},
		user.RoleManagement: {
			dashboard,
			{"Payroll", "/dashboard/payroll"},
			notices,
			{"Fee Management", "/dashboard/fees"},
			{"Staff List", "/dashboard/staff"},
			{"Results Control", "/dashboard/results-control"},
		},
		user.RoleStaff: {
			dashboard,
			{"Timetable", "/dashboard/timetable"},
			{"My Subjects", "/dashboard/subjects"},
			{"Enter Results", "/dashboard/results"},
			{"Bank Details", "/dashboard/bank"},
			notices,
		},
		user.RoleStudent: {
			dashboard,
			notices,
			{"My Results", "/dashboard/results"},
			{"Fee Payment Info", "/dashboard/fees"},
		},
	}
)

// MenuFor returns the menu of role. Unknown roles get the student menu.
func MenuFor(role user.Role) Menu {
	items, ok := menus[role]
	if !ok {
		items = menus[user.RoleStudent]
	}
	out := make([]MenuItem, len(items))
	copy(out, items)
	return Menu{DefaultRoute: DefaultRoute, Items: out}
}
