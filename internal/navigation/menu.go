// Package navigation holds the role-filtered application menu.
package navigation

import "github.com/noah-isme/institute-erp-api/internal/models"

// Section groups menu items.
type Section string

const (
	SectionMain  Section = "main"
	SectionAdmin Section = "admin"
)

// Item is one sidebar entry.
type Item struct {
	Label        string        `json:"label"`
	Path         string        `json:"path"`
	Icon         string        `json:"icon"`
	Section      Section       `json:"section"`
	AllowedRoles []models.Role `json:"allowed_roles"`
}

var (
	allStaff  = []models.Role{models.RoleAdmin, models.RoleBranchManager, models.RoleTrainer, models.RoleAccounts, models.RoleReception}
	adminOnly = []models.Role{models.RoleAdmin}
)

// Menu is the full application menu in display order.
var Menu = []Item{
	{Label: "Dashboard", Path: "/dashboard", Icon: "layout-dashboard", Section: SectionMain, AllowedRoles: allStaff},
	{Label: "Students", Path: "/students", Icon: "users", Section: SectionMain, AllowedRoles: []models.Role{models.RoleAdmin, models.RoleBranchManager, models.RoleReception}},
	{Label: "Courses", Path: "/courses", Icon: "book-open", Section: SectionMain, AllowedRoles: []models.Role{models.RoleAdmin, models.RoleBranchManager}},
	{Label: "Batches", Path: "/batches", Icon: "calendar", Section: SectionMain, AllowedRoles: []models.Role{models.RoleAdmin, models.RoleBranchManager, models.RoleTrainer}},
	{Label: "Enrollments", Path: "/enrollments", Icon: "clipboard-list", Section: SectionMain, AllowedRoles: []models.Role{models.RoleAdmin, models.RoleBranchManager, models.RoleReception}},
	{Label: "Attendance", Path: "/attendance", Icon: "user-check", Section: SectionMain, AllowedRoles: []models.Role{models.RoleAdmin, models.RoleBranchManager, models.RoleTrainer}},
	{Label: "Receipts", Path: "/receipts", Icon: "receipt", Section: SectionMain, AllowedRoles: []models.Role{models.RoleAdmin, models.RoleBranchManager, models.RoleAccounts, models.RoleReception}},
	{Label: "Certificates", Path: "/certificates", Icon: "award", Section: SectionMain, AllowedRoles: []models.Role{models.RoleAdmin, models.RoleBranchManager}},
	{Label: "Reports", Path: "/reports", Icon: "bar-chart-3", Section: SectionMain, AllowedRoles: []models.Role{models.RoleAdmin, models.RoleBranchManager}},
	{Label: "Staff", Path: "/staff", Icon: "user-cog", Section: SectionAdmin, AllowedRoles: adminOnly},
	{Label: "Branches", Path: "/branches", Icon: "building-2", Section: SectionAdmin, AllowedRoles: adminOnly},
	{Label: "Settings", Path: "/settings", Icon: "settings", Section: SectionAdmin, AllowedRoles: adminOnly},
}

// Visible filters items for a user holding roles. A user without any role sees
// every item when emptyRolesFullMenu is set; otherwise an item is visible when
// the user holds at least one of its allowed roles.
func Visible(items []Item, roles []models.Role, emptyRolesFullMenu bool) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if len(roles) == 0 {
			if emptyRolesFullMenu {
				out = append(out, item)
			}
			continue
		}
		if intersects(item.AllowedRoles, roles) {
			out = append(out, item)
		}
	}
	return out
}

func intersects(allowed, held []models.Role) bool {
	for _, a := range allowed {
		for _, h := range held {
			if a == h {
				return true
			}
		}
	}
	return false
}
