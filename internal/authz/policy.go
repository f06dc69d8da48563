// Package authz centralises which roles may perform which action on which resource.
package authz

import "github.com/noah-isme/institute-erp-api/internal/models"

// Action is an operation on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource names a protected collection.
type Resource string

const (
	ResourceDashboard    Resource = "dashboard"
	ResourceProfile      Resource = "profile"
	ResourceStudents     Resource = "students"
	ResourceCourses      Resource = "courses"
	ResourceBatches      Resource = "batches"
	ResourceEnrollments  Resource = "enrollments"
	ResourceAttendance   Resource = "attendance"
	ResourceReceipts     Resource = "receipts"
	ResourceCertificates Resource = "certificates"
	ResourceReports      Resource = "reports"
	ResourceStaff        Resource = "staff"
	ResourceBranches     Resource = "branches"
	ResourceSettings     Resource = "settings"
)

type rule map[Action][]models.Role

var (
	admin      = models.RoleAdmin
	manager    = models.RoleBranchManager
	trainer    = models.RoleTrainer
	accounts   = models.RoleAccounts
	reception  = models.RoleReception
	management = []models.Role{admin, manager}
)

// policy mirrors the menu: a role that can open a screen may read it, and
// writes are narrowed where the screen is shared with front-desk roles.
var policy = map[Resource]rule{
	ResourceStudents: {
		ActionRead:   {admin, manager, reception, accounts, trainer},
		ActionCreate: {admin, manager, reception},
		ActionUpdate: {admin, manager, reception},
		ActionDelete: management,
	},
	ResourceCourses: {
		ActionRead:   {admin, manager, reception, trainer},
		ActionCreate: management,
		ActionUpdate: management,
		ActionDelete: management,
	},
	ResourceBatches: {
		ActionRead:   {admin, manager, trainer, reception},
		ActionCreate: management,
		ActionUpdate: management,
		ActionDelete: management,
	},
	ResourceEnrollments: {
		ActionRead:   {admin, manager, reception, accounts},
		ActionCreate: {admin, manager, reception},
		ActionUpdate: {admin, manager, reception},
		ActionDelete: management,
	},
	ResourceAttendance: {
		ActionRead:   {admin, manager, trainer},
		ActionCreate: {admin, manager, trainer},
		ActionUpdate: {admin, manager, trainer},
		ActionDelete: management,
	},
	ResourceReceipts: {
		ActionRead:   {admin, manager, accounts, reception},
		ActionCreate: {admin, manager, accounts, reception},
		ActionUpdate: {admin, manager, accounts},
		ActionDelete: management,
	},
	ResourceCertificates: {
		ActionRead:   management,
		ActionCreate: management,
		ActionUpdate: management,
		ActionDelete: management,
	},
	ResourceReports: {
		ActionRead:   management,
		ActionCreate: management,
	},
	ResourceStaff: {
		ActionRead:   {admin, manager},
		ActionCreate: {admin},
		ActionUpdate: {admin},
		ActionDelete: {admin},
	},
	ResourceBranches: {
		ActionRead:   {admin, manager, trainer, accounts, reception},
		ActionCreate: {admin},
		ActionUpdate: {admin},
		ActionDelete: {admin},
	},
	ResourceSettings: {
		ActionRead:   {admin, manager, accounts, reception},
		ActionCreate: {admin},
		ActionUpdate: {admin},
		ActionDelete: {admin},
	},
}

// selfService resources are open to every authenticated principal, including one without roles.
var selfService = map[Resource]bool{
	ResourceDashboard: true,
	ResourceProfile:   true,
}

// Authorize reports whether principal may perform action on resource.
func Authorize(principal *models.Principal, action Action, resource Resource) bool {
	if principal == nil {
		return false
	}
	if selfService[resource] {
		return true
	}
	if principal.IsAdmin() {
		return true
	}
	for _, role := range policy[resource][action] {
		if principal.HasRole(role) {
			return true
		}
	}
	return false
}
