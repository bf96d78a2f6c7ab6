package permission

// CategoryInfo is display metadata for a [RoleCategory].
type CategoryInfo struct {
	Category    RoleCategory `json:"category"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	BgColor     string       `json:"bgColor"`
	Roles       []Role       `json:"roles"`
}

// RoleDescription is the human-readable reference card for a role.
type RoleDescription struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Capabilities  []string `json:"capabilities"`
	MigrationNote string   `json:"migrationNote,omitempty"`
}

// PageAccessEntry lists the roles allowed to open a page path.
type PageAccessEntry struct {
	Path         string `json:"path"`
	AllowedRoles []Role `json:"allowedRoles"`
	Description  string `json:"description"`
}

// Allows reports whether role is listed on the entry.
func (e PageAccessEntry) Allows(role Role) bool {
	for _, r := range e.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

const legacyMigrationNote = "Migrate to KANRININSHA for enhanced permissions and modern workflow"

var roleCategories = map[RoleCategory]CategoryInfo{
	CategoryCore: {
		Category:    CategoryCore,
		Label:       "Core Roles",
		Description: "System administrators with full or near-full access",
		Color:       "text-blue-600 dark:text-blue-400",
		BgColor:     "bg-blue-50 dark:bg-blue-950/30",
		Roles:       []Role{RoleSuperAdmin, RoleAdmin},
	},
	CategoryModern: {
		Category:    CategoryModern,
		Label:       "Modern Roles",
		Description: "Current operational roles with specific permissions",
		Color:       "text-green-600 dark:text-green-400",
		BgColor:     "bg-green-50 dark:bg-green-950/30",
		Roles:       []Role{RoleCoordinator, RoleKanrininsha, RoleEmployee, RoleContractWorker},
	},
	CategoryLegacy: {
		Category:    CategoryLegacy,
		Label:       "Legacy Roles",
		Description: "Deprecated roles maintained for backward compatibility",
		Color:       "text-orange-600 dark:text-orange-400",
		BgColor:     "bg-orange-50 dark:bg-orange-950/30",
		Roles:       []Role{RoleKeitosan, RoleTantosha},
	},
}

var roleDescriptions = map[Role]RoleDescription{
	RoleSuperAdmin: {
		Name:        "Super Administrator",
		Description: "Full system control with all permissions",
		Capabilities: []string{
			"Complete database access",
			"User management",
			"System configuration",
			"All module access",
			"Security settings",
		},
	},
	RoleAdmin: {
		Name:        "Administrator",
		Description: "All permissions except database management",
		Capabilities: []string{
			"User management",
			"Module configuration",
			"All business operations",
			"Reporting and analytics",
			"System settings",
		},
	},
	RoleCoordinator: {
		Name:        "Coordinator",
		Description: "HR + Reporting (modern coordination role)",
		Capabilities: []string{
			"Employee management",
			"Candidate management",
			"Factory assignments",
			"Report generation",
			"Request approval",
		},
	},
	RoleKanrininsha: {
		Name:        "Manager (管理人者)",
		Description: "Manager - HR + Finance operations",
		Capabilities: []string{
			"HR operations",
			"Finance management",
			"Payroll processing",
			"Leave approval",
			"Team oversight",
		},
	},
	RoleKeitosan: {
		Name:          "Finance Manager (経都算)",
		Description:   "Finance Manager (legacy - for yukyu approval)",
		Capabilities:  []string{"Leave approval", "Financial reports", "Budget oversight"},
		MigrationNote: legacyMigrationNote,
	},
	RoleTantosha: {
		Name:          "HR Representative (担当者)",
		Description:   "HR Representative (legacy - for yukyu creation)",
		Capabilities:  []string{"Leave request creation", "Employee records", "Basic HR tasks"},
		MigrationNote: legacyMigrationNote,
	},
	RoleEmployee: {
		Name:        "Employee (社員)",
		Description: "Self-service access for employees",
		Capabilities: []string{
			"Personal dashboard",
			"Leave requests",
			"Timecard viewing",
			"Salary information",
			"Profile management",
		},
	},
	RoleContractWorker: {
		Name:         "Contract Worker (契約社員)",
		Description:  "Minimal access for contract workers",
		Capabilities: []string{"Basic dashboard", "Timecard viewing", "Personal information"},
	},
}

// Yukyu role sets. Each capability is granted to exactly the listed roles.
var (
	approverRoles      = []Role{RoleSuperAdmin, RoleAdmin, RoleKeitosan}
	requestCreateRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleTantosha, RoleCoordinator}
	reportViewerRoles  = []Role{RoleSuperAdmin, RoleAdmin, RoleKeitosan}
	adminOnlyRoles     = []Role{RoleSuperAdmin, RoleAdmin}
	historyViewerRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleKeitosan, RoleTantosha}
)

var yukyuPageAccess = []PageAccessEntry{
	{Path: "/yukyu", AllowedRoles: allRoles, Description: "Personal yukyu dashboard (全員アクセス可能)"},
	{Path: "/yukyu-requests/create", AllowedRoles: requestCreateRoles, Description: "Create yukyu request (担当者以上)"},
	{Path: "/yukyu-requests", AllowedRoles: approverRoles, Description: "Approve/reject requests (経理管理者以上)"},
	{Path: "/yukyu-history", AllowedRoles: allRoles, Description: "Yukyu usage history (自分のみ、管理者は全員)"},
	{Path: "/yukyu-reports", AllowedRoles: reportViewerRoles, Description: "Detailed reports (経理管理者以上)"},
	{Path: "/admin/yukyu-management", AllowedRoles: adminOnlyRoles, Description: "Admin management (管理者のみ)"},
}

// RoleCategories returns a copy of the category table.
func RoleCategories() map[RoleCategory]CategoryInfo {
	out := make(map[RoleCategory]CategoryInfo, len(roleCategories))
	for k, v := range roleCategories {
		v.Roles = cloneRoles(v.Roles)
		out[k] = v
	}
	return out
}

// RoleDescriptions returns a copy of the role reference table.
func RoleDescriptions() map[Role]RoleDescription {
	out := make(map[Role]RoleDescription, len(roleDescriptions))
	for k, v := range roleDescriptions {
		caps := make([]string, len(v.Capabilities))
		copy(caps, v.Capabilities)
		v.Capabilities = caps
		out[k] = v
	}
	return out
}

// YukyuPageAccess returns a copy of the page access table in declaration
// order.
func YukyuPageAccess() []PageAccessEntry {
	return clonePages(yukyuPageAccess)
}

func cloneRoles(in []Role) []Role {
	out := make([]Role, len(in))
	copy(out, in)
	return out
}

func clonePages(in []PageAccessEntry) []PageAccessEntry {
	out := make([]PageAccessEntry, len(in))
	for i, e := range in {
		e.AllowedRoles = cloneRoles(e.AllowedRoles)
		out[i] = e
	}
	return out
}
