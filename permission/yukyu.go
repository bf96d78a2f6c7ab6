package permission

var defaultResolver = mustDefaultResolver()

func mustDefaultResolver() *Resolver {
	r, err := NewResolver(DefaultGrants(), yukyuPageAccess)
	if err != nil {
		panic("permission: invalid built-in tables: " + err.Error())
	}
	return r
}

// DefaultGrants returns the built-in yukyu capability grants.
func DefaultGrants() Grants {
	return Grants{
		CapApprove:        cloneRoles(approverRoles),
		CapCreateRequest:  cloneRoles(requestCreateRoles),
		CapViewReports:    cloneRoles(reportViewerRoles),
		CapAdmin:          cloneRoles(adminOnlyRoles),
		CapViewAllHistory: cloneRoles(historyViewerRoles),
	}
}

// Default returns the resolver built from the built-in tables.
func Default() *Resolver { return defaultResolver }

// CanApprove reports whether role may approve or reject leave requests.
func CanApprove(role Role) bool { return defaultResolver.Has(role, CapApprove) }

// CanCreateRequest reports whether role may create leave requests.
func CanCreateRequest(role Role) bool { return defaultResolver.Has(role, CapCreateRequest) }

// CanViewReports reports whether role may open detailed reports.
func CanViewReports(role Role) bool { return defaultResolver.Has(role, CapViewReports) }

// IsAdminRole reports whether role may manage yukyu administration.
func IsAdminRole(role Role) bool { return defaultResolver.Has(role, CapAdmin) }

// CanViewAllHistory reports whether role may view other employees' history.
func CanViewAllHistory(role Role) bool { return defaultResolver.Has(role, CapViewAllHistory) }

// IsAccessAllowed reports whether role may open path under the built-in
// page table.
func IsAccessAllowed(path string, role Role) bool {
	return defaultResolver.IsAccessAllowed(path, role)
}

// CategoryOf returns the display category of role. Roles outside the core
// and legacy tables, including unknown and empty ones, are modern.
func CategoryOf(role Role) RoleCategory {
	for _, c := range []RoleCategory{CategoryCore, CategoryLegacy} {
		for _, r := range roleCategories[c].Roles {
			if r == role {
				return c
			}
		}
	}
	return CategoryModern
}

// IsLegacyRole reports whether role belongs to the legacy category.
func IsLegacyRole(role Role) bool {
	for _, r := range roleCategories[CategoryLegacy].Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RolesByCategory lists the roles in category, or nil for an unknown one.
func RolesByCategory(category RoleCategory) []Role {
	info, ok := roleCategories[category]
	if !ok {
		return nil
	}
	return cloneRoles(info.Roles)
}

// GroupRolesByCategory buckets roles by [CategoryOf]. All three categories
// are always present in the result.
func GroupRolesByCategory(roles []Role) map[RoleCategory][]Role {
	out := map[RoleCategory][]Role{
		CategoryCore:   {},
		CategoryModern: {},
		CategoryLegacy: {},
	}
	for _, r := range roles {
		c := CategoryOf(r)
		out[c] = append(out[c], r)
	}
	return out
}

// CategoryInfoOf returns display metadata for category.
func CategoryInfoOf(category RoleCategory) (CategoryInfo, bool) {
	info, ok := roleCategories[category]
	if !ok {
		return CategoryInfo{}, false
	}
	info.Roles = cloneRoles(info.Roles)
	return info, true
}

// Describe returns the reference card for role.
func Describe(role Role) (RoleDescription, bool) {
	d, ok := roleDescriptions[role]
	if !ok {
		return RoleDescription{}, false
	}
	caps := make([]string, len(d.Capabilities))
	copy(caps, d.Capabilities)
	d.Capabilities = caps
	return d, true
}

const (
	descNoAccess = "No access"
	descApprove  = "有給休暇申請の承認・却下が可能 (Approval Rights)"
	descCreate   = "有給休暇申請の作成が可能 (Create Rights)"
	descView     = "有給休暇履歴の閲覧が可能 (View Rights)"
	descBasic    = "基本的なアクセス権 (Basic Access)"
)

// PermissionDescription summarizes the strongest yukyu right held by role.
func PermissionDescription(role Role) string {
	switch {
	case role == "":
		return descNoAccess
	case CanApprove(role):
		return descApprove
	case CanCreateRequest(role):
		return descCreate
	case CanViewAllHistory(role):
		return descView
	default:
		return descBasic
	}
}
