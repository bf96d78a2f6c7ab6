package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicatesPerRole(t *testing.T) {
	tests := []struct {
		role        Role
		approve     bool
		create      bool
		reports     bool
		admin       bool
		historyAll  bool
		category    RoleCategory
		legacy      bool
		description string
	}{
		{RoleSuperAdmin, true, true, true, true, true, CategoryCore, false, descApprove},
		{RoleAdmin, true, true, true, true, true, CategoryCore, false, descApprove},
		{RoleKeitosan, true, false, true, false, true, CategoryLegacy, true, descApprove},
		{RoleTantosha, false, true, false, false, true, CategoryLegacy, true, descCreate},
		{RoleCoordinator, false, true, false, false, false, CategoryModern, false, descCreate},
		{RoleKanrininsha, false, false, false, false, false, CategoryModern, false, descBasic},
		{RoleEmployee, false, false, false, false, false, CategoryModern, false, descBasic},
		{RoleContractWorker, false, false, false, false, false, CategoryModern, false, descBasic},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.approve, CanApprove(tt.role), "CanApprove")
			assert.Equal(t, tt.create, CanCreateRequest(tt.role), "CanCreateRequest")
			assert.Equal(t, tt.reports, CanViewReports(tt.role), "CanViewReports")
			assert.Equal(t, tt.admin, IsAdminRole(tt.role), "IsAdminRole")
			assert.Equal(t, tt.historyAll, CanViewAllHistory(tt.role), "CanViewAllHistory")
			assert.Equal(t, tt.category, CategoryOf(tt.role))
			assert.Equal(t, tt.legacy, IsLegacyRole(tt.role))
			assert.Equal(t, tt.description, PermissionDescription(tt.role))
		})
	}
}

func TestUnknownAndEmptyRolesFailClosed(t *testing.T) {
	for _, role := range []Role{"", "GUEST", "super_admin", " ADMIN"} {
		assert.False(t, CanApprove(role), "%q", role)
		assert.False(t, CanCreateRequest(role), "%q", role)
		assert.False(t, CanViewReports(role), "%q", role)
		assert.False(t, IsAdminRole(role), "%q", role)
		assert.False(t, CanViewAllHistory(role), "%q", role)
		assert.False(t, IsAccessAllowed("/yukyu", role), "%q", role)
		assert.Equal(t, CategoryModern, CategoryOf(role))
	}
	assert.Equal(t, descNoAccess, PermissionDescription(""))
	assert.Equal(t, descBasic, PermissionDescription("GUEST"))
}

func TestIsAccessAllowed(t *testing.T) {
	tests := []struct {
		name string
		path string
		role Role
		want bool
	}{
		{"dashboard open to employee", "/yukyu", RoleEmployee, true},
		{"history open to contract worker", "/yukyu-history", RoleContractWorker, true},
		{"approval denied to employee", "/yukyu-requests", RoleEmployee, false},
		{"approval allowed to keitosan", "/yukyu-requests", RoleKeitosan, true},
		{"create beats parent prefix", "/yukyu-requests/create", RoleTantosha, true},
		{"create denied to keitosan", "/yukyu-requests/create", RoleKeitosan, false},
		{"parent denies tantosha", "/yukyu-requests", RoleTantosha, false},
		{"nested under create", "/yukyu-requests/create/step-2", RoleCoordinator, true},
		{"nested under requests", "/yukyu-requests/42", RoleAdmin, true},
		{"nested under requests denied", "/yukyu-requests/42", RoleTantosha, false},
		{"reports for keitosan", "/yukyu-reports", RoleKeitosan, true},
		{"reports denied to tantosha", "/yukyu-reports", RoleTantosha, false},
		{"admin page for admin", "/admin/yukyu-management", RoleAdmin, true},
		{"admin page denied to keitosan", "/admin/yukyu-management", RoleKeitosan, false},
		{"unregistered path", "/some/unregistered/path", RoleSuperAdmin, false},
		{"no segment boundary", "/yukyu-requestsX", RoleSuperAdmin, false},
		{"trailing slash", "/yukyu/", RoleEmployee, true},
		{"query string ignored", "/yukyu-reports?year=2024", RoleAdmin, true},
		{"empty path", "", RoleSuperAdmin, false},
		{"root path", "/", RoleSuperAdmin, false},
		{"dot-dot out of dashboard", "/yukyu/../admin/yukyu-management", RoleEmployee, false},
		{"dot-dot denied even to admin", "/yukyu/../admin/yukyu-management", RoleAdmin, false},
		{"dot segment", "/yukyu/./history", RoleSuperAdmin, false},
		{"relative dot-dot", "yukyu/../yukyu-reports", RoleKeitosan, false},
		{"doubled slashes collapse", "//admin//yukyu-management", RoleEmployee, false},
		{"doubled slashes keep access", "/yukyu-requests//42", RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAccessAllowed(tt.path, tt.role))
		})
	}
}

func TestPageTableRolesAreKnown(t *testing.T) {
	for _, e := range YukyuPageAccess() {
		require.NotEmpty(t, e.Description, e.Path)
		for _, r := range e.AllowedRoles {
			assert.True(t, r.Known(), "%s lists %q", e.Path, r)
		}
	}
}

func TestTablesAreCopies(t *testing.T) {
	pages := YukyuPageAccess()
	pages[0].AllowedRoles[0] = "MUTATED"
	assert.Equal(t, RoleSuperAdmin, YukyuPageAccess()[0].AllowedRoles[0])

	cats := RoleCategories()
	cats[CategoryCore] = CategoryInfo{}
	assert.Equal(t, "Core Roles", RoleCategories()[CategoryCore].Label)

	descs := RoleDescriptions()
	descs[RoleKeitosan].Capabilities[0] = "MUTATED"
	d, ok := Describe(RoleKeitosan)
	require.True(t, ok)
	assert.Equal(t, "Leave approval", d.Capabilities[0])
	assert.Equal(t, legacyMigrationNote, d.MigrationNote)
}

func TestEveryRoleHasCategoryAndDescription(t *testing.T) {
	seen := map[Role]int{}
	for _, c := range Categories() {
		for _, r := range RolesByCategory(c) {
			seen[r]++
		}
	}
	for _, r := range AllRoles() {
		assert.Equal(t, 1, seen[r], "role %s must be in exactly one category", r)
		_, ok := Describe(r)
		assert.True(t, ok, "role %s has no description", r)
	}
	assert.Nil(t, RolesByCategory("unknown"))
}

func TestGroupRolesByCategory(t *testing.T) {
	got := GroupRolesByCategory([]Role{RoleEmployee, RoleKeitosan, RoleAdmin, "GUEST"})
	assert.Equal(t, []Role{RoleAdmin}, got[CategoryCore])
	assert.Equal(t, []Role{RoleKeitosan}, got[CategoryLegacy])
	assert.Equal(t, []Role{RoleEmployee, "GUEST"}, got[CategoryModern])

	empty := GroupRolesByCategory(nil)
	assert.Len(t, empty, 3)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" KEITOSAN ")
	require.NoError(t, err)
	assert.Equal(t, RoleKeitosan, r)

	_, err = ParseRole("keitosan")
	assert.ErrorIs(t, err, ErrInvalidRole)

	assert.Panics(t, func() { MustRole("NOPE") })
}

func TestNewResolverRejectsUnknownRoles(t *testing.T) {
	_, err := NewResolver(Grants{CapApprove: {"GHOST"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = NewResolver(nil, []PageAccessEntry{{Path: "/x", AllowedRoles: []Role{"GHOST"}}})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = NewResolver(nil, []PageAccessEntry{{Path: "/x"}, {Path: "/x/"}})
	assert.Error(t, err)
}

func TestResolverCapabilitiesOf(t *testing.T) {
	r := Default()
	assert.ElementsMatch(t,
		[]Capability{CapApprove, CapViewReports, CapViewAllHistory},
		r.CapabilitiesOf(RoleKeitosan),
	)
	assert.Empty(t, r.CapabilitiesOf(RoleEmployee))
	assert.Nil(t, r.CapabilitiesOf("GHOST"))

	mask, ok := r.Mask(RoleTantosha)
	require.True(t, ok)
	assert.True(t, r.MaskHas(mask, CapCreateRequest))
	assert.False(t, r.MaskHas(mask, CapApprove))
}

func TestCustomResolverPrefixOrder(t *testing.T) {
	r, err := NewResolver(Grants{}, []PageAccessEntry{
		{Path: "/a", AllowedRoles: []Role{RoleEmployee}},
		{Path: "/a/b", AllowedRoles: []Role{RoleAdmin}},
	})
	require.NoError(t, err)

	assert.False(t, r.IsAccessAllowed("/a/b/c", RoleEmployee))
	assert.True(t, r.IsAccessAllowed("/a/b/c", RoleAdmin))
	assert.True(t, r.IsAccessAllowed("/a/x", RoleEmployee))

	e, ok := r.Lookup("/a/b/c")
	require.True(t, ok)
	assert.Equal(t, "/a/b", e.Path)
}
