package recordkit

// Permission names. The catalog is closed: these constants are the complete
// set of permissions the system knows about, and the database rows are seeded
// from them. Authorization logic references constants, never literals.
const (
	PermRecordsView      = "records.view"
	PermRecordsViewAll   = "records.view_all"
	PermRecordsCreate    = "records.create"
	PermRecordsUpdate    = "records.update"
	PermRecordsUpdateOwn = "records.update_own"
	PermRecordsDelete    = "records.delete"
	PermRecordsDeleteOwn = "records.delete_own"

	PermDropdownOptionsView   = "dropdown_options.view"
	PermDropdownOptionsManage = "dropdown_options.manage"

	PermUsersView   = "users.view"
	PermUsersManage = "users.manage"
)

// Permission groups.
const (
	GroupRecords         = "records"
	GroupDropdownOptions = "dropdown_options"
	GroupUsers           = "users"
)

// PermissionDefinition describes one catalog entry: the stable name plus the
// human-facing metadata seeded into the permissions table.
type PermissionDefinition struct {
	Name        string
	DisplayName string
	Group       string
	Description string
}

var permissionCatalog = []PermissionDefinition{
	{Name: PermRecordsView, DisplayName: "View Records", Group: GroupRecords,
		Description: "List and view individual records"},
	{Name: PermRecordsViewAll, DisplayName: "View All Records", Group: GroupRecords,
		Description: "View records created by any user"},
	{Name: PermRecordsCreate, DisplayName: "Create Records", Group: GroupRecords,
		Description: "Create new records"},
	{Name: PermRecordsUpdate, DisplayName: "Update Records", Group: GroupRecords,
		Description: "Update records created by any user"},
	{Name: PermRecordsUpdateOwn, DisplayName: "Update Own Records", Group: GroupRecords,
		Description: "Update only records the user created"},
	{Name: PermRecordsDelete, DisplayName: "Delete Records", Group: GroupRecords,
		Description: "Delete records created by any user"},
	{Name: PermRecordsDeleteOwn, DisplayName: "Delete Own Records", Group: GroupRecords,
		Description: "Delete only records the user created"},
	{Name: PermDropdownOptionsView, DisplayName: "View Dropdown Options", Group: GroupDropdownOptions,
		Description: "List dropdown options when filling record forms"},
	{Name: PermDropdownOptionsManage, DisplayName: "Manage Dropdown Options", Group: GroupDropdownOptions,
		Description: "Create, update and delete dropdown options"},
	{Name: PermUsersView, DisplayName: "View Users", Group: GroupUsers,
		Description: "List and view user accounts"},
	{Name: PermUsersManage, DisplayName: "Manage Users", Group: GroupUsers,
		Description: "Create users and change their roles"},
}

var permissionIndex = func() map[string]PermissionDefinition {
	idx := make(map[string]PermissionDefinition, len(permissionCatalog))
	for _, def := range permissionCatalog {
		idx[def.Name] = def
	}
	return idx
}()

// AllPermissions returns the full catalog in declaration order. The returned
// slice is a copy; callers may modify it freely.
func AllPermissions() []PermissionDefinition {
	out := make([]PermissionDefinition, len(permissionCatalog))
	copy(out, permissionCatalog)
	return out
}

// PermissionsInGroup returns the catalog entries belonging to group, in
// declaration order. Unknown groups return an empty slice.
func PermissionsInGroup(group string) []PermissionDefinition {
	var out []PermissionDefinition
	for _, def := range permissionCatalog {
		if def.Group == group {
			out = append(out, def)
		}
	}
	return out
}

// PermissionGroups returns the distinct group names in declaration order.
func PermissionGroups() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, def := range permissionCatalog {
		if _, ok := seen[def.Group]; ok {
			continue
		}
		seen[def.Group] = struct{}{}
		out = append(out, def.Group)
	}
	return out
}

// IsKnownPermission reports whether name is part of the catalog.
func IsKnownPermission(name string) bool {
	_, ok := permissionIndex[name]
	return ok
}

// LookupPermission returns the catalog entry for name.
func LookupPermission(name string) (PermissionDefinition, bool) {
	def, ok := permissionIndex[name]
	return def, ok
}

// DefaultRolePermissions returns the permission names seeded for a reserved
// role slug. The webadmin set is the whole catalog; webadmin additionally
// bypasses rule evaluation entirely, so the seeded rows are informational.
// Unknown slugs return nil.
func DefaultRolePermissions(slug string) []string {
	switch slug {
	case RoleWebadmin:
		names := make([]string, 0, len(permissionCatalog))
		for _, def := range permissionCatalog {
			names = append(names, def.Name)
		}
		return names
	case RoleUser:
		return []string{
			PermRecordsView,
			PermRecordsViewAll,
			PermDropdownOptionsView,
		}
	default:
		return nil
	}
}
