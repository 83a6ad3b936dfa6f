package recordkit

import (
	"time"

	"github.com/uptrace/bun"
)

// Reserved role slugs. Code branches on slugs only, never on numeric ids or
// display names.
const (
	RoleWebadmin = "webadmin"
	RoleUser     = "user"
)

// Dropdown option types.
const (
	DropdownSingleSelect = "single_select"
	DropdownMultiSelect  = "multi_select"
)

// ValidDropdownType reports whether t is one of the known dropdown types.
func ValidDropdownType(t string) bool {
	return t == DropdownSingleSelect || t == DropdownMultiSelect
}

// Permission is an atomic named capability, grouped by resource domain.
// The set of permissions is seeded from the code-defined catalog (see
// permissions.go) and is read-only at runtime.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull,unique" json:"name"`
	DisplayName string    `bun:"display_name,notnull" json:"display_name"`
	Group       string    `bun:"group_name,notnull" json:"group"`
	Description string    `bun:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// RolePermission is the roles<->permissions join row.
type RolePermission struct {
	bun.BaseModel `bun:"table:role_permissions,alias:rp"`

	RoleID       int64     `bun:"role_id,notnull" json:"role_id"`
	PermissionID int64     `bun:"permission_id,notnull" json:"permission_id"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Role is a named bundle of permissions identified by a stable slug.
// Every user holds exactly one role.
//
// The effective permission-name set is computed from Permissions and cached
// per instance. The cache is an internal optimization, not an API guarantee:
// the permission mutators on Service invalidate it, and InvalidatePermissions
// forces recomputation explicitly. Instances are not safe for concurrent
// mutation; each request is expected to work with freshly loaded entities.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	// Permissions is loaded explicitly through the service (join table
	// query), not by the ORM.
	Permissions []Permission `bun:"-" json:"permissions,omitempty"`

	permNames map[string]struct{}
}

// SetPermissions replaces the loaded permission set and invalidates the
// cached name set.
func (r *Role) SetPermissions(perms []Permission) {
	r.Permissions = perms
	r.permNames = nil
}

// InvalidatePermissions drops the cached permission-name set. The next
// query recomputes it from Permissions.
func (r *Role) InvalidatePermissions() {
	r.permNames = nil
}

// PermissionNames returns the effective permission names for this role.
func (r *Role) PermissionNames() []string {
	r.ensurePermNames()
	names := make([]string, 0, len(r.permNames))
	for name := range r.permNames {
		names = append(names, name)
	}
	return names
}

// HasPermission reports whether the role's effective set contains name.
func (r *Role) HasPermission(name string) bool {
	r.ensurePermNames()
	_, ok := r.permNames[name]
	return ok
}

// HasAnyPermission reports whether the role holds at least one of names.
func (r *Role) HasAnyPermission(names ...string) bool {
	for _, name := range names {
		if r.HasPermission(name) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every one of names.
func (r *Role) HasAllPermissions(names ...string) bool {
	for _, name := range names {
		if !r.HasPermission(name) {
			return false
		}
	}
	return true
}

func (r *Role) ensurePermNames() {
	if r.permNames != nil {
		return
	}
	r.permNames = make(map[string]struct{}, len(r.Permissions))
	for _, p := range r.Permissions {
		r.permNames[p.Name] = struct{}{}
	}
}

// User is an authenticated identity holding exactly one role. RoleID is
// nullable only during bootstrap; a user without a role answers every
// permission query with false rather than erroring.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	RoleID       int64     `bun:"role_id,nullzero" json:"role_id,omitempty"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Role *Role `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
}

// HasPermission reports whether the user's role grants name. A user with no
// role is a degraded/denied state: the answer is false, never an error.
func (u *User) HasPermission(name string) bool {
	if u.Role == nil {
		return false
	}
	return u.Role.HasPermission(name)
}

// HasAnyPermission reports whether the user's role grants at least one of
// names.
func (u *User) HasAnyPermission(names ...string) bool {
	if u.Role == nil {
		return false
	}
	return u.Role.HasAnyPermission(names...)
}

// HasAllPermissions reports whether the user's role grants every one of
// names.
func (u *User) HasAllPermissions(names ...string) bool {
	if u.Role == nil {
		return false
	}
	return u.Role.HasAllPermissions(names...)
}

// HasRole is a slug equality check.
func (u *User) HasRole(slug string) bool {
	return u.Role != nil && u.Role.Slug == slug
}

// IsWebadmin reports whether the user holds the reserved superadmin slug.
func (u *User) IsWebadmin() bool {
	return u.HasRole(RoleWebadmin)
}

// Record is the protected resource: a free-text field plus an optional
// single-select classification and zero or more multi-select tags.
// CreatedBy is set at creation time and never changes.
type Record struct {
	bun.BaseModel `bun:"table:records,alias:rec"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	TextField      string    `bun:"text_field,notnull" json:"text_field"`
	SingleSelectID *int64    `bun:"single_select_id" json:"single_select_id,omitempty"`
	CreatedBy      int64     `bun:"created_by,notnull" json:"created_by"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	SingleSelect *DropdownOption `bun:"rel:belongs-to,join:single_select_id=id" json:"single_select,omitempty"`
	Creator      *User           `bun:"rel:belongs-to,join:created_by=id" json:"creator,omitempty"`

	// MultiOptions is loaded explicitly through the pivot table.
	MultiOptions []DropdownOption `bun:"-" json:"multi_select_options,omitempty"`
}

// MultiOptionIDs returns the ids of the loaded multi-select options.
func (rec *Record) MultiOptionIDs() []int64 {
	ids := make([]int64, 0, len(rec.MultiOptions))
	for _, opt := range rec.MultiOptions {
		ids = append(ids, opt.ID)
	}
	return ids
}

// RecordMultiOption is the records<->dropdown_options join row for
// multi-select tags. Unique on (record_id, dropdown_option_id).
type RecordMultiOption struct {
	bun.BaseModel `bun:"table:record_multi_options,alias:rmo"`

	RecordID         int64 `bun:"record_id,notnull" json:"record_id"`
	DropdownOptionID int64 `bun:"dropdown_option_id,notnull" json:"dropdown_option_id"`
}

// DropdownOption is a reusable labeled value used for single- or
// multi-select classification of records. Value is unique within its type.
type DropdownOption struct {
	bun.BaseModel `bun:"table:dropdown_options,alias:opt"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Type      string    `bun:"type,notnull" json:"type"`
	Label     string    `bun:"label,notnull" json:"label"`
	Value     string    `bun:"value,notnull" json:"value"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// IsSingleSelect reports whether the option belongs to the single-select
// dropdown.
func (o *DropdownOption) IsSingleSelect() bool {
	return o.Type == DropdownSingleSelect
}

// IsMultiSelect reports whether the option belongs to the multi-select
// dropdown.
func (o *DropdownOption) IsMultiSelect() bool {
	return o.Type == DropdownMultiSelect
}
