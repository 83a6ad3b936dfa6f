package recordkit

// Checker is an immutable snapshot of a user's identity, role slug and
// effective permission set, suitable for storing in a request context.
// It answers membership questions without touching the database and stays
// valid for the lifetime of the request it was built for.
type Checker struct {
	userID      int64
	roleSlug    string
	permissions map[string]struct{}
}

// NewChecker builds a Checker from a user with its role and permissions
// loaded. A nil user or a user without a role yields a Checker that denies
// everything.
func NewChecker(u *User) *Checker {
	c := &Checker{permissions: make(map[string]struct{})}
	if u == nil {
		return c
	}
	c.userID = u.ID
	if u.Role != nil {
		c.roleSlug = u.Role.Slug
		for _, name := range u.Role.PermissionNames() {
			c.permissions[name] = struct{}{}
		}
	}
	return c
}

// UserID returns the snapshot's user id, zero for an empty Checker.
func (c *Checker) UserID() int64 {
	return c.userID
}

// RoleSlug returns the snapshot's role slug, empty for a role-less user.
func (c *Checker) RoleSlug() string {
	return c.roleSlug
}

// IsWebadmin reports whether the snapshot holds the superadmin slug.
func (c *Checker) IsWebadmin() bool {
	return c.roleSlug == RoleWebadmin
}

// HasPermission reports whether the snapshot grants name. Webadmin answers
// true regardless of the seeded permission rows.
func (c *Checker) HasPermission(name string) bool {
	if c.IsWebadmin() {
		return true
	}
	_, ok := c.permissions[name]
	return ok
}

// HasAnyPermission reports whether the snapshot grants at least one of names.
func (c *Checker) HasAnyPermission(names ...string) bool {
	for _, name := range names {
		if c.HasPermission(name) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the snapshot grants every one of names.
func (c *Checker) HasAllPermissions(names ...string) bool {
	for _, name := range names {
		if !c.HasPermission(name) {
			return false
		}
	}
	return true
}

// HasRole is a slug equality check.
func (c *Checker) HasRole(slug string) bool {
	return c.roleSlug == slug
}

// Permissions returns the snapshot's permission names, in no particular
// order. The returned slice is a copy.
func (c *Checker) Permissions() []string {
	out := make([]string, 0, len(c.permissions))
	for name := range c.permissions {
		out = append(out, name)
	}
	return out
}
