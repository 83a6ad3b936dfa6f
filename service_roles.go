package recordkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ROLE OPERATIONS
// ============================================================================

// FindRoleBySlug returns the role with its permission set loaded.
//
// Example:
//
//	role, err := service.FindRoleBySlug(ctx, recordkit.RoleUser)
func (s *Service) FindRoleBySlug(ctx context.Context, slug string) (*Role, error) {
	role := new(Role)
	err := s.db.NewSelect().
		Model(role).
		Where("r.slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrRoleNotFound, slug).WithRole(slug)
		}
		return nil, dbkit.WithErr1(err, "FindRoleBySlug").Err()
	}
	if err := s.loadRolePermissions(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// GetRole returns the role by id with its permission set loaded.
func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	role := new(Role)
	err := s.db.NewSelect().
		Model(role).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrRoleNotFound, "no role with this id").WithResource("role", id)
		}
		return nil, dbkit.WithErr1(err, "GetRole").Err()
	}
	if err := s.loadRolePermissions(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ListRoles returns all roles with their permission sets loaded, ordered by
// slug.
func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	var roles []*Role
	err := s.db.NewSelect().
		Model(&roles).
		Order("r.slug ASC").
		Scan(ctx)
	if err := dbkit.WithErr1(err, "ListRoles").Err(); err != nil {
		return nil, err
	}
	for _, role := range roles {
		if err := s.loadRolePermissions(ctx, role); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

// CreateRole creates a role with no permissions. Slugs are unique.
func (s *Service) CreateRole(ctx context.Context, name, slug string) (*Role, error) {
	role := &Role{Name: name, Slug: slug}
	result, err := s.db.NewInsert().Model(role).Exec(ctx)
	if err := dbkit.WithErr(result, err, "CreateRole").Err(); err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDuplicateValue, "role slug already exists").WithRole(slug)
		}
		return nil, err
	}
	role.SetPermissions(nil)
	return role, nil
}

// GrantPermissions adds the named permissions to the role. Already-granted
// names are ignored, so the call is idempotent. The role's cached set is
// reloaded on success.
func (s *Service) GrantPermissions(ctx context.Context, role *Role, names ...string) error {
	perms, err := s.getPermissionsByName(ctx, names)
	if err != nil {
		return err
	}
	if len(perms) == 0 {
		return nil
	}

	rows := make([]RolePermission, 0, len(perms))
	for _, p := range perms {
		rows = append(rows, RolePermission{RoleID: role.ID, PermissionID: p.ID})
	}

	result, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (role_id, permission_id) DO NOTHING").
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "GrantPermissions").Err(); err != nil {
		return err
	}

	return s.loadRolePermissions(ctx, role)
}

// RevokePermissions removes the named permissions from the role. Names the
// role does not hold are ignored. The role's cached set is reloaded on
// success.
func (s *Service) RevokePermissions(ctx context.Context, role *Role, names ...string) error {
	perms, err := s.getPermissionsByName(ctx, names)
	if err != nil {
		return err
	}
	if len(perms) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}

	result, err := s.db.NewDelete().
		Model((*RolePermission)(nil)).
		Where("role_id = ?", role.ID).
		Where("permission_id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "RevokePermissions").Err(); err != nil {
		return err
	}

	return s.loadRolePermissions(ctx, role)
}

// SyncPermissions replaces the role's permission set with exactly names,
// atomically. Granting and revoking happen in one transaction; a failed sync
// leaves the previous set intact. The role's cached set is reloaded on
// success.
func (s *Service) SyncPermissions(ctx context.Context, role *Role, names ...string) error {
	perms, err := s.getPermissionsByName(ctx, names)
	if err != nil {
		return err
	}

	err = s.Transaction(ctx, func(tx *dbkit.Tx) error {
		result, err := tx.NewDelete().
			Model((*RolePermission)(nil)).
			Where("role_id = ?", role.ID).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "SyncPermissions.Clear").Err(); err != nil {
			return err
		}

		if len(perms) == 0 {
			return nil
		}
		rows := make([]RolePermission, 0, len(perms))
		for _, p := range perms {
			rows = append(rows, RolePermission{RoleID: role.ID, PermissionID: p.ID})
		}
		result, err = tx.NewInsert().Model(&rows).Exec(ctx)
		return dbkit.WithErr(result, err, "SyncPermissions.Insert").Err()
	})
	if err != nil {
		return err
	}

	return s.loadRolePermissions(ctx, role)
}
