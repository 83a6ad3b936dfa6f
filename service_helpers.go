package recordkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// INTERNAL LOADING HELPERS
// ============================================================================

// getPermissionsByName resolves catalog names to permission rows. Every name
// must be part of the catalog and seeded; a missing row means the name is
// unknown.
func (s *Service) getPermissionsByName(ctx context.Context, names []string) ([]Permission, error) {
	for _, name := range names {
		if !IsKnownPermission(name) {
			return nil, NewError(ErrUnknownPermission, name).WithPermission(name)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	var perms []Permission
	err := s.db.NewSelect().
		Model(&perms).
		Where("name IN (?)", bun.In(names)).
		Scan(ctx)
	if err := dbkit.WithErr1(err, "GetPermissionsByName").Err(); err != nil {
		return nil, err
	}
	if len(perms) != len(names) {
		found := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			found[p.Name] = struct{}{}
		}
		for _, name := range names {
			if _, ok := found[name]; !ok {
				return nil, NewError(ErrUnknownPermission, "permission not seeded").WithPermission(name)
			}
		}
	}
	return perms, nil
}

// loadRolePermissions fills role.Permissions from the join table and resets
// the cached name set.
func (s *Service) loadRolePermissions(ctx context.Context, role *Role) error {
	var perms []Permission
	err := s.db.NewSelect().
		Model(&perms).
		Join("JOIN role_permissions AS rp ON rp.permission_id = p.id").
		Where("rp.role_id = ?", role.ID).
		Order("p.name ASC").
		Scan(ctx)
	if err := dbkit.WithErr1(err, "LoadRolePermissions").Err(); err != nil {
		return err
	}
	role.SetPermissions(perms)
	return nil
}

// loadUserRole fills u.Role (with permissions) when the user has one.
func (s *Service) loadUserRole(ctx context.Context, u *User) error {
	if u.RoleID == 0 {
		u.Role = nil
		return nil
	}
	role := new(Role)
	err := s.db.NewSelect().
		Model(role).
		Where("r.id = ?", u.RoleID).
		Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(err) {
			u.Role = nil
			return nil
		}
		return dbkit.WithErr1(err, "LoadUserRole").Err()
	}
	if err := s.loadRolePermissions(ctx, role); err != nil {
		return err
	}
	u.Role = role
	return nil
}

// loadRecordMultiOptions fills MultiOptions for every record in recs with a
// single pivot query plus a single option query.
func (s *Service) loadRecordMultiOptions(ctx context.Context, recs []*Record) error {
	if len(recs) == 0 {
		return nil
	}

	recordIDs := make([]int64, 0, len(recs))
	for _, rec := range recs {
		recordIDs = append(recordIDs, rec.ID)
	}

	var pivots []RecordMultiOption
	err := s.db.NewSelect().
		Model(&pivots).
		Where("record_id IN (?)", bun.In(recordIDs)).
		Scan(ctx)
	if err := dbkit.WithErr1(err, "LoadRecordMultiOptions").Err(); err != nil {
		return err
	}

	wanted := make(map[int64][]int64, len(recs))
	optionIDSet := make(map[int64]struct{})
	for _, p := range pivots {
		wanted[p.RecordID] = append(wanted[p.RecordID], p.DropdownOptionID)
		optionIDSet[p.DropdownOptionID] = struct{}{}
	}

	options := make(map[int64]DropdownOption)
	if len(optionIDSet) > 0 {
		optionIDs := make([]int64, 0, len(optionIDSet))
		for id := range optionIDSet {
			optionIDs = append(optionIDs, id)
		}
		var opts []DropdownOption
		err := s.db.NewSelect().
			Model(&opts).
			Where("opt.id IN (?)", bun.In(optionIDs)).
			Order("opt.id ASC").
			Scan(ctx)
		if err := dbkit.WithErr1(err, "LoadRecordMultiOptions").Err(); err != nil {
			return err
		}
		for _, opt := range opts {
			options[opt.ID] = opt
		}
	}

	for _, rec := range recs {
		rec.MultiOptions = make([]DropdownOption, 0, len(wanted[rec.ID]))
		for _, optID := range wanted[rec.ID] {
			if opt, ok := options[optID]; ok {
				rec.MultiOptions = append(rec.MultiOptions, opt)
			}
		}
	}
	return nil
}
