package recordkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration and seeding functionality as an
// extension to Service.
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension.
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// Migrations returns all database migrations required for RecordKit.
// Use db.Migrate(ctx, service.Migrations()) to run migrations, then
// SeedCatalog to populate the permission catalog and reserved roles.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "recordkit-001",
			Description: "Create permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS permissions (
                    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
                    name TEXT NOT NULL UNIQUE,
                    display_name TEXT NOT NULL,
                    group_name TEXT NOT NULL,
                    description TEXT,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "recordkit-002",
			Description: "Create roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS roles (
                    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
                    name TEXT NOT NULL,
                    slug TEXT NOT NULL UNIQUE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "recordkit-003",
			Description: "Create role_permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_permissions (
                    role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
                    permission_id BIGINT NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (role_id, permission_id)
                )`,
		},
		{
			ID:          "recordkit-004",
			Description: "Create users table",
			SQL: `
                CREATE TABLE IF NOT EXISTS users (
                    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
                    name TEXT NOT NULL,
                    email TEXT NOT NULL UNIQUE,
                    password_hash TEXT NOT NULL,
                    role_id BIGINT REFERENCES roles(id) ON DELETE SET NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "recordkit-005",
			Description: "Create dropdown_options table",
			SQL: `
                CREATE TABLE IF NOT EXISTS dropdown_options (
                    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
                    type TEXT NOT NULL CHECK (type IN ('single_select', 'multi_select')),
                    label TEXT NOT NULL,
                    value TEXT NOT NULL,
                    is_active BOOLEAN NOT NULL DEFAULT TRUE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (type, value)
                )`,
		},
		{
			ID:          "recordkit-006",
			Description: "Create records table",
			SQL: `
                CREATE TABLE IF NOT EXISTS records (
                    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
                    text_field TEXT NOT NULL,
                    single_select_id BIGINT REFERENCES dropdown_options(id) ON DELETE SET NULL,
                    created_by BIGINT NOT NULL REFERENCES users(id),
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "recordkit-007",
			Description: "Create record_multi_options table",
			SQL: `
                CREATE TABLE IF NOT EXISTS record_multi_options (
                    record_id BIGINT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
                    dropdown_option_id BIGINT NOT NULL REFERENCES dropdown_options(id) ON DELETE CASCADE,
                    UNIQUE (record_id, dropdown_option_id)
                )`,
		},
		{
			ID:          "recordkit-008",
			Description: "Create record listing indexes",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_records_created_by ON records (created_by);
                CREATE INDEX IF NOT EXISTS idx_records_created_at ON records (created_at);
                CREATE INDEX IF NOT EXISTS idx_record_multi_options_record ON record_multi_options (record_id);
                CREATE INDEX IF NOT EXISTS idx_users_role ON users (role_id)`,
		},
	}
}

// SeedCatalog inserts the permission catalog and the reserved roles
// (webadmin with every permission, user with the read-only set). Existing
// rows are left untouched, so the call is idempotent and safe on every
// startup.
func (ms *MigrationService) SeedCatalog(ctx context.Context) error {
	return ms.Transaction(ctx, func(tx *dbkit.Tx) error {
		svc := ms.WithTx(tx)

		for _, def := range AllPermissions() {
			perm := &Permission{
				Name:        def.Name,
				DisplayName: def.DisplayName,
				Group:       def.Group,
				Description: def.Description,
			}
			result, err := tx.NewInsert().
				Model(perm).
				On("CONFLICT (name) DO NOTHING").
				Exec(ctx)
			if err := dbkit.WithErr(result, err, "SeedCatalog.Permission").Err(); err != nil {
				return err
			}
		}

		seeded := []struct {
			name string
			slug string
		}{
			{"Web Administrator", RoleWebadmin},
			{"User", RoleUser},
		}
		for _, sr := range seeded {
			role := &Role{Name: sr.name, Slug: sr.slug}
			result, err := tx.NewInsert().
				Model(role).
				On("CONFLICT (slug) DO NOTHING").
				Exec(ctx)
			if err := dbkit.WithErr(result, err, "SeedCatalog.Role").Err(); err != nil {
				return err
			}

			loaded, err := svc.FindRoleBySlug(ctx, sr.slug)
			if err != nil {
				return err
			}
			if err := svc.GrantPermissions(ctx, loaded, DefaultRolePermissions(sr.slug)...); err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedAdminUser creates a webadmin user with the given credentials if no
// user holds that email yet. Idempotent: an existing user is returned
// unchanged, password included.
func (ms *MigrationService) SeedAdminUser(ctx context.Context, name, email, password string) (*User, error) {
	u, err := ms.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	return ms.CreateUser(ctx, name, email, password, RoleWebadmin)
}
