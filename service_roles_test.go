package recordkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeededCatalog validates migrations plus SeedCatalog leave the
// reserved roles with their documented sets.
func TestSeededCatalog(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	webadmin, err := service.FindRoleBySlug(ctx, RoleWebadmin)
	require.NoError(t, err)
	assert.Len(t, webadmin.PermissionNames(), 11)

	user, err := service.FindRoleBySlug(ctx, RoleUser)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		PermRecordsView,
		PermRecordsViewAll,
		PermDropdownOptionsView,
	}, user.PermissionNames())
}

// TestFindRoleBySlugNotFound validates unknown slugs map to the sentinel.
func TestFindRoleBySlugNotFound(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}

	_, err := helper.GetService().FindRoleBySlug(helper.GetContext(), "no-such-role")
	assert.Error(t, err)
	assert.True(t, IsNotFound(err))
}

// TestGrantRevokePermissions validates grant/revoke round-trips and
// idempotent granting.
func TestGrantRevokePermissions(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	role := helper.CreateTestRole("grants")
	require.NoError(t, service.GrantPermissions(ctx, role, PermRecordsView, PermRecordsCreate))
	assert.True(t, role.HasAllPermissions(PermRecordsView, PermRecordsCreate))

	// Granting again is a no-op, not a duplicate error.
	require.NoError(t, service.GrantPermissions(ctx, role, PermRecordsView))
	assert.Len(t, role.PermissionNames(), 2)

	require.NoError(t, service.RevokePermissions(ctx, role, PermRecordsCreate))
	assert.True(t, role.HasPermission(PermRecordsView))
	assert.False(t, role.HasPermission(PermRecordsCreate))

	// Revoking a permission the role lacks is a no-op.
	require.NoError(t, service.RevokePermissions(ctx, role, PermRecordsDelete))
	assert.Len(t, role.PermissionNames(), 1)

	// Fresh loads observe the same set.
	reloaded, err := service.FindRoleBySlug(ctx, role.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{PermRecordsView}, reloaded.PermissionNames())
}

// TestSyncPermissions validates sync replaces the set exactly.
func TestSyncPermissions(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	role := helper.CreateTestRole("sync", PermRecordsCreate, PermRecordsDelete)

	require.NoError(t, service.SyncPermissions(ctx, role, PermRecordsView))
	assert.Equal(t, []string{PermRecordsView}, role.PermissionNames())
	assert.False(t, role.HasPermission(PermRecordsCreate))

	reloaded, err := service.FindRoleBySlug(ctx, role.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{PermRecordsView}, reloaded.PermissionNames())

	// Sync to empty clears everything.
	require.NoError(t, service.SyncPermissions(ctx, role))
	assert.Empty(t, role.PermissionNames())
}

// TestPermissionMutationsRejectUnknownNames validates out-of-catalog names
// fail before touching the database.
func TestPermissionMutationsRejectUnknownNames(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	role := helper.CreateTestRole("unknown-perms", PermRecordsView)

	for _, fn := range []func() error{
		func() error { return service.GrantPermissions(ctx, role, "records.fly") },
		func() error { return service.RevokePermissions(ctx, role, "records.fly") },
		func() error { return service.SyncPermissions(ctx, role, "records.fly") },
	} {
		err := fn()
		assert.Error(t, err)
		assert.True(t, IsUnknownPermission(err))
	}

	// The original set survived the failed sync.
	reloaded, err := service.FindRoleBySlug(ctx, role.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{PermRecordsView}, reloaded.PermissionNames())
}

// TestCreateRoleDuplicateSlug validates the unique slug constraint surfaces
// as a duplicate error.
func TestCreateRoleDuplicateSlug(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	role := helper.CreateTestRole("dup-slug")
	_, err := service.CreateRole(ctx, "Other Name", role.Slug)
	assert.Error(t, err)
	assert.True(t, IsDuplicateValue(err))
}

// TestSeedCatalogIdempotent validates repeated seeding changes nothing.
func TestSeedCatalogIdempotent(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	migrations := NewMigrationService(service)
	require.NoError(t, migrations.SeedCatalog(ctx))
	require.NoError(t, migrations.SeedCatalog(ctx))

	user, err := service.FindRoleBySlug(ctx, RoleUser)
	require.NoError(t, err)
	assert.Len(t, user.PermissionNames(), 3)
}
