package recordkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthService validates health reporting against a live database.
func TestHealthService(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	health := NewHealthService(service)
	assert.NoError(t, health.Ping(ctx))
	assert.True(t, health.IsHealthy(ctx))

	status := health.Health(ctx)
	assert.True(t, status.Healthy)
	assert.Empty(t, status.Error)
}

// TestGetPoolStats validates pool statistics come from the live connection
// pool.
func TestGetPoolStats(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}

	stats := helper.GetService().GetPoolStats()
	assert.Greater(t, stats.MaxOpenConnections, 0)
	assert.GreaterOrEqual(t, stats.InUse, 0)
	assert.GreaterOrEqual(t, stats.Idle, 0)
}

// TestPoolServiceConfiguration validates pool limits round-trip through
// configuration and reset.
func TestPoolServiceConfiguration(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	pool := NewPoolService(helper.GetService())

	require.NoError(t, pool.ConfigureConnectionPool(LowResourcePoolConfig()))
	cfg, err := pool.GetConnectionPoolConfig()
	require.NoError(t, err)
	assert.Equal(t, LowResourcePoolConfig().MaxOpenConnections, cfg.MaxOpenConnections)

	require.NoError(t, pool.ResetConnectionPool())
	cfg, err = pool.GetConnectionPoolConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultPoolConfig().MaxOpenConnections, cfg.MaxOpenConnections)
}

// TestPoolServiceRequiresDBKit validates pool management refuses to run on a
// transaction-bound service.
func TestPoolServiceRequiresDBKit(t *testing.T) {
	pool := NewPoolService(NewService(nil))

	assert.Error(t, pool.ConfigureConnectionPool(DefaultPoolConfig()))
	_, err := pool.GetConnectionPoolConfig()
	assert.Error(t, err)
}
