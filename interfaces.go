package recordkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// RoleManager defines the role and permission mutation interface
type RoleManager interface {
	FindRoleBySlug(ctx context.Context, slug string) (*Role, error)
	ListRoles(ctx context.Context) ([]*Role, error)
	GrantPermissions(ctx context.Context, role *Role, names ...string) error
	RevokePermissions(ctx context.Context, role *Role, names ...string) error
	SyncPermissions(ctx context.Context, role *Role, names ...string) error
}

// RecordStore defines the record CRUD interface
type RecordStore interface {
	ListRecords(ctx context.Context, req PageRequest) (*Page[*Record], error)
	GetRecord(ctx context.Context, id int64) (*Record, error)
	CreateRecord(ctx context.Context, input RecordInput, createdBy int64) (*Record, error)
	UpdateRecord(ctx context.Context, id int64, input RecordInput) (*Record, error)
	DeleteRecord(ctx context.Context, id int64) error
}

// OptionStore defines the dropdown option management interface
type OptionStore interface {
	ListDropdownOptions(ctx context.Context) (*GroupedOptions, error)
	ListDropdownOptionsByType(ctx context.Context, dropdownType string) ([]DropdownOption, error)
	GetDropdownOption(ctx context.Context, id int64) (*DropdownOption, error)
	CreateDropdownOption(ctx context.Context, input DropdownOptionInput) (*DropdownOption, error)
	UpdateDropdownOption(ctx context.Context, id int64, input DropdownOptionInput) (*DropdownOption, error)
	DeleteDropdownOption(ctx context.Context, id int64) error
}

// Authenticator defines the credential and token verification interface
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(tx *dbkit.Tx) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(tx *dbkit.Tx) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(tx *dbkit.Tx) error) error
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	OptimizeConnectionPool() error
	ResetConnectionPool() error
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}
