package recordkit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Transaction executes fn within a database transaction with automatic
// commit/rollback. If fn returns an error the transaction is rolled back.
// Called while already inside a transaction, it nests via a savepoint.
//
// Example:
//
//	err := service.Transaction(ctx, func(tx *dbkit.Tx) error {
//	    svc := service.WithTx(tx)
//	    role, err := svc.CreateRole(ctx, "Editors", "editor")
//	    if err != nil {
//	        return err // rollback
//	    }
//	    return svc.GrantPermissions(ctx, role, recordkit.PermRecordsView)
//	})
func (s *Service) Transaction(ctx context.Context, fn func(tx *dbkit.Tx) error) error {
	start := time.Now()
	var err error

	switch db := s.db.(type) {
	case *dbkit.Tx:
		// Already transactional: nest with a savepoint.
		err = db.Transaction(ctx, fn)
	case *dbkit.DBKit:
		err = db.Transaction(ctx, fn)
	default:
		err = fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	s.txMonitor.recordTransaction(time.Since(start), err == nil)
	return err
}

// TransactionWithOptions executes fn within a transaction with custom
// options (isolation level, read-only, ...). Nested calls run as savepoints
// and ignore the options; the outermost transaction owns them.
//
// Example:
//
//	err := service.TransactionWithOptions(ctx, dbkit.SerializableTxOptions(), func(tx *dbkit.Tx) error {
//	    return service.WithTx(tx).SyncPermissions(ctx, role, recordkit.PermRecordsView)
//	})
func (s *Service) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(tx *dbkit.Tx) error) error {
	start := time.Now()
	var err error

	switch db := s.db.(type) {
	case *dbkit.Tx:
		err = db.Transaction(ctx, fn)
	case *dbkit.DBKit:
		err = db.TransactionWithOptions(ctx, opts, fn)
	default:
		err = fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	s.txMonitor.recordTransaction(time.Since(start), err == nil)
	return err
}

// ReadOnlyTransaction executes fn within a read-only transaction, for
// multi-query reads that need a consistent snapshot.
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(tx *dbkit.Tx) error) error {
	return s.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}

// WithTx returns a service bound to tx. All operations on the returned
// service run inside the transaction; the receiver is unchanged. The
// authorizer and metrics are shared.
func (s *Service) WithTx(tx *dbkit.Tx) *Service {
	return &Service{
		db:         tx,
		authorizer: s.authorizer,
		txMonitor:  s.txMonitor,
	}
}
