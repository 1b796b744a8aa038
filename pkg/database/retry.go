package database

import (
	"context"
	"database/sql/driver"
	"math/rand"
	"strings"
	"time"
)

// DefaultMaxRetries is the number of attempts made for an operation that
// keeps hitting lock contention before its error is surfaced.
const DefaultMaxRetries = 3

const (
	baseDelay = 100 * time.Millisecond
	maxJitter = 50 * time.Millisecond
)

// IsLockError reports whether the error is transient lock contention from
// another writer. Any other error is treated as non-transient.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database is busy")
}

// backoff returns the sleep before retrying after the given failed attempt
// (1-indexed): baseDelay doubled per attempt, plus jitter.
func backoff(attempt int) time.Duration {
	delay := time.Duration(1<<(attempt-1)) * baseDelay
	jitter := time.Duration(rand.Int63n(int64(maxJitter)))
	return delay + jitter
}

// WithRetry runs fn up to maxRetries times, sleeping with exponential
// backoff between attempts that fail with lock contention. A non-lock error
// returns immediately; the final attempt's error propagates unchanged.
func WithRetry(ctx context.Context, maxRetries int, fn func() error) error {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		if !IsLockError(err) {
			return err
		}

		if attempt == maxRetries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
			// Continue to next attempt
		}
	}

	return err
}

// retryConnector wraps a driver.Connector so every connection retries
// transaction commits on lock contention. The retry has to live at the
// driver layer: database/sql marks a Tx done before the driver commit runs,
// so a second sql.Tx.Commit call would see ErrTxDone instead of reaching
// the driver again.
type retryConnector struct {
	connector  driver.Connector
	maxRetries int
}

func newRetryConnector(connector driver.Connector, maxRetries int) *retryConnector {
	return &retryConnector{
		connector:  connector,
		maxRetries: maxRetries,
	}
}

func (rc *retryConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := rc.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &retryConn{conn: conn, maxRetries: rc.maxRetries}, nil
}

func (rc *retryConnector) Driver() driver.Driver {
	return rc.connector.Driver()
}

// retryConn wraps a driver.Conn. Statement execution passes straight
// through (reads and writes retry at the call site, where the operation can
// be replayed); only Begin/BeginTx are intercepted, to hand out
// transactions whose Commit goes through the backoff loop.
type retryConn struct {
	conn       driver.Conn
	maxRetries int
}

// Prepare implements driver.Conn.
func (c *retryConn) Prepare(query string) (driver.Stmt, error) {
	return c.conn.Prepare(query)
}

// Close implements driver.Conn.
func (c *retryConn) Close() error {
	return c.conn.Close()
}

// Begin implements driver.Conn.
func (c *retryConn) Begin() (driver.Tx, error) {
	tx, err := c.conn.Begin() //nolint:staticcheck // deprecated but required for interface
	if err != nil {
		return nil, err
	}
	return &retryTx{tx: tx, maxRetries: c.maxRetries}, nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *retryConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if connBeginTx, ok := c.conn.(driver.ConnBeginTx); ok {
		tx, err := connBeginTx.BeginTx(ctx, opts)
		if err != nil {
			return nil, err
		}
		return &retryTx{tx: tx, maxRetries: c.maxRetries}, nil
	}
	return c.Begin()
}

// PrepareContext implements driver.ConnPrepareContext.
func (c *retryConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if connPrepareContext, ok := c.conn.(driver.ConnPrepareContext); ok {
		return connPrepareContext.PrepareContext(ctx, query)
	}
	return c.Prepare(query)
}

// ExecContext implements driver.ExecerContext.
func (c *retryConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if execerContext, ok := c.conn.(driver.ExecerContext); ok {
		return execerContext.ExecContext(ctx, query, args)
	}
	return nil, driver.ErrSkip
}

// QueryContext implements driver.QueryerContext.
func (c *retryConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if queryerContext, ok := c.conn.(driver.QueryerContext); ok {
		return queryerContext.QueryContext(ctx, query, args)
	}
	return nil, driver.ErrSkip
}

// Ping implements driver.Pinger.
func (c *retryConn) Ping(ctx context.Context) error {
	if pinger, ok := c.conn.(driver.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// ResetSession implements driver.SessionResetter.
func (c *retryConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

// IsValid implements driver.Validator.
func (c *retryConn) IsValid() bool {
	if validator, ok := c.conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}

// retryTx retries the driver-level commit on lock contention. SQLite keeps
// the transaction open when COMMIT returns a busy error, so reissuing the
// commit is safe and the already-applied statements are not replayed.
// Rollback is never retried.
type retryTx struct {
	tx         driver.Tx
	maxRetries int
}

// Commit implements driver.Tx.
func (t *retryTx) Commit() error {
	return WithRetry(context.Background(), t.maxRetries, t.tx.Commit)
}

// Rollback implements driver.Tx.
func (t *retryTx) Rollback() error {
	return t.tx.Rollback()
}
