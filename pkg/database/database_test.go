package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{
		DatabaseBusyTimeout:       time.Second,
		DatabaseConnectRetryCount: 1,
		DatabaseConnectRetryDelay: time.Millisecond,
		DatabaseDebug:             true,
		DatabaseFilePath:          ":memory:",
		DatabaseMaxRetries:        3,
	}

	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	// Debug mode installs the query-logging hook; queries still run
	// normally through it.
	var one int
	require.NoError(t, db.NewSelect().ColumnExpr("1").Scan(context.Background(), &one))
	assert.Equal(t, 1, one)

	// Transactions commit through the retrying driver wrapper.
	tx, err := db.BeginTx(context.Background(), &sql.TxOptions{})
	require.NoError(t, err)
	_, err = tx.Exec("CREATE TABLE smoke (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
}
