// Package db opens the portal's SQLite store and applies its schema
// migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// The store runs in WAL mode with a single-writer pool. SQLite allows one
// writer at a time; funneling all writes through one connection with an
// immediate transaction lock makes writers queue instead of failing with
// SQLITE_BUSY.
const (
	busyTimeoutMillis   = 5000
	defaultReadPoolSize = 4
	pingTimeout         = 5 * time.Second
)

// OpenSQLitePair opens the store twice over the same file: a write pool
// pinned to one connection, and a read pool of readMaxOpen connections
// (0 picks the default). WAL lets the readers proceed while a write is in
// flight. Foreign keys are enforced on every connection because the portal
// tables all hang off core_county.
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = openStore(path, true, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("open write pool: %w", err)
	}

	if readMaxOpen <= 0 {
		readMaxOpen = defaultReadPoolSize
	}
	readDB, err = openStore(path, false, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, fmt.Errorf("open read pool: %w", err)
	}

	return writeDB, readDB, nil
}

func openStore(path string, forWrites bool, maxConns int) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", strconv.Itoa(busyTimeoutMillis))
	params.Set("_synchronous", "NORMAL")
	params.Set("_foreign_keys", "on")
	if forWrites {
		params.Set("_txlock", "immediate")
	}

	db, err := sql.Open("sqlite3", path+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
