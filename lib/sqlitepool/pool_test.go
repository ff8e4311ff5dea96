// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool

import (
	"context"
	"path/filepath"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatal("expected error for empty Path")
	}
}

func TestTakePut(t *testing.T) {
	pool, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer pool.Close()

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if err := sqlitex.ExecuteTransient(conn, "CREATE TABLE t (id INTEGER PRIMARY KEY)", nil); err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	pool.Put(conn)

	// WAL mode must survive across Take calls on the same pool.
	conn, err = pool.Take(context.Background())
	if err != nil {
		t.Fatalf("second Take failed: %v", err)
	}
	defer pool.Put(conn)

	var mode string
	err = sqlitex.ExecuteTransient(conn, "PRAGMA journal_mode", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			mode = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("pragma query failed: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestPutNil(t *testing.T) {
	pool, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer pool.Close()

	// Put promises nil is a no-op; the underlying pool would panic.
	pool.Put(nil)
}

func TestOnConnect(t *testing.T) {
	pool, err := Open(Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, "CREATE TABLE IF NOT EXISTS seeded (id INTEGER)", nil)
		},
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer pool.Close()

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	defer pool.Put(conn)

	if err := sqlitex.ExecuteTransient(conn, "INSERT INTO seeded (id) VALUES (1)", nil); err != nil {
		t.Errorf("OnConnect schema missing: %v", err)
	}
}
