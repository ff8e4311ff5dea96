// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitestore

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/doorman-bot/doorman/intake"
	"github.com/doorman-bot/doorman/lib/codec"
	"github.com/doorman-bot/doorman/lib/sqlitepool"
)

// schema is applied to every pooled connection. The partial index
// serves the moderator-binding lookup: only rows awaiting a reason
// participate.
const schema = `
	CREATE TABLE IF NOT EXISTS applicants (
		user_id            INTEGER PRIMARY KEY,
		step               INTEGER NOT NULL,
		phase              INTEGER NOT NULL,
		summary_message_id INTEGER NOT NULL,
		answers            BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pending (
		user_id              INTEGER PRIMARY KEY,
		username             TEXT NOT NULL,
		moderator_message_id INTEGER NOT NULL,
		awaiting_reason      INTEGER NOT NULL,
		declined_by          INTEGER NOT NULL,
		answers              BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS pending_by_moderator
		ON pending (declined_by) WHERE awaiting_reason = 1;
`

// Config holds the parameters for opening a store.
type Config struct {
	// Path is the database file path. Created if it does not exist.
	Path string

	// Logger is used for structured logging. If nil, logs are dropped.
	Logger *slog.Logger
}

// Store is the SQLite-backed intake.Store.
type Store struct {
	pool *sqlitepool.Pool
}

var _ intake.Store = (*Store)(nil)

// Open opens (creating if necessary) the database at cfg.Path and
// ensures the schema exists. The caller must call Close when done.
func Open(cfg Config) (*Store, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   cfg.Path,
		Logger: cfg.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Applicant implements intake.Store.
func (s *Store) Applicant(ctx context.Context, userID int64) (*intake.ApplicantState, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var state *intake.ApplicantState
	err = sqlitex.Execute(conn,
		`SELECT step, phase, summary_message_id, answers FROM applicants WHERE user_id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{userID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				answers, err := decodeAnswers(stmt, 3)
				if err != nil {
					return err
				}
				state = &intake.ApplicantState{
					UserID:           userID,
					Step:             stmt.ColumnInt(0),
					Phase:            intake.Phase(stmt.ColumnInt(1)),
					SummaryMessageID: stmt.ColumnInt(2),
					Answers:          answers,
				}
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: loading applicant %d: %w", userID, err)
	}
	return state, nil
}

// PutApplicant implements intake.Store.
func (s *Store) PutApplicant(ctx context.Context, state *intake.ApplicantState) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	answers, err := codec.Marshal(state.Answers)
	if err != nil {
		return fmt.Errorf("sqlitestore: encoding answers: %w", err)
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO applicants (user_id, step, phase, summary_message_id, answers)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			step = excluded.step,
			phase = excluded.phase,
			summary_message_id = excluded.summary_message_id,
			answers = excluded.answers`,
		&sqlitex.ExecOptions{
			Args: []any{state.UserID, state.Step, int(state.Phase), state.SummaryMessageID, answers},
		})
	if err != nil {
		return fmt.Errorf("sqlitestore: storing applicant %d: %w", state.UserID, err)
	}
	return nil
}

// RemoveApplicant implements intake.Store.
func (s *Store) RemoveApplicant(ctx context.Context, userID int64) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `DELETE FROM applicants WHERE user_id = ?`,
		&sqlitex.ExecOptions{Args: []any{userID}})
	if err != nil {
		return fmt.Errorf("sqlitestore: removing applicant %d: %w", userID, err)
	}
	return nil
}

// Pending implements intake.Store.
func (s *Store) Pending(ctx context.Context, userID int64) (*intake.PendingApplication, error) {
	return s.selectPending(ctx, `WHERE user_id = ?`, userID)
}

// PendingByModerator implements intake.Store.
func (s *Store) PendingByModerator(ctx context.Context, moderatorID int64) (*intake.PendingApplication, error) {
	return s.selectPending(ctx, `WHERE awaiting_reason = 1 AND declined_by = ?`, moderatorID)
}

// PutPending implements intake.Store.
func (s *Store) PutPending(ctx context.Context, app *intake.PendingApplication) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	answers, err := codec.Marshal(app.Answers)
	if err != nil {
		return fmt.Errorf("sqlitestore: encoding answers: %w", err)
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO pending (user_id, username, moderator_message_id, awaiting_reason, declined_by, answers)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			moderator_message_id = excluded.moderator_message_id,
			awaiting_reason = excluded.awaiting_reason,
			declined_by = excluded.declined_by,
			answers = excluded.answers`,
		&sqlitex.ExecOptions{
			Args: []any{app.UserID, app.Username, app.ModeratorMessageID, boolToInt(app.AwaitingReason), app.DeclinedBy, answers},
		})
	if err != nil {
		return fmt.Errorf("sqlitestore: storing pending %d: %w", app.UserID, err)
	}
	return nil
}

// TakePending implements intake.Store. The DELETE ... RETURNING makes
// the claim a single statement: of any number of competing callers,
// exactly one sees the row.
func (s *Store) TakePending(ctx context.Context, userID int64) (*intake.PendingApplication, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var app *intake.PendingApplication
	err = sqlitex.Execute(conn,
		`DELETE FROM pending WHERE user_id = ?
		 RETURNING username, moderator_message_id, awaiting_reason, declined_by, answers`,
		&sqlitex.ExecOptions{
			Args: []any{userID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				app, err = scanPending(stmt, userID)
				return err
			},
		})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: claiming pending %d: %w", userID, err)
	}
	return app, nil
}

// selectPending runs a single-row pending query. where must reference
// exactly one positional argument.
func (s *Store) selectPending(ctx context.Context, where string, arg int64) (*intake.PendingApplication, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var app *intake.PendingApplication
	err = sqlitex.Execute(conn,
		`SELECT user_id, username, moderator_message_id, awaiting_reason, declined_by, answers FROM pending `+where,
		&sqlitex.ExecOptions{
			Args: []any{arg},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				answers, err := decodeAnswers(stmt, 5)
				if err != nil {
					return err
				}
				app = &intake.PendingApplication{
					UserID:             stmt.ColumnInt64(0),
					Username:           stmt.ColumnText(1),
					ModeratorMessageID: stmt.ColumnInt(2),
					AwaitingReason:     stmt.ColumnInt(3) != 0,
					DeclinedBy:         stmt.ColumnInt64(4),
					Answers:            answers,
				}
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: loading pending: %w", err)
	}
	return app, nil
}

// scanPending builds a PendingApplication from a RETURNING row, which
// lacks the user_id column.
func scanPending(stmt *sqlite.Stmt, userID int64) (*intake.PendingApplication, error) {
	answers, err := decodeAnswers(stmt, 4)
	if err != nil {
		return nil, err
	}
	return &intake.PendingApplication{
		UserID:             userID,
		Username:           stmt.ColumnText(0),
		ModeratorMessageID: stmt.ColumnInt(1),
		AwaitingReason:     stmt.ColumnInt(2) != 0,
		DeclinedBy:         stmt.ColumnInt64(3),
		Answers:            answers,
	}, nil
}

// decodeAnswers reads the answers blob at the given column and
// decodes it.
func decodeAnswers(stmt *sqlite.Stmt, col int) ([]string, error) {
	blob := make([]byte, stmt.ColumnLen(col))
	stmt.ColumnBytes(col, blob)
	var answers []string
	if err := codec.Unmarshal(blob, &answers); err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}
	return answers, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
