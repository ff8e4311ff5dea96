// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"context"
	"sync"
)

// Store persists applicant states and pending applications, keyed by
// applicant identity. [NewMemoryStore] is the default backend; the
// sqlitestore package provides a durable one. Implementations return
// nil (not an error) for absent records and must never alias returned
// values with internal state.
type Store interface {
	// Applicant returns the applicant's state, or nil if none exists.
	Applicant(ctx context.Context, userID int64) (*ApplicantState, error)

	// PutApplicant inserts or replaces the applicant's state.
	PutApplicant(ctx context.Context, state *ApplicantState) error

	// RemoveApplicant discards the applicant's state. Removing an
	// absent state is a no-op.
	RemoveApplicant(ctx context.Context, userID int64) error

	// Pending returns the applicant's pending application, or nil.
	Pending(ctx context.Context, userID int64) (*PendingApplication, error)

	// PutPending inserts or replaces a pending application.
	PutPending(ctx context.Context, app *PendingApplication) error

	// TakePending removes and returns the applicant's pending
	// application in one step, or returns nil if none exists. This is
	// the claim operation behind the remove-first resolution rule:
	// exactly one caller observes the application.
	TakePending(ctx context.Context, userID int64) (*PendingApplication, error)

	// PendingByModerator returns the pending application that is
	// awaiting a rejection reason from the given moderator, or nil.
	PendingByModerator(ctx context.Context, moderatorID int64) (*PendingApplication, error)
}

// MemoryStore is the in-memory Store. State does not survive a process
// restart — active conversations reset, which is an accepted property
// of the default deployment.
//
// A moderator index replaces scanning all pending applications when
// binding a free-text rejection reason.
type MemoryStore struct {
	mu         sync.Mutex
	applicants map[int64]*ApplicantState
	pending    map[int64]*PendingApplication
	// byModerator maps a moderator awaiting-reason binding to the
	// applicant whose application they are rejecting.
	byModerator map[int64]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		applicants:  make(map[int64]*ApplicantState),
		pending:     make(map[int64]*PendingApplication),
		byModerator: make(map[int64]int64),
	}
}

// Applicant implements Store.
func (m *MemoryStore) Applicant(_ context.Context, userID int64) (*ApplicantState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applicants[userID].clone(), nil
}

// PutApplicant implements Store.
func (m *MemoryStore) PutApplicant(_ context.Context, state *ApplicantState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applicants[state.UserID] = state.clone()
	return nil
}

// RemoveApplicant implements Store.
func (m *MemoryStore) RemoveApplicant(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.applicants, userID)
	return nil
}

// Pending implements Store.
func (m *MemoryStore) Pending(_ context.Context, userID int64) (*PendingApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[userID].clone(), nil
}

// PutPending implements Store.
func (m *MemoryStore) PutPending(_ context.Context, app *PendingApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unindexLocked(app.UserID)
	m.pending[app.UserID] = app.clone()
	if app.AwaitingReason {
		m.byModerator[app.DeclinedBy] = app.UserID
	}
	return nil
}

// TakePending implements Store.
func (m *MemoryStore) TakePending(_ context.Context, userID int64) (*PendingApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.pending[userID]
	if !ok {
		return nil, nil
	}
	delete(m.pending, userID)
	// Clear the claimed application's own binding. The row is already
	// gone from the map, so the binding must be derived from the app.
	if app.AwaitingReason && m.byModerator[app.DeclinedBy] == userID {
		delete(m.byModerator, app.DeclinedBy)
	}
	return app, nil
}

// PendingByModerator implements Store.
func (m *MemoryStore) PendingByModerator(_ context.Context, moderatorID int64) (*PendingApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.byModerator[moderatorID]
	if !ok {
		return nil, nil
	}
	// The binding is only valid while the application it points at is
	// still awaiting a reason from this moderator. A fresh application
	// under the same user ID must never match a leftover binding.
	app := m.pending[userID]
	if app == nil || !app.AwaitingReason || app.DeclinedBy != moderatorID {
		return nil, nil
	}
	return app.clone(), nil
}

// unindexLocked drops the moderator binding held by userID's current
// pending application, if any. The points-at check keeps a moderator's
// live binding to a different applicant intact: a second reject press
// rebinds the moderator, leaving the older application's record stale.
// Callers must hold mu.
func (m *MemoryStore) unindexLocked(userID int64) {
	if existing, ok := m.pending[userID]; ok && existing.AwaitingReason && m.byModerator[existing.DeclinedBy] == userID {
		delete(m.byModerator, existing.DeclinedBy)
	}
}
