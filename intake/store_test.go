// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"context"
	"testing"
)

func TestMemoryStoreApplicant(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("absent returns nil", func(t *testing.T) {
		state, err := store.Applicant(ctx, 1)
		if err != nil {
			t.Fatalf("Applicant: %v", err)
		}
		if state != nil {
			t.Fatalf("got %+v, want nil", state)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		in := &ApplicantState{UserID: 1, Step: 2, Answers: []string{"25"}, Phase: PhaseQuestioning}
		if err := store.PutApplicant(ctx, in); err != nil {
			t.Fatalf("PutApplicant: %v", err)
		}
		out, err := store.Applicant(ctx, 1)
		if err != nil {
			t.Fatalf("Applicant: %v", err)
		}
		if out.Step != 2 || out.Phase != PhaseQuestioning || len(out.Answers) != 1 {
			t.Fatalf("got %+v", out)
		}
	})

	t.Run("returned state is a copy", func(t *testing.T) {
		out, _ := store.Applicant(ctx, 1)
		out.Answers[0] = "mutated"
		out.Step = 99
		again, _ := store.Applicant(ctx, 1)
		if again.Answers[0] != "25" || again.Step != 2 {
			t.Fatalf("store aliased caller state: %+v", again)
		}
	})

	t.Run("stored state is a copy", func(t *testing.T) {
		in := &ApplicantState{UserID: 2, Step: 1, Answers: []string{"x"}, Phase: PhaseQuestioning}
		store.PutApplicant(ctx, in)
		in.Answers[0] = "mutated"
		out, _ := store.Applicant(ctx, 2)
		if out.Answers[0] != "x" {
			t.Fatalf("store aliased input state: %+v", out)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := store.RemoveApplicant(ctx, 1); err != nil {
			t.Fatalf("RemoveApplicant: %v", err)
		}
		state, _ := store.Applicant(ctx, 1)
		if state != nil {
			t.Fatalf("state survived removal: %+v", state)
		}
		// Removing again is a no-op.
		if err := store.RemoveApplicant(ctx, 1); err != nil {
			t.Fatalf("RemoveApplicant (absent): %v", err)
		}
	})
}

func TestMemoryStorePending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	app := &PendingApplication{
		UserID:             7,
		Username:           "alice",
		Answers:            []string{"a", "b"},
		ModeratorMessageID: 41,
	}
	if err := store.PutPending(ctx, app); err != nil {
		t.Fatalf("PutPending: %v", err)
	}

	t.Run("get", func(t *testing.T) {
		out, err := store.Pending(ctx, 7)
		if err != nil {
			t.Fatalf("Pending: %v", err)
		}
		if out.Username != "alice" || out.ModeratorMessageID != 41 {
			t.Fatalf("got %+v", out)
		}
	})

	t.Run("take claims exactly once", func(t *testing.T) {
		first, err := store.TakePending(ctx, 7)
		if err != nil {
			t.Fatalf("TakePending: %v", err)
		}
		if first == nil {
			t.Fatal("first take returned nil")
		}
		second, err := store.TakePending(ctx, 7)
		if err != nil {
			t.Fatalf("TakePending: %v", err)
		}
		if second != nil {
			t.Fatalf("second take returned %+v, want nil", second)
		}
	})
}

func TestMemoryStoreModeratorIndex(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	app := &PendingApplication{UserID: 7, Username: "alice"}
	store.PutPending(ctx, app)

	t.Run("unbound moderator finds nothing", func(t *testing.T) {
		out, err := store.PendingByModerator(ctx, 500)
		if err != nil {
			t.Fatalf("PendingByModerator: %v", err)
		}
		if out != nil {
			t.Fatalf("got %+v, want nil", out)
		}
	})

	t.Run("binding indexes by moderator", func(t *testing.T) {
		app.AwaitingReason = true
		app.DeclinedBy = 500
		store.PutPending(ctx, app)
		out, err := store.PendingByModerator(ctx, 500)
		if err != nil {
			t.Fatalf("PendingByModerator: %v", err)
		}
		if out == nil || out.UserID != 7 {
			t.Fatalf("got %+v, want application for user 7", out)
		}
	})

	t.Run("rebinding moves the index", func(t *testing.T) {
		app.DeclinedBy = 501
		store.PutPending(ctx, app)
		if out, _ := store.PendingByModerator(ctx, 500); out != nil {
			t.Fatalf("stale binding for 500: %+v", out)
		}
		if out, _ := store.PendingByModerator(ctx, 501); out == nil {
			t.Fatal("no binding for 501")
		}
	})

	t.Run("take clears the binding", func(t *testing.T) {
		if taken, _ := store.TakePending(ctx, 7); taken == nil {
			t.Fatal("take returned nil")
		}
		if out, _ := store.PendingByModerator(ctx, 501); out != nil {
			t.Fatalf("binding survived take: %+v", out)
		}
		// A fresh application under the same user ID must not be
		// reachable through a leftover binding.
		store.PutPending(ctx, &PendingApplication{UserID: 7, Username: "alice"})
		if out, _ := store.PendingByModerator(ctx, 501); out != nil {
			t.Fatalf("stale binding matched a fresh application: %+v", out)
		}
	})
}

func TestMemoryStoreRebindKeepsLiveBinding(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Moderator 500 presses reject on applicant 7, then on applicant 8.
	// Applicant 7's record still carries DeclinedBy=500, but the live
	// binding belongs to applicant 8.
	store.PutPending(ctx, &PendingApplication{UserID: 7, AwaitingReason: true, DeclinedBy: 500})
	store.PutPending(ctx, &PendingApplication{UserID: 8, AwaitingReason: true, DeclinedBy: 500})

	t.Run("resolving the stale record keeps the binding", func(t *testing.T) {
		if taken, _ := store.TakePending(ctx, 7); taken == nil {
			t.Fatal("take returned nil")
		}
		out, err := store.PendingByModerator(ctx, 500)
		if err != nil {
			t.Fatalf("PendingByModerator: %v", err)
		}
		if out == nil || out.UserID != 8 {
			t.Fatalf("got %+v, want the live binding to applicant 8", out)
		}
	})

	t.Run("rewriting the stale record keeps the binding", func(t *testing.T) {
		store.PutPending(ctx, &PendingApplication{UserID: 7, AwaitingReason: true, DeclinedBy: 500})
		store.PutPending(ctx, &PendingApplication{UserID: 8, AwaitingReason: true, DeclinedBy: 500})
		// Applicant 7's record is replaced without a reject press.
		store.PutPending(ctx, &PendingApplication{UserID: 7})
		out, _ := store.PendingByModerator(ctx, 500)
		if out == nil || out.UserID != 8 {
			t.Fatalf("got %+v, want the live binding to applicant 8", out)
		}
	})
}
