// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
)

const (
	testModeratorChat = int64(-100200300)
	testInviteLink    = "https://chat.example/join"
)

// sentMessage records one SendText call.
type sentMessage struct {
	ChatID  int64
	Text    string
	Buttons [][]Button
}

// disabledMessage records one DisableButtons call.
type disabledMessage struct {
	ChatID    int64
	MessageID int
}

// fakeTransport records every outbound call and assigns incrementing
// message IDs. Setting sendErr makes SendText fail.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	disabled []disabledMessage
	answered []string
	nextID   int
	sendErr  error
}

func (f *fakeTransport) SendText(_ context.Context, chatID int64, text string, buttons [][]Button) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, Buttons: buttons})
	return f.nextID, nil
}

func (f *fakeTransport) DisableButtons(_ context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled = append(f.disabled, disabledMessage{ChatID: chatID, MessageID: messageID})
	return nil
}

func (f *fakeTransport) AnswerCallback(_ context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackID)
	return nil
}

// reset clears the recorded calls, keeping the ID counter running so
// message IDs stay unique across a test scenario.
func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.disabled = nil
	f.answered = nil
}

// lastSent returns the most recent SendText call.
func (f *fakeTransport) lastSent(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("no messages sent")
	}
	return f.sent[len(f.sent)-1]
}

// sentTo returns every recorded message for one chat.
func (f *fakeTransport) sentTo(chatID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, msg := range f.sent {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

// harness wires a memory store, fake transport, engine, workflow, and
// dispatcher with the default profile.
type harness struct {
	store      *MemoryStore
	transport  *fakeTransport
	profile    Profile
	engine     *Engine
	workflow   *Workflow
	dispatcher *Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewMemoryStore()
	transport := &fakeTransport{}
	profile := DefaultProfile()
	engine := NewEngine(store, transport, profile, logger)
	workflow := NewWorkflow(store, transport, profile, testModeratorChat, testInviteLink, logger)
	dispatcher := NewDispatcher(store, engine, workflow, transport, profile, testModeratorChat, logger)
	return &harness{
		store:      store,
		transport:  transport,
		profile:    profile,
		engine:     engine,
		workflow:   workflow,
		dispatcher: dispatcher,
	}
}

// completeQuestionnaire drives an applicant through /start and every
// answer, leaving them at the reviewing summary.
func (h *harness) completeQuestionnaire(t *testing.T, userID int64, answers ...string) {
	t.Helper()
	if len(answers) != len(h.profile.Questions) {
		t.Fatalf("need %d answers, got %d", len(h.profile.Questions), len(answers))
	}
	ctx := context.Background()
	h.engine.Start(ctx, userID)
	for _, answer := range answers {
		h.engine.RecordAnswer(ctx, userID, answer)
	}
	state := h.mustApplicant(t, userID)
	if state.Phase != PhaseReviewing {
		t.Fatalf("after all answers phase = %v, want reviewing", state.Phase)
	}
}

// submit drives an applicant through the questionnaire and into the
// moderation queue.
func (h *harness) submit(t *testing.T, userID int64, username string) {
	t.Helper()
	h.completeQuestionnaire(t, userID, "a1", "a2", "a3", "a4")
	h.workflow.Submit(context.Background(), userID, username)
	if app := h.mustPending(t, userID); app.Username != username {
		t.Fatalf("pending username = %q, want %q", app.Username, username)
	}
}

func (h *harness) mustApplicant(t *testing.T, userID int64) *ApplicantState {
	t.Helper()
	state, err := h.store.Applicant(context.Background(), userID)
	if err != nil {
		t.Fatalf("Applicant: %v", err)
	}
	if state == nil {
		t.Fatalf("no applicant state for %d", userID)
	}
	return state
}

func (h *harness) mustPending(t *testing.T, userID int64) *PendingApplication {
	t.Helper()
	app, err := h.store.Pending(context.Background(), userID)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if app == nil {
		t.Fatalf("no pending application for %d", userID)
	}
	return app
}

func (h *harness) noApplicant(t *testing.T, userID int64) {
	t.Helper()
	state, err := h.store.Applicant(context.Background(), userID)
	if err != nil {
		t.Fatalf("Applicant: %v", err)
	}
	if state != nil {
		t.Fatalf("unexpected applicant state for %d: %+v", userID, state)
	}
}

func (h *harness) noPending(t *testing.T, userID int64) {
	t.Helper()
	app, err := h.store.Pending(context.Background(), userID)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if app != nil {
		t.Fatalf("unexpected pending application for %d: %+v", userID, app)
	}
}
