// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Engine advances an applicant through the fixed question sequence and
// presents the confirmation summary. It owns PhaseNone through
// PhaseReviewing; the moderation workflow takes over at submission.
type Engine struct {
	store     Store
	transport Transport
	profile   Profile
	logger    *slog.Logger
}

// NewEngine creates a questionnaire engine.
func NewEngine(store Store, transport Transport, profile Profile, logger *slog.Logger) *Engine {
	return &Engine{
		store:     store,
		transport: transport,
		profile:   profile,
		logger:    logger,
	}
}

// Start resets the applicant to a fresh questionnaire at step 1 and
// sends the greeting followed by the first question. Any previous
// unsubmitted state is overwritten, not merged.
func (e *Engine) Start(ctx context.Context, userID int64) {
	state := &ApplicantState{
		UserID: userID,
		Step:   1,
		Phase:  PhaseQuestioning,
	}
	if err := e.store.PutApplicant(ctx, state); err != nil {
		e.logger.Error("storing fresh applicant state", "user_id", userID, "error", err)
		return
	}

	e.send(ctx, userID, e.profile.Messages.Greeting)
	e.askQuestion(ctx, state)
}

// RecordAnswer appends the applicant's answer and advances to the next
// question, or to the summary once every question is answered. Calls
// outside PhaseQuestioning (or with Step out of range) are no-ops:
// the dispatcher's legality table should prevent them, and an
// inconsistent stored state must not mutate further.
func (e *Engine) RecordAnswer(ctx context.Context, userID int64, text string) {
	state, err := e.store.Applicant(ctx, userID)
	if err != nil {
		e.logger.Error("loading applicant state", "user_id", userID, "error", err)
		return
	}
	if state == nil || state.Phase != PhaseQuestioning {
		return
	}
	if state.Step < 1 || state.Step > len(e.profile.Questions) {
		return
	}

	// Inbound text arrives with whatever padding the client sent;
	// answers are stored trimmed so summaries render clean.
	state.Answers = append(state.Answers, strings.TrimSpace(text))
	state.Step++
	if err := e.store.PutApplicant(ctx, state); err != nil {
		e.logger.Error("storing answer", "user_id", userID, "error", err)
		return
	}

	if state.Step <= len(e.profile.Questions) {
		e.askQuestion(ctx, state)
		return
	}
	e.presentSummary(ctx, state)
}

// askQuestion sends the prompt for the state's current step.
func (e *Engine) askQuestion(ctx context.Context, state *ApplicantState) {
	if state.Step < 1 || state.Step > len(e.profile.Questions) {
		return
	}
	e.send(ctx, state.UserID, e.profile.Questions[state.Step-1])
}

// presentSummary renders the collected answers with confirm/cancel
// buttons. Only a successful send moves the state to PhaseReviewing;
// on failure the state is left as-is, so the applicant can be nudged
// by transport-level handling rather than engine logic.
func (e *Engine) presentSummary(ctx context.Context, state *ApplicantState) {
	text := renderAnswerList(state.Answers, e.profile.Messages.EmptyAnswers) +
		"\n\n" + e.profile.Messages.SummaryFooter

	buttons := [][]Button{{
		{Label: e.profile.Messages.ConfirmLabel, Data: encodeCallback(actionUserAccept, state.UserID)},
		{Label: e.profile.Messages.CancelLabel, Data: encodeCallback(actionUserDecline, state.UserID)},
	}}

	messageID, err := e.transport.SendText(ctx, state.UserID, text, buttons)
	if err != nil {
		e.logger.Error("sending summary", "user_id", state.UserID, "error", err)
		return
	}

	state.Phase = PhaseReviewing
	state.SummaryMessageID = messageID
	if err := e.store.PutApplicant(ctx, state); err != nil {
		e.logger.Error("storing reviewing state", "user_id", state.UserID, "error", err)
	}
}

// send delivers a plain text message, logging and swallowing any
// transport failure.
func (e *Engine) send(ctx context.Context, chatID int64, text string) {
	if _, err := e.transport.SendText(ctx, chatID, text, nil); err != nil {
		e.logger.Warn("send failed", "chat_id", chatID, "error", fmt.Errorf("questionnaire: %w", err))
	}
}
