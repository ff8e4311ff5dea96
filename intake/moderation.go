// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
)

// Workflow resolves submitted applications. It is the only component
// that creates or removes pending applications, and every resolution
// removes the pending record before performing any side effect —
// that ordering, not locking, is what makes duplicate and competing
// moderator actions no-ops.
type Workflow struct {
	store           Store
	transport       Transport
	profile         Profile
	moderatorChatID int64
	inviteLink      string
	logger          *slog.Logger
}

// NewWorkflow creates a moderation workflow. moderatorChatID is the
// review chat; inviteLink is the access grant delivered on acceptance.
func NewWorkflow(store Store, transport Transport, profile Profile, moderatorChatID int64, inviteLink string, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:           store,
		transport:       transport,
		profile:         profile,
		moderatorChatID: moderatorChatID,
		inviteLink:      inviteLink,
		logger:          logger,
	}
}

// Submit moves a confirmed application into moderation: the applicant
// state becomes immutable, the answers are snapshotted into a pending
// application, and the application is posted to the moderator chat
// with accept/reject buttons. No-op unless the applicant exists and
// has not already submitted.
//
// The moderator post is best effort: if it fails, the pending
// application is still tracked (with no message to disable later) and
// moderators can only learn of it out of band — accepted drift, same
// as every transport failure.
func (w *Workflow) Submit(ctx context.Context, userID int64, username string) {
	state, err := w.store.Applicant(ctx, userID)
	if err != nil {
		w.logger.Error("loading applicant state", "user_id", userID, "error", err)
		return
	}
	if state == nil || state.Phase == PhaseSubmitted {
		return
	}

	state.Phase = PhaseSubmitted
	if err := w.store.PutApplicant(ctx, state); err != nil {
		w.logger.Error("storing submitted state", "user_id", userID, "error", err)
		return
	}

	w.disableButtons(ctx, userID, state.SummaryMessageID)

	rendered := renderAnswerList(state.Answers, w.profile.Messages.EmptyAnswers)
	post := fmt.Sprintf(w.profile.Messages.NewApplicationFormat, FallbackName(username, userID), rendered)
	buttons := [][]Button{{
		{Label: w.profile.Messages.AcceptLabel, Data: encodeCallback(actionModAccept, userID)},
		{Label: w.profile.Messages.RejectLabel, Data: encodeCallback(actionModDecline, userID)},
	}}
	moderatorMessageID, err := w.transport.SendText(ctx, w.moderatorChatID, post, buttons)
	if err != nil {
		w.logger.Error("posting application to moderators", "user_id", userID, "error", err)
		moderatorMessageID = 0
	}

	pending := &PendingApplication{
		UserID:             userID,
		Username:           username,
		Answers:            append([]string(nil), state.Answers...),
		ModeratorMessageID: moderatorMessageID,
	}
	if err := w.store.PutPending(ctx, pending); err != nil {
		w.logger.Error("storing pending application", "user_id", userID, "error", err)
		return
	}

	w.send(ctx, userID, w.profile.Messages.Submitted)
	w.logger.Info("application submitted", "user_id", userID)
}

// Cancel discards an unsubmitted questionnaire wholesale: the summary
// buttons are spent and the applicant state is removed, so the next
// /start begins a completely fresh application. No-op once submitted.
func (w *Workflow) Cancel(ctx context.Context, userID int64) {
	state, err := w.store.Applicant(ctx, userID)
	if err != nil {
		w.logger.Error("loading applicant state", "user_id", userID, "error", err)
		return
	}
	if state == nil || state.Phase == PhaseSubmitted {
		return
	}

	w.disableButtons(ctx, userID, state.SummaryMessageID)

	if err := w.store.RemoveApplicant(ctx, userID); err != nil {
		w.logger.Error("removing applicant state", "user_id", userID, "error", err)
		return
	}
	w.send(ctx, userID, w.profile.Messages.Cancelled)
	w.logger.Info("application cancelled", "user_id", userID)
}

// Accept resolves a pending application in the applicant's favor. The
// pending record is claimed (removed) first, so a duplicate press or
// a concurrent reject finds nothing and does nothing. The applicant
// receives the acceptance notice with the access grant; the moderator
// chat is notified; the applicant state is retired so a future /start
// starts over.
func (w *Workflow) Accept(ctx context.Context, userID int64) {
	app, err := w.store.TakePending(ctx, userID)
	if err != nil {
		w.logger.Error("claiming pending application", "user_id", userID, "error", err)
		return
	}
	if app == nil {
		return
	}

	w.disableButtons(ctx, w.moderatorChatID, app.ModeratorMessageID)

	w.send(ctx, userID, fmt.Sprintf(w.profile.Messages.AcceptedFormat, html.EscapeString(w.inviteLink)))
	w.send(ctx, w.moderatorChatID, fmt.Sprintf(w.profile.Messages.ModeratorAcceptedFormat, FallbackName(app.Username, userID)))

	w.retireApplicant(ctx, userID)
	w.logger.Info("application accepted", "user_id", userID)
}

// RequestRejectionReason marks the application as awaiting a free-text
// reason from the moderator who pressed reject, and prompts the
// moderator chat. The accept/reject buttons stay live; the claim in
// Accept and FinalizeRejection keeps any race safe. No-op without a
// pending application.
func (w *Workflow) RequestRejectionReason(ctx context.Context, userID, moderatorID int64) {
	app, err := w.store.Pending(ctx, userID)
	if err != nil {
		w.logger.Error("loading pending application", "user_id", userID, "error", err)
		return
	}
	if app == nil {
		return
	}

	app.AwaitingReason = true
	app.DeclinedBy = moderatorID
	if err := w.store.PutPending(ctx, app); err != nil {
		w.logger.Error("storing reason binding", "user_id", userID, "error", err)
		return
	}

	w.send(ctx, w.moderatorChatID, w.profile.Messages.ReasonPrompt)
	w.logger.Info("rejection reason requested", "user_id", userID, "moderator_id", moderatorID)
}

// FinalizeRejection binds a moderator-chat message to the application
// that moderator is rejecting and resolves it. Only the moderator who
// pressed reject can supply the reason; messages from anyone else (or
// when nothing awaits a reason) are inert so moderators can chat
// freely. A blank reason is replaced by the fixed default phrase.
func (w *Workflow) FinalizeRejection(ctx context.Context, moderatorID int64, reason string) {
	bound, err := w.store.PendingByModerator(ctx, moderatorID)
	if err != nil {
		w.logger.Error("resolving moderator binding", "moderator_id", moderatorID, "error", err)
		return
	}
	if bound == nil || !bound.AwaitingReason || bound.DeclinedBy != moderatorID {
		return
	}

	// Claim the application. A concurrent accept may have resolved it
	// between the lookup and here; then this is a no-op.
	app, err := w.store.TakePending(ctx, bound.UserID)
	if err != nil {
		w.logger.Error("claiming pending application", "user_id", bound.UserID, "error", err)
		return
	}
	if app == nil {
		return
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = w.profile.Messages.DefaultRejectReason
	}

	w.send(ctx, app.UserID, fmt.Sprintf(w.profile.Messages.RejectedFormat, html.EscapeString(reason)))
	w.disableButtons(ctx, w.moderatorChatID, app.ModeratorMessageID)
	w.send(ctx, w.moderatorChatID, fmt.Sprintf(w.profile.Messages.ModeratorRejectedFormat, FallbackName(app.Username, app.UserID)))

	w.retireApplicant(ctx, app.UserID)
	w.logger.Info("application rejected", "user_id", app.UserID, "moderator_id", moderatorID)
}

// retireApplicant removes the resolved applicant state. Resolution is
// terminal for that state; removal is what lets the applicant start a
// brand-new questionnaire later.
func (w *Workflow) retireApplicant(ctx context.Context, userID int64) {
	if err := w.store.RemoveApplicant(ctx, userID); err != nil {
		w.logger.Error("retiring applicant state", "user_id", userID, "error", err)
	}
}

// disableButtons spends an inline keyboard, tolerating both a zero
// message reference (the original send failed) and a transport error.
func (w *Workflow) disableButtons(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := w.transport.DisableButtons(ctx, chatID, messageID); err != nil {
		w.logger.Warn("disabling buttons failed", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

// send delivers a plain text message, logging and swallowing any
// transport failure.
func (w *Workflow) send(ctx context.Context, chatID int64, text string) {
	if _, err := w.transport.SendText(ctx, chatID, text, nil); err != nil {
		w.logger.Warn("send failed", "chat_id", chatID, "error", err)
	}
}
