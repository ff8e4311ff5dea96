// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// action is a callback payload tag. The payload wire format is
// "tag:targetID" with a decimal applicant identity.
type action string

const (
	// actionUserAccept: applicant confirms their summary.
	actionUserAccept action = "user_accept"
	// actionUserDecline: applicant cancels their questionnaire.
	actionUserDecline action = "user_decline"
	// actionModAccept: moderator accepts a pending application.
	actionModAccept action = "mod_accept"
	// actionModDecline: moderator starts a rejection.
	actionModDecline action = "mod_decline"
)

// callbackSeparator joins the action tag and the target identity.
const callbackSeparator = ":"

// encodeCallback builds a button payload for the given action and
// target applicant.
func encodeCallback(tag action, targetID int64) string {
	return string(tag) + callbackSeparator + strconv.FormatInt(targetID, 10)
}

// parseCallback splits a button payload back into its action tag and
// target identity. ok is false for malformed payloads (no separator,
// unknown tag, non-integer identity); callers drop those silently.
func parseCallback(data string) (tag action, targetID int64, ok bool) {
	raw, idPart, found := strings.Cut(data, callbackSeparator)
	if !found {
		return "", 0, false
	}
	switch action(raw) {
	case actionUserAccept, actionUserDecline, actionModAccept, actionModDecline:
	default:
		return "", 0, false
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return action(raw), id, true
}

// TextMessage is an inbound free-text event.
type TextMessage struct {
	// ChatID is the conversation the message arrived in: the
	// applicant's private chat or the moderator chat.
	ChatID int64
	// SenderID identifies the author.
	SenderID int64
	// SenderName is the author's handle; may be empty.
	SenderName string
	// Text is the message body.
	Text string
}

// ButtonPress is an inbound callback event from an inline keyboard.
type ButtonPress struct {
	// CallbackID is the platform's handle for acknowledging the
	// press.
	CallbackID string
	// SenderID identifies the presser.
	SenderID int64
	// SenderName is the presser's handle; may be empty.
	SenderName string
	// Data is the raw button payload.
	Data string
}

// Dispatcher classifies every inbound event and enforces which actions
// are legal in the current state before handing off to the engine or
// the workflow. Illegal events get a fixed reply or are silently
// ignored; they never mutate state.
type Dispatcher struct {
	store           Store
	engine          *Engine
	workflow        *Workflow
	transport       Transport
	profile         Profile
	moderatorChatID int64
	logger          *slog.Logger
}

// NewDispatcher creates a dispatcher over the engine and workflow.
func NewDispatcher(store Store, engine *Engine, workflow *Workflow, transport Transport, profile Profile, moderatorChatID int64, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:           store,
		engine:          engine,
		workflow:        workflow,
		transport:       transport,
		profile:         profile,
		moderatorChatID: moderatorChatID,
		logger:          logger,
	}
}

// HandleText routes a free-text event.
//
// Moderator-chat text is only ever meaningful as a rejection reason
// bound to the sender; everything else in that chat is inert so
// moderators can talk freely.
//
// Applicant text is gated by the state machine: /start begins (or
// restarts) a questionnaire, answers advance it, and anything sent
// in a phase that does not expect text gets a fixed reply.
func (d *Dispatcher) HandleText(ctx context.Context, msg TextMessage) {
	if msg.ChatID == d.moderatorChatID {
		d.workflow.FinalizeRejection(ctx, msg.SenderID, msg.Text)
		return
	}

	state, err := d.store.Applicant(ctx, msg.SenderID)
	if err != nil {
		d.logger.Error("loading applicant state", "user_id", msg.SenderID, "error", err)
		return
	}

	switch {
	case state == nil:
		if isStartCommand(msg.Text) {
			d.engine.Start(ctx, msg.SenderID)
			return
		}
		d.reply(ctx, msg.ChatID, d.profile.Messages.StartPrompt)

	case state.Phase == PhaseSubmitted:
		d.reply(ctx, msg.ChatID, d.profile.Messages.PendingReply)

	case state.Phase == PhaseReviewing:
		d.reply(ctx, msg.ChatID, d.profile.Messages.UseButtons)

	case state.Phase == PhaseQuestioning && state.Step >= 1 && state.Step <= len(d.profile.Questions):
		d.engine.RecordAnswer(ctx, msg.SenderID, msg.Text)

	default:
		// Inconsistent stored state (step out of range, or a phase
		// the table does not cover). Never mutate it implicitly; a
		// fresh /start overwrites it.
		if isStartCommand(msg.Text) {
			d.engine.Start(ctx, msg.SenderID)
			return
		}
		d.reply(ctx, msg.ChatID, d.profile.Messages.StartPrompt)
	}
}

// HandleCallback routes a button press. Every callback is acknowledged
// first, regardless of outcome — the platform needs the ack to clear
// the pending-action indicator on the presser's client. Malformed
// payloads are dropped; an applicant-scoped action pressed by anyone
// other than its target is ignored.
func (d *Dispatcher) HandleCallback(ctx context.Context, press ButtonPress) {
	if err := d.transport.AnswerCallback(ctx, press.CallbackID); err != nil {
		d.logger.Warn("acknowledging callback failed", "callback_id", press.CallbackID, "error", err)
	}

	tag, targetID, ok := parseCallback(press.Data)
	if !ok {
		d.logger.Debug("dropping malformed callback payload", "data", press.Data)
		return
	}

	switch tag {
	case actionUserAccept, actionUserDecline:
		// The press must come from the applicant the button targets.
		if press.SenderID != targetID {
			return
		}
		if tag == actionUserAccept {
			d.workflow.Submit(ctx, targetID, press.SenderName)
		} else {
			d.workflow.Cancel(ctx, targetID)
		}

	case actionModAccept:
		d.workflow.Accept(ctx, targetID)

	case actionModDecline:
		d.workflow.RequestRejectionReason(ctx, targetID, press.SenderID)
	}
}

// reply sends a fixed phrase, logging and swallowing any transport
// failure.
func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) {
	if _, err := d.transport.SendText(ctx, chatID, text, nil); err != nil {
		d.logger.Warn("reply failed", "chat_id", chatID, "error", err)
	}
}

// isStartCommand reports whether text is the questionnaire start
// command. Matching is case-insensitive after trimming.
func isStartCommand(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "/start")
}
