// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Profile bundles the questionnaire prompts and every user-visible
// phrase. The compiled-in default is [DefaultProfile]; a YAML profile
// file may override any part of it. No other text ever reaches an
// applicant or moderator — errors are never surfaced as raw messages.
type Profile struct {
	// Questions is the fixed ordered prompt list. The questionnaire
	// is prompt-by-position only: no branching on answer content, no
	// validation of answer text.
	Questions []string `yaml:"questions"`

	Messages Messages `yaml:"messages"`
}

// Messages is the catalog of fixed phrases. Fields ending in Format
// are fmt.Sprintf templates; their doc comments state the operands.
type Messages struct {
	// Greeting opens the conversation after /start, before the first
	// question.
	Greeting string `yaml:"greeting"`

	// StartPrompt is sent for any message from an applicant with no
	// questionnaire in progress.
	StartPrompt string `yaml:"start_prompt"`

	// PendingReply answers every message from an applicant whose
	// application is already under review.
	PendingReply string `yaml:"pending_reply"`

	// UseButtons answers free text sent while the summary's
	// confirm/cancel buttons are active.
	UseButtons string `yaml:"use_buttons"`

	// SummaryFooter is appended below the rendered answer list.
	SummaryFooter string `yaml:"summary_footer"`

	// EmptyAnswers renders in place of an empty answer list. Not
	// reachable under normal flow, but rendering must not break.
	EmptyAnswers string `yaml:"empty_answers"`

	// ConfirmLabel and CancelLabel caption the summary buttons.
	ConfirmLabel string `yaml:"confirm_label"`
	CancelLabel  string `yaml:"cancel_label"`

	// AcceptLabel and RejectLabel caption the moderator buttons.
	AcceptLabel string `yaml:"accept_label"`
	RejectLabel string `yaml:"reject_label"`

	// Cancelled confirms a cancel press and invites a fresh start.
	Cancelled string `yaml:"cancelled"`

	// Submitted confirms to the applicant that the application went
	// to the moderators.
	Submitted string `yaml:"submitted"`

	// ReasonPrompt asks the moderator chat for a rejection reason.
	ReasonPrompt string `yaml:"reason_prompt"`

	// DefaultRejectReason substitutes for a blank reason.
	DefaultRejectReason string `yaml:"default_reject_reason"`

	// AcceptedFormat is sent to an accepted applicant. Operand: the
	// escaped access grant link.
	AcceptedFormat string `yaml:"accepted_format"`

	// RejectedFormat is sent to a rejected applicant. Operand: the
	// escaped rejection reason.
	RejectedFormat string `yaml:"rejected_format"`

	// NewApplicationFormat posts an application to the moderator
	// chat. Operands: display name, rendered answer list.
	NewApplicationFormat string `yaml:"new_application_format"`

	// ModeratorAcceptedFormat and ModeratorRejectedFormat notify the
	// moderator chat of the outcome. Operand: display name.
	ModeratorAcceptedFormat string `yaml:"moderator_accepted_format"`
	ModeratorRejectedFormat string `yaml:"moderator_rejected_format"`
}

// DefaultProfile returns the compiled-in questionnaire and phrases.
func DefaultProfile() Profile {
	return Profile{
		Questions: []string{
			"How old are you?",
			"Have you worked in this field before?\n" +
				"If yes — where, and at what scale?\n" +
				"If not — tell us where you do have experience.",
			"Are you able to cover a small starting cost for materials?",
			"Link to the forum or place where you heard about us.",
		},
		Messages: Messages{
			Greeting: "Welcome! This is the community intake bot.\n\n" +
				"We are looking for new members. Answer a few short questions " +
				"and a moderator will review your application.",
			StartPrompt:         "To apply, send the /start command.",
			PendingReply:        "Your application has been sent for review. A moderator will reply once a decision is made.",
			UseButtons:          "Please use the buttons below to confirm or cancel your application.",
			SummaryFooter:       "Please make sure the application is filled out correctly.",
			EmptyAnswers:        "(empty)",
			ConfirmLabel:        "✅ Confirm",
			CancelLabel:         "❌ Cancel",
			AcceptLabel:         "✅ Accept",
			RejectLabel:         "❌ Reject",
			Cancelled:           "Application cancelled. Send /start to begin again.",
			Submitted:           "Your application has been sent for review. A moderator will reply once a decision is made.",
			ReasonPrompt:        "Please enter the rejection reason:",
			DefaultRejectReason: "No reason given",
			AcceptedFormat:      "🎉 <b>Welcome aboard!</b>\n\n%s",
			RejectedFormat: "🚫 <b>Your application was rejected. Reason:</b>\n%s\n\n" +
				"You may apply again by sending /start.",
			NewApplicationFormat:    "📌 New application from @%s:\n\n%s",
			ModeratorAcceptedFormat: "Application from @%s accepted.",
			ModeratorRejectedFormat: "Application from @%s rejected.",
		},
	}
}

// renderAnswerList renders answers as a numbered list with each answer
// HTML-escaped, using emptyMarker for a zero-length list. The output
// embeds in HTML-formatted outbound text, so escaping here is what
// keeps user-supplied markup inert.
func renderAnswerList(answers []string, emptyMarker string) string {
	if len(answers) == 0 {
		return emptyMarker
	}
	lines := make([]string, len(answers))
	for i, answer := range answers {
		lines[i] = fmt.Sprintf("%d. %s", i+1, html.EscapeString(answer))
	}
	return strings.Join(lines, "\n")
}

// FallbackName returns a display name for notifications: the username
// when present, otherwise a synthetic one from the numeric identity.
func FallbackName(username string, userID int64) string {
	if username != "" {
		return username
	}
	return "user" + strconv.FormatInt(userID, 10)
}
