// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

// Phase is an applicant's position in the intake state machine. The
// zero value is PhaseNone. A single enum replaces separate
// submitted/awaiting-confirmation flags so contradictory combinations
// cannot be represented.
type Phase int

const (
	// PhaseNone: no questionnaire in progress.
	PhaseNone Phase = iota
	// PhaseQuestioning: answering questions; Step is 1..N.
	PhaseQuestioning
	// PhaseReviewing: all questions answered, summary sent, waiting
	// for the confirm/cancel buttons.
	PhaseReviewing
	// PhaseSubmitted: application handed to moderation; the applicant
	// state is immutable until the moderators resolve it.
	PhaseSubmitted
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseQuestioning:
		return "questioning"
	case PhaseReviewing:
		return "reviewing"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "invalid"
	}
}

// ApplicantState tracks one applicant's progress through the
// questionnaire. Invariant: len(Answers) == Step-1 while questioning.
type ApplicantState struct {
	// UserID is the applicant's identity; also their private chat ID.
	UserID int64

	// Step is the 1-based index of the next unanswered question.
	// After the last answer it is N+1.
	Step int

	// Answers holds the collected answers in question order.
	// Append-only until the state is discarded.
	Answers []string

	// Phase is the state machine position.
	Phase Phase

	// SummaryMessageID references the rendered summary message so its
	// confirm/cancel buttons can be disabled. Zero until a summary is
	// successfully sent.
	SummaryMessageID int
}

// clone returns a deep copy. Stores hand out clones so callers cannot
// alias store-internal state.
func (s *ApplicantState) clone() *ApplicantState {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Answers = append([]string(nil), s.Answers...)
	return &copied
}

// PendingApplication is a submitted application awaiting a moderator
// decision. It exists only between submission and resolution; removal
// is what makes accept and reject idempotent and mutually exclusive.
type PendingApplication struct {
	// UserID is the applicant's identity.
	UserID int64

	// Username is the applicant's handle at submission time; may be
	// empty. Human-readable notices fall back to FallbackName.
	Username string

	// Answers is a snapshot copied at submission. Later changes to
	// the applicant state (there should be none) cannot affect it.
	Answers []string

	// ModeratorMessageID references the application message in the
	// moderator chat, for disabling its buttons. Zero when that send
	// failed.
	ModeratorMessageID int

	// AwaitingReason is set once a moderator pressed reject and the
	// workflow waits for a free-text reason.
	AwaitingReason bool

	// DeclinedBy is the moderator who pressed reject. Only that
	// moderator's next message in the moderator chat is bound to this
	// application as the reason. Zero unless AwaitingReason.
	DeclinedBy int64
}

// clone returns a deep copy, for the same reason as ApplicantState.
func (a *PendingApplication) clone() *PendingApplication {
	if a == nil {
		return nil
	}
	copied := *a
	copied.Answers = append([]string(nil), a.Answers...)
	return &copied
}
