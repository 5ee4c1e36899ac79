// Package hook implements the stop-hook decision: when a Cursor agent's turn
// ends, decide whether to hand it a follow-up instruction so it keeps working
// unattended, or let the conversation stop. The package is pure; reading the
// payload and emitting the decision are the caller's job.
package hook

// MaxAutoContinuations is Cursor's hard ceiling on automatic follow-ups per
// conversation. A policy may lower its own limit but can never exceed this;
// the editor ignores follow-ups past it.
const MaxAutoContinuations = 5

// Lifecycle statuses Cursor reports in the stop payload. The set is open;
// only aborted changes the outcome.
const (
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
	StatusError     = "error"
)

// Decision is the hook's reply to the editor. An empty decision lets the
// conversation stop; a non-empty FollowupMessage is injected as the next
// user turn.
type Decision struct {
	FollowupMessage string `json:"followup_message,omitempty"`
}

// Empty reports whether the decision lets the conversation stop.
func (d Decision) Empty() bool {
	return d.FollowupMessage == ""
}

// Policy is the rule set applied to one invocation.
type Policy struct {
	MaxContinuations int
	ContinueMessage  string
	LimitMessage     string
}

// DefaultPolicy returns the built-in rule set.
func DefaultPolicy() Policy {
	return Policy{
		MaxContinuations: MaxAutoContinuations,
		ContinueMessage:  DefaultContinueMessage,
		LimitMessage:     DefaultLimitMessage,
	}
}

// Decide applies the ordered stop-hook rules to a payload. A user abort always
// wins: automatic continuation must never override an explicit stop. At or past
// the continuation limit the agent gets a hand-off instruction instead of more
// work, since the editor would reject another follow-up anyway.
func (p Policy) Decide(payload Payload) Decision {
	if payload.Status == StatusAborted {
		return Decision{}
	}
	if payload.LoopCount >= p.Limit() {
		return Decision{FollowupMessage: p.GetLimitMessage()}
	}
	return Decision{FollowupMessage: p.GetContinueMessage()}
}

// Limit returns the effective continuation limit, clamped to the platform
// ceiling with default fallback.
func (p Policy) Limit() int {
	if p.MaxContinuations <= 0 || p.MaxContinuations > MaxAutoContinuations {
		return MaxAutoContinuations
	}
	return p.MaxContinuations
}

// GetContinueMessage returns the follow-up sent while under the limit,
// defaulting to the built-in text if not set.
func (p Policy) GetContinueMessage() string {
	if p.ContinueMessage == "" {
		return DefaultContinueMessage
	}
	return p.ContinueMessage
}

// GetLimitMessage returns the wind-down instruction sent at the limit,
// defaulting to the built-in text if not set.
func (p Policy) GetLimitMessage() string {
	if p.LimitMessage == "" {
		return DefaultLimitMessage
	}
	return p.LimitMessage
}
