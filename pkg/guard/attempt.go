package guard

import (
	"fmt"

	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// Phase is the lifecycle state of one access attempt.
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseGranted Phase = "granted"
	PhaseDenied  Phase = "denied"
)

func (p Phase) String() string {
	return string(p)
}

// Resolved reports whether the phase is terminal.
func (p Phase) Resolved() bool {
	return p == PhaseGranted || p == PhaseDenied
}

type attemptEvent string

const (
	eventGrant attemptEvent = "grant"
	eventDeny  attemptEvent = "deny"
)

// attemptTransitions is the full transition table. Resolved phases have no
// outgoing edges.
var attemptTransitions = map[Phase]map[attemptEvent]Phase{
	PhasePending: {
		eventGrant: PhaseGranted,
		eventDeny:  PhaseDenied,
	},
}

// TransitionError reports an event fired from a phase that does not accept it.
type TransitionError struct {
	From  Phase
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no transition from phase '%s' for event '%s'", e.From, e.Event)
}

// attempt tracks a single guard evaluation from invocation to decision.
// It is owned by one Evaluate call.
type attempt struct {
	phase  Phase
	reason string
}

func newAttempt() *attempt {
	return &attempt{phase: PhasePending}
}

func (a *attempt) fire(ev attemptEvent, reason string) error {
	next, ok := attemptTransitions[a.phase][ev]
	if !ok {
		return &TransitionError{From: a.phase, Event: string(ev)}
	}
	a.phase = next
	a.reason = reason
	return nil
}

// resolve grants on an empty reason and denies otherwise.
func (a *attempt) resolve(reason string) error {
	if reason == "" {
		return a.fire(eventGrant, "")
	}
	return a.fire(eventDeny, reason)
}

// decision reports the attempt outcome, made on st. Denied attempts carry
// the redirect to fallback.
func (a *attempt) decision(st rbac.State, fallback, url string) Decision {
	d := Decision{Phase: a.phase, Reason: a.reason, State: st}
	if a.phase == PhaseDenied {
		to := deniedRedirect(fallback, a.reason, url)
		d.Redirect = &to
	}
	return d
}
