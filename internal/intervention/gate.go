package intervention

import (
	"errors"
	"strings"
)

// ErrPhraseMismatch is the normal re-prompt state when the unlock
// challenge fails. Retries are unlimited.
var ErrPhraseMismatch = errors.New("unlock phrase does not match")

// ErrGateResolved rejects any interaction with a gate that has already
// ended. Override and stop are mutually exclusive, final outcomes.
var ErrGateResolved = errors.New("gate already resolved")

// Outcome records how a hard block ended.
type Outcome string

const (
	// OutcomeOverride: the user passed the unlock challenge and chose
	// to proceed anyway. The withheld advice is released.
	OutcomeOverride Outcome = "override"
	// OutcomeIntervened: the user chose to stop. The intervention worked.
	OutcomeIntervened Outcome = "intervened"
)

// Gate is the hard block confirmation loop. It holds the original
// generated advice back until the user either proves intent by retyping
// the unlock phrase verbatim and proceeding, or stops. There is no
// timeout and no retry limit; only explicit user action resolves it.
type Gate struct {
	template  *Template
	heldReply string
	unlocked  bool
	resolved  bool
	outcome   Outcome
}

// NewGate arms a gate for the given template, withholding reply.
func NewGate(template *Template, reply string) *Gate {
	return &Gate{template: template, heldReply: reply}
}

func (g *Gate) Template() *Template { return g.template }

// Attempt checks one unlock phrase entry. Comparison is case-sensitive
// and exact after trimming surrounding whitespace; anything else is
// rejected and the caller re-prompts.
func (g *Gate) Attempt(phrase string) error {
	if g.resolved {
		return ErrGateResolved
	}
	if strings.TrimSpace(phrase) != g.template.UnlockPhrase {
		return ErrPhraseMismatch
	}
	g.unlocked = true
	return nil
}

// Proceed releases the withheld advice. It fails unless a prior
// Attempt succeeded: there is no silent bypass, and a resolved gate
// cannot be reopened.
func (g *Gate) Proceed() (string, error) {
	if g.resolved {
		return "", ErrGateResolved
	}
	if !g.unlocked {
		return "", ErrPhraseMismatch
	}
	g.resolved = true
	g.outcome = OutcomeOverride
	return g.heldReply, nil
}

// Stop resolves the gate as a successful intervention. On an already
// resolved gate it is a no-op; the first resolution wins.
func (g *Gate) Stop() {
	if g.resolved {
		return
	}
	g.resolved = true
	g.outcome = OutcomeIntervened
}

// Resolved reports whether the gate has ended, and how.
func (g *Gate) Resolved() (Outcome, bool) {
	return g.outcome, g.resolved
}
