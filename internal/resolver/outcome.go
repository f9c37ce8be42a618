package resolver

import (
	"encoding/json"

	"github.com/dusk-indust/n0conflict/internal/capability"
)

// Status is the result of attempting one block.
type Status int

const (
	StatusResolved Status = iota + 1
	StatusUnresolved
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Kind says why a block was left unresolved.
type Kind string

const (
	// KindDeclined means the capability judged the sides incompatible.
	KindDeclined Kind = "declined"
	// KindCapability means the capability could not be reached or answered
	// unusably.
	KindCapability Kind = "capability"
	// KindValidation means a proposed resolution failed structural checks.
	KindValidation Kind = "validation"
	// KindCanceled means the run was canceled before the block finished.
	KindCanceled Kind = "canceled"
)

var defaultExplanations = map[Kind]string{
	KindDeclined:   "the resolver declined without giving a reason",
	KindCapability: "the resolution service failed",
	KindValidation: "the proposed resolution failed validation",
	KindCanceled:   "resolution was canceled",
}

// Outcome is the result of resolving one block. Exactly one of the
// resolved text or the explanation is present.
type Outcome struct {
	status      Status
	text        string
	explanation string
	kind        Kind
	class       capability.Class
}

// Resolved returns an outcome whose text replaces the whole block.
func Resolved(text string) Outcome {
	return Outcome{status: StatusResolved, text: text}
}

// Unresolved returns an outcome carrying a human-readable explanation.
// An empty explanation is replaced by a default for kind.
func Unresolved(kind Kind, explanation string) Outcome {
	if explanation == "" {
		explanation = defaultExplanations[kind]
		if explanation == "" {
			explanation = "unresolved"
		}
	}
	return Outcome{status: StatusUnresolved, explanation: explanation, kind: kind}
}

// failed returns a capability-kind outcome tagged with the failure class.
func failed(class capability.Class, explanation string) Outcome {
	o := Unresolved(KindCapability, explanation)
	o.class = class
	return o
}

// Status reports whether the block was resolved.
func (o Outcome) Status() Status { return o.status }

// IsResolved is shorthand for Status() == StatusResolved.
func (o Outcome) IsResolved() bool { return o.status == StatusResolved }

// ResolvedText returns the replacement text, if resolved.
func (o Outcome) ResolvedText() (string, bool) {
	return o.text, o.status == StatusResolved
}

// Explanation returns the reason the block is unresolved, if it is.
func (o Outcome) Explanation() (string, bool) {
	return o.explanation, o.status == StatusUnresolved
}

// Kind returns why the block is unresolved, or "" when resolved.
func (o Outcome) Kind() Kind { return o.kind }

// FailureClass returns the capability failure class for KindCapability
// outcomes.
func (o Outcome) FailureClass() capability.Class { return o.class }

type outcomeJSON struct {
	Status       string           `json:"status"`
	ResolvedText *string          `json:"resolvedText,omitempty"`
	Explanation  string           `json:"explanation,omitempty"`
	Kind         Kind             `json:"kind,omitempty"`
	FailureClass capability.Class `json:"failureClass,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (o Outcome) MarshalJSON() ([]byte, error) {
	v := outcomeJSON{
		Status:       o.status.String(),
		Explanation:  o.explanation,
		Kind:         o.kind,
		FailureClass: o.class,
	}
	if o.status == StatusResolved {
		text := o.text
		v.ResolvedText = &text
	}
	return json.Marshal(v)
}
