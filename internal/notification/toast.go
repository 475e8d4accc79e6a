package notification

import (
	"time"

	"github.com/google/uuid"
)

// ToastKind identifies the action that earned a reward.
type ToastKind string

const (
	ToastAccept   ToastKind = "accept"
	ToastLocation ToastKind = "location"
	ToastIdea     ToastKind = "idea"
)

// Toast is a one-shot reward message rendered as a badge with a sound cue.
// MessageID names the catalog entry for the message text.
type Toast struct {
	ID        string
	Kind      ToastKind
	MessageID string
	Points    int
	// Verb is filled for accept toasts ("recycle", "upcycle").
	Verb      string
	CreatedAt time.Time
}

// NewToast creates a toast for kind worth points.
func NewToast(kind ToastKind, points int) Toast {
	return Toast{
		ID:        uuid.New().String(),
		Kind:      kind,
		MessageID: "toast_" + string(kind),
		Points:    points,
		CreatedAt: time.Now(),
	}
}

// WithVerb returns a copy of t carrying verb.
func (t Toast) WithVerb(verb string) Toast {
	t.Verb = verb
	return t
}

// Style returns the badge gradient class for the toast.
func (t Toast) Style() string {
	if t.Kind == ToastLocation {
		return "badge-warm"
	}
	return "badge-cool"
}
