// Package bot routes inbound messaging events: an active wizard session
// consumes the event, otherwise it is matched against the stateless
// commands. The package is transport-agnostic; delivery belongs to the
// Sender implementation.
package bot

import "context"

type EventKind string

const (
	KindText    EventKind = "text"
	KindImage   EventKind = "image"
	KindCommand EventKind = "command"
)

type InboundEvent struct {
	UserID   int64     `json:"user_id"`
	Kind     EventKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	ImageRef string    `json:"image_ref,omitempty"`
}

type OutboundAction struct {
	Recipient int64      `json:"recipient"`
	Text      string     `json:"text"`
	ImageRef  string     `json:"image_ref,omitempty"`
	Buttons   [][]string `json:"buttons,omitempty"`
}

// Sender delivers one outbound action. Implementations may fail per
// recipient; the dispatcher logs and moves on.
type Sender interface {
	SendAction(ctx context.Context, action OutboundAction) error
}
