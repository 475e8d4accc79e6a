// Package notification carries reward feedback to the user and pushes
// community events to moderators. Toasts are shown on the user's next page;
// push notifications go out in the background and never block a request.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the category of a push notification
type Type string

const (
	// TypeIdea announces a new community idea
	TypeIdea Type = "idea"
	// TypeInfo indicates an informational notification
	TypeInfo Type = "info"
	// TypeError indicates a system error notification
	TypeError Type = "error"
)

// Notification is a single push event
type Notification struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewNotification creates a new notification with a unique ID and timestamp
func NewNotification(notifType Type, title, message string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		Type:      notifType,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
		Metadata:  make(map[string]any),
	}
}

// WithComponent sets the component field and returns the notification for chaining
func (n *Notification) WithComponent(component string) *Notification {
	n.Component = component
	return n
}

// WithMetadata adds metadata and returns the notification for chaining
func (n *Notification) WithMetadata(key string, value any) *Notification {
	if n.Metadata == nil {
		n.Metadata = make(map[string]any)
	}
	n.Metadata[key] = value
	return n
}
