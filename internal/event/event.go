package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeLoggedIn   Type = "auth.logged_in"
	TypeLoggedOut  Type = "auth.logged_out"
	TypeRegistered Type = "auth.registered"
	TypeNavigate   Type = "navigation.requested"
)

// Routes a navigation event can point at.
const (
	RouteLogin = "/login"
	RouteTasks = "/tasks"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	Subject   string      `json:"subject,omitempty"` // Email of the user involved, when known
}

type Navigation struct {
	Route  string `json:"route"`
	Reason string `json:"reason,omitempty"`
}

func New(t Type, subject string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Subject:   subject,
	}
}

func Navigate(route string, reason string) Event {
	return New(TypeNavigate, "", Navigation{Route: route, Reason: reason})
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
