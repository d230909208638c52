package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies a message.
type MessageType string

// Server to client
const (
	TypeBookingsChanged MessageType = "bookings.changed"
	TypeSettingsChanged MessageType = "settings.changed"
	TypeNotification    MessageType = "notification"
	TypePong            MessageType = "pong"
	TypeError           MessageType = "error"
)

// Client to server
const (
	TypePing MessageType = "ping"
)

// Message is the envelope of every frame.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload,omitempty"`
}

// NewMessage stamps a message with the current time.
func NewMessage(t MessageType, payload any) Message {
	return Message{Type: t, Timestamp: time.Now().UTC(), Payload: payload}
}

// JSON encodes the message.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// BookingsPayload accompanies bookings.changed.
type BookingsPayload struct {
	Count int `json:"count"`
}

// SettingsPayload accompanies settings.changed.
type SettingsPayload struct {
	Mode string `json:"mode"`
}

// NotificationPayload is a human-readable notice, e.g. a failed backup.
type NotificationPayload struct {
	Level   string `json:"level"` // info, warning, error
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ErrorPayload answers a client frame the server could not handle.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IncomingMessage is what clients may send.
type IncomingMessage struct {
	Type MessageType `json:"type"`
}
