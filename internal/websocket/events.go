package websocket

import "log"

// EventBroadcaster turns planner changes into hub messages.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a broadcaster on hub.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BookingsChanged announces a saved bookings document.
func (b *EventBroadcaster) BookingsChanged(count int) {
	b.broadcast(NewMessage(TypeBookingsChanged, BookingsPayload{Count: count}))
}

// SettingsChanged announces a saved settings document.
func (b *EventBroadcaster) SettingsChanged(mode string) {
	b.broadcast(NewMessage(TypeSettingsChanged, SettingsPayload{Mode: mode}))
}

// Notify sends a notice to every client.
func (b *EventBroadcaster) Notify(level, title, message string) {
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{Level: level, Title: title, Message: message}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
