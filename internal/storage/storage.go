// Package storage keeps an append-only journal of outbound reminders.
package storage

import "time"

// Delivery is one message handed to the chat sinks.
type Delivery struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Delivered bool      `json:"delivered"`
}

// Journal abstracts persistence of deliveries.
// Load returns deliveries in the order they were appended.
// Implementations must be safe for concurrent use.
type Journal interface {
	Append(d Delivery) error
	Load() ([]Delivery, error)
}
