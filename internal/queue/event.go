// Package queue defines the activity events pushed to the message broker and
// the publisher that sends them.
package queue

import "time"

// ActivityRecordedEvent mirrors one row of the activity log so downstream
// consumers can react without reading the primary database.
type ActivityRecordedEvent struct {
	ActivityID  uint64    `json:"activity_id"`
	UserID      uint64    `json:"user_id"`
	Event       string    `json:"event"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recorded_at"`
}
