package models

import "time"

// PlannedJoy is a scheduled future self-reward. NotificationID is an opaque
// handle from the notification collaborator; nil means no active reminder.
type PlannedJoy struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	Date           time.Time `json:"date"`
	NotificationID *string   `json:"notification_id,omitempty"`
}
