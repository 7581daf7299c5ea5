package models

import "time"

// Notification is the in-app notification document stored in Mongo.
type Notification struct {
	ID           string    `bson:"notification_id" json:"id"`
	RecipientID  string    `bson:"recipient_id" json:"recipient_id"`
	Message      string    `bson:"message" json:"message"`
	Read         bool      `bson:"read" json:"read"`
	RelatedJobID string    `bson:"related_job_id,omitempty" json:"related_job_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
