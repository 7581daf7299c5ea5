package models

import (
	"time"

	"gorm.io/datatypes"
)

// EmailOutbox is one pending notification message. Rows are written in the
// same transaction as the primary state change and picked up by the outbox
// relay, which moves them onto the mail stream.
type EmailOutbox struct {
	ID        string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Recipient string            `gorm:"column:recipient;type:text" json:"recipient"`
	EmailType string            `gorm:"column:email_type;type:text" json:"email_type"`
	Fields    datatypes.JSONMap `gorm:"column:fields;type:jsonb" json:"fields"`

	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz;index" json:"published_at"`
}

func (EmailOutbox) TableName() string { return "email_outbox" }
