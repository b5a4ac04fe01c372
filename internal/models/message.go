package models

import "time"

// MaxMessageLength bounds the text of a single message.
const MaxMessageLength = 140

// Message is a single warble. Messages are immutable once posted; only the
// owning user may delete one.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:varchar(140);not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
