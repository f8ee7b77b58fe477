package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SentimentPositive = "POSITIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentNegative = "NEGATIVE"
)

// Activity is one logged customer-facing touch on an order: a call, a visit,
// a test drive, a message. Sentiment is tagged upstream (voice feedback
// pipeline); the engine only reads it.
type Activity struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	OrderID string `gorm:"type:varchar(40);not null;index"`

	Type    string `gorm:"type:varchar(30);not null"`
	Channel string `gorm:"type:varchar(20)"`

	Sentiment *string `gorm:"type:varchar(10);index"`
	Notes     string  `gorm:"type:text"`

	Payload datatypes.JSON `gorm:"type:jsonb"`

	PerformedBy string    `gorm:"type:varchar(40)"`
	PerformedAt time.Time `gorm:"type:timestamptz;not null;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Activity) TableName() string {
	return "activities"
}
