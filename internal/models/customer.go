package models

import "time"

// Contact channels. PreferredChannel is nullable; rule builders fall back to
// CALL when the customer never stated a preference.
const (
	ChannelCall     = "CALL"
	ChannelWhatsApp = "WHATSAPP"
	ChannelEmail    = "EMAIL"
	ChannelInPerson = "IN_PERSON"
	ChannelSystem   = "SYSTEM"
)

type Customer struct {
	ID    string `gorm:"type:varchar(40);primaryKey"`
	Name  string `gorm:"type:varchar(120);not null"`
	Phone string `gorm:"type:varchar(30)"`
	Email string `gorm:"type:varchar(120)"`

	PreferredChannel *string `gorm:"type:varchar(20)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}
