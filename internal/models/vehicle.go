package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Vehicle struct {
	ID      string `gorm:"type:varchar(40);primaryKey"`
	Make    string `gorm:"type:varchar(60);not null"`
	Model   string `gorm:"type:varchar(60);not null"`
	Variant string `gorm:"type:varchar(60)"`
	Year    int    `gorm:"not null"`

	Price decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
