package models

import "time"

type Salesperson struct {
	ID     string `gorm:"type:varchar(40);primaryKey"`
	Name   string `gorm:"type:varchar(120);not null"`
	Email  string `gorm:"type:varchar(120);uniqueIndex"`
	Active bool   `gorm:"default:true;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Salesperson) TableName() string {
	return "salespeople"
}
