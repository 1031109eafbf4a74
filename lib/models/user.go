package models

import "time"

type User struct {
	ID         uint `gorm:"primaryKey"`
	WebhookURL string
	CreatedAt  time.Time

	Products   []Product  `gorm:"constraint:OnDelete:CASCADE"`
	Categories []Category `gorm:"constraint:OnDelete:CASCADE"`
}
