package models

import (
	"database/sql"
	"time"
)

type Category struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index;not null"`
	URL         string
	WebhookURL  string       // Overrides the owner's webhook for discoveries when set
	LastScanned sql.NullTime // Null until the first successful scan
	CreatedAt   time.Time

	User     User
	Products []CategoryProduct `gorm:"constraint:OnDelete:CASCADE"`
}

type Categories []Category

// NotifyTarget is where discovery notifications for this category are sent.
// User must be loaded for the fallback to apply.
func (c *Category) NotifyTarget() string {
	if c.WebhookURL != "" {
		return c.WebhookURL
	}
	return c.User.WebhookURL
}

type ListingStatus string

const (
	ListingUnknown ListingStatus = "unknown"
	ListingGone    ListingStatus = "gone"
)

type CategoryProduct struct {
	ID         uint          `gorm:"primaryKey"`
	CategoryID uint          `gorm:"uniqueIndex:idx_category_url;not null"` // Composite unique on category & url
	URL        string        `gorm:"uniqueIndex:idx_category_url;not null"`
	Status     ListingStatus `gorm:"default:unknown;not null"`
	FirstSeen  time.Time     `gorm:"not null"`
	LastSeen   time.Time     `gorm:"not null"`
}

type CategoryProducts []CategoryProduct

func (cps CategoryProducts) URLs() []string {
	urls := make([]string, len(cps))
	for i, cp := range cps {
		urls[i] = cp.URL
	}
	return urls
}
