package models

import "time"

type ProductStatus string

const (
	StatusUnknown    ProductStatus = "unknown"
	StatusInStock    ProductStatus = "in_stock"
	StatusOutOfStock ProductStatus = "out_of_stock"
)

type Product struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"index;not null"`
	URL        string
	LastStatus ProductStatus `gorm:"default:unknown;not null"`
	CreatedAt  time.Time

	User User
}

type Products []Product
