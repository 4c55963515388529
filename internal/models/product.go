package models

import "github.com/shopspring/decimal"

// Product is a row of the products table, owned by a single user.
type Product struct {
	Base
	UserID      uint            `gorm:"index;not null"`
	Name        string          `gorm:"size:255;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string          `gorm:"type:text"`
	Image       *string         `gorm:"size:255"` // filename inside the image store, nil when none
}

// HasImage reports whether the product references an uploaded file.
func (p Product) HasImage() bool {
	return p.Image != nil && *p.Image != ""
}

// ImageName returns the stored filename or "".
func (p Product) ImageName() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}
