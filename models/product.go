package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Image       string         `gorm:"not null" json:"image"`
	HoverImage  string         `json:"hoverImage"`
	PDF         string         `json:"pdf"` // datasheet download served from /uploads
	InStock     int            `json:"inStock"`
	CategoryID  *uint          `gorm:"index" json:"categoryId"`
	Category    Category       `gorm:"constraint:OnDelete:SET NULL" json:"category"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
