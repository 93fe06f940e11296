package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// It belongs to exactly one category through CategoryID.
type Product struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"column:nome;size:100;not null"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LastModified time.Time       `gorm:"column:data;not null"`
	CategoryID   uint            `gorm:"column:categoria_id;not null"`
	Category     Category        `gorm:"foreignKey:CategoryID"`
}

func (p *Product) TableName() string {
	return "tb_produtos"
}

// ProductDraft is the caller-supplied payload for creating or replacing a product.
type ProductDraft struct {
	Name       string
	Price      decimal.Decimal
	CategoryID uint
}
