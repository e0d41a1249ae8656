package domain

import (
	"time"

	"midway/pkg/validation"
)

const (
	StockInStock = "IN_STOCK"
	StockLow     = "LOW_STOCK"
)

// InventoryItem tracks a consumable or piece of equipment.
type InventoryItem struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Category     string    `json:"category,omitempty"`
	Unit         string    `json:"unit" gorm:"not null"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	ReorderLevel int       `json:"reorderLevel" gorm:"not null"`
	Status       string    `json:"status" gorm:"type:varchar(16);index;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index;not null"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"not null"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

func (i *InventoryItem) GetID() string          { return i.ID }
func (i *InventoryItem) SetID(id string)        { i.ID = id }
func (i *InventoryItem) OwnerID() string        { return "" }
func (i *InventoryItem) SetOwnerID(string)      {}
func (i *InventoryItem) StatusValue() string    { return i.Status }
func (i *InventoryItem) CreatedTime() time.Time { return i.CreatedAt }
func (i *InventoryItem) Clone() *InventoryItem  { c := *i; return &c }

// Stamp also derives the stock status from quantity and reorder level.
func (i *InventoryItem) Stamp(now time.Time) {
	if i.Quantity <= i.ReorderLevel {
		i.Status = StockLow
	} else {
		i.Status = StockInStock
	}
	stamp(&i.CreatedAt, &i.UpdatedAt, now)
}

func (i *InventoryItem) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("name", i.Name)
	fe.Require("unit", i.Unit)
	if i.Quantity < 0 {
		fe["quantity"] = "quantity must not be negative"
	}
	if i.ReorderLevel < 0 {
		fe["reorderLevel"] = "reorderLevel must not be negative"
	}
	return fe.Err()
}
