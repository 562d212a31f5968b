package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shopping"
)

// ListEntryModel is one row of a cart or wishlist.
// (owner_key, kind, product_id) is unique so a product appears at most once per list.
type ListEntryModel struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement"`
	OwnerKey      string          `gorm:"type:varchar(128);not null;uniqueIndex:idx_list_entries_owner_kind_product,priority:1"`
	Kind          string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_list_entries_owner_kind_product,priority:2"`
	ProductID     int64           `gorm:"not null;uniqueIndex:idx_list_entries_owner_kind_product,priority:3"`
	Name          string          `gorm:"type:varchar(255);not null;default:''"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ImageURL      string          `gorm:"type:varchar(1024);not null;default:''"`
	Quantity      int             `gorm:"not null;default:0"`
	SelectedColor string          `gorm:"type:varchar(64);not null;default:''"`
	WishlistID    int64           `gorm:"not null;default:0"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ListEntryModel) TableName() string {
	return "list_entries"
}

// ToDomain converts the row to a domain entry
func (m *ListEntryModel) ToDomain() shopping.Entry {
	return shopping.Entry{
		ProductID:     m.ProductID,
		Name:          m.Name,
		Price:         m.Price,
		ImageURL:      m.ImageURL,
		Quantity:      m.Quantity,
		SelectedColor: m.SelectedColor,
		WishlistID:    m.WishlistID,
	}
}

// ListEntryModelFromDomain builds a row for the given list
func ListEntryModelFromDomain(owner shopping.OwnerKey, kind shopping.Kind, e shopping.Entry) *ListEntryModel {
	return &ListEntryModel{
		OwnerKey:      owner.String(),
		Kind:          string(kind),
		ProductID:     e.ProductID,
		Name:          e.Name,
		Price:         e.Price,
		ImageURL:      e.ImageURL,
		Quantity:      e.Quantity,
		SelectedColor: e.SelectedColor,
		WishlistID:    e.WishlistID,
	}
}
