package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog product (a specific bottling) that menu items can link to.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CanonicalName string         `gorm:"size:255;not null" json:"canonical_name"`
	ProductType   string         `gorm:"size:50" json:"product_type"`
	Attributes    JSONBMap       `gorm:"type:jsonb;not null;default:'{}'" json:"attributes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Enrichments []ProductEnrichment `gorm:"foreignKey:ProductID" json:"enrichments,omitempty"`
}

// BeforeCreate assigns a UUID when the database does not (sqlite in tests).
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductEnrichment holds a supplier enrichment payload (tasting notes,
// production notes, brand story) for a product. The newest payload wins.
type ProductEnrichment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Payload   JSONBMap  `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`
	Source    string    `gorm:"size:100" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// MenuItemProductLink connects a menu item to the catalog product it pours.
type MenuItemProductLink struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	MenuItemID uint      `gorm:"not null;uniqueIndex:idx_item_product" json:"menu_item_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_item_product" json:"product_id"`
	CreatedAt  time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
