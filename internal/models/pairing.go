package models

import (
	"time"

	"github.com/google/uuid"
)

// Pairing types
const (
	PairingComplement = "complement"
	PairingSurprise   = "surprise"
)

// PairingRecommendation is a scored (drink, food) pair within one menu.
// Re-running generation overwrites the row for the same pair.
type PairingRecommendation struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	DrinkMenuItemID uint             `gorm:"not null;uniqueIndex:idx_pairing_pair" json:"drink_menu_item_id"`
	FoodMenuItemID  uint             `gorm:"not null;uniqueIndex:idx_pairing_pair" json:"food_menu_item_id"`
	ComplementScore float64          `json:"complement_score"`
	ContrastScore   float64          `json:"contrast_score"`
	Score           float64          `json:"score"`
	Rationale       string           `gorm:"type:text" json:"rationale"`
	RiskFlags       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"risk_flags"`
	PairingType     string           `gorm:"size:20;not null" json:"pairing_type"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	FoodItem *MenuItem `gorm:"foreignKey:FoodMenuItemID" json:"food_item,omitempty"`
}

// DisplayScore renders the score as a percentage for guest-facing payloads.
func (p *PairingRecommendation) DisplayScore() int {
	return int(p.Score*100 + 0.5)
}

// SimilarProductRecommendation is a "you may also like" edge between two
// catalog products.
type SimilarProductRecommendation struct {
	ID                   uint      `gorm:"primarykey" json:"id"`
	ProductID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_similar_pair" json:"product_id"`
	RecommendedProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_similar_pair" json:"recommended_product_id"`
	Score                float64   `json:"score"`
	Rationale            string    `gorm:"type:text" json:"rationale"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	RecommendedProduct *Product `gorm:"foreignKey:RecommendedProductID" json:"recommended_product,omitempty"`
}
