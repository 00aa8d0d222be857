package models

import (
	"time"

	"gorm.io/gorm"
)

// Item types recognised by the sommelier engine
const (
	ItemTypeFood    = "food"
	ItemTypeDrink   = "drink"
	ItemTypeWine    = "wine"
	ItemTypeWhiskey = "whiskey"
)

// Item statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Menu struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Status    string         `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Sections []MenuSection `gorm:"foreignKey:MenuID" json:"sections,omitempty"`
}

type MenuSection struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	MenuID    uint           `gorm:"not null;index" json:"menu_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Archived  bool           `gorm:"default:false" json:"archived"`
	Sequence  int            `json:"sequence"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []MenuItem `gorm:"foreignKey:MenuSectionID" json:"items,omitempty"`
}

// MenuItem is a single food or drink entry on a menu. Drink items carry the
// parser output in ParsedFields; staff CSV tagging merges into the same map.
type MenuItem struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	MenuSectionID    uint           `gorm:"not null;index" json:"menu_section_id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	Price            float64        `json:"price"`
	ItemType         string         `gorm:"size:20;not null;index" json:"item_type"`
	Status           string         `gorm:"size:20;default:'active'" json:"status"`
	ABV              *float64       `json:"abv,omitempty"`
	ParsedFields     JSONBMap       `gorm:"type:jsonb;not null;default:'{}'" json:"parsed_fields"`
	ParsedConfidence float64        `json:"parsed_confidence"`
	StaffTaggedAt    *time.Time     `json:"staff_tagged_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Section *MenuSection `gorm:"foreignKey:MenuSectionID" json:"-"`
}

// IsDrink reports whether the item is on the drink side of the pairing matrix.
func (m *MenuItem) IsDrink() bool {
	switch m.ItemType {
	case ItemTypeDrink, ItemTypeWine, ItemTypeWhiskey:
		return true
	}
	return false
}

// ParsedString returns a string field from the parsed-fields map.
func (m *MenuItem) ParsedString(key string) string {
	if m.ParsedFields == nil {
		return ""
	}
	if s, ok := m.ParsedFields[key].(string); ok {
		return s
	}
	return ""
}

// ParsedFloat returns a numeric field from the parsed-fields map. JSON decoding
// yields float64 for all numbers; ints are handled for values set in-process.
func (m *MenuItem) ParsedFloat(key string) float64 {
	if m.ParsedFields == nil {
		return 0
	}
	switch v := m.ParsedFields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// ParsedBool returns a boolean field from the parsed-fields map.
func (m *MenuItem) ParsedBool(key string) bool {
	if m.ParsedFields == nil {
		return false
	}
	b, _ := m.ParsedFields[key].(bool)
	return b
}

// ParsedStrings returns a string-list field from the parsed-fields map.
func (m *MenuItem) ParsedStrings(key string) []string {
	if m.ParsedFields == nil {
		return nil
	}
	switch v := m.ParsedFields[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
