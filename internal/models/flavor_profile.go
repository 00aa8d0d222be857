package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile owner kinds. A profile belongs to exactly one taggable entity.
const (
	OwnerMenuItem = "menu_item"
	OwnerProduct  = "product"
)

// ControlledTags is the fixed flavor vocabulary. Profiles never store a tag
// outside this set, regardless of where the tag came from.
var ControlledTags = []string{
	"sweet", "smoke_peat", "spice", "vanilla_oak", "dried_fruit",
	"citrus", "floral", "nutty", "saline", "umami",
	"bitter", "creamy", "tannic", "herbal", "earthy",
	"tropical", "stone_fruit", "berry", "chocolate", "caramel",
	"honey",
}

var controlledTagSet = func() map[string]bool {
	set := make(map[string]bool, len(ControlledTags))
	for _, t := range ControlledTags {
		set[t] = true
	}
	return set
}()

// IsControlledTag reports whether a tag belongs to the controlled vocabulary.
func IsControlledTag(tag string) bool {
	return controlledTagSet[tag]
}

// FilterControlledTags drops out-of-vocabulary tags and de-duplicates while
// preserving first-seen order.
func FilterControlledTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if controlledTagSet[t] && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// FlavorProfile is the structured flavor taxonomy for one taggable entity
// (a menu item or a catalog product). Upserts are keyed by (owner_type, owner_id).
type FlavorProfile struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	OwnerType        string           `gorm:"size:20;not null;uniqueIndex:idx_profile_owner" json:"owner_type"`
	OwnerID          string           `gorm:"size:64;not null;uniqueIndex:idx_profile_owner" json:"owner_id"`
	Tags             JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	StructureMetrics JSONBFloatMap    `gorm:"type:jsonb;not null;default:'{}'" json:"structure_metrics"`
	Provenance       string           `gorm:"size:100" json:"provenance"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
}

// HasTag reports whether the profile carries the given tag.
func (p *FlavorProfile) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Metric returns a structure metric, or 0 when absent.
func (p *FlavorProfile) Metric(key string) float64 {
	if p.StructureMetrics == nil {
		return 0
	}
	return p.StructureMetrics[key]
}

// BeforeSave clamps metrics into [0,1] and filters tags to the controlled
// vocabulary so out-of-range values are never persisted.
func (p *FlavorProfile) BeforeSave(tx *gorm.DB) error {
	p.Tags = FilterControlledTags(p.Tags)
	for k, v := range p.StructureMetrics {
		if v < 0 {
			p.StructureMetrics[k] = 0
		} else if v > 1 {
			p.StructureMetrics[k] = 1
		}
	}
	return nil
}
