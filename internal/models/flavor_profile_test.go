package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterControlledTags(t *testing.T) {
	in := []string{"sweet", "funky", "sweet", "smoke_peat", "BERRY", "citrus"}
	out := FilterControlledTags(in)

	// out-of-vocabulary and duplicate entries dropped, first-seen order kept
	assert.Equal(t, []string{"sweet", "smoke_peat", "citrus"}, out)
}

func TestFilterControlledTagsEmpty(t *testing.T) {
	assert.Empty(t, FilterControlledTags(nil))
	assert.Empty(t, FilterControlledTags([]string{"not_a_tag"}))
}

func TestBeforeSaveClampsMetrics(t *testing.T) {
	p := &FlavorProfile{
		OwnerType: OwnerMenuItem,
		OwnerID:   "1",
		Tags:      JSONBStringArray{"sweet", "bogus"},
		StructureMetrics: JSONBFloatMap{
			"body":            1.4,
			"sweetness_level": -0.2,
			"acidity":         0.5,
		},
	}

	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, JSONBStringArray{"sweet"}, p.Tags)
	assert.Equal(t, 1.0, p.StructureMetrics["body"])
	assert.Equal(t, 0.0, p.StructureMetrics["sweetness_level"])
	assert.Equal(t, 0.5, p.StructureMetrics["acidity"])
}

func TestProfileAccessors(t *testing.T) {
	p := &FlavorProfile{
		Tags:             JSONBStringArray{"smoke_peat", "saline"},
		StructureMetrics: JSONBFloatMap{"peat_smoke_level": 0.9},
	}

	assert.True(t, p.HasTag("smoke_peat"))
	assert.False(t, p.HasTag("sweet"))
	assert.Equal(t, 0.9, p.Metric("peat_smoke_level"))
	assert.Equal(t, 0.0, p.Metric("missing"))

	var empty FlavorProfile
	assert.Equal(t, 0.0, empty.Metric("body"))
}

func TestMenuItemParsedAccessors(t *testing.T) {
	item := &MenuItem{
		ItemType: ItemTypeWhiskey,
		ParsedFields: JSONBMap{
			"distillery":      "Lagavulin",
			"age_years":       float64(16), // as it comes back from JSON
			"limited_edition": true,
			"grape_variety":   []interface{}{"nebbiolo"},
		},
	}

	assert.True(t, item.IsDrink())
	assert.Equal(t, "Lagavulin", item.ParsedString("distillery"))
	assert.Equal(t, 16.0, item.ParsedFloat("age_years"))
	assert.True(t, item.ParsedBool("limited_edition"))
	assert.Equal(t, []string{"nebbiolo"}, item.ParsedStrings("grape_variety"))

	food := &MenuItem{ItemType: ItemTypeFood}
	assert.False(t, food.IsDrink())
	assert.Equal(t, "", food.ParsedString("distillery"))
}

func TestPairingDisplayScore(t *testing.T) {
	p := &PairingRecommendation{Score: 0.847}
	assert.Equal(t, 85, p.DisplayScore())

	p.Score = 0.2
	assert.Equal(t, 20, p.DisplayScore())
}
