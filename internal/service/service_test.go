package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/models"
)

// Shared fixture builders for the service tests.

func createMenu(t *testing.T, db *gorm.DB, name string) *models.Menu {
	t.Helper()
	menu := &models.Menu{Name: name, Status: models.StatusActive}
	require.NoError(t, db.Create(menu).Error)
	return menu
}

func createSection(t *testing.T, db *gorm.DB, menuID uint, name string) *models.MenuSection {
	t.Helper()
	section := &models.MenuSection{MenuID: menuID, Name: name}
	require.NoError(t, db.Create(section).Error)
	return section
}

func createItem(t *testing.T, db *gorm.DB, sectionID uint, itemType, name, description string, price float64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		MenuSectionID: sectionID,
		Name:          name,
		Description:   description,
		Price:         price,
		ItemType:      itemType,
		Status:        models.StatusActive,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func createProduct(t *testing.T, db *gorm.DB, name, productType string, attributes models.JSONBMap) *models.Product {
	t.Helper()
	product := &models.Product{
		CanonicalName: name,
		ProductType:   productType,
		Attributes:    attributes,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createEnrichment(t *testing.T, db *gorm.DB, product *models.Product, payload models.JSONBMap) *models.ProductEnrichment {
	t.Helper()
	enrichment := &models.ProductEnrichment{
		ProductID: product.ID,
		Payload:   payload,
		Source:    "supplier_feed",
	}
	require.NoError(t, db.Create(enrichment).Error)
	return enrichment
}

func linkItemToProduct(t *testing.T, db *gorm.DB, item *models.MenuItem, product *models.Product) {
	t.Helper()
	require.NoError(t, db.Create(&models.MenuItemProductLink{
		MenuItemID: item.ID,
		ProductID:  product.ID,
	}).Error)
}

func createProfile(t *testing.T, db *gorm.DB, ownerType, ownerID string, tags []string, metrics map[string]float64) *models.FlavorProfile {
	t.Helper()
	profile := &models.FlavorProfile{
		OwnerType:        ownerType,
		OwnerID:          ownerID,
		Tags:             models.JSONBStringArray(tags),
		StructureMetrics: models.JSONBFloatMap(metrics),
		Provenance:       "manual",
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// stubClassifier is a canned Classifier for profiler tests.
type stubClassifier struct {
	result *Classification
	err    error
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, description string) (*Classification, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}
