package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/models"
)

// RunMigrations brings the schema up to date for every model the engine
// persists.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running migrations (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&models.Menu{},
		&models.MenuSection{},
		&models.MenuItem{},
		&models.Product{},
		&models.ProductEnrichment{},
		&models.MenuItemProductLink{},
		&models.FlavorProfile{},
		&models.PairingRecommendation{},
		&models.SimilarProductRecommendation{},
		&models.StaffUser{},
	)
}
