package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/config"
	"github.com/tablevine/sommelier-backend/internal/database"
	"github.com/tablevine/sommelier-backend/internal/models"
	"github.com/tablevine/sommelier-backend/internal/parser"
)

// Seeds a demo menu with food, wine and whiskey items plus one enriched
// catalog product, so the recommendation flows have data to work with.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}

type seedItem struct {
	name        string
	description string
	itemType    string
	price       float64
}

func seed(db *gorm.DB) error {
	menu := models.Menu{Name: "Main Menu"}
	if err := db.FirstOrCreate(&menu, models.Menu{Name: "Main Menu"}).Error; err != nil {
		return err
	}

	sections := map[string][]seedItem{
		"Mains": {
			{"Grilled Salmon", "with charred lemon and herb butter", models.ItemTypeFood, 24},
			{"Dry-Aged Ribeye", "rich, smoky char, peppercorn jus", models.ItemTypeFood, 38},
			{"Mushroom Risotto", "creamy arborio, parmesan, truffle oil", models.ItemTypeFood, 19},
		},
		"Desserts": {
			{"Sticky Toffee Pudding", "sweet caramel sauce, vanilla ice cream", models.ItemTypeFood, 9},
			{"Dark Chocolate Tart", "bitter cocoa, sea salt", models.ItemTypeFood, 10},
		},
		"Whisky": {
			{"Lagavulin 16 Year Old", "intensely peaty, maritime smoke, long finish", models.ItemTypeWhiskey, 18},
			{"The Macallan 18 Sherry Oak", "rich dried fruit, sherry cask, ginger spice", models.ItemTypeWhiskey, 45},
			{"Buffalo Trace", "sweet vanilla, caramel, kentucky straight bourbon", models.ItemTypeWhiskey, 11},
			{"Redbreast 12", "single pot still, creamy with orchard fruit", models.ItemTypeWhiskey, 14},
			{"Yamazaki 12", "japanese single malt, honeyed, delicate oak", models.ItemTypeWhiskey, 28},
		},
		"Wine": {
			{"Barolo DOCG 2018, Nebbiolo", "structured tannins, dried cherry, full-bodied", models.ItemTypeWine, 16},
			{"Sancerre, Sauvignon Blanc 2022", "crisp, citrus, bright acidity", models.ItemTypeWine, 13},
			{"Champagne Brut NV", "fine bubbles, brioche, dry", models.ItemTypeWine, 17},
		},
	}

	whiskeySection := uint(0)
	for name, items := range sections {
		section := models.MenuSection{MenuID: menu.ID, Name: name}
		if err := db.FirstOrCreate(&section, models.MenuSection{MenuID: menu.ID, Name: name}).Error; err != nil {
			return err
		}
		if name == "Whisky" {
			whiskeySection = section.ID
		}
		for _, it := range items {
			item := models.MenuItem{
				MenuSectionID: section.ID,
				Name:          it.name,
				Description:   it.description,
				ItemType:      it.itemType,
				Price:         it.price,
				Status:        models.StatusActive,
			}
			if err := db.Where(models.MenuItem{MenuSectionID: section.ID, Name: it.name}).
				FirstOrCreate(&item).Error; err != nil {
				return err
			}
			if item.IsDrink() && len(item.ParsedFields) == 0 {
				in := parser.Input{SectionName: name, Name: it.name, Description: it.description}
				var fields parser.Fields
				var confidence float64
				if it.itemType == models.ItemTypeWine {
					fields, confidence = parser.ParseWine(in)
				} else {
					fields, confidence = parser.ParseWhiskey(in)
				}
				item.ParsedFields = models.JSONBMap(fields)
				item.ParsedConfidence = confidence
				if err := db.Save(&item).Error; err != nil {
					return err
				}
			}
		}
	}

	if err := seedProduct(db, whiskeySection); err != nil {
		return err
	}
	return seedStaffUser(db)
}

// seedProduct links the Lagavulin pour to a catalog product with a supplier
// enrichment payload.
func seedProduct(db *gorm.DB, whiskeySection uint) error {
	product := models.Product{
		CanonicalName: "Lagavulin 16 Year Old",
		ProductType:   "whiskey",
		Attributes:    models.JSONBMap{"abv": 43.0},
	}
	if err := db.Where(models.Product{CanonicalName: product.CanonicalName}).
		FirstOrCreate(&product).Error; err != nil {
		return err
	}

	var count int64
	db.Model(&models.ProductEnrichment{}).Where("product_id = ?", product.ID).Count(&count)
	if count == 0 {
		enrichment := models.ProductEnrichment{
			ProductID: product.ID,
			Source:    "supplier",
			Payload: models.JSONBMap{
				"tasting_notes": map[string]interface{}{
					"nose":   "intense peat smoke with iodine and seaweed",
					"palate": "rich, dried fruit sweetness with a powerful peat backbone",
					"finish": "long, elegant peat-filled finish with vanilla oak",
				},
				"production_notes": "matured in ex-bourbon casks by the sea",
				"abv":              43.0,
			},
		}
		if err := db.Create(&enrichment).Error; err != nil {
			return err
		}
	}

	var item models.MenuItem
	err := db.Where("menu_section_id = ? AND name = ?", whiskeySection, "Lagavulin 16 Year Old").
		First(&item).Error
	if err != nil {
		return err
	}
	link := models.MenuItemProductLink{MenuItemID: item.ID, ProductID: product.ID}
	return db.Where(models.MenuItemProductLink{MenuItemID: item.ID, ProductID: product.ID}).
		FirstOrCreate(&link).Error
}

func seedStaffUser(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("sommelier-dev"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.StaffUser{
		Name:         "Demo Staff",
		Email:        "staff@example.com",
		PasswordHash: string(hash),
	}
	return db.Where(models.StaffUser{Email: user.Email}).
		Attrs(models.StaffUser{Name: user.Name, PasswordHash: user.PasswordHash}).
		FirstOrCreate(&user).Error
}
