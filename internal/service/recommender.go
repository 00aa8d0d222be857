package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/models"
)

// GuestPreferences are the answers a guest gives the general drink flow.
type GuestPreferences struct {
	Smoky  string `json:"smoky"`  // yes | no | no_preference
	Taste  string `json:"taste"`  // sweet | dry | spicy | no_preference
	Budget string `json:"budget"` // value | mid | premium | no_preference
}

// WinePreferences are the answers a guest gives the wine flow.
type WinePreferences struct {
	WineColor string `json:"wine_color"` // red | white | rosé | sparkling | no_preference
	Body      string `json:"body"`       // light | medium | full | no_preference
	Taste     string `json:"taste"`      // sweet | dry | fruity | no_preference
	Budget    string `json:"budget"`     // value | mid | premium | no_preference
}

// DrinkRecommendation is one ranked result for a guest.
type DrinkRecommendation struct {
	Item        *models.MenuItem              `json:"item"`
	Score       float64                       `json:"score"`
	TopTags     []string                      `json:"top_tags"`
	BestPairing *models.PairingRecommendation `json:"best_pairing,omitempty"`
	Enrichment  map[string]interface{}        `json:"enrichment,omitempty"`
}

// RecommenderService ranks drinks and wines against stated guest preferences.
type RecommenderService struct {
	db       *gorm.DB
	profiler *FlavorProfiler
}

// NewRecommenderService creates a new RecommenderService.
func NewRecommenderService(db *gorm.DB, profiler *FlavorProfiler) *RecommenderService {
	return &RecommenderService{db: db, profiler: profiler}
}

// RecommendForGuest ranks the menu's active drinks against the guest's
// preferences and returns the top limit results.
func (s *RecommenderService) RecommendForGuest(ctx context.Context, menuID uint, prefs GuestPreferences, limit int) ([]DrinkRecommendation, error) {
	if limit <= 0 {
		limit = 3
	}
	drinks, err := s.activeItems(ctx, menuID, models.ItemTypeDrink, models.ItemTypeWine, models.ItemTypeWhiskey)
	if err != nil {
		return nil, fmt.Errorf("failed to load drinks: %w", err)
	}

	var results []DrinkRecommendation
	for i := range drinks {
		item := &drinks[i]
		profile, err := s.profiler.ProfileDrinkItem(ctx, item)
		if err != nil {
			return nil, err
		}
		if profile == nil || len(profile.Tags) == 0 {
			continue
		}

		score := s.scoreDrink(item, profile, prefs)
		if score <= 0 {
			continue
		}
		results = append(results, DrinkRecommendation{
			Item:    item,
			Score:   round4(score),
			TopTags: topTags(profile.Tags, 3),
		})
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if len(results) > limit {
		results = results[:limit]
	}

	for i := range results {
		if err := s.decorate(ctx, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *RecommenderService) scoreDrink(item *models.MenuItem, profile *models.FlavorProfile, prefs GuestPreferences) float64 {
	score := 0.1 // baseline keeps every tagged drink in play

	smoky := profile.HasTag("smoke_peat")
	switch prefs.Smoky {
	case "yes":
		if smoky || profile.Metric("peat_level") > 0.3 {
			score += 0.3
		}
	case "no":
		if smoky || profile.Metric("peat_level") > 0.5 {
			score -= 0.2
		}
		if !smoky {
			score += 0.1
		}
	}

	switch prefs.Taste {
	case "sweet":
		if profile.Metric("sweetness_level") > 0.4 || profile.HasTag("sweet") {
			score += 0.3
		}
		if profile.HasTag("vanilla_oak") || profile.HasTag("caramel") || profile.HasTag("honey") {
			score += 0.1
		}
	case "dry":
		if profile.Metric("sweetness_level") < 0.3 {
			score += 0.3
		}
		if profile.HasTag("citrus") || profile.HasTag("herbal") {
			score += 0.1
		}
	case "spicy":
		if profile.HasTag("spice") {
			score += 0.3
		}
		if profile.Metric("alcohol_intensity") > 0.5 {
			score += 0.1
		}
	}

	score += budgetBonus(item.Price, prefs.Budget, drinkBudgetWindows, 0.2)

	return score
}

// RecommendWinesForGuest ranks the menu's active wines against the guest's
// wine preferences.
func (s *RecommenderService) RecommendWinesForGuest(ctx context.Context, menuID uint, prefs WinePreferences, limit int) ([]DrinkRecommendation, error) {
	if limit <= 0 {
		limit = 3
	}
	wines, err := s.activeItems(ctx, menuID, models.ItemTypeWine)
	if err != nil {
		return nil, fmt.Errorf("failed to load wines: %w", err)
	}

	var results []DrinkRecommendation
	for i := range wines {
		item := &wines[i]
		profile, err := s.profiler.ProfileDrinkItem(ctx, item)
		if err != nil {
			return nil, err
		}
		if profile == nil || len(profile.Tags) == 0 {
			continue
		}

		score := s.scoreWine(item, profile, prefs)
		if score <= 0 {
			continue
		}
		results = append(results, DrinkRecommendation{
			Item:    item,
			Score:   round4(score),
			TopTags: topTags(profile.Tags, 3),
		})
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if len(results) > limit {
		results = results[:limit]
	}

	for i := range results {
		if err := s.decorate(ctx, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *RecommenderService) scoreWine(item *models.MenuItem, profile *models.FlavorProfile, prefs WinePreferences) float64 {
	score := 0.05
	color := item.ParsedString("wine_color")

	// Unknown color or no stated preference is neutral, not a mismatch.
	switch {
	case prefs.WineColor == "" || prefs.WineColor == "no_preference" || color == "":
		score += 0.1
	case color == prefs.WineColor:
		score += 0.35
	}

	body := profile.Metric("body")
	switch prefs.Body {
	case "light":
		if body < 0.4 {
			score += 0.25
		} else if body > 0.6 {
			score -= 0.1
		}
	case "medium":
		if body >= 0.35 && body <= 0.65 {
			score += 0.25
		}
	case "full":
		if body > 0.55 {
			score += 0.25
		} else if body < 0.35 {
			score -= 0.1
		}
	}

	switch prefs.Taste {
	case "sweet":
		if profile.Metric("sweetness_level") > 0.4 || profile.HasTag("sweet") {
			score += 0.2
		}
	case "dry":
		if profile.Metric("sweetness_level") < 0.3 {
			score += 0.2
		}
		if profile.Metric("acidity") > 0.5 {
			score += 0.1
		}
	case "fruity":
		if profile.HasTag("berry") || profile.HasTag("stone_fruit") || profile.HasTag("tropical") || profile.HasTag("citrus") {
			score += 0.2
		}
	}

	score += budgetBonus(item.Price, prefs.Budget, wineBudgetWindows, 0.15)

	return score
}

// decorate attaches the best stored pairing and any product enrichment
// payload to a scored result.
func (s *RecommenderService) decorate(ctx context.Context, rec *DrinkRecommendation) error {
	var pairing models.PairingRecommendation
	err := s.db.WithContext(ctx).Preload("FoodItem").
		Where("drink_menu_item_id = ? AND pairing_type = ?", rec.Item.ID, models.PairingComplement).
		Order("score DESC").
		First(&pairing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		rec.BestPairing = &pairing
	}

	var link models.MenuItemProductLink
	err = s.db.WithContext(ctx).Where("menu_item_id = ?", rec.Item.ID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	var enrichment models.ProductEnrichment
	err = s.db.WithContext(ctx).
		Where("product_id = ?", link.ProductID).
		Order("created_at DESC").
		First(&enrichment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	rec.Enrichment = map[string]interface{}(enrichment.Payload)
	return nil
}

func (s *RecommenderService) activeItems(ctx context.Context, menuID uint, itemTypes ...string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Joins("JOIN menu_sections ON menu_sections.id = menu_items.menu_section_id").
		Where("menu_sections.menu_id = ? AND menu_sections.archived = ?", menuID, false).
		Where("menu_items.status = ?", models.StatusActive).
		Where("menu_items.item_type IN ?", itemTypes).
		Order("menu_items.id").
		Find(&items).Error
	return items, err
}

// budgetWindow is the price range a budget answer accepts: min exclusive,
// max inclusive, max of 0 meaning unbounded.
type budgetWindow struct {
	min, max float64
}

// Windows deliberately overlap at the edges so a borderline price is not
// punished for a small difference.
var (
	drinkBudgetWindows   = map[string]budgetWindow{"value": {0, 10}, "mid": {8, 18}, "premium": {15, 0}}
	wineBudgetWindows    = map[string]budgetWindow{"value": {0, 12}, "mid": {10, 25}, "premium": {20, 0}}
	whiskeyBudgetWindows = map[string]budgetWindow{"value": {0, 12}, "mid": {10, 20}, "premium": {18, 0}}
)

func budgetBonus(price float64, budget string, windows map[string]budgetWindow, weight float64) float64 {
	w, ok := windows[budget]
	if !ok || price <= 0 {
		return 0
	}
	if price > w.min && (w.max == 0 || price <= w.max) {
		return weight
	}
	return 0
}

func topTags(tags []string, n int) []string {
	if len(tags) <= n {
		return tags
	}
	return tags[:n]
}
