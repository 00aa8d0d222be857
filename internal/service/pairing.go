package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/lexicon"
	"github.com/tablevine/sommelier-backend/internal/models"
)

// PairingService scores every (drink, food) pair on a menu and persists the
// best complement matches plus at most one surprise match per drink.
type PairingService struct {
	db       *gorm.DB
	profiler *FlavorProfiler
}

// NewPairingService creates a new PairingService.
func NewPairingService(db *gorm.DB, profiler *FlavorProfiler) *PairingService {
	return &PairingService{db: db, profiler: profiler}
}

// pairingCandidate holds a scored pair before selection.
type pairingCandidate struct {
	food       *models.MenuItem
	complement float64
	contrast   float64
	total      float64
	rationale  string
	riskFlags  []string
}

// GenerateForMenu scores all active drink×food pairs on the menu and returns
// the number of pairings created or updated. Safe to re-run: existing rows
// for the same pair are overwritten.
func (s *PairingService) GenerateForMenu(ctx context.Context, menuID uint) (int, error) {
	drinks, err := s.activeItems(ctx, menuID, models.ItemTypeDrink, models.ItemTypeWine, models.ItemTypeWhiskey)
	if err != nil {
		return 0, fmt.Errorf("failed to load drinks: %w", err)
	}
	foods, err := s.activeItems(ctx, menuID, models.ItemTypeFood)
	if err != nil {
		return 0, fmt.Errorf("failed to load foods: %w", err)
	}

	drinkProfiles := make(map[uint]*models.FlavorProfile, len(drinks))
	for i := range drinks {
		profile, err := s.profiler.ProfileDrinkItem(ctx, &drinks[i])
		if err != nil {
			return 0, fmt.Errorf("failed to profile drink %d: %w", drinks[i].ID, err)
		}
		if profile != nil && len(profile.Tags) > 0 {
			drinkProfiles[drinks[i].ID] = profile
		}
	}
	foodProfiles := make(map[uint]*models.FlavorProfile, len(foods))
	for i := range foods {
		profile, err := s.ensureFoodProfile(ctx, &foods[i])
		if err != nil {
			return 0, fmt.Errorf("failed to profile food %d: %w", foods[i].ID, err)
		}
		if profile != nil && len(profile.Tags) > 0 {
			foodProfiles[foods[i].ID] = profile
		}
	}

	saved := 0
	for i := range drinks {
		drink := &drinks[i]
		drinkProfile, ok := drinkProfiles[drink.ID]
		if !ok {
			continue
		}

		var candidates []pairingCandidate
		for j := range foods {
			food := &foods[j]
			foodProfile, ok := foodProfiles[food.ID]
			if !ok {
				continue
			}
			c := scorePair(drink, drinkProfile, food, foodProfile)
			if c.total >= 0.2 {
				candidates = append(candidates, c)
			}
		}

		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].total > candidates[b].total
		})

		topCount := len(candidates)
		if topCount > 3 {
			topCount = 3
		}
		inTop := make(map[uint]bool, topCount)
		for _, c := range candidates[:topCount] {
			if err := s.upsertPairing(ctx, drink.ID, c, models.PairingComplement); err != nil {
				return saved, err
			}
			inTop[c.food.ID] = true
			saved++
		}

		// A surprise pairing wins on contrast while failing as a complement.
		bestSurprise := -1
		for idx, c := range candidates {
			if inTop[c.food.ID] || c.contrast <= 0.5 || c.complement >= 0.5 {
				continue
			}
			if bestSurprise == -1 || c.contrast > candidates[bestSurprise].contrast {
				bestSurprise = idx
			}
		}
		if bestSurprise >= 0 {
			if err := s.upsertPairing(ctx, drink.ID, candidates[bestSurprise], models.PairingSurprise); err != nil {
				return saved, err
			}
			saved++
		}
	}

	log.Printf("[PairingService] menu %d: %d pairings saved", menuID, saved)
	return saved, nil
}

// PairingsForDrink returns stored pairings for a drink item, food preloaded,
// best first.
func (s *PairingService) PairingsForDrink(ctx context.Context, drinkItemID uint) ([]models.PairingRecommendation, error) {
	var pairings []models.PairingRecommendation
	err := s.db.WithContext(ctx).Preload("FoodItem").
		Where("drink_menu_item_id = ?", drinkItemID).
		Order("score DESC").
		Find(&pairings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pairings: %w", err)
	}
	return pairings, nil
}

func (s *PairingService) activeItems(ctx context.Context, menuID uint, itemTypes ...string) ([]models.MenuItem, error) {
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

func (s *PairingService) ensureFoodProfile(ctx context.Context, item *models.MenuItem) (*models.FlavorProfile, error) {
	existing, err := s.profiler.ProfileFor(ctx, models.OwnerMenuItem, MenuItemOwnerID(item.ID))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.profiler.ProfileFoodItem(ctx, item)
}

// scorePair computes complement, contrast, risk flags and the blended total
// for one (drink, food) pair.
func scorePair(drink *models.MenuItem, dp *models.FlavorProfile, food *models.MenuItem, fp *models.FlavorProfile) pairingCandidate {
	overlap := jaccard(dp.Tags, fp.Tags)

	drinkBody := dp.Metric("body")
	foodBody := fp.Metric("body")
	bodyDiff := math.Abs(drinkBody - foodBody)

	complement := 0.4*overlap + 0.2*(1-bodyDiff)

	var reasons []string
	if shared := sharedTags(dp.Tags, fp.Tags); len(shared) > 0 {
		reasons = append(reasons, "shared notes of "+strings.Join(shared, ", "))
	}

	// Acid cuts fat
	if dp.Metric("acidity") > 0.5 && (foodBody >= 0.7 || fp.HasTag("creamy")) {
		complement += 0.15
		reasons = append(reasons, "acidity cuts through richness")
	}
	// Sweet meets sweet
	if dp.Metric("sweetness_level") > 0.5 && fp.HasTag("sweet") {
		complement += 0.15
		reasons = append(reasons, "matches the dish's sweetness")
	}
	// Smoke meets char
	if dp.HasTag("smoke_peat") && fp.HasTag("smoke_peat") {
		complement += 0.10
		reasons = append(reasons, "smoke echoes the char")
	}

	foodText := strings.ToLower(itemText(food))
	wineColor := ""
	if drink.ItemType == models.ItemTypeWine {
		wineColor = drink.ParsedString("wine_color")

		switch wineColor {
		case "red":
			if lexicon.RedMeatFoodPattern.MatchString(foodText) {
				complement += 0.15
				reasons = append(reasons, "classic red wine with red meat")
			}
		case "white":
			if lexicon.FishFoodPattern.MatchString(foodText) || lexicon.SeafoodFoodPattern.MatchString(foodText) {
				complement += 0.15
				reasons = append(reasons, "classic white wine with seafood")
			}
		case "rosé":
			if lexicon.LightFareFoodPattern.MatchString(foodText) {
				complement += 0.10
				reasons = append(reasons, "rosé suits light fare")
			}
		case "dessert":
			if fp.HasTag("sweet") {
				complement += 0.15
				reasons = append(reasons, "dessert wine keeps up with the sweetness")
			}
		case "fortified":
			if lexicon.CheeseBoardFoodPattern.MatchString(foodText) {
				complement += 0.12
				reasons = append(reasons, "fortified wine loves cheese and chocolate")
			}
		case "sparkling":
			if lexicon.FriedFoodPattern.MatchString(foodText) || fp.HasTag("saline") {
				complement += 0.10
				reasons = append(reasons, "bubbles against salt and crunch")
			}
		}
		if bodyDiff < 0.3 {
			complement += 0.08
		}
	}
	complement = clamp01(complement)

	contrast := 0.0
	if dp.HasTag("sweet") && fp.HasTag("saline") {
		contrast += 0.3
	}
	if dp.HasTag("smoke_peat") && fp.HasTag("sweet") {
		contrast += 0.3
	}
	if dp.HasTag("citrus") && fp.HasTag("creamy") {
		contrast += 0.2
	}
	if dp.HasTag("bitter") && fp.HasTag("sweet") {
		contrast += 0.2
	}
	contrast = clamp01(contrast)

	var flags []string
	if dp.Metric("alcohol_intensity") > 0.7 && fp.HasTag("spice") {
		flags = append(flags, "high_alcohol_vs_spice")
	}
	if dp.Metric("tannin") > 0.6 && lexicon.FishFoodPattern.MatchString(foodText) {
		flags = append(flags, "heavy_tannin_vs_fish")
	}
	if dp.Metric("peat_level") > 0.5 && foodBody < 0.3 {
		flags = append(flags, "peat_vs_delicate")
	}
	if drink.ItemType == models.ItemTypeWine {
		if wineColor == "red" && dp.Metric("tannin") > 0.5 && lexicon.DelicateFishFoodPattern.MatchString(foodText) {
			flags = append(flags, "tannic_red_vs_delicate_fish")
		}
		if dp.HasTag("vanilla_oak") && foodBody < 0.3 {
			flags = append(flags, "oaky_wine_vs_delicate_dish")
		}
		if dp.Metric("sweetness_level") > 0.6 && !fp.HasTag("sweet") && foodBody > 0.5 {
			flags = append(flags, "sweet_wine_vs_savoury_main")
		}
	}

	total := clamp01(0.6*complement + 0.4*contrast - 0.1*float64(len(flags)))

	rationale := strings.Join(reasons, "; ")
	if rationale == "" {
		rationale = "balanced match"
	}

	return pairingCandidate{
		food:       food,
		complement: round4(complement),
		contrast:   round4(contrast),
		total:      round4(total),
		rationale:  rationale,
		riskFlags:  flags,
	}
}

func (s *PairingService) upsertPairing(ctx context.Context, drinkID uint, c pairingCandidate, pairingType string) error {
	var pairing models.PairingRecommendation
	err := s.db.WithContext(ctx).
		Where("drink_menu_item_id = ? AND food_menu_item_id = ?", drinkID, c.food.ID).
		First(&pairing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	pairing.DrinkMenuItemID = drinkID
	pairing.FoodMenuItemID = c.food.ID
	pairing.ComplementScore = c.complement
	pairing.ContrastScore = c.contrast
	pairing.Score = c.total
	pairing.Rationale = c.rationale
	pairing.RiskFlags = models.JSONBStringArray(c.riskFlags)
	pairing.PairingType = pairingType

	if err := s.db.WithContext(ctx).Save(&pairing).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to save pairing: %w", err)
	}
	return nil
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func sharedTags(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	var shared []string
	for _, t := range a {
		if set[t] {
			shared = append(shared, t)
			set[t] = false
		}
	}
	return shared
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
