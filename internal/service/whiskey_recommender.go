package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/lexicon"
	"github.com/tablevine/sommelier-backend/internal/models"
)

// WhiskeyPreferences are the answers a guest gives the whiskey quick-pick flow.
type WhiskeyPreferences struct {
	Experience string `json:"experience"` // newcomer | casual | enthusiast
	Region     string `json:"region"`     // scotch | bourbon_rye | irish | japanese | surprise_me
	Flavor     string `json:"flavor"`     // a flavor cluster key, or empty
	Budget     string `json:"budget"`     // value | mid | premium | no_preference
}

// WhiskeyRecommendation is one ranked whiskey result.
type WhiskeyRecommendation struct {
	Item    *models.MenuItem `json:"item"`
	Score   float64          `json:"score"`
	Cluster string           `json:"cluster,omitempty"`
	Why     string           `json:"why"`
}

// ExploreFilters narrow the whiskey explore listing.
type ExploreFilters struct {
	Cluster     string `json:"cluster"`
	Region      string `json:"region"`
	AgeBucket   string `json:"age_bucket"`   // young | mid | mature
	PriceBucket string `json:"price_bucket"` // value | mid | premium
	NewOnly     bool   `json:"new_only"`
	RareOnly    bool   `json:"rare_only"`
}

// ExploreItem is one whiskey in the explore listing.
type ExploreItem struct {
	Item       *models.MenuItem `json:"item"`
	Cluster    string           `json:"cluster,omitempty"`
	NewArrival bool             `json:"new_arrival"`
	Rare       bool             `json:"rare"`
}

// ExploreResult is the faceted explore response: per-cluster counts over the
// whole list plus the filtered items.
type ExploreResult struct {
	ClusterCounts map[string]int `json:"cluster_counts"`
	Items         []ExploreItem  `json:"items"`
}

// newArrivalWindow is how long an item counts as a new arrival.
const newArrivalWindow = 14 * 24 * time.Hour

// WhiskeyRecommenderService ranks and facets the whiskey list.
type WhiskeyRecommenderService struct {
	db       *gorm.DB
	profiler *FlavorProfiler
}

// NewWhiskeyRecommenderService creates a new WhiskeyRecommenderService.
func NewWhiskeyRecommenderService(db *gorm.DB, profiler *FlavorProfiler) *WhiskeyRecommenderService {
	return &WhiskeyRecommenderService{db: db, profiler: profiler}
}

// RecommendForGuest ranks the menu's whiskeys against the guest's answers.
// Items in excludeIDs (already shown this session) take a score penalty
// rather than a hard drop, so a short list still fills.
func (s *WhiskeyRecommenderService) RecommendForGuest(ctx context.Context, menuID uint, prefs WhiskeyPreferences, limit int, excludeIDs []uint) ([]WhiskeyRecommendation, error) {
	if limit <= 0 {
		limit = 3
	}
	whiskeys, err := s.activeWhiskeys(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to load whiskeys: %w", err)
	}

	excluded := make(map[uint]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var results []WhiskeyRecommendation
	for i := range whiskeys {
		item := &whiskeys[i]
		cluster := InferCluster(item)

		score := 0.05

		region := item.ParsedString("whiskey_region")
		if prefs.Region == "surprise_me" {
			score += 0.15
		} else if region != "" && regionMatches(region, prefs.Region) {
			score += 0.25
		}

		if prefs.Flavor != "" && cluster != "" {
			if cluster == prefs.Flavor {
				score += 0.30
			} else {
				for _, n := range lexicon.NeighboringClusters[prefs.Flavor] {
					if n == cluster {
						score += 0.15
						break
					}
				}
			}
		}

		age := item.ParsedFloat("age_years")
		abv := item.ParsedFloat("bottling_strength_abv")
		switch prefs.Experience {
		case "newcomer":
			if abv <= 43 {
				score += 0.15
			}
			if abv > 50 {
				score -= 0.10
			}
			if cluster == "light_delicate" || cluster == "fruity_sweet" {
				score += 0.05
			}
		case "casual":
			score += 0.10
		case "enthusiast":
			if age >= 12 || abv > 46 {
				score += 0.15
			}
			if item.ParsedBool("limited_edition") {
				score += 0.05
			}
		}

		score += budgetBonus(item.Price, prefs.Budget, whiskeyBudgetWindows, 0.20)

		if item.ParsedBool("staff_pick") {
			score += 0.05
		}

		if excluded[item.ID] {
			score -= 0.15
		}

		if score <= 0 {
			continue
		}
		results = append(results, WhiskeyRecommendation{
			Item:    item,
			Score:   round4(score),
			Cluster: cluster,
			Why:     buildWhyText(item, cluster),
		})
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Explore returns the whiskey list filtered by the given facets along with
// per-cluster counts computed over the unfiltered list.
func (s *WhiskeyRecommenderService) Explore(ctx context.Context, menuID uint, filters ExploreFilters) (*ExploreResult, error) {
	whiskeys, err := s.activeWhiskeys(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to load whiskeys: %w", err)
	}

	now := time.Now()
	result := &ExploreResult{ClusterCounts: map[string]int{}}

	for i := range whiskeys {
		item := &whiskeys[i]
		cluster := InferCluster(item)
		if cluster != "" {
			result.ClusterCounts[cluster]++
		}

		newArrival := now.Sub(item.CreatedAt) <= newArrivalWindow
		rare := item.ParsedBool("limited_edition")

		if filters.Cluster != "" && cluster != filters.Cluster {
			continue
		}
		if filters.Region != "" && item.ParsedString("whiskey_region") != filters.Region {
			continue
		}
		if filters.AgeBucket != "" && !ageInBucket(item.ParsedFloat("age_years"), filters.AgeBucket) {
			continue
		}
		if filters.PriceBucket != "" && !priceInBucket(item.Price, filters.PriceBucket) {
			continue
		}
		if filters.NewOnly && !newArrival {
			continue
		}
		if filters.RareOnly && !rare {
			continue
		}

		result.Items = append(result.Items, ExploreItem{
			Item:       item,
			Cluster:    cluster,
			NewArrival: newArrival,
			Rare:       rare,
		})
	}

	return result, nil
}

// InferCluster resolves an item's flavor cluster: a staff-assigned cluster
// wins, else it is inferred from region, cask and type.
func InferCluster(item *models.MenuItem) string {
	if c := item.ParsedString("staff_flavor_cluster"); c != "" {
		return c
	}

	region := item.ParsedString("whiskey_region")
	cask := item.ParsedString("cask_type")
	whiskeyType := item.ParsedString("whiskey_type")

	switch region {
	case "islay":
		return "heavily_peated"
	case "islands", "campbeltown":
		return "smoky_coastal"
	}
	if strings.Contains(cask, "sherry") || strings.Contains(cask, "port") {
		return "rich_sherried"
	}
	if whiskeyType == "rye" {
		return "spicy_dry"
	}
	switch region {
	case "lowland", "japan":
		return "light_delicate"
	case "speyside", "ireland", "kentucky", "tennessee", "american_other":
		return "fruity_sweet"
	case "highland":
		return "fruity_sweet"
	}
	return ""
}

// buildWhyText assembles a one-line guest-facing description from the item's
// parsed fields.
func buildWhyText(item *models.MenuItem, cluster string) string {
	var parts []string

	if age := item.ParsedFloat("age_years"); age > 0 {
		parts = append(parts, fmt.Sprintf("%d year old", int(age)))
	}
	if t := item.ParsedString("whiskey_type"); t != "" {
		parts = append(parts, strings.ReplaceAll(t, "_", " "))
	}
	if region := item.ParsedString("whiskey_region"); region != "" {
		if label, ok := lexicon.WhiskeyRegionLabels[region]; ok {
			parts = append(parts, "from "+label)
		}
	}
	if cask := item.ParsedString("cask_type"); cask != "" {
		cask = strings.TrimSuffix(cask, "_cask")
		parts = append(parts, "matured in "+strings.ReplaceAll(cask, "_", " ")+" casks")
	}

	why := strings.Join(parts, " ")
	if cluster != "" {
		for _, fc := range lexicon.FlavorClusters {
			if fc.Key == cluster {
				if why != "" {
					why += ", "
				}
				why += fc.Label
				break
			}
		}
	}
	if note := item.ParsedString("staff_tasting_note"); note != "" {
		if why != "" {
			why += ". "
		}
		why += note
	}
	if why == "" {
		why = item.Name
	}
	return why
}

// regionMatches checks a parsed region against a preference: group keys
// (scotch, bourbon_rye, ...) expand to their member regions, anything else
// compares directly.
func regionMatches(region, pref string) bool {
	if pref == "" {
		return false
	}
	if group, ok := lexicon.WhiskeyRegionGroups[pref]; ok {
		for _, r := range group {
			if r == region {
				return true
			}
		}
		return false
	}
	return region == pref
}

func ageInBucket(age float64, bucket string) bool {
	if age <= 0 {
		return false
	}
	switch bucket {
	case "young":
		return age <= 10
	case "mid":
		return age > 10 && age <= 18
	case "mature":
		return age > 18
	}
	return true
}

func priceInBucket(price float64, bucket string) bool {
	if price <= 0 {
		return false
	}
	switch bucket {
	case "value":
		return price <= 12
	case "mid":
		return price > 10 && price <= 20
	case "premium":
		return price > 18
	}
	return true
}

func (s *WhiskeyRecommenderService) activeWhiskeys(ctx context.Context, menuID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Joins("JOIN menu_sections ON menu_sections.id = menu_items.menu_section_id").
		Where("menu_sections.menu_id = ? AND menu_sections.archived = ?", menuID, false).
		Where("menu_items.status = ?", models.StatusActive).
		Where("menu_items.item_type = ?", models.ItemTypeWhiskey).
		Order("menu_items.id").
		Find(&items).Error
	return items, err
}
