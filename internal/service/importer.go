package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/models"
)

// ImportResult summarizes one CSV import run. Per-row problems are collected
// here; only structural problems (bad CSV, missing header) abort the import.
type ImportResult struct {
	Imported  int      `json:"imported"`
	Unmatched []string `json:"unmatched"`
	Errors    []string `json:"errors"`
}

// WhiskeyCSVImporter merges staff tasting data from a CSV upload into the
// menu's whiskey items, matching rows to items by name.
type WhiskeyCSVImporter struct {
	db *gorm.DB
}

// NewWhiskeyCSVImporter creates a new WhiskeyCSVImporter.
func NewWhiskeyCSVImporter(db *gorm.DB) *WhiskeyCSVImporter {
	return &WhiskeyCSVImporter{db: db}
}

// optionalColumns are the staff-suppliable fields, keyed by CSV header.
// Values give the parsed-fields key each one merges into.
var optionalColumns = map[string]string{
	"whiskey_type":         "whiskey_type",
	"whiskey_region":       "whiskey_region",
	"distillery":           "distillery",
	"cask_type":            "cask_type",
	"age":                  "age_years",
	"abv":                  "bottling_strength_abv",
	"staff_flavor_cluster": "staff_flavor_cluster",
	"staff_tasting_note":   "staff_tasting_note",
	"staff_pick":           "staff_pick",
}

var (
	punctuationFold = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	agePhrase       = regexp.MustCompile(`\b(\d{1,2})\s*(?:yo|y o|years? old|year|yr)\b`)
	spaceRun        = regexp.MustCompile(`\s+`)
)

// Import reads the CSV content and merges matched rows into menu items.
// Malformed CSV or a missing menu_item_name header is a single error for the
// whole import.
func (s *WhiskeyCSVImporter) Import(ctx context.Context, menuID uint, content string) (*ImportResult, error) {
	reader := csv.NewReader(strings.NewReader(content))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}

	header := records[0]
	nameCol := -1
	colKeys := map[int]string{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "menu_item_name" {
			nameCol = i
		} else if key, ok := optionalColumns[h]; ok {
			colKeys[i] = key
		}
	}
	if nameCol == -1 {
		return nil, fmt.Errorf("CSV is missing required column menu_item_name")
	}

	items, err := s.menuWhiskeys(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	result := &ImportResult{Unmatched: []string{}, Errors: []string{}}

	for rowNum, row := range records[1:] {
		if nameCol >= len(row) {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: too few columns", rowNum+2))
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: blank menu_item_name", rowNum+2))
			continue
		}

		item := matchItem(name, items)
		if item == nil {
			result.Unmatched = append(result.Unmatched, name)
			continue
		}

		fields := map[string]interface{}{}
		for i, key := range colKeys {
			if i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			switch key {
			case "age_years", "bottling_strength_abv":
				if f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64); err == nil && f > 0 {
					fields[key] = f
				}
			case "staff_pick":
				switch strings.ToLower(value) {
				case "true", "yes", "y", "1":
					fields[key] = true
				}
			default:
				fields[key] = strings.ToLower(value)
			}
		}
		if len(fields) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): no usable fields", rowNum+2, name))
			continue
		}

		if err := s.mergeFields(ctx, item, fields); err != nil {
			return nil, fmt.Errorf("failed to update item %d: %w", item.ID, err)
		}
		result.Imported++
	}

	return result, nil
}

// mergeFields merges (not replaces) into the item's parsed fields and stamps
// the staff-tagged timestamp.
func (s *WhiskeyCSVImporter) mergeFields(ctx context.Context, item *models.MenuItem, fields map[string]interface{}) error {
	merged := models.JSONBMap{}
	for k, v := range item.ParsedFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	now := time.Now()
	item.ParsedFields = merged
	item.StaffTaggedAt = &now
	return s.db.WithContext(ctx).Model(item).
		Updates(map[string]interface{}{
			"parsed_fields":   merged,
			"staff_tagged_at": now,
		}).Error
}

// matchItem finds the menu item for a CSV name: exact normalized match first,
// then best token-overlap candidate at or above the 0.5 threshold.
func matchItem(name string, items []models.MenuItem) *models.MenuItem {
	normalized := normalizeName(name)
	for i := range items {
		if normalizeName(items[i].Name) == normalized {
			return &items[i]
		}
	}

	tokens := strings.Fields(normalized)
	var best *models.MenuItem
	bestRatio := 0.0
	for i := range items {
		ratio := tokenOverlap(tokens, strings.Fields(normalizeName(items[i].Name)))
		if ratio >= 0.5 && ratio > bestRatio {
			best = &items[i]
			bestRatio = ratio
		}
	}
	return best
}

// normalizeName case-folds, strips punctuation and reduces an age phrase
// ("16 year old", "16yo") to the bare number so stylistic variants of the
// same bottle compare equal.
func normalizeName(name string) string {
	n := strings.ToLower(name)
	n = punctuationFold.ReplaceAllString(n, " ")
	n = agePhrase.ReplaceAllString(n, "$1")
	n = spaceRun.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
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
	return float64(inter) / float64(union)
}

func (s *WhiskeyCSVImporter) menuWhiskeys(ctx context.Context, menuID uint) ([]models.MenuItem, error) {
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
