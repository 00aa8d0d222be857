package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/lexicon"
	"github.com/tablevine/sommelier-backend/internal/models"
	"github.com/tablevine/sommelier-backend/internal/parser"
)

// Provenance tags written onto profiles so it is always auditable which rule
// path produced a classification.
const (
	ProvenanceRules        = "rules_v1"
	ProvenanceTextRules    = "text_rules_v1"
	ProvenanceWineRules    = "wine_rules_v1"
	ProvenanceWhiskeyRules = "whiskey_rules_v1"
	ProvenanceLLM          = "llm_v1"
)

// FlavorProfiler assigns controlled-vocabulary tags and structure metrics to
// products and menu items.
type FlavorProfiler struct {
	db         *gorm.DB
	classifier Classifier
}

// NewFlavorProfiler creates a new FlavorProfiler. The classifier is optional;
// when nil the LLM path reports no profile.
func NewFlavorProfiler(db *gorm.DB, classifier Classifier) *FlavorProfiler {
	return &FlavorProfiler{db: db, classifier: classifier}
}

// MenuItemOwnerID renders a menu item id as a profile owner key.
func MenuItemOwnerID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ProfileProduct profiles a catalog product from its latest enrichment
// payload. Products with no enrichment text are skipped: tags are never
// fabricated from absence of data.
func (s *FlavorProfiler) ProfileProduct(ctx context.Context, product *models.Product) (*models.FlavorProfile, error) {
	var enrichment models.ProductEnrichment
	err := s.db.WithContext(ctx).
		Where("product_id = ?", product.ID).
		Order("created_at DESC").
		First(&enrichment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	payload := map[string]interface{}(enrichment.Payload)
	description := enrichmentDescription(payload)
	if description == "" {
		return nil, nil
	}

	text := strings.ToLower(description)
	tags := lexicon.ExtractTags(text, lexicon.DrinkTagPatterns)
	metrics := estimateDrinkMetrics(product, payload, text)

	return s.upsertProfile(ctx, models.OwnerProduct, product.ID.String(), tags, metrics, ProvenanceRules)
}

// ProfileDrinkItem profiles a drink menu item. An existing profile is reused;
// otherwise the linked product's profile is copied; otherwise the item's own
// text is profiled, with a dedicated path for wine items.
func (s *FlavorProfiler) ProfileDrinkItem(ctx context.Context, item *models.MenuItem) (*models.FlavorProfile, error) {
	if existing, err := s.ProfileFor(ctx, models.OwnerMenuItem, MenuItemOwnerID(item.ID)); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	var link models.MenuItemProductLink
	err := s.db.WithContext(ctx).Preload("Product").
		Where("menu_item_id = ?", item.ID).
		First(&link).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && link.Product != nil {
		profile, perr := s.ProfileProduct(ctx, link.Product)
		if perr != nil {
			return nil, perr
		}
		if profile != nil {
			// Copy the product profile onto the menu item
			return s.upsertProfile(ctx, models.OwnerMenuItem, MenuItemOwnerID(item.ID),
				profile.Tags, profile.StructureMetrics,
				fmt.Sprintf("from_product_%s", link.Product.ID))
		}
	}

	// Fallback: profile from item text directly
	text := itemText(item)
	if text == "" {
		return nil, nil
	}

	if item.ItemType == models.ItemTypeWine {
		return s.profileWineItem(ctx, item, text)
	}
	if item.ItemType == models.ItemTypeWhiskey {
		return s.profileWhiskeyItem(ctx, item, text)
	}

	tags := lexicon.ExtractTags(strings.ToLower(text), lexicon.DrinkTextTagPatterns)
	metrics := map[string]float64{"body": 0.5, "sweetness_level": 0.4, "alcohol_intensity": 0.5}
	return s.upsertProfile(ctx, models.OwnerMenuItem, MenuItemOwnerID(item.ID), tags, metrics, ProvenanceTextRules)
}

// ProfileFoodItem profiles a food menu item from its name and description.
func (s *FlavorProfiler) ProfileFoodItem(ctx context.Context, item *models.MenuItem) (*models.FlavorProfile, error) {
	text := itemText(item)
	if text == "" {
		return nil, nil
	}

	t := strings.ToLower(text)
	tags := lexicon.ExtractTags(t, lexicon.FoodTagPatterns)
	metrics := estimateFoodMetrics(t, tags)

	return s.upsertProfile(ctx, models.OwnerMenuItem, MenuItemOwnerID(item.ID), tags, metrics, ProvenanceRules)
}

// LLMProfile profiles an entity via the external classifier. Only invoked on
// explicit request, never as an automatic fallback. Any classifier failure is
// logged and swallowed: the caller sees "no profile", not an error.
func (s *FlavorProfiler) LLMProfile(ctx context.Context, ownerType, ownerID, description string) (*models.FlavorProfile, error) {
	if s.classifier == nil || strings.TrimSpace(description) == "" {
		return nil, nil
	}

	result, err := s.classifier.Classify(ctx, description)
	if err != nil {
		log.Printf("[FlavorProfiler] LLM profiling failed: %v", err)
		return nil, nil
	}

	tags := models.FilterControlledTags(result.Tags)
	return s.upsertProfile(ctx, ownerType, ownerID, tags, result.StructureMetrics, ProvenanceLLM)
}

// ProfileFor returns the stored profile for an owner, or nil when absent.
func (s *FlavorProfiler) ProfileFor(ctx context.Context, ownerType, ownerID string) (*models.FlavorProfile, error) {
	var profile models.FlavorProfile
	err := s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// profileWineItem profiles a wine item, consulting the wine parser's resolved
// color and grape variety to seed tags and metric defaults.
func (s *FlavorProfiler) profileWineItem(ctx context.Context, item *models.MenuItem, text string) (*models.FlavorProfile, error) {
	t := strings.ToLower(text)

	if len(item.ParsedFields) == 0 {
		if err := s.ensureWineParsed(ctx, item); err != nil {
			return nil, err
		}
	}

	color := item.ParsedString("wine_color")
	grapes := item.ParsedStrings("grape_variety")

	tags := lexicon.ExtractTags(t, lexicon.DrinkTextTagPatterns)

	if len(grapes) > 0 {
		tags = append(tags, lexicon.GrapeFlavorTags[strings.ToLower(grapes[0])]...)
	}

	tags = append(tags, wineColorTags(color, tags)...)

	metrics := estimateWineMetrics(t, color, grapes, item)

	return s.upsertProfile(ctx, models.OwnerMenuItem, MenuItemOwnerID(item.ID), tags, metrics, ProvenanceWineRules)
}

// profileWhiskeyItem profiles a whiskey item, consulting the whiskey parser's
// region and strength output to seed the peat and alcohol metrics.
func (s *FlavorProfiler) profileWhiskeyItem(ctx context.Context, item *models.MenuItem, text string) (*models.FlavorProfile, error) {
	t := strings.ToLower(text)

	if len(item.ParsedFields) == 0 {
		if err := s.ensureWhiskeyParsed(ctx, item); err != nil {
			return nil, err
		}
	}

	tags := lexicon.ExtractTags(t, lexicon.DrinkTextTagPatterns)
	metrics := estimateWhiskeyMetrics(t, item)

	return s.upsertProfile(ctx, models.OwnerMenuItem, MenuItemOwnerID(item.ID), tags, metrics, ProvenanceWhiskeyRules)
}

// ensureWineParsed runs the wine parser and stores the result on the item.
func (s *FlavorProfiler) ensureWineParsed(ctx context.Context, item *models.MenuItem) error {
	fields, confidence := parser.ParseWine(parser.Input{
		SectionName: s.sectionName(ctx, item),
		Name:        item.Name,
		Description: item.Description,
	})
	return s.storeParsed(ctx, item, fields, confidence)
}

// ensureWhiskeyParsed runs the whiskey parser and stores the result on the item.
func (s *FlavorProfiler) ensureWhiskeyParsed(ctx context.Context, item *models.MenuItem) error {
	fields, confidence := parser.ParseWhiskey(parser.Input{
		SectionName: s.sectionName(ctx, item),
		Name:        item.Name,
		Description: item.Description,
	})
	return s.storeParsed(ctx, item, fields, confidence)
}

func (s *FlavorProfiler) sectionName(ctx context.Context, item *models.MenuItem) string {
	if item.Section != nil {
		return item.Section.Name
	}
	var section models.MenuSection
	if err := s.db.WithContext(ctx).First(&section, item.MenuSectionID).Error; err == nil {
		return section.Name
	}
	return ""
}

func (s *FlavorProfiler) storeParsed(ctx context.Context, item *models.MenuItem, fields parser.Fields, confidence float64) error {
	item.ParsedFields = models.JSONBMap(fields)
	item.ParsedConfidence = confidence
	return s.db.WithContext(ctx).Model(item).
		Updates(map[string]interface{}{
			"parsed_fields":     item.ParsedFields,
			"parsed_confidence": confidence,
		}).Error
}

// wineColorTags returns color-based tag additions, suppressed when the text
// already yielded a tag from the same family.
func wineColorTags(color string, existing []string) []string {
	has := func(candidates ...string) bool {
		for _, t := range existing {
			for _, c := range candidates {
				if t == c {
					return true
				}
			}
		}
		return false
	}

	switch color {
	case "red":
		if !has("tannic", "berry", "stone_fruit") {
			return []string{"tannic", "berry"}
		}
	case "white":
		if !has("citrus", "floral", "tropical") {
			return []string{"citrus", "floral"}
		}
	case "rosé":
		if !has("berry", "floral", "citrus") {
			return []string{"berry", "floral", "citrus"}
		}
	case "sparkling":
		if !has("citrus", "creamy") {
			return []string{"citrus", "creamy"}
		}
	case "dessert":
		if !has("sweet") {
			return []string{"sweet", "honey", "dried_fruit"}
		}
	case "fortified":
		if !has("sweet") {
			return []string{"sweet", "nutty", "caramel"}
		}
	}
	return nil
}

func estimateDrinkMetrics(product *models.Product, payload map[string]interface{}, text string) map[string]float64 {
	metrics := map[string]float64{}

	abv := floatFrom(payload, "abv")
	if abv == 0 && product.Attributes != nil {
		abv = floatFrom(product.Attributes, "abv")
	}
	if abv > 0 {
		metrics["alcohol_intensity"] = math.Min(round2(abv/60.0), 1.0)
	} else if product.ProductType == "wine" {
		metrics["alcohol_intensity"] = 0.2
	} else {
		metrics["alcohol_intensity"] = 0.5
	}

	switch {
	case lexicon.FullBodyPattern.MatchString(text):
		metrics["body"] = 0.8
	case lexicon.LightBodyPattern.MatchString(text):
		metrics["body"] = 0.3
	default:
		metrics["body"] = 0.5
	}

	switch {
	case lexicon.SweetPattern.MatchString(text):
		metrics["sweetness_level"] = 0.7
	case lexicon.DryPattern.MatchString(text):
		metrics["sweetness_level"] = 0.2
	default:
		metrics["sweetness_level"] = 0.4
	}

	switch {
	case lexicon.LongFinishPattern.MatchString(text):
		metrics["finish_length"] = 0.8
	case lexicon.ShortFinishPattern.MatchString(text):
		metrics["finish_length"] = 0.3
	default:
		metrics["finish_length"] = 0.5
	}

	switch {
	case lexicon.HeavyPeatPattern.MatchString(text):
		metrics["peat_level"] = 0.8
	case lexicon.LightPeatPattern.MatchString(text):
		metrics["peat_level"] = 0.4
	default:
		metrics["peat_level"] = 0.0
	}

	if product.ProductType == "wine" {
		if lexicon.AcidityPattern.MatchString(text) {
			metrics["acidity"] = 0.7
		} else {
			metrics["acidity"] = 0.4
		}
		if lexicon.TanninPattern.MatchString(text) {
			metrics["tannin"] = 0.7
		} else {
			metrics["tannin"] = 0.3
		}
	}

	return metrics
}

func estimateWineMetrics(text, color string, grapes []string, item *models.MenuItem) map[string]float64 {
	metrics := map[string]float64{}

	abv := item.ParsedFloat("bottling_strength_abv")
	if abv > 0 {
		metrics["alcohol_intensity"] = math.Min(round2(abv/20.0), 1.0)
	} else {
		metrics["alcohol_intensity"] = 0.2
	}

	switch color {
	case "red":
		if lexicon.WineFullPattern.MatchString(text) {
			metrics["body"] = 0.8
		} else {
			metrics["body"] = 0.6
		}
	case "white":
		if lexicon.WineOakedPattern.MatchString(text) {
			metrics["body"] = 0.6
		} else {
			metrics["body"] = 0.35
		}
	case "rosé":
		metrics["body"] = 0.35
	case "sparkling":
		metrics["body"] = 0.3
	case "dessert":
		metrics["body"] = 0.7
	case "fortified":
		metrics["body"] = 0.8
	default:
		metrics["body"] = 0.5
	}

	leadGrape := ""
	if len(grapes) > 0 {
		leadGrape = strings.ToLower(grapes[0])
	}

	switch {
	case lexicon.WineSweetPattern.MatchString(text):
		metrics["sweetness_level"] = 0.7
	case lexicon.WineDryPattern.MatchString(text):
		metrics["sweetness_level"] = 0.15
	case color == "dessert":
		metrics["sweetness_level"] = 0.8
	case lexicon.OffDrySweetGrapes[leadGrape]:
		metrics["sweetness_level"] = 0.45
	default:
		metrics["sweetness_level"] = 0.25
	}

	switch {
	case lexicon.WineAcidPattern.MatchString(text):
		metrics["acidity"] = 0.7
	case lexicon.HighAcidGrapes[leadGrape]:
		metrics["acidity"] = 0.7
	case color == "white" || color == "sparkling":
		metrics["acidity"] = 0.55
	default:
		metrics["acidity"] = 0.4
	}

	switch {
	case lexicon.WineTanninPattern.MatchString(text):
		metrics["tannin"] = 0.7
	case lexicon.HighTanninGrapes[leadGrape]:
		metrics["tannin"] = 0.7
	case color == "red":
		metrics["tannin"] = 0.5
	default:
		metrics["tannin"] = 0.15
	}

	if lexicon.WineFinishPattern.MatchString(text) {
		metrics["finish_length"] = 0.8
	} else {
		metrics["finish_length"] = 0.5
	}
	metrics["peat_level"] = 0.0 // wines don't have peat

	return metrics
}

func estimateWhiskeyMetrics(text string, item *models.MenuItem) map[string]float64 {
	metrics := map[string]float64{
		"body":              0.7,
		"sweetness_level":   0.3,
		"alcohol_intensity": 0.6,
	}

	if abv := item.ParsedFloat("bottling_strength_abv"); abv > 0 {
		metrics["alcohol_intensity"] = clamp01(abv / 60.0)
	}

	switch {
	case lexicon.LightPeatPattern.MatchString(text):
		metrics["peat_level"] = 0.3
	case lexicon.HeavyPeatPattern.MatchString(text), item.ParsedString("whiskey_region") == "islay":
		metrics["peat_level"] = 0.8
	default:
		metrics["peat_level"] = 0.0
	}

	if strings.Contains(item.ParsedString("cask_type"), "sherry") {
		metrics["sweetness_level"] = 0.5
	}

	return metrics
}

func estimateFoodMetrics(text string, tags []string) map[string]float64 {
	body := 0.4
	if lexicon.HeavyFoodPattern.MatchString(text) {
		body = 0.8
	}
	sweetness := 0.2
	for _, t := range tags {
		if t == "sweet" {
			sweetness = 0.7
			break
		}
	}
	acidity := 0.3
	if lexicon.AcidFoodPattern.MatchString(text) {
		acidity = 0.7
	}
	return map[string]float64{
		"body":            body,
		"sweetness_level": sweetness,
		"acidity":         acidity,
	}
}

// upsertProfile creates or overwrites the profile for an owner key. A
// concurrent duplicate insert on the same key is treated as benign.
func (s *FlavorProfiler) upsertProfile(ctx context.Context, ownerType, ownerID string, tags []string, metrics map[string]float64, provenance string) (*models.FlavorProfile, error) {
	var profile models.FlavorProfile
	err := s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile.OwnerType = ownerType
	profile.OwnerID = ownerID
	profile.Tags = models.JSONBStringArray(tags)
	profile.StructureMetrics = models.JSONBFloatMap(metrics)
	profile.Provenance = provenance

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &profile, nil
		}
		return nil, err
	}
	return &profile, nil
}

func enrichmentDescription(payload map[string]interface{}) string {
	var parts []string
	if notes, ok := payload["tasting_notes"].(map[string]interface{}); ok {
		for _, key := range []string{"nose", "palate", "finish"} {
			if s, ok := notes[key].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
	}
	for _, key := range []string{"production_notes", "brand_story"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

func itemText(item *models.MenuItem) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{item.Name, item.Description} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

func floatFrom(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
