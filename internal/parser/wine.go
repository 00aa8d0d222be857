package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tablevine/sommelier-backend/internal/lexicon"
)

var producerTrimPattern = regexp.MustCompile(`^[\s,\-–]+|[\s,\-–]+$`)

// ParseWine extracts wine attributes from an item's combined text.
func ParseWine(in Input) (Fields, float64) {
	text := joinedText(in)
	t := strings.ToLower(text)

	fields := Fields{}

	grapes := detectGrapes(t)
	if len(grapes) > 0 {
		fields["grape_variety"] = grapes
	}

	if app := detectAppellation(t); app != "" {
		fields["appellation"] = app
	}

	if class := detectClassification(t); class != "" {
		fields["classification"] = class
	}

	color := detectColor(t, strings.ToLower(in.SectionName))
	if color != "" {
		fields["wine_color"] = color
	}

	if serve := detectServeType(t); serve != "" {
		fields["serve_type"] = serve
	}

	if producer := extractProducer(in.Name, grapes, fields); producer != "" {
		fields["producer"] = producer
	}

	if m := lexicon.VintageRegex.FindStringSubmatch(text); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			fields["vintage_year"] = year
		}
	}

	// Infer color from grape when text gave no signal
	if color == "" && len(grapes) > 0 {
		if inferred := inferColorFromGrape(grapes[0]); inferred != "" {
			fields["wine_color"] = inferred
		}
	}

	return fields, wineConfidence(fields)
}

// detectGrapes returns up to three known grape varieties found in the text.
func detectGrapes(text string) []string {
	var found []string
	for _, g := range lexicon.AllGrapes {
		if strings.Contains(text, g) {
			found = append(found, g)
			if len(found) == 3 {
				break
			}
		}
	}
	return found
}

func detectAppellation(text string) string {
	for _, a := range lexicon.AllAppellations {
		if strings.Contains(text, a) {
			return a
		}
	}
	return ""
}

func detectClassification(text string) string {
	for _, c := range lexicon.WineClassifications {
		if c.Pattern.MatchString(text) {
			return c.Label
		}
	}
	return ""
}

// detectColor checks the section name first ("Red Wines", "White Wines"),
// then the full item text.
func detectColor(text, sectionName string) string {
	for _, cp := range lexicon.WineColorPatterns {
		if cp.Pattern.MatchString(sectionName) {
			return cp.Color
		}
	}
	for _, cp := range lexicon.WineColorPatterns {
		if cp.Pattern.MatchString(text) {
			return cp.Color
		}
	}
	return ""
}

func detectServeType(text string) string {
	for _, sp := range lexicon.WineServePatterns {
		if sp.Pattern.MatchString(text) {
			return sp.Serve
		}
	}
	return ""
}

// extractProducer strips known grape and appellation tokens plus the vintage
// year out of the item name; what remains is likely the producer.
func extractProducer(name string, grapes []string, fields Fields) string {
	tokens := append([]string{}, grapes...)
	if app, ok := fields["appellation"].(string); ok {
		tokens = append(tokens, app)
	}

	producer := name
	for _, token := range tokens {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(token))
		producer = strings.TrimSpace(re.ReplaceAllString(producer, ""))
	}

	producer = strings.TrimSpace(lexicon.VintageRegex.ReplaceAllString(producer, ""))
	producer = strings.TrimSpace(producerTrimPattern.ReplaceAllString(producer, ""))

	if len([]rune(producer)) > 2 {
		return producer
	}
	return ""
}

// inferColorFromGrape resolves color only for unambiguous grapes; pinot noir
// can be rosé or sparkling, so it stays unresolved.
func inferColorFromGrape(grape string) string {
	red := lexicon.IsRedGrape(grape)
	white := lexicon.IsWhiteGrape(grape)
	rose := lexicon.IsRoseGrape(grape)
	switch {
	case red && !white && !rose:
		return "red"
	case white && !red && !rose:
		return "white"
	}
	return ""
}

func wineConfidence(fields Fields) float64 {
	score := 0.3 // baseline for being classified as wine
	if _, ok := fields["grape_variety"]; ok {
		score += 0.15
	}
	if _, ok := fields["appellation"]; ok {
		score += 0.15
	}
	if _, ok := fields["classification"]; ok {
		score += 0.1
	}
	if _, ok := fields["wine_color"]; ok {
		score += 0.1
	}
	if _, ok := fields["vintage_year"]; ok {
		score += 0.1
	}
	if _, ok := fields["serve_type"]; ok {
		score += 0.05
	}
	if _, ok := fields["producer"]; ok {
		score += 0.05
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
