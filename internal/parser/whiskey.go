// Package parser extracts structured attributes from raw menu text for the
// two specialised drink domains (whiskey, wine). Parsers are layered: direct
// dictionary lookup first, then ordered pattern rules, then inference from an
// already-resolved field, and finally numeric extraction. Each parse returns
// the resolved fields and a confidence score.
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tablevine/sommelier-backend/internal/lexicon"
)

// Fields holds parser output keyed by attribute name.
type Fields map[string]interface{}

// Input is the raw material a parser works over.
type Input struct {
	SectionName string
	Name        string
	Description string
	// ABV is the item's explicit ABV field, used when the text has none.
	ABV *float64
}

func joinedText(in Input) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{in.SectionName, in.Name, in.Description} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ParseWhiskey extracts whiskey attributes from an item's combined text.
func ParseWhiskey(in Input) (Fields, float64) {
	t := strings.ToLower(joinedText(in))
	fields := Fields{}

	distillery := detectDistillery(t)
	if distillery != "" {
		fields["distillery"] = distillery
	}

	region := detectWhiskeyRegion(t, distillery)
	if region != "" {
		fields["whiskey_region"] = region
	}

	if wtype := detectWhiskeyType(t, region); wtype != "" {
		fields["whiskey_type"] = wtype
	}

	if cask := detectCask(t); cask != "" {
		fields["cask_type"] = cask
	}

	fields["bottler"] = detectBottler(t)

	if lexicon.LimitedRegex.MatchString(t) {
		fields["limited_edition"] = true
	}

	if age, ok := detectAge(t, distillery); ok {
		fields["age_years"] = age
	}

	if m := lexicon.ABVRegex.FindStringSubmatch(t); m != nil {
		if abv, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			fields["bottling_strength_abv"] = abv
		}
	} else if in.ABV != nil && *in.ABV > 0 {
		fields["bottling_strength_abv"] = *in.ABV
	}

	return fields, whiskeyConfidence(fields)
}

func detectDistillery(text string) string {
	for _, name := range lexicon.DistilleryNamesByLength {
		if strings.Contains(text, name) {
			return capitalizeWords(name)
		}
	}
	return ""
}

func detectWhiskeyRegion(text, distillery string) string {
	// First: infer from the distillery dictionary
	if distillery != "" {
		if region, ok := lexicon.DistilleryRegions[strings.ToLower(distillery)]; ok {
			return region
		}
	}

	// Second: explicit region keywords in text
	for _, rk := range lexicon.WhiskeyRegionKeywords {
		if rk.Pattern.MatchString(text) {
			return rk.Region
		}
	}
	return ""
}

func detectWhiskeyType(text, region string) string {
	// Explicit type patterns first
	for _, tp := range lexicon.WhiskeyTypePatterns {
		if tp.Pattern.MatchString(text) {
			return tp.Type
		}
	}

	// Infer from region when nothing explicit matched
	switch region {
	case "kentucky":
		if strings.Contains(text, "bourbon") || !strings.Contains(text, "rye") {
			return "bourbon"
		}
	case "tennessee":
		return "tennessee"
	case "ireland":
		if !strings.Contains(text, "single") {
			return "irish_blended"
		}
	case "japan":
		return "japanese"
	case "canada":
		return "canadian"
	}
	return ""
}

func detectCask(text string) string {
	for _, cp := range lexicon.CaskPatterns {
		if cp.Pattern.MatchString(text) {
			return cp.Cask
		}
	}
	return ""
}

func detectBottler(text string) string {
	for _, ib := range lexicon.IndependentBottlers {
		if strings.Contains(text, ib) {
			return "IB"
		}
	}
	if lexicon.BottledBy.MatchString(text) {
		return "IB"
	}
	return "OB"
}

// detectAge looks for a labelled age ("16 yo", "16 years old") anywhere, then
// falls back to a bare one-or-two digit number right after the distillery name
// ("Macallan 18", "Yamazaki 12"), accepted only in the plausible 3-50 range.
func detectAge(text, distillery string) (int, bool) {
	if m := lexicon.AgeRegex.FindStringSubmatch(text); m != nil {
		age, err := strconv.Atoi(m[1])
		if err == nil {
			return age, true
		}
	}

	if distillery == "" {
		return 0, false
	}
	_, after, found := strings.Cut(text, strings.ToLower(distillery))
	if !found {
		return 0, false
	}
	if m := lexicon.BareAgeRegex.FindStringSubmatch(strings.TrimSpace(after)); m != nil {
		age, err := strconv.Atoi(m[1])
		if err == nil && age >= 3 && age <= 50 {
			return age, true
		}
	}
	return 0, false
}

func whiskeyConfidence(fields Fields) float64 {
	score := 0.15 // baseline
	if _, ok := fields["distillery"]; ok {
		score += 0.25
	}
	if _, ok := fields["whiskey_region"]; ok {
		score += 0.15
	}
	if _, ok := fields["whiskey_type"]; ok {
		score += 0.15
	}
	if _, ok := fields["cask_type"]; ok {
		score += 0.10
	}
	if _, ok := fields["age_years"]; ok {
		score += 0.10
	}
	if _, ok := fields["bottling_strength_abv"]; ok {
		score += 0.10
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
