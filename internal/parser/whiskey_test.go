package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseWhiskeyFields(t *testing.T, section, name, description string) (Fields, float64) {
	t.Helper()
	return ParseWhiskey(Input{SectionName: section, Name: name, Description: description})
}

func TestParseWhiskeyLagavulin(t *testing.T) {
	fields, confidence := parseWhiskeyFields(t, "Whisky",
		"Lagavulin 16 Year Old", "intensely peaty Islay single malt, maritime smoke")

	assert.Equal(t, "Lagavulin", fields["distillery"])
	assert.Equal(t, "islay", fields["whiskey_region"])
	assert.Equal(t, "single_malt", fields["whiskey_type"])
	assert.Equal(t, 16, fields["age_years"])
	assert.Equal(t, "OB", fields["bottler"])
	// baseline + distillery + region + type + age
	assert.InDelta(t, 0.80, confidence, 1e-9)
}

func TestParseWhiskeyMacallanBareAge(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whisky",
		"The Macallan 18 Sherry Oak", "rich dried fruit and ginger spice")

	assert.Equal(t, "Macallan", fields["distillery"])
	assert.Equal(t, "speyside", fields["whiskey_region"])
	assert.Equal(t, 18, fields["age_years"])
	assert.Equal(t, "sherry_cask", fields["cask_type"])
}

func TestParseWhiskeyGlenmorangieLabelledAge(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whisky",
		"Glenmorangie Original 10 yo", "gentle highland dram")

	assert.Equal(t, "Glenmorangie", fields["distillery"])
	assert.Equal(t, "highland", fields["whiskey_region"])
	assert.Equal(t, 10, fields["age_years"])
}

func TestParseWhiskeyBuffaloTrace(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whiskey",
		"Buffalo Trace", "kentucky straight bourbon, sweet vanilla and caramel")

	assert.Equal(t, "Buffalo Trace", fields["distillery"])
	assert.Equal(t, "kentucky", fields["whiskey_region"])
	assert.Equal(t, "bourbon", fields["whiskey_type"])
	_, hasAge := fields["age_years"]
	assert.False(t, hasAge)
}

func TestParseWhiskeyTennesseeInference(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whiskey",
		"Jack Daniel's Old No. 7", "charcoal mellowed tennessee sipper")

	assert.Equal(t, "tennessee", fields["whiskey_region"])
	assert.Equal(t, "tennessee", fields["whiskey_type"])
}

func TestParseWhiskeyRedbreastPotStill(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whiskey",
		"Redbreast 12", "single pot still irish whiskey, creamy orchard fruit")

	assert.Equal(t, "Redbreast", fields["distillery"])
	assert.Equal(t, "ireland", fields["whiskey_region"])
	assert.Equal(t, "irish_single_pot", fields["whiskey_type"])
	assert.Equal(t, 12, fields["age_years"])
}

func TestParseWhiskeyYamazaki(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whisky",
		"Yamazaki 12", "japanese single malt, honeyed and delicate")

	assert.Equal(t, "Yamazaki", fields["distillery"])
	assert.Equal(t, "japan", fields["whiskey_region"])
	// "single malt" appears explicitly, so the pattern wins over the
	// region inference
	assert.Equal(t, "single_malt", fields["whiskey_type"])
	assert.Equal(t, 12, fields["age_years"])
}

func TestParseWhiskeySherryCaskAndLimited(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whisky",
		"GlenDronach Cask Strength", "matured in oloroso sherry casks, cask strength release")

	assert.Equal(t, "sherry_cask", fields["cask_type"])
	assert.Equal(t, true, fields["limited_edition"])
}

func TestParseWhiskeyIndependentBottler(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whisky",
		"Gordon & MacPhail Caol Ila 2009", "bottled by the famous house of Elgin")

	assert.Equal(t, "IB", fields["bottler"])
}

func TestParseWhiskeyABVFromText(t *testing.T) {
	fields, _ := parseWhiskeyFields(t, "Whisky",
		"Aberlour A'bunadh", "batch strength at 60.9% abv, sherry bomb")

	assert.InDelta(t, 60.9, fields["bottling_strength_abv"], 1e-9)
}

func TestParseWhiskeyABVFromRawField(t *testing.T) {
	abv := 43.0
	fields, _ := ParseWhiskey(Input{
		SectionName: "Whisky",
		Name:        "Highland Park 12",
		Description: "heathery smoke",
		ABV:         &abv,
	})
	assert.InDelta(t, 43.0, fields["bottling_strength_abv"], 1e-9)
}

func TestParseWhiskeyBareAgeRange(t *testing.T) {
	// A bare number outside 3-50 after the distillery is not an age
	fields, _ := parseWhiskeyFields(t, "Whisky", "Macallan 72", "rare decanter")
	_, hasAge := fields["age_years"]
	assert.False(t, hasAge)
}

func TestParseWhiskeyUnknownText(t *testing.T) {
	fields, confidence := parseWhiskeyFields(t, "Drinks", "House Pour", "")

	_, hasDistillery := fields["distillery"]
	assert.False(t, hasDistillery)
	assert.Equal(t, "OB", fields["bottler"])
	assert.InDelta(t, 0.15, confidence, 1e-9)
}

func TestParseWhiskeyConfidenceAccrual(t *testing.T) {
	_, confidence := parseWhiskeyFields(t, "Whisky",
		"Lagavulin 16 Year Old", "islay single malt, sherry cask, 43% abv")
	// baseline + distillery + region + type + cask + age + abv = 1.0
	require.InDelta(t, 1.0, confidence, 1e-9)
}
