// Package lexicon holds the static dictionaries and pattern tables the
// sommelier engine matches against: controlled-tag regexes, grape and
// appellation lists, distillery regions, cask keywords. Everything here is
// compiled once at package init and never mutated.
package lexicon

import "regexp"

// TagPattern pairs a controlled tag with the text pattern that triggers it.
// Order is preserved so extracted tags come out in a stable order.
type TagPattern struct {
	Tag     string
	Pattern *regexp.Regexp
}

// DrinkTagPatterns is the full tag pattern table used against enrichment
// descriptions (tasting notes, production notes).
var DrinkTagPatterns = []TagPattern{
	{"sweet", regexp.MustCompile(`\b(sweet|honey|sugar|caramel|toffee|butterscotch|vanilla|maple)\b`)},
	{"smoke_peat", regexp.MustCompile(`\b(smok(?:e[dy]?|y|ing)|peat[ey]?|campfire|bonfire|ash|charr?ed|kiln)\b`)},
	{"spice", regexp.MustCompile(`\b(spic[ey]|pepper|cinnamon|clove|ginger|nutmeg|cardamom|chili|chilli)\b`)},
	{"vanilla_oak", regexp.MustCompile(`\b(vanilla|oak|wood[ey]?|barrel|cask|cedar|sandalwood)\b`)},
	{"dried_fruit", regexp.MustCompile(`\b(dried fruit|raisin|fig|date|prune|sultana|currant)\b`)},
	{"citrus", regexp.MustCompile(`\b(citrus|lemon|lime|orange|grapefruit|zest|tangerine|bergamot)\b`)},
	{"floral", regexp.MustCompile(`\b(floral|flower|rose|violet|lavender|jasmine|blossom|elderflower)\b`)},
	{"nutty", regexp.MustCompile(`\b(nut[ty]?|almond|walnut|hazelnut|pecan|marzipan|praline)\b`)},
	{"saline", regexp.MustCompile(`\b(salin[ey]?|salt[ey]?|brine|briny|sea|maritime|coastal|iodine)\b`)},
	{"umami", regexp.MustCompile(`\b(umami|savou?ry|meaty|soy|miso)\b`)},
	{"bitter", regexp.MustCompile(`\b(bitter|dark chocolate|espresso|coffee|cocoa)\b`)},
	{"creamy", regexp.MustCompile(`\b(cream[ey]?|butter[ey]?|silky|smooth|velvet[ey]?|rich)\b`)},
	{"tannic", regexp.MustCompile(`\b(tannic|tannin|grippy|astringent|firm|structured)\b`)},
	{"herbal", regexp.MustCompile(`\b(herb[al]?|thyme|rosemary|mint|sage|basil|eucalyptus|juniper)\b`)},
	{"earthy", regexp.MustCompile(`\b(earth[ey]?|soil|mushroom|truffle|forest|moss|loam|mineral)\b`)},
	{"tropical", regexp.MustCompile(`\b(tropical|mango|pineapple|passion\s?fruit|guava|papaya|lychee)\b`)},
	{"stone_fruit", regexp.MustCompile(`\b(stone fruit|peach|apricot|plum|nectarine|cherry)\b`)},
	{"berry", regexp.MustCompile(`\b(berr[ey]|strawberr[ey]|blueberr[ey]|raspberr[ey]|blackberr[ey]|cranberr[ey])\b`)},
	{"chocolate", regexp.MustCompile(`\b(chocolat[ey]?|cocoa|cacao)\b`)},
	{"caramel", regexp.MustCompile(`\b(caramel|toffee|butterscotch|fudge|treacle)\b`)},
	{"honey", regexp.MustCompile(`\b(honey|honeycomb|beeswax|nectar)\b`)},
}

// DrinkTextTagPatterns is the reduced table used when profiling a drink item
// straight from its menu text, where descriptions are short and noisy.
var DrinkTextTagPatterns = []TagPattern{
	{"sweet", regexp.MustCompile(`\b(sweet|honey|sugar|caramel|toffee|butterscotch|vanilla|maple)\b`)},
	{"smoke_peat", regexp.MustCompile(`\b(smok(?:e[dy]?|y|ing)|peat[ey]?|campfire|bonfire|ash|charr?ed|kiln)\b`)},
	{"spice", regexp.MustCompile(`\b(spic[ey]|pepper|cinnamon|clove|ginger|nutmeg)\b`)},
	{"vanilla_oak", regexp.MustCompile(`\b(vanilla|oak|wood[ey]?|barrel|cask|cedar)\b`)},
	{"dried_fruit", regexp.MustCompile(`\b(dried fruit|raisin|fig|date|prune|sultana)\b`)},
	{"citrus", regexp.MustCompile(`\b(citrus|lemon|lime|orange|grapefruit|zest)\b`)},
	{"floral", regexp.MustCompile(`\b(floral|flower|rose|violet|lavender|jasmine)\b`)},
	{"nutty", regexp.MustCompile(`\b(nut[ty]?|almond|walnut|hazelnut|marzipan)\b`)},
	{"creamy", regexp.MustCompile(`\b(cream[ey]?|butter[ey]?|silky|smooth|velvet)\b`)},
	{"herbal", regexp.MustCompile(`\b(herb[al]?|thyme|rosemary|mint|sage|juniper)\b`)},
}

// FoodTagPatterns is the food-specific tag subset with simpler triggers.
var FoodTagPatterns = []TagPattern{
	{"sweet", regexp.MustCompile(`\b(sweet|dessert|sugar|honey|caramel|chocolate|cake|pastry|tart|crème)\b`)},
	{"spice", regexp.MustCompile(`\b(spic[ey]|chili|chilli|pepper|curry|harissa|kimchi|sriracha|jalapeño)\b`)},
	{"umami", regexp.MustCompile(`\b(umami|soy|miso|aged cheese|parmesan|truffle|mushroom|anchov)\b`)},
	{"saline", regexp.MustCompile(`\b(salt[ey]?|briny|oyster|caviar|anchov|cured|prosciutto|bresaola)\b`)},
	{"creamy", regexp.MustCompile(`\b(cream[ey]?|butter[ey]?|brie|camembert|burrata|risotto|mousse)\b`)},
	{"citrus", regexp.MustCompile(`\b(citrus|lemon|lime|orange|grapefruit|yuzu|ceviche)\b`)},
	{"earthy", regexp.MustCompile(`\b(earth[ey]?|root|beet|mushroom|truffle|lentil)\b`)},
	{"smoke_peat", regexp.MustCompile(`\b(smoked|charred|grilled|barbecue|bbq)\b`)},
	{"herbal", regexp.MustCompile(`\b(herb|basil|thyme|rosemary|cilantro|dill|mint|pesto)\b`)},
	{"bitter", regexp.MustCompile(`\b(bitter|radicchio|endive|arugula|rocket|dark chocolate)\b`)},
	{"nutty", regexp.MustCompile(`\b(nut|almond|walnut|pistachio|hazelnut|peanut|tahini)\b`)},
}

// Keyword families for structural metric estimation.
var (
	FullBodyPattern    = regexp.MustCompile(`\b(full[- ]?bodied|heavy|rich|bold|robust)\b`)
	LightBodyPattern   = regexp.MustCompile(`\b(light[- ]?bodied|light|delicate|thin|crisp)\b`)
	SweetPattern       = regexp.MustCompile(`\b(sweet|dessert|luscious|honeyed)\b`)
	DryPattern         = regexp.MustCompile(`\b(dry|brut|bone[- ]dry|austere)\b`)
	LongFinishPattern  = regexp.MustCompile(`\b(long|lingering|endless|persistent)\b`)
	ShortFinishPattern = regexp.MustCompile(`\b(short|brief|quick|clean)\b`)
	HeavyPeatPattern   = regexp.MustCompile(`\b(heavily? peated|peat)\b`)
	LightPeatPattern   = regexp.MustCompile(`\b(lightly? peated|hint of smoke)\b`)
	AcidityPattern     = regexp.MustCompile(`\b(acid|crisp|tart|zesty|bright)\b`)
	TanninPattern      = regexp.MustCompile(`\b(tannic|tannin|grippy|structured)\b`)

	HeavyFoodPattern = regexp.MustCompile(`\b(steak|lamb|pork|ribs|duck|wagyu|braised|stew)\b`)
	AcidFoodPattern  = regexp.MustCompile(`\b(vinaigrette|pickle|ceviche|citrus|tomato)\b`)
)

// ExtractTags runs a pattern table against lowercased text and returns the
// matched tags in table order.
func ExtractTags(text string, table []TagPattern) []string {
	var tags []string
	for _, tp := range table {
		if tp.Pattern.MatchString(text) {
			tags = append(tags, tp.Tag)
		}
	}
	return tags
}
