package lexicon

import "regexp"

// Food-name patterns used by the pairing scorer for classic protein matches
// and clash detection. Matched against lowercased item text.
var (
	RedMeatFoodPattern = regexp.MustCompile(`\b(beef|steak|lamb|venison|short ?rib|brisket|wagyu|red meat)\b`)
	FishFoodPattern    = regexp.MustCompile(`\b(fish|salmon|tuna|halibut|cod|trout|sea ?bass|sole|mackerel|sardine)\b`)
	SeafoodFoodPattern = regexp.MustCompile(`\b(seafood|shellfish|oyster|crab|lobster|scallop|shrimp|prawn|clam|mussel)\b`)
	FriedFoodPattern   = regexp.MustCompile(`\b(fried|crispy|tempura|battered|chips|fries)\b`)

	LightFareFoodPattern    = regexp.MustCompile(`\b(salad|bruschetta|antipast\w*|mezze|grilled\s+vegetables?|mediterranean|pizza|flatbread)\b`)
	CheeseBoardFoodPattern  = regexp.MustCompile(`\b(cheese|chocolate|nuts?|dried\s+fruit|stilton)\b`)
	DelicateFishFoodPattern = regexp.MustCompile(`\b(white\s+fish|sole|halibut|cod|sea\s+bass)\b`)
)
