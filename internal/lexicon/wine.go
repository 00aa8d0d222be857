package lexicon

import "regexp"

// Grape variety lists. Some grapes appear in more than one list; color
// inference only fires when a grape is unambiguous.
var RedGrapes = []string{
	"cabernet sauvignon", "merlot", "pinot noir", "syrah", "shiraz", "malbec", "tempranillo",
	"sangiovese", "nebbiolo", "grenache", "garnacha", "mourvèdre", "monastrell", "barbera",
	"primitivo", "zinfandel", "pinotage", "carmenere", "gamay", "petit verdot",
	"nero d'avola", "aglianico", "montepulciano", "corvina", "tannat", "touriga nacional",
}

var WhiteGrapes = []string{
	"chardonnay", "sauvignon blanc", "riesling", "pinot grigio", "pinot gris",
	"gewürztraminer", "viognier", "chenin blanc", "semillon", "muscadet",
	"albariño", "verdejo", "grüner veltliner", "torrontés", "vermentino",
	"trebbiano", "garganega", "fiano", "greco", "cortese", "arneis", "pecorino",
	"marsanne", "roussanne", "müller-thurgau", "silvaner", "furmint",
}

var RoseGrapes = []string{
	"grenache", "garnacha", "cinsault", "mourvèdre", "syrah", "pinot noir", "tempranillo",
}

// AllGrapes is the union of the three lists, de-duplicated, list order preserved.
var AllGrapes = func() []string {
	seen := make(map[string]bool)
	var all []string
	for _, list := range [][]string{RedGrapes, WhiteGrapes, RoseGrapes} {
		for _, g := range list {
			if !seen[g] {
				seen[g] = true
				all = append(all, g)
			}
		}
	}
	return all
}()

var redGrapeSet = toSet(RedGrapes)
var whiteGrapeSet = toSet(WhiteGrapes)
var roseGrapeSet = toSet(RoseGrapes)

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}

// IsRedGrape reports whether the grape appears in the red list.
func IsRedGrape(grape string) bool { return redGrapeSet[grape] }

// IsWhiteGrape reports whether the grape appears in the white list.
func IsWhiteGrape(grape string) bool { return whiteGrapeSet[grape] }

// IsRoseGrape reports whether the grape appears in the rosé list.
func IsRoseGrape(grape string) bool { return roseGrapeSet[grape] }

var FrenchAppellations = []string{
	"bordeaux", "bourgogne", "burgundy", "champagne", "alsace", "loire", "rhône", "rhone",
	"beaujolais", "languedoc", "provence", "côtes du rhône", "cotes du rhone",
	"saint-émilion", "saint-julien", "pauillac", "margaux", "médoc", "haut-médoc",
	"pomerol", "sauternes", "chablis", "meursault", "puligny-montrachet",
	"chassagne-montrachet", "gevrey-chambertin", "nuits-saint-georges",
	"côte de beaune", "côte de nuits", "pouilly-fuissé", "pouilly-fumé",
	"sancerre", "vouvray", "muscadet", "chinon", "côtes de provence",
	"châteauneuf-du-pape", "hermitage", "côte-rôtie", "gigondas",
	"crozes-hermitage", "condrieu", "minervois", "corbières",
}

var ItalianAppellations = []string{
	"chianti", "barolo", "barbaresco", "brunello di montalcino", "valpolicella",
	"amarone", "soave", "prosecco", "franciacorta", "asti", "lambrusco", "verdicchio",
	"montepulciano d'abruzzo", "primitivo di manduria", "nero d'avola",
	"etna", "sicilia", "toscana", "piemonte", "veneto", "trentino", "alto adige",
	"friuli", "collio", "bolgheri", "maremma", "montalcino", "langhe", "roero",
	"gavi", "gattinara", "ghemme", "lugana", "ribolla gialla",
}

var SpanishAppellations = []string{
	"rioja", "ribera del duero", "priorat", "penedès", "rueda", "rías baixas",
	"rias baixas", "navarra", "jumilla", "toro", "cava", "jerez", "sherry",
	"valdepeñas", "la mancha", "somontano", "campo de borja",
}

var OtherAppellations = []string{
	"napa valley", "sonoma", "willamette valley", "barossa valley",
	"margaret river", "marlborough", "hawke's bay", "stellenbosch",
	"mendoza", "mâcon", "douro", "vinho verde", "porto", "port",
	"mosel", "rheingau", "pfalz", "tokaj", "wachau", "kamptal",
}

// AllAppellations concatenates the regional lists in lookup order.
var AllAppellations = func() []string {
	var all []string
	all = append(all, FrenchAppellations...)
	all = append(all, ItalianAppellations...)
	all = append(all, SpanishAppellations...)
	all = append(all, OtherAppellations...)
	return all
}()

// ClassificationPattern maps a classification keyword to its display label;
// ordered so "docg" matches before "doc".
type ClassificationPattern struct {
	Keyword string
	Label   string
	Pattern *regexp.Regexp
}

var WineClassifications = func() []ClassificationPattern {
	raw := []struct{ keyword, label string }{
		{"docg", "DOCG"},
		{"d.o.c.g.", "DOCG"},
		{"doc", "DOC"},
		{"d.o.c.", "DOC"},
		{"dop", "DOP"},
		{"igt", "IGT"},
		{"aoc", "AOC"},
		{"aop", "AOP"},
		{"grand cru", "Grand Cru"},
		{"premier cru", "Premier Cru"},
		{"1er cru", "Premier Cru"},
		{"gran reserva", "Gran Reserva"},
		{"reserva", "Reserva"},
		{"riserva", "Riserva"},
		{"crianza", "Crianza"},
		{"classico", "Classico"},
		{"superiore", "Superiore"},
		{"spätlese", "Spätlese"},
		{"auslese", "Auslese"},
		{"kabinett", "Kabinett"},
	}
	out := make([]ClassificationPattern, 0, len(raw))
	for _, r := range raw {
		out = append(out, ClassificationPattern{
			Keyword: r.keyword,
			Label:   r.label,
			Pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(r.keyword) + `\b`),
		})
	}
	return out
}()

// ServePattern pairs a serve type with its detection pattern.
type ServePattern struct {
	Serve   string
	Pattern *regexp.Regexp
}

var WineServePatterns = []ServePattern{
	{"glass", regexp.MustCompile(`\b(glass|bicchiere|verre|copa|glas)\b`)},
	{"bottle", regexp.MustCompile(`\b(bottle|bottiglia|bouteille|botella|flasche|75\s*cl|750\s*ml)\b`)},
	{"carafe", regexp.MustCompile(`\b(carafe|caraffa|jarra|half\s*bottle|37\.?5\s*cl|375\s*ml)\b`)},
	{"magnum", regexp.MustCompile(`\b(magnum|1\.?5\s*l|150\s*cl)\b`)},
}

// ColorPattern pairs a wine color with its detection pattern; checked against
// the section name first, then the item text.
type ColorPattern struct {
	Color   string
	Pattern *regexp.Regexp
}

var WineColorPatterns = []ColorPattern{
	{"red", regexp.MustCompile(`\b(red|rosso|rouge|tinto|rotwein)\b`)},
	{"white", regexp.MustCompile(`\b(white|bianco|blanc|blanco|weißwein|weisswein)\b`)},
	{"rosé", regexp.MustCompile(`\b(ros[ée]|rosato|rosado)\b`)},
	{"sparkling", regexp.MustCompile(`\b(sparkling|spumante|mousseux|espumoso|sekt|brut|prosecco|champagne|cava|crémant|franciacorta)\b`)},
	{"dessert", regexp.MustCompile(`\b(dessert|sweet\s+wine|passito|vin\s+santo|moscato\s+d'asti|sauternes|tokaji|ice\s+wine|eiswein|late\s+harvest)\b`)},
	{"fortified", regexp.MustCompile(`\b(port|porto|sherry|jerez|madeira|marsala|vermouth)\b`)},
}

// VintageRegex matches plausible vintage years only (1960-2029), so arbitrary
// four-digit numbers don't become vintages.
var VintageRegex = regexp.MustCompile(`\b(19[6-9]\d|20[0-2]\d)\b`)

// GrapeFlavorTags seeds profile tags from a wine's lead grape variety.
var GrapeFlavorTags = map[string][]string{
	"cabernet sauvignon": {"tannic", "berry", "vanilla_oak"},
	"merlot":             {"berry", "creamy", "stone_fruit"},
	"pinot noir":         {"berry", "earthy", "floral"},
	"syrah":              {"spice", "berry", "smoke_peat"},
	"shiraz":             {"spice", "berry", "smoke_peat"},
	"malbec":             {"berry", "spice", "chocolate"},
	"tempranillo":        {"berry", "vanilla_oak", "earthy"},
	"sangiovese":         {"berry", "earthy", "herbal"},
	"nebbiolo":           {"tannic", "floral", "earthy"},
	"grenache":           {"berry", "spice", "herbal"},
	"primitivo":          {"berry", "sweet", "spice"},
	"zinfandel":          {"berry", "spice", "sweet"},
	"chardonnay":         {"citrus", "creamy", "vanilla_oak"},
	"sauvignon blanc":    {"citrus", "herbal", "floral"},
	"riesling":           {"citrus", "floral", "sweet"},
	"pinot grigio":       {"citrus", "floral"},
	"gewürztraminer":     {"floral", "spice", "tropical"},
	"viognier":           {"floral", "stone_fruit", "creamy"},
	"chenin blanc":       {"citrus", "honey", "floral"},
	"albariño":           {"citrus", "saline", "floral"},
	"verdejo":            {"citrus", "herbal"},
	"vermentino":         {"citrus", "herbal", "saline"},
	"muscadet":           {"citrus", "saline"},
}

// Grapes that skew the structural defaults when text gives no signal.
var (
	OffDrySweetGrapes = map[string]bool{"riesling": true, "gewürztraminer": true, "chenin blanc": true}
	HighAcidGrapes    = map[string]bool{"sauvignon blanc": true, "riesling": true, "albariño": true, "muscadet": true}
	HighTanninGrapes  = map[string]bool{"cabernet sauvignon": true, "nebbiolo": true, "tempranillo": true}
)

// Wine-text structural patterns (multilingual dry/sweet markers).
var (
	WineSweetPattern  = regexp.MustCompile(`\b(sweet|dessert|luscious|doux|dolce|amabile)\b`)
	WineDryPattern    = regexp.MustCompile(`\b(dry|brut|secco|seco|trocken|bone.?dry)\b`)
	WineAcidPattern   = regexp.MustCompile(`\b(acid|crisp|tart|zesty|bright|fresh|racy)\b`)
	WineTanninPattern = regexp.MustCompile(`\b(tannic|tannin|grippy|structured|firm)\b`)
	WineFullPattern   = regexp.MustCompile(`\b(full|bold|rich|robust)\b`)
	WineOakedPattern  = regexp.MustCompile(`\b(full|rich|oaked)\b`)
	WineFinishPattern = regexp.MustCompile(`\b(long|lingering|persistent)\b`)
)
