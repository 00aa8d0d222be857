package lexicon

import (
	"regexp"
	"sort"
)

// WhiskeyTypePattern pairs a whiskey type key with its detection pattern.
// Order encodes precedence: an explicit "single malt" wins over anything
// inferred later from region.
type WhiskeyTypePattern struct {
	Type    string
	Pattern *regexp.Regexp
}

var WhiskeyTypePatterns = []WhiskeyTypePattern{
	{"single_malt", regexp.MustCompile(`\bsingle\s+malt\b`)},
	{"blended_malt", regexp.MustCompile(`\bblended\s+malt\b`)},
	{"blended_scotch", regexp.MustCompile(`\bblended\s+scotch\b`)},
	{"bourbon", regexp.MustCompile(`\bbourbon\b`)},
	{"rye", regexp.MustCompile(`\brye\s+whiske?y\b`)},
	{"tennessee", regexp.MustCompile(`\btennessee\b`)},
	{"irish_single_malt", regexp.MustCompile(`\birish\s+single\s+malt\b`)},
	{"irish_single_pot", regexp.MustCompile(`\bsingle\s+pot\s+still\b`)},
	{"irish_blended", regexp.MustCompile(`\birish\s+blend(?:ed)?\b`)},
	{"japanese", regexp.MustCompile(`\bjapanese\b`)},
	{"canadian", regexp.MustCompile(`\bcanadian\b`)},
	{"single_grain", regexp.MustCompile(`\bsingle\s+grain\b`)},
}

// WhiskeyRegionLabels maps region keys to display labels.
var WhiskeyRegionLabels = map[string]string{
	"islay":          "Islay",
	"speyside":       "Speyside",
	"highland":       "Highland",
	"lowland":        "Lowland",
	"campbeltown":    "Campbeltown",
	"islands":        "Islands",
	"ireland":        "Ireland",
	"kentucky":       "Kentucky",
	"tennessee":      "Tennessee",
	"american_other": "American (Other)",
	"japan":          "Japan",
	"canada":         "Canada",
	"world":          "World",
}

// RegionKeywordPattern pairs a region key with an explicit keyword pattern,
// used only when no distillery resolved the region first.
type RegionKeywordPattern struct {
	Region  string
	Pattern *regexp.Regexp
}

var WhiskeyRegionKeywords = []RegionKeywordPattern{
	{"islay", regexp.MustCompile(`\bislay\b`)},
	{"speyside", regexp.MustCompile(`\bspeyside\b`)},
	{"highland", regexp.MustCompile(`\bhighland\b`)},
	{"lowland", regexp.MustCompile(`\blowland\b`)},
	{"campbeltown", regexp.MustCompile(`\bcampbeltown\b`)},
	{"islands", regexp.MustCompile(`\bislands?\b`)},
	{"ireland", regexp.MustCompile(`\b(irish|ireland)\b`)},
	{"kentucky", regexp.MustCompile(`\bkentucky\b`)},
	{"tennessee", regexp.MustCompile(`\btennessee\b`)},
	{"japan", regexp.MustCompile(`\bjapan(?:ese)?\b`)},
	{"canada", regexp.MustCompile(`\bcanadian?\b`)},
}

// CaskPattern pairs a cask type with its detection pattern; first match wins.
type CaskPattern struct {
	Cask    string
	Pattern *regexp.Regexp
}

var CaskPatterns = []CaskPattern{
	{"sherry_cask", regexp.MustCompile(`\b(sherry|oloroso|pedro\s+xim[ée]nez|px)\s*(cask|barrel|butt|finish|matured|aged)?\b`)},
	{"bourbon_cask", regexp.MustCompile(`\b(bourbon|american\s+oak)\s*(cask|barrel|finish|matured|aged)?\b`)},
	{"port_cask", regexp.MustCompile(`\b(port|ruby|tawny)\s*(cask|pipe|finish|matured|aged)\b`)},
	{"wine_cask", regexp.MustCompile(`\b(wine|red\s+wine|white\s+wine|burgundy|bordeaux|sauternes|madeira|marsala)\s*(cask|barrel|barrique|finish|matured|aged)\b`)},
	{"rum_cask", regexp.MustCompile(`\brum\s*(cask|barrel|finish|matured|aged)\b`)},
	{"virgin_oak", regexp.MustCompile(`\bvirgin\s+oak\b`)},
	{"double_cask", regexp.MustCompile(`\bdouble\s*(cask|wood|matured)\b`)},
	{"triple_cask", regexp.MustCompile(`\btriple\s*(cask|wood|matured)\b`)},
	{"refill", regexp.MustCompile(`\brefill\b`)},
}

// FlavorCluster describes one flavor quadrant (Wishart-derived, simplified).
type FlavorCluster struct {
	Key     string
	Label   string
	Wishart []string
}

var FlavorClusters = []FlavorCluster{
	{"light_delicate", "Light & Delicate", []string{"G", "H"}},
	{"fruity_sweet", "Fruity & Sweet", []string{"A", "B"}},
	{"rich_sherried", "Rich & Sherried", []string{"C", "E"}},
	{"spicy_dry", "Spicy & Dry", []string{"F"}},
	{"smoky_coastal", "Smoky & Coastal", []string{"I"}},
	{"heavily_peated", "Heavily Peated", []string{"J"}},
}

// NeighboringClusters grants partial credit when a guest's preferred cluster
// does not match exactly.
var NeighboringClusters = map[string][]string{
	"light_delicate": {"fruity_sweet", "spicy_dry"},
	"fruity_sweet":   {"light_delicate", "rich_sherried"},
	"rich_sherried":  {"fruity_sweet", "spicy_dry"},
	"spicy_dry":      {"light_delicate", "rich_sherried", "smoky_coastal"},
	"smoky_coastal":  {"spicy_dry", "heavily_peated"},
	"heavily_peated": {"smoky_coastal"},
}

// WhiskeyRegionGroups maps a guest-facing region preference onto region keys.
var WhiskeyRegionGroups = map[string][]string{
	"scotch":      {"islay", "speyside", "highland", "lowland", "campbeltown", "islands"},
	"bourbon_rye": {"kentucky", "tennessee", "american_other"},
	"irish":       {"ireland"},
	"japanese":    {"japan"},
}

// IndependentBottlers are independent bottler names; matching any marks the
// bottling as IB rather than OB.
var IndependentBottlers = []string{
	"gordon & macphail", "signatory", "cadenhead", "berry bros",
	"douglas laing", "hunter laing", "adelphi", "blackadder",
	"murray mcdavid", "compass box", "wemyss", "scotch malt whisky society",
	"smws", "that boutique-y", "chieftain's", "duncan taylor",
}

var (
	AgeRegex     = regexp.MustCompile(`\b(\d{1,2})\s*(?:yo|y\.o\.|years?\s*old|yr)\b`)
	BareAgeRegex = regexp.MustCompile(`\b(\d{1,2})\b`)
	ABVRegex     = regexp.MustCompile(`\b(\d{2,3}(?:[.,]\d{1,2})?)\s*%?\s*(?:abv|vol|alc)\b`)
	LimitedRegex = regexp.MustCompile(`\b(limited\s+edition|special\s+release|cask\s+strength|single\s+cask|small\s+batch|hand\s+picked|distillery\s+exclusive|allocated)\b`)
	BottledBy    = regexp.MustCompile(`\bbottled\s+by\b`)
)

// DistilleryRegions maps lowercased distillery names to their region key.
var DistilleryRegions = map[string]string{
	// Islay
	"ardbeg":         "islay",
	"bowmore":        "islay",
	"bruichladdich":  "islay",
	"bunnahabhain":   "islay",
	"caol ila":       "islay",
	"kilchoman":      "islay",
	"lagavulin":      "islay",
	"laphroaig":      "islay",
	"port charlotte": "islay",
	"octomore":       "islay",
	// Speyside
	"aberlour":      "speyside",
	"balvenie":      "speyside",
	"benriach":      "speyside",
	"cardhu":        "speyside",
	"cragganmore":   "speyside",
	"craigellachie": "speyside",
	"dufftown":      "speyside",
	"glenfarclas":   "speyside",
	"glenfiddich":   "speyside",
	"glenlivet":     "speyside",
	"glen grant":    "speyside",
	"glen moray":    "speyside",
	"glenrothes":    "speyside",
	"glenallachie":  "speyside",
	"knockando":     "speyside",
	"macallan":      "speyside",
	"mortlach":      "speyside",
	"strathisla":    "speyside",
	"tamdhu":        "speyside",
	"tomintoul":     "speyside",
	// Highland
	"aberfeldy":       "highland",
	"ardmore":         "highland",
	"balblair":        "highland",
	"ben nevis":       "highland",
	"clynelish":       "highland",
	"dalmore":         "highland",
	"dalwhinnie":      "highland",
	"deanston":        "highland",
	"edradour":        "highland",
	"fettercairn":     "highland",
	"glen garioch":    "highland",
	"glengoyne":       "highland",
	"glenmorangie":    "highland",
	"oban":            "highland",
	"old pulteney":    "highland",
	"royal lochnagar": "highland",
	"tomatin":         "highland",
	"tullibardine":    "highland",
	// Lowland
	"auchentoshan": "lowland",
	"bladnoch":     "lowland",
	"glenkinchie":  "lowland",
	"kingsbarns":   "lowland",
	// Campbeltown
	"glen scotia": "campbeltown",
	"kilkerran":   "campbeltown",
	"springbank":  "campbeltown",
	// Islands
	"arran":         "islands",
	"highland park": "islands",
	"jura":          "islands",
	"ledaig":        "islands",
	"scapa":         "islands",
	"talisker":      "islands",
	"tobermory":     "islands",
	// Irish
	"bushmills":      "ireland",
	"connemara":      "ireland",
	"cooley":         "ireland",
	"dingle":         "ireland",
	"green spot":     "ireland",
	"jameson":        "ireland",
	"kilbeggan":      "ireland",
	"midleton":       "ireland",
	"powers":         "ireland",
	"redbreast":      "ireland",
	"teeling":        "ireland",
	"tullamore":      "ireland",
	"tyrconnell":     "ireland",
	"yellow spot":    "ireland",
	"writers tears":  "ireland",
	"writer's tears": "ireland",
	// Bourbon / American
	"baker's":           "kentucky",
	"basil hayden":      "kentucky",
	"blantons":          "kentucky",
	"blanton's":         "kentucky",
	"booker's":          "kentucky",
	"buffalo trace":     "kentucky",
	"bulleit":           "kentucky",
	"eagle rare":        "kentucky",
	"elijah craig":      "kentucky",
	"evan williams":     "kentucky",
	"four roses":        "kentucky",
	"heaven hill":       "kentucky",
	"jim beam":          "kentucky",
	"knob creek":        "kentucky",
	"maker's mark":      "kentucky",
	"makers mark":       "kentucky",
	"michter's":         "kentucky",
	"michters":          "kentucky",
	"old forester":      "kentucky",
	"old fitzgerald":    "kentucky",
	"pappy van winkle":  "kentucky",
	"rabbit hole":       "kentucky",
	"russell's reserve": "kentucky",
	"wild turkey":       "kentucky",
	"weller":            "kentucky",
	"woodford reserve":  "kentucky",
	"jack daniel's":     "tennessee",
	"jack daniels":      "tennessee",
	"george dickel":     "tennessee",
	"uncle nearest":     "tennessee",
	// Rye
	"rittenhouse": "kentucky",
	"sazerac":     "kentucky",
	"whistlepig":  "american_other",
	"high west":   "american_other",
	"templeton":   "american_other",
	// Japanese
	"hakushu":      "japan",
	"hibiki":       "japan",
	"nikka":        "japan",
	"yamazaki":     "japan",
	"yoichi":       "japan",
	"miyagikyo":    "japan",
	"chichibu":     "japan",
	"mars shinshu": "japan",
	"togouchi":     "japan",
	"akashi":       "japan",
	// Canadian
	"crown royal":   "canada",
	"lot 40":        "canada",
	"canadian club": "canada",
	"pike creek":    "canada",
	"forty creek":   "canada",
}

// DistilleryNamesByLength lists distillery names longest-first so substring
// matching is greedy ("glen grant" before "glen").
var DistilleryNamesByLength = func() []string {
	names := make([]string, 0, len(DistilleryRegions))
	for name := range DistilleryRegions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()
