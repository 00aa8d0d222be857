package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablevine/sommelier-backend/internal/models"
	"github.com/tablevine/sommelier-backend/internal/testhelpers"
)

func drinkProfile(tags []string, metrics map[string]float64) *models.FlavorProfile {
	return &models.FlavorProfile{
		Tags:             models.JSONBStringArray(tags),
		StructureMetrics: models.JSONBFloatMap(metrics),
	}
}

func TestScorePairSmokeEchoesChar(t *testing.T) {
	drink := &models.MenuItem{ItemType: models.ItemTypeWhiskey, Name: "Lagavulin 16"}
	dp := drinkProfile([]string{"smoke_peat", "sweet"}, map[string]float64{
		"body": 0.8, "sweetness_level": 0.7, "alcohol_intensity": 0.72, "peat_level": 0.8,
	})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Grilled Ribeye Steak"}
	fp := drinkProfile([]string{"smoke_peat", "umami"}, map[string]float64{
		"body": 0.8, "sweetness_level": 0.2, "acidity": 0.3,
	})

	c := scorePair(drink, dp, food, fp)

	// jaccard 1/3, body diff 0, shared smoke bonus
	assert.InDelta(t, 0.4333, c.complement, 1e-4)
	assert.InDelta(t, 0.0, c.contrast, 1e-9)
	assert.InDelta(t, 0.26, c.total, 1e-4)
	assert.Empty(t, c.riskFlags)
	assert.Contains(t, c.rationale, "shared notes of smoke_peat")
	assert.Contains(t, c.rationale, "smoke echoes the char")
}

func TestScorePairPeatVsDelicate(t *testing.T) {
	drink := &models.MenuItem{ItemType: models.ItemTypeWhiskey, Name: "Octomore"}
	dp := drinkProfile([]string{"smoke_peat"}, map[string]float64{
		"body": 0.8, "peat_level": 0.9, "alcohol_intensity": 0.95,
	})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Spiced Crudo"}
	fp := drinkProfile([]string{"spice", "citrus"}, map[string]float64{
		"body": 0.2, "acidity": 0.7,
	})

	c := scorePair(drink, dp, food, fp)

	assert.ElementsMatch(t, []string{"high_alcohol_vs_spice", "peat_vs_delicate"}, c.riskFlags)
	// no overlap, body diff 0.6
	assert.InDelta(t, 0.08, c.complement, 1e-4)
	// two flags at -0.1 each drag 0.6*0.08 below the floor
	assert.InDelta(t, 0.0, c.total, 1e-9)
}

func TestScorePairPeatFlagNeedsVeryLightDish(t *testing.T) {
	drink := &models.MenuItem{ItemType: models.ItemTypeWhiskey, Name: "Ardbeg 10"}
	dp := drinkProfile([]string{"smoke_peat"}, map[string]float64{
		"body": 0.8, "peat_level": 0.8,
	})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Pea Soup"}
	fp := drinkProfile([]string{"herbal"}, map[string]float64{"body": 0.35})

	c := scorePair(drink, dp, food, fp)
	assert.Empty(t, c.riskFlags)

	fp.StructureMetrics["body"] = 0.25
	c = scorePair(drink, dp, food, fp)
	assert.Equal(t, []string{"peat_vs_delicate"}, c.riskFlags)
}

func TestScorePairOakyWineFlagNeedsVeryLightDish(t *testing.T) {
	drink := &models.MenuItem{
		ItemType:     models.ItemTypeWine,
		Name:         "Oaked Chardonnay",
		ParsedFields: models.JSONBMap{"wine_color": "white"},
	}
	dp := drinkProfile([]string{"vanilla_oak"}, map[string]float64{"body": 0.6})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Garden Greens"}
	fp := drinkProfile([]string{"herbal"}, map[string]float64{"body": 0.35})

	c := scorePair(drink, dp, food, fp)
	assert.Empty(t, c.riskFlags)

	fp.StructureMetrics["body"] = 0.25
	c = scorePair(drink, dp, food, fp)
	assert.Equal(t, []string{"oaky_wine_vs_delicate_dish"}, c.riskFlags)
}

func TestScorePairSweetWineVsSavouryMain(t *testing.T) {
	drink := &models.MenuItem{
		ItemType:     models.ItemTypeWine,
		Name:         "Late Harvest Riesling",
		ParsedFields: models.JSONBMap{"wine_color": "white"},
	}
	dp := drinkProfile([]string{"sweet"}, map[string]float64{
		"body": 0.6, "sweetness_level": 0.7,
	})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Roast Chicken with Pan Jus"}
	fp := drinkProfile([]string{"herbal"}, map[string]float64{"body": 0.6})

	c := scorePair(drink, dp, food, fp)
	assert.Contains(t, c.riskFlags, "sweet_wine_vs_savoury_main")

	// a sweet dish clears the clash
	fp.Tags = models.JSONBStringArray([]string{"sweet"})
	c = scorePair(drink, dp, food, fp)
	assert.NotContains(t, c.riskFlags, "sweet_wine_vs_savoury_main")
}

func TestScorePairRoseWithLightFare(t *testing.T) {
	drink := &models.MenuItem{
		ItemType:     models.ItemTypeWine,
		Name:         "Provence Rosé",
		ParsedFields: models.JSONBMap{"wine_color": "rosé"},
	}
	dp := drinkProfile([]string{"floral"}, map[string]float64{"body": 0.3})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Mediterranean Mezze Platter"}
	fp := drinkProfile([]string{"herbal"}, map[string]float64{"body": 0.3})

	c := scorePair(drink, dp, food, fp)

	// 0.2 body term + 0.10 light-fare bonus + 0.08 close-body bonus
	assert.InDelta(t, 0.38, c.complement, 1e-4)
	assert.Contains(t, c.rationale, "rosé suits light fare")
}

func TestScorePairFortifiedWithCheeseBoard(t *testing.T) {
	drink := &models.MenuItem{
		ItemType:     models.ItemTypeWine,
		Name:         "Tawny Port 20yr",
		ParsedFields: models.JSONBMap{"wine_color": "fortified"},
	}
	dp := drinkProfile([]string{"dried_fruit"}, map[string]float64{
		"body": 0.7, "sweetness_level": 0.4,
	})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Stilton and Dark Chocolate Board"}
	fp := drinkProfile([]string{"bitter"}, map[string]float64{"body": 0.5})

	c := scorePair(drink, dp, food, fp)

	// 0.16 body term + 0.12 cheese-board bonus + 0.08 close-body bonus
	assert.InDelta(t, 0.36, c.complement, 1e-4)
	assert.Contains(t, c.rationale, "fortified wine loves cheese and chocolate")
	assert.Empty(t, c.riskFlags)
}

func TestScorePairRedWineWithRedMeat(t *testing.T) {
	drink := &models.MenuItem{
		ItemType:     models.ItemTypeWine,
		Name:         "Barolo DOCG 2018",
		ParsedFields: models.JSONBMap{"wine_color": "red"},
	}
	dp := drinkProfile([]string{"tannic", "berry"}, map[string]float64{
		"body": 0.6, "tannin": 0.7, "sweetness_level": 0.25, "acidity": 0.4,
	})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Braised Beef Short Rib"}
	fp := drinkProfile([]string{"umami", "earthy"}, map[string]float64{
		"body": 0.8, "sweetness_level": 0.2,
	})

	c := scorePair(drink, dp, food, fp)

	// no overlap: 0.2*(1-0.2) + 0.15 red-meat bonus + 0.08 close-body bonus
	assert.InDelta(t, 0.39, c.complement, 1e-4)
	assert.Contains(t, c.rationale, "classic red wine with red meat")
	assert.Empty(t, c.riskFlags)
}

func TestScorePairTannicRedVsDelicateFish(t *testing.T) {
	drink := &models.MenuItem{
		ItemType:     models.ItemTypeWine,
		Name:         "Young Tannat",
		ParsedFields: models.JSONBMap{"wine_color": "red"},
	}
	dp := drinkProfile([]string{"tannic"}, map[string]float64{
		"body": 0.7, "tannin": 0.8,
	})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Steamed Sea Bass"}
	fp := drinkProfile([]string{"saline"}, map[string]float64{"body": 0.3})

	c := scorePair(drink, dp, food, fp)

	assert.Contains(t, c.riskFlags, "heavy_tannin_vs_fish")
	assert.Contains(t, c.riskFlags, "tannic_red_vs_delicate_fish")
}

func TestScorePairWhiskeyHasNoWineFlags(t *testing.T) {
	drink := &models.MenuItem{ItemType: models.ItemTypeWhiskey, Name: "Cask Strength Dram"}
	dp := drinkProfile([]string{"vanilla_oak"}, map[string]float64{
		"body": 0.7, "tannin": 0.0,
	})
	food := &models.MenuItem{ItemType: models.ItemTypeFood, Name: "Delicate Sole"}
	fp := drinkProfile([]string{"saline"}, map[string]float64{"body": 0.3})

	c := scorePair(drink, dp, food, fp)

	assert.NotContains(t, c.riskFlags, "oaky_wine_vs_delicate_dish")
	assert.NotContains(t, c.riskFlags, "tannic_red_vs_delicate_fish")
}

func TestGenerateForMenuSelectsTopThreeAndSurprise(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	profiler := NewFlavorProfiler(db, nil)
	pairing := NewPairingService(db, profiler)
	ctx := context.Background()

	menu := createMenu(t, db, "Dinner")
	drinksSection := createSection(t, db, menu.ID, "Drinks")
	foodSection := createSection(t, db, menu.ID, "Mains")

	drink := createItem(t, db, drinksSection.ID, models.ItemTypeDrink, "Smoked Negroni", "", 14)
	createProfile(t, db, models.OwnerMenuItem, MenuItemOwnerID(drink.ID),
		[]string{"sweet", "smoke_peat", "bitter"},
		map[string]float64{"body": 0.9, "sweetness_level": 0.7, "alcohol_intensity": 0.5, "peat_level": 0})

	// three strong complements
	var complementIDs []uint
	for _, name := range []string{"Char Siu Pork", "Burnt Honey Duck", "Smoked Chocolate Tart"} {
		food := createItem(t, db, foodSection.ID, models.ItemTypeFood, name, "", 20)
		createProfile(t, db, models.OwnerMenuItem, MenuItemOwnerID(food.ID),
			[]string{"sweet", "smoke_peat", "bitter"},
			map[string]float64{"body": 0.9, "sweetness_level": 0.7})
		complementIDs = append(complementIDs, food.ID)
	}

	// a contrast pick: salted dessert with nothing in common but sugar
	surpriseFood := createItem(t, db, foodSection.ID, models.ItemTypeFood, "Salted Caramel Parfait", "", 11)
	createProfile(t, db, models.OwnerMenuItem, MenuItemOwnerID(surpriseFood.ID),
		[]string{"saline", "sweet"},
		map[string]float64{"body": 0.1, "sweetness_level": 0.8})

	// and one that scores below the floor
	dud := createItem(t, db, foodSection.ID, models.ItemTypeFood, "Herb Salad", "", 8)
	createProfile(t, db, models.OwnerMenuItem, MenuItemOwnerID(dud.ID),
		[]string{"herbal"}, map[string]float64{"body": 0.9})

	saved, err := pairing.GenerateForMenu(ctx, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, saved)

	pairings, err := pairing.PairingsForDrink(ctx, drink.ID)
	require.NoError(t, err)
	require.Len(t, pairings, 4)

	// best first, surprise last with its own type
	for i := 1; i < len(pairings); i++ {
		assert.GreaterOrEqual(t, pairings[i-1].Score, pairings[i].Score)
	}
	byFood := make(map[uint]models.PairingRecommendation, len(pairings))
	for _, p := range pairings {
		byFood[p.FoodMenuItemID] = p
		require.NotNil(t, p.FoodItem)
	}
	for _, id := range complementIDs {
		assert.Equal(t, models.PairingComplement, byFood[id].PairingType)
	}
	assert.Equal(t, models.PairingSurprise, byFood[surpriseFood.ID].PairingType)
	_, dudPaired := byFood[dud.ID]
	assert.False(t, dudPaired)

	// re-running overwrites rather than duplicating
	saved, err = pairing.GenerateForMenu(ctx, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, saved)

	var count int64
	require.NoError(t, db.Model(&models.PairingRecommendation{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestGenerateForMenuSkipsEmptyProfiles(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	profiler := NewFlavorProfiler(db, nil)
	pairing := NewPairingService(db, profiler)
	ctx := context.Background()

	menu := createMenu(t, db, "Dinner")
	section := createSection(t, db, menu.ID, "All")

	drink := createItem(t, db, section.ID, models.ItemTypeDrink, "House Spritz", "bitter orange", 9)
	_ = drink
	// a food whose text triggers no tag patterns
	createItem(t, db, section.ID, models.ItemTypeFood, "Plain Bread", "", 3)

	saved, err := pairing.GenerateForMenu(ctx, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, saved)
}

func TestGenerateForMenuIgnoresArchivedAndInactive(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	profiler := NewFlavorProfiler(db, nil)
	pairing := NewPairingService(db, profiler)
	ctx := context.Background()

	menu := createMenu(t, db, "Dinner")
	live := createSection(t, db, menu.ID, "Current")
	archived := &models.MenuSection{MenuID: menu.ID, Name: "Old Menu", Archived: true}
	require.NoError(t, db.Create(archived).Error)

	drink := createItem(t, db, live.ID, models.ItemTypeDrink, "Smoky Old Fashioned", "", 13)
	createProfile(t, db, models.OwnerMenuItem, MenuItemOwnerID(drink.ID),
		[]string{"smoke_peat", "sweet"}, map[string]float64{"body": 0.8, "sweetness_level": 0.7})

	// identical foods, one archived, one inactive, one live
	archivedFood := createItem(t, db, archived.ID, models.ItemTypeFood, "Grilled Ribs", "", 22)
	inactiveFood := createItem(t, db, live.ID, models.ItemTypeFood, "Grilled Ribs (off)", "", 22)
	require.NoError(t, db.Model(inactiveFood).Update("status", models.StatusInactive).Error)
	liveFood := createItem(t, db, live.ID, models.ItemTypeFood, "Grilled Ribs", "", 22)
	for _, f := range []*models.MenuItem{archivedFood, inactiveFood, liveFood} {
		createProfile(t, db, models.OwnerMenuItem, MenuItemOwnerID(f.ID),
			[]string{"smoke_peat", "umami"}, map[string]float64{"body": 0.8})
	}

	_, err := pairing.GenerateForMenu(ctx, menu.ID)
	require.NoError(t, err)

	pairings, err := pairing.PairingsForDrink(ctx, drink.ID)
	require.NoError(t, err)
	require.Len(t, pairings, 1)
	assert.Equal(t, liveFood.ID, pairings[0].FoodMenuItemID)
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 0.0, jaccard(nil, nil), 1e-9)
	assert.InDelta(t, 1.0, jaccard([]string{"a", "b"}, []string{"b", "a"}), 1e-9)
	assert.InDelta(t, 1.0/3.0, jaccard([]string{"a", "b"}, []string{"b", "c"}), 1e-9)
	// duplicates don't inflate the union
	assert.InDelta(t, 0.5, jaccard([]string{"a", "a"}, []string{"a", "b", "b"}), 1e-9)
}
