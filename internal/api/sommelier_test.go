package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/models"
	"github.com/tablevine/sommelier-backend/internal/service"
	"github.com/tablevine/sommelier-backend/internal/testhelpers"
)

type sommelierTestEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupSommelierAPI(t *testing.T, classifier service.Classifier) *sommelierTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	profiler := service.NewFlavorProfiler(db, classifier)
	authService := service.NewAuthService(db, "test-secret")

	handler := NewSommelierHandler(
		profiler,
		service.NewPairingService(db, profiler),
		service.NewSimilarityService(db, profiler),
		service.NewRecommenderService(db, profiler),
		service.NewWhiskeyRecommenderService(db, profiler),
		service.NewWhiskeyCSVImporter(db),
		service.NewGuestSessionService(nil),
		authService,
	)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return &sommelierTestEnv{router: router, db: db, auth: authService}
}

func (e *sommelierTestEnv) seedMenu(t *testing.T) (*models.Menu, *models.MenuSection) {
	t.Helper()
	menu := &models.Menu{Name: "Dinner", Status: models.StatusActive}
	require.NoError(t, e.db.Create(menu).Error)
	section := &models.MenuSection{MenuID: menu.ID, Name: "All Day"}
	require.NoError(t, e.db.Create(section).Error)
	return menu, section
}

func (e *sommelierTestEnv) seedItem(t *testing.T, sectionID uint, itemType, name string, price float64, parsed models.JSONBMap) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		MenuSectionID: sectionID,
		Name:          name,
		ItemType:      itemType,
		Price:         price,
		Status:        models.StatusActive,
		ParsedFields:  parsed,
	}
	require.NoError(t, e.db.Create(item).Error)
	return item
}

func (e *sommelierTestEnv) seedProfile(t *testing.T, item *models.MenuItem, tags []string, metrics map[string]float64) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.FlavorProfile{
		OwnerType:        models.OwnerMenuItem,
		OwnerID:          service.MenuItemOwnerID(item.ID),
		Tags:             models.JSONBStringArray(tags),
		StructureMetrics: models.JSONBFloatMap(metrics),
		Provenance:       "manual",
	}).Error)
}

func (e *sommelierTestEnv) staffToken(t *testing.T) string {
	t.Helper()
	token, err := e.auth.Register("Sam Pour", "sam@tablevine.test", "password123")
	require.NoError(t, err)
	return token
}

func (e *sommelierTestEnv) doJSON(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRecommendFiltersBySmokePreference(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, section := env.seedMenu(t)

	peaty := env.seedItem(t, section.ID, models.ItemTypeDrink, "Peat Smash", 14, nil)
	env.seedProfile(t, peaty, []string{"smoke_peat", "citrus"}, map[string]float64{"body": 0.7})
	floral := env.seedItem(t, section.ID, models.ItemTypeDrink, "Garden Spritz", 12, nil)
	env.seedProfile(t, floral, []string{"floral"}, map[string]float64{"body": 0.3})

	w := env.doJSON(t, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/recommend", menu.ID),
		gin.H{"preferences": gin.H{"smoky": "yes"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	recs := body["recommendations"].([]interface{})
	require.Len(t, recs, 2)
	first := recs[0].(map[string]interface{})
	item := first["item"].(map[string]interface{})
	assert.Equal(t, "Peat Smash", item["name"])
	assert.InDelta(t, 0.4, first["score"].(float64), 1e-9)
	assert.Contains(t, first["top_tags"], "smoke_peat")

	second := recs[1].(map[string]interface{})
	assert.Equal(t, "Garden Spritz", second["item"].(map[string]interface{})["name"])
	assert.InDelta(t, 0.1, second["score"].(float64), 1e-9)
}

func TestRecommendRejectsBadMenuID(t *testing.T) {
	env := setupSommelierAPI(t, nil)

	w := env.doJSON(t, http.MethodPost, "/api/v1/menus/not-a-number/sommelier/recommend",
		gin.H{"preferences": gin.H{}}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid menu id", decodeBody(t, w)["error"])
}

func TestRecommendRejectsMalformedBody(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, _ := env.seedMenu(t)

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/recommend", menu.ID),
		bytes.NewReader([]byte(`{"preferences":`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeBody(t, w)["error"])
}

func TestRecommendWineEchoesParsedFields(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, section := env.seedMenu(t)

	wine := env.seedItem(t, section.ID, models.ItemTypeWine, "Barolo Riserva", 22,
		models.JSONBMap{"wine_color": "red", "grape_varieties": []string{"nebbiolo"}})
	env.seedProfile(t, wine, []string{"tannic", "earthy"}, map[string]float64{"body": 0.8})

	w := env.doJSON(t, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/recommend_wine", menu.ID),
		gin.H{"preferences": gin.H{"wine_color": "red"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	recs := decodeBody(t, w)["recommendations"].([]interface{})
	require.Len(t, recs, 1)
	first := recs[0].(map[string]interface{})
	assert.InDelta(t, 0.4, first["score"].(float64), 1e-9)
	parsed := first["wine"].(map[string]interface{})
	assert.Equal(t, "red", parsed["wine_color"])
}

func TestRecommendWhiskeyReturnsClusterAndWhy(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, section := env.seedMenu(t)

	env.seedItem(t, section.ID, models.ItemTypeWhiskey, "Lagavulin 16", 18, models.JSONBMap{
		"distillery":     "lagavulin",
		"whiskey_region": "islay",
		"whiskey_type":   "single_malt",
		"age_years":      16,
	})

	w := env.doJSON(t, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/recommend_whiskey", menu.ID),
		gin.H{"preferences": gin.H{"region": "scotch"}},
		map[string]string{"X-Session-ID": "tab-7"})
	require.Equal(t, http.StatusOK, w.Code)

	recs := decodeBody(t, w)["recommendations"].([]interface{})
	require.Len(t, recs, 1)
	first := recs[0].(map[string]interface{})
	assert.Equal(t, "heavily_peated", first["cluster"])
	assert.InDelta(t, 0.30, first["score"].(float64), 1e-9)
	assert.Contains(t, first["why"], "Islay")
}

func TestPairingsForDrink(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, section := env.seedMenu(t)

	drink := env.seedItem(t, section.ID, models.ItemTypeDrink, "Smoked Old Fashioned", 15, nil)
	food := env.seedItem(t, section.ID, models.ItemTypeFood, "Charred Ribeye", 38, nil)
	require.NoError(t, env.db.Create(&models.PairingRecommendation{
		DrinkMenuItemID: drink.ID,
		FoodMenuItemID:  food.ID,
		ComplementScore: 0.71,
		Score:           0.71,
		Rationale:       "shared notes of smoke_peat",
		RiskFlags:       models.JSONBStringArray{},
		PairingType:     "complement",
	}).Error)

	w := env.doJSON(t, http.MethodGet,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/pairings/%d", menu.ID, drink.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	pairings := decodeBody(t, w)["pairings"].([]interface{})
	require.Len(t, pairings, 1)
	first := pairings[0].(map[string]interface{})
	assert.Equal(t, float64(71), first["score"])
	assert.Equal(t, "complement", first["pairing_type"])
	foodItem := first["food_item"].(map[string]interface{})
	assert.Equal(t, "Charred Ribeye", foodItem["name"])
}

func TestPairingsRejectsBadItemID(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, _ := env.seedMenu(t)

	w := env.doJSON(t, http.MethodGet,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/pairings/abc", menu.ID), nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid item id", decodeBody(t, w)["error"])
}

func TestExploreWhiskeysFiltersByCluster(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, section := env.seedMenu(t)

	env.seedItem(t, section.ID, models.ItemTypeWhiskey, "Ardbeg 10", 14,
		models.JSONBMap{"whiskey_region": "islay"})
	env.seedItem(t, section.ID, models.ItemTypeWhiskey, "Glenfiddich 12", 12,
		models.JSONBMap{"whiskey_region": "speyside"})

	w := env.doJSON(t, http.MethodGet,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/explore_whiskeys?cluster=heavily_peated", menu.ID),
		nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	whiskeys := body["whiskeys"].([]interface{})
	require.Len(t, whiskeys, 1)
	first := whiskeys[0].(map[string]interface{})
	assert.Equal(t, "Ardbeg 10", first["item"].(map[string]interface{})["name"])

	// Facet counts cover the whole list, not just the filtered slice.
	counts := body["cluster_counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["heavily_peated"])
	assert.Equal(t, float64(1), counts["fruity_sweet"])
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, _ := env.seedMenu(t)
	path := fmt.Sprintf("/api/v1/menus/%d/sommelier/pairings/generate", menu.ID)

	w := env.doJSON(t, http.MethodPost, path, nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing authorization header", decodeBody(t, w)["error"])

	w = env.doJSON(t, http.MethodPost, path, nil,
		map[string]string{"Authorization": "Bearer not-a-real-token"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodPost, path, nil,
		map[string]string{"Authorization": "Token whatever"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid authorization header format", decodeBody(t, w)["error"])
}

func TestGeneratePairingsAuthorized(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, section := env.seedMenu(t)
	token := env.staffToken(t)

	drink := env.seedItem(t, section.ID, models.ItemTypeDrink, "Smoked Old Fashioned", 15, nil)
	env.seedProfile(t, drink, []string{"sweet", "smoke_peat", "bitter"},
		map[string]float64{"body": 0.9, "sweetness": 0.7})
	food := env.seedItem(t, section.ID, models.ItemTypeFood, "Charred Ribeye", 38, nil)
	env.seedProfile(t, food, []string{"sweet", "smoke_peat", "bitter"},
		map[string]float64{"body": 0.9, "sweetness": 0.7})

	w := env.doJSON(t, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/pairings/generate", menu.ID), nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["generated"])

	var count int64
	require.NoError(t, env.db.Model(&models.PairingRecommendation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateSimilarAuthorized(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, _ := env.seedMenu(t)
	token := env.staffToken(t)

	// No products linked to the menu, so generation succeeds with zero edges.
	w := env.doJSON(t, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/similar/generate", menu.ID), nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["generated"])
}

func TestImportWhiskeyCSV(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, section := env.seedMenu(t)
	token := env.staffToken(t)
	env.seedItem(t, section.ID, models.ItemTypeWhiskey, "Lagavulin 16 Year Old", 18, nil)

	csv := "menu_item_name,cask_type,staff_pick\nLagavulin 16,sherry_cask,yes\n"
	w := env.doMultipartCSV(t, menu.ID, token, "whiskeys.csv", csv)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["imported"])
	assert.Empty(t, body["unmatched"])
	assert.Empty(t, body["errors"])
}

func TestImportWhiskeyCSVRejectsMissingColumn(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, _ := env.seedMenu(t)
	token := env.staffToken(t)

	w := env.doMultipartCSV(t, menu.ID, token, "whiskeys.csv", "name,cask_type\nLagavulin 16,sherry\n")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "menu_item_name")
}

func TestImportWhiskeyCSVRequiresFile(t *testing.T) {
	env := setupSommelierAPI(t, nil)
	menu, _ := env.seedMenu(t)
	token := env.staffToken(t)

	w := env.doJSON(t, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/import_whiskey_csv", menu.ID), nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing CSV file", decodeBody(t, w)["error"])
}

func (e *sommelierTestEnv) doMultipartCSV(t *testing.T, menuID uint, token, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/import_whiskey_csv", menuID), &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type cannedClassifier struct {
	result *service.Classification
	calls  int
}

func (c *cannedClassifier) Classify(ctx context.Context, description string) (*service.Classification, error) {
	c.calls++
	return c.result, nil
}

func TestProfileItemLLMExplicitRequest(t *testing.T) {
	classifier := &cannedClassifier{result: &service.Classification{
		Tags:             []string{"sweet", "funky", "smoke_peat"},
		StructureMetrics: map[string]float64{"body": 1.5},
	}}
	env := setupSommelierAPI(t, classifier)
	menu, section := env.seedMenu(t)
	token := env.staffToken(t)
	item := env.seedItem(t, section.ID, models.ItemTypeDrink, "House Infusion", 13, nil)

	w := env.doJSON(t, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/items/%d/profile_llm", menu.ID, item.ID),
		gin.H{"description": "barrel smoke over burnt sugar"},
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, classifier.calls)

	profile := decodeBody(t, w)["profile"].(map[string]interface{})
	assert.Equal(t, []interface{}{"sweet", "smoke_peat"}, profile["tags"])
	metrics := profile["structure_metrics"].(map[string]interface{})
	assert.Equal(t, float64(1.0), metrics["body"])
	assert.Equal(t, service.ProvenanceLLM, profile["provenance"])
}

func TestProfileItemLLMRequiresDescription(t *testing.T) {
	env := setupSommelierAPI(t, &cannedClassifier{})
	menu, section := env.seedMenu(t)
	token := env.staffToken(t)
	item := env.seedItem(t, section.ID, models.ItemTypeDrink, "House Infusion", 13, nil)

	w := env.doJSON(t, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%d/sommelier/items/%d/profile_llm", menu.ID, item.ID),
		gin.H{}, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeBody(t, w)["error"])
}
