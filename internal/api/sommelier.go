package api

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tablevine/sommelier-backend/internal/middleware"
	"github.com/tablevine/sommelier-backend/internal/models"
	"github.com/tablevine/sommelier-backend/internal/service"
)

// SommelierHandler serves the guest recommendation flows and the staff
// generation/import triggers.
type SommelierHandler struct {
	profiler    service.IFlavorProfiler
	pairings    service.IPairingService
	similarity  service.ISimilarityService
	recommender service.IRecommenderService
	whiskey     service.IWhiskeyRecommenderService
	importer    service.IWhiskeyCSVImporter
	sessions    *service.GuestSessionService
	authService service.IAuthService
}

func NewSommelierHandler(
	profiler service.IFlavorProfiler,
	pairings service.IPairingService,
	similarity service.ISimilarityService,
	recommender service.IRecommenderService,
	whiskey service.IWhiskeyRecommenderService,
	importer service.IWhiskeyCSVImporter,
	sessions *service.GuestSessionService,
	authService service.IAuthService,
) *SommelierHandler {
	return &SommelierHandler{
		profiler:    profiler,
		pairings:    pairings,
		similarity:  similarity,
		recommender: recommender,
		whiskey:     whiskey,
		importer:    importer,
		sessions:    sessions,
		authService: authService,
	}
}

func (h *SommelierHandler) RegisterRoutes(router *gin.RouterGroup) {
	menu := router.Group("/menus/:id/sommelier")
	{
		menu.POST("/recommend", h.Recommend)
		menu.POST("/recommend_wine", h.RecommendWine)
		menu.POST("/recommend_whiskey", h.RecommendWhiskey)
		menu.GET("/pairings/:item_id", h.Pairings)
		menu.GET("/explore_whiskeys", h.ExploreWhiskeys)

		admin := menu.Group("")
		admin.Use(middleware.AuthMiddleware(h.authService))
		{
			admin.POST("/pairings/generate", h.GeneratePairings)
			admin.POST("/similar/generate", h.GenerateSimilar)
			admin.POST("/import_whiskey_csv", h.ImportWhiskeyCSV)
			admin.POST("/items/:item_id/profile_llm", h.ProfileItemLLM)
		}
	}
}

type recommendRequest struct {
	Preferences service.GuestPreferences `json:"preferences"`
	Limit       int                      `json:"limit"`
}

func (h *SommelierHandler) Recommend(c *gin.Context) {
	menuID, ok := menuIDParam(c)
	if !ok {
		return
	}
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	results, err := h.recommender.RecommendForGuest(c.Request.Context(), menuID, req.Preferences, req.Limit)
	if err != nil {
		log.Printf("[SommelierHandler] recommend failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recommendation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": formatDrinkRecommendations(results)})
}

type recommendWineRequest struct {
	Preferences service.WinePreferences `json:"preferences"`
	Limit       int                     `json:"limit"`
}

func (h *SommelierHandler) RecommendWine(c *gin.Context) {
	menuID, ok := menuIDParam(c)
	if !ok {
		return
	}
	var req recommendWineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	results, err := h.recommender.RecommendWinesForGuest(c.Request.Context(), menuID, req.Preferences, req.Limit)
	if err != nil {
		log.Printf("[SommelierHandler] recommend_wine failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recommendation failed"})
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		entry := formatDrinkRecommendation(r)
		entry["wine"] = map[string]interface{}(r.Item.ParsedFields)
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": out})
}

type recommendWhiskeyRequest struct {
	Preferences service.WhiskeyPreferences `json:"preferences"`
	Limit       int                        `json:"limit"`
}

func (h *SommelierHandler) RecommendWhiskey(c *gin.Context) {
	menuID, ok := menuIDParam(c)
	if !ok {
		return
	}
	var req recommendWhiskeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	sessionID := c.GetHeader("X-Session-ID")
	excludeIDs := h.sessions.ShownItems(ctx, sessionID)

	results, err := h.whiskey.RecommendForGuest(ctx, menuID, req.Preferences, req.Limit, excludeIDs)
	if err != nil {
		log.Printf("[SommelierHandler] recommend_whiskey failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recommendation failed"})
		return
	}

	shown := make([]uint, 0, len(results))
	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		shown = append(shown, r.Item.ID)
		out = append(out, gin.H{
			"item":    formatItem(r.Item),
			"score":   r.Score,
			"cluster": r.Cluster,
			"why":     r.Why,
		})
	}
	if err := h.sessions.RememberShown(ctx, sessionID, shown); err != nil {
		log.Printf("[SommelierHandler] session tracking failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": out})
}

func (h *SommelierHandler) Pairings(c *gin.Context) {
	if _, ok := menuIDParam(c); !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	pairings, err := h.pairings.PairingsForDrink(c.Request.Context(), uint(itemID))
	if err != nil {
		log.Printf("[SommelierHandler] pairings lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pairing lookup failed"})
		return
	}

	out := make([]gin.H, 0, len(pairings))
	for i := range pairings {
		out = append(out, formatPairing(&pairings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"pairings": out})
}

func (h *SommelierHandler) ExploreWhiskeys(c *gin.Context) {
	menuID, ok := menuIDParam(c)
	if !ok {
		return
	}

	filters := service.ExploreFilters{
		Cluster:     c.Query("cluster"),
		Region:      c.Query("region"),
		AgeBucket:   c.Query("age"),
		PriceBucket: c.Query("price"),
		NewOnly:     c.Query("new") == "true",
		RareOnly:    c.Query("rare") == "true",
	}

	result, err := h.whiskey.Explore(c.Request.Context(), menuID, filters)
	if err != nil {
		log.Printf("[SommelierHandler] explore failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "explore failed"})
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, gin.H{
			"item":        formatItem(it.Item),
			"cluster":     it.Cluster,
			"new_arrival": it.NewArrival,
			"rare":        it.Rare,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"cluster_counts": result.ClusterCounts,
		"whiskeys":       items,
	})
}

func (h *SommelierHandler) GeneratePairings(c *gin.Context) {
	menuID, ok := menuIDParam(c)
	if !ok {
		return
	}
	count, err := h.pairings.GenerateForMenu(c.Request.Context(), menuID)
	if err != nil {
		log.Printf("[SommelierHandler] pairing generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pairing generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated": count})
}

func (h *SommelierHandler) GenerateSimilar(c *gin.Context) {
	menuID, ok := menuIDParam(c)
	if !ok {
		return
	}
	count, err := h.similarity.GenerateForMenu(c.Request.Context(), menuID)
	if err != nil {
		log.Printf("[SommelierHandler] similarity generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "similarity generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated": count})
}

func (h *SommelierHandler) ImportWhiskeyCSV(c *gin.Context) {
	menuID, ok := menuIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing CSV file"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read CSV file"})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read CSV file"})
		return
	}

	result, err := h.importer.Import(c.Request.Context(), menuID, string(content))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported":  result.Imported,
		"unmatched": result.Unmatched,
		"errors":    result.Errors,
	})
}

type llmProfileRequest struct {
	Description string `json:"description" binding:"required"`
}

// ProfileItemLLM runs the LLM classifier for one item on explicit staff
// request. It is never triggered automatically.
func (h *SommelierHandler) ProfileItemLLM(c *gin.Context) {
	if _, ok := menuIDParam(c); !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req llmProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.profiler.LLMProfile(c.Request.Context(), models.OwnerMenuItem,
		strconv.FormatUint(itemID, 10), req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profiling failed"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusOK, gin.H{"profile": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": gin.H{
		"tags":              []string(profile.Tags),
		"structure_metrics": map[string]float64(profile.StructureMetrics),
		"provenance":        profile.Provenance,
	}})
}

func menuIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu id"})
		return 0, false
	}
	return uint(id), true
}

func formatItem(item *models.MenuItem) gin.H {
	return gin.H{
		"id":          item.ID,
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"item_type":   item.ItemType,
	}
}

func formatDrinkRecommendation(r service.DrinkRecommendation) gin.H {
	entry := gin.H{
		"item":     formatItem(r.Item),
		"score":    r.Score,
		"top_tags": r.TopTags,
	}
	if r.BestPairing != nil {
		entry["best_pairing"] = formatPairing(r.BestPairing)
	}
	if r.Enrichment != nil {
		entry["enrichment"] = r.Enrichment
	}
	return entry
}

func formatDrinkRecommendations(results []service.DrinkRecommendation) []gin.H {
	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		out = append(out, formatDrinkRecommendation(r))
	}
	return out
}

func formatPairing(p *models.PairingRecommendation) gin.H {
	entry := gin.H{
		"score":        p.DisplayScore(),
		"pairing_type": p.PairingType,
		"rationale":    p.Rationale,
		"risk_flags":   []string(p.RiskFlags),
	}
	if p.FoodItem != nil {
		entry["food_item"] = formatItem(p.FoodItem)
	}
	return entry
}
