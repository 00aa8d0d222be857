package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tablevine/sommelier-backend/internal/models"
)

// SimilarityService builds "you may also like" edges between the catalog
// products represented on a menu.
type SimilarityService struct {
	db       *gorm.DB
	profiler *FlavorProfiler
}

// NewSimilarityService creates a new SimilarityService.
func NewSimilarityService(db *gorm.DB, profiler *FlavorProfiler) *SimilarityService {
	return &SimilarityService{db: db, profiler: profiler}
}

type similarCandidate struct {
	product *models.Product
	score   float64
	shared  []string
}

// GenerateForMenu computes pairwise similarity between distinct products
// linked to the menu's items and stores up to 3 diverse recommendations per
// product. Returns the number of recommendations saved.
func (s *SimilarityService) GenerateForMenu(ctx context.Context, menuID uint) (int, error) {
	products, err := s.menuProducts(ctx, menuID)
	if err != nil {
		return 0, fmt.Errorf("failed to load menu products: %w", err)
	}

	type profiled struct {
		product  *models.Product
		profile  *models.FlavorProfile
		avgPrice float64
	}
	var pool []profiled
	for i := range products {
		profile, err := s.profiler.ProfileFor(ctx, models.OwnerProduct, products[i].ID.String())
		if err != nil {
			return 0, err
		}
		if profile == nil {
			profile, err = s.profiler.ProfileProduct(ctx, &products[i])
			if err != nil {
				return 0, err
			}
		}
		if profile == nil || len(profile.Tags) == 0 {
			continue
		}
		avg, err := s.averageMenuPrice(ctx, menuID, products[i].ID)
		if err != nil {
			return 0, err
		}
		pool = append(pool, profiled{product: &products[i], profile: profile, avgPrice: avg})
	}

	if len(pool) < 2 {
		return 0, nil
	}

	saved := 0
	for i := range pool {
		var candidates []similarCandidate
		for j := range pool {
			if i == j {
				continue
			}
			score := similarity(pool[i].profile, pool[j].profile)
			if score < 0.2 {
				continue
			}
			// A recommendation shouldn't jump price tiers.
			if pool[i].avgPrice > 0 && pool[j].avgPrice > 0 {
				ratio := pool[j].avgPrice / pool[i].avgPrice
				if ratio < 1 {
					ratio = 1 / ratio
				}
				if ratio >= 3.0 {
					continue
				}
			}
			candidates = append(candidates, similarCandidate{
				product: pool[j].product,
				score:   round4(score),
				shared:  sharedTags(pool[i].profile.Tags, pool[j].profile.Tags),
			})
		}

		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].score > candidates[b].score
		})

		for _, c := range selectDiverse(candidates, 3) {
			if err := s.upsertRecommendation(ctx, pool[i].product.ID, c); err != nil {
				return saved, err
			}
			saved++
		}
	}

	log.Printf("[SimilarityService] menu %d: %d similar-product recommendations saved", menuID, saved)
	return saved, nil
}

// SimilarProducts returns stored recommendations for a product, best first.
func (s *SimilarityService) SimilarProducts(ctx context.Context, productID uuid.UUID) ([]models.SimilarProductRecommendation, error) {
	var recs []models.SimilarProductRecommendation
	err := s.db.WithContext(ctx).Preload("RecommendedProduct").
		Where("product_id = ?", productID).
		Order("score DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load similar products: %w", err)
	}
	return recs, nil
}

// selectDiverse picks up to limit candidates from the score-sorted list,
// capping picks per product category at 2 until two picks exist, and
// backfills from the sorted list when the diversity pass comes up short.
func selectDiverse(candidates []similarCandidate, limit int) []similarCandidate {
	var picked []similarCandidate
	categoryCounts := map[string]int{}
	pickedIDs := map[uuid.UUID]bool{}

	for _, c := range candidates {
		if len(picked) >= limit {
			break
		}
		if categoryCounts[c.product.ProductType] >= 2 {
			continue
		}
		picked = append(picked, c)
		categoryCounts[c.product.ProductType]++
		pickedIDs[c.product.ID] = true
	}

	for _, c := range candidates {
		if len(picked) >= limit {
			break
		}
		if pickedIDs[c.product.ID] {
			continue
		}
		picked = append(picked, c)
		pickedIDs[c.product.ID] = true
	}

	return picked
}

// similarity blends tag overlap with structural-metric closeness.
func similarity(a, b *models.FlavorProfile) float64 {
	structSim := 0.5
	var diffs []float64
	for k, va := range a.StructureMetrics {
		if vb, ok := b.StructureMetrics[k]; ok {
			diffs = append(diffs, math.Abs(va-vb))
		}
	}
	if len(diffs) > 0 {
		sum := 0.0
		for _, d := range diffs {
			sum += d
		}
		structSim = 1 - sum/float64(len(diffs))
	}
	return 0.6*jaccard(a.Tags, b.Tags) + 0.4*structSim
}

func (s *SimilarityService) menuProducts(ctx context.Context, menuID uint) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Distinct("products.*").
		Joins("JOIN menu_item_product_links ON menu_item_product_links.product_id = products.id").
		Joins("JOIN menu_items ON menu_items.id = menu_item_product_links.menu_item_id").
		Joins("JOIN menu_sections ON menu_sections.id = menu_items.menu_section_id").
		Where("menu_sections.menu_id = ? AND menu_sections.archived = ?", menuID, false).
		Where("menu_items.status = ?", models.StatusActive).
		Find(&products).Error
	return products, err
}

// averageMenuPrice averages the prices observed for a product on this menu.
// Returns 0 when no priced item links to the product.
func (s *SimilarityService) averageMenuPrice(ctx context.Context, menuID uint, productID uuid.UUID) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).Model(&models.MenuItem{}).
		Select("AVG(menu_items.price)").
		Joins("JOIN menu_item_product_links ON menu_item_product_links.menu_item_id = menu_items.id").
		Joins("JOIN menu_sections ON menu_sections.id = menu_items.menu_section_id").
		Where("menu_item_product_links.product_id = ?", productID).
		Where("menu_sections.menu_id = ? AND menu_sections.archived = ?", menuID, false).
		Where("menu_items.price > 0").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (s *SimilarityService) upsertRecommendation(ctx context.Context, productID uuid.UUID, c similarCandidate) error {
	rationale := "similar structure"
	if len(c.shared) > 0 {
		top := c.shared
		if len(top) > 3 {
			top = top[:3]
		}
		rationale = "shared notes of " + strings.Join(top, ", ")
	}

	var rec models.SimilarProductRecommendation
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND recommended_product_id = ?", productID, c.product.ID).
		First(&rec).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	rec.ProductID = productID
	rec.RecommendedProductID = c.product.ID
	rec.Score = c.score
	rec.Rationale = rationale

	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to save recommendation: %w", err)
	}
	return nil
}
