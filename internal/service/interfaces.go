package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tablevine/sommelier-backend/internal/middleware"
	"github.com/tablevine/sommelier-backend/internal/models"
)

// Classifier is the external LLM tagging contract. Implementations must
// return strict JSON-decoded results; any transport or format failure is an
// error the caller degrades on.
type Classifier interface {
	Classify(ctx context.Context, description string) (*Classification, error)
}

// IAuthService defines the interface for staff authentication operations
type IAuthService interface {
	Register(name, email, password string) (string, error)
	Login(email, password string) (string, error)
	ValidateToken(token string) (*middleware.TokenClaims, error)
}

// IFlavorProfiler defines the interface for flavor profiling operations
type IFlavorProfiler interface {
	ProfileProduct(ctx context.Context, product *models.Product) (*models.FlavorProfile, error)
	ProfileDrinkItem(ctx context.Context, item *models.MenuItem) (*models.FlavorProfile, error)
	ProfileFoodItem(ctx context.Context, item *models.MenuItem) (*models.FlavorProfile, error)
	LLMProfile(ctx context.Context, ownerType, ownerID, description string) (*models.FlavorProfile, error)
	ProfileFor(ctx context.Context, ownerType, ownerID string) (*models.FlavorProfile, error)
}

// IPairingService defines the interface for pairing operations
type IPairingService interface {
	GenerateForMenu(ctx context.Context, menuID uint) (int, error)
	PairingsForDrink(ctx context.Context, drinkItemID uint) ([]models.PairingRecommendation, error)
}

// ISimilarityService defines the interface for similar-product operations
type ISimilarityService interface {
	GenerateForMenu(ctx context.Context, menuID uint) (int, error)
	SimilarProducts(ctx context.Context, productID uuid.UUID) ([]models.SimilarProductRecommendation, error)
}

// IRecommenderService defines the interface for guest drink recommendations
type IRecommenderService interface {
	RecommendForGuest(ctx context.Context, menuID uint, prefs GuestPreferences, limit int) ([]DrinkRecommendation, error)
	RecommendWinesForGuest(ctx context.Context, menuID uint, prefs WinePreferences, limit int) ([]DrinkRecommendation, error)
}

// IWhiskeyRecommenderService defines the interface for whiskey flows
type IWhiskeyRecommenderService interface {
	RecommendForGuest(ctx context.Context, menuID uint, prefs WhiskeyPreferences, limit int, excludeIDs []uint) ([]WhiskeyRecommendation, error)
	Explore(ctx context.Context, menuID uint, filters ExploreFilters) (*ExploreResult, error)
}

// IWhiskeyCSVImporter defines the interface for staff CSV imports
type IWhiskeyCSVImporter interface {
	Import(ctx context.Context, menuID uint, content string) (*ImportResult, error)
}

var (
	_ IAuthService               = (*AuthService)(nil)
	_ IFlavorProfiler            = (*FlavorProfiler)(nil)
	_ IPairingService            = (*PairingService)(nil)
	_ ISimilarityService         = (*SimilarityService)(nil)
	_ IRecommenderService        = (*RecommenderService)(nil)
	_ IWhiskeyRecommenderService = (*WhiskeyRecommenderService)(nil)
	_ IWhiskeyCSVImporter        = (*WhiskeyCSVImporter)(nil)
	_ Classifier                 = (*LLMService)(nil)
)
