package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
	"storefront-bot/internal/session"
)

type CatalogService struct {
	products ProductRepo
	variants map[int][]entity.Variant
	pending  session.Store
	rdb      *redis.Client
}

// NewCatalogService creates a new instance of CatalogService. rdb may be nil,
// which disables the read-through cache.
func NewCatalogService(products ProductRepo, variants map[int][]entity.Variant, pending session.Store, rdb *redis.Client) *CatalogService {
	return &CatalogService{
		products: products,
		variants: variants,
		pending:  pending,
		rdb:      rdb,
	}
}

func cacheKey(productID int) string {
	return fmt.Sprintf("product:%d", productID)
}

// ListActive returns the browsable catalog.
func (s *CatalogService) ListActive(ctx context.Context) ([]*entity.Product, error) {
	return s.products.List(ctx, true)
}

// ListAll returns every product including disabled ones, for admin views.
func (s *CatalogService) ListAll(ctx context.Context) ([]*entity.Product, error) {
	return s.products.List(ctx, false)
}

// GetProduct reads a product through the cache.
func (s *CatalogService) GetProduct(ctx context.Context, productID int) (*entity.Product, error) {
	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, cacheKey(productID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error reading product %d from cache", productID)
		}
		if data != "" {
			var product entity.Product
			if err := json.Unmarshal([]byte(data), &product); err == nil {
				return &product, nil
			}
		}
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

// VariantsFor lists the selectable variants of a product, if any.
func (s *CatalogService) VariantsFor(productID int) []entity.Variant {
	return s.variants[productID]
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	s.cacheProduct(ctx, created)
	return created, nil
}

func (s *CatalogService) EnableProduct(ctx context.Context, productID int) error {
	if err := s.products.SetActive(ctx, productID, true); err != nil {
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}

func (s *CatalogService) DisableProduct(ctx context.Context, productID int) error {
	if err := s.products.SetActive(ctx, productID, false); err != nil {
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, productID int) error {
	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}

// WarmCache pre-loads every product into the cache.
func (s *CatalogService) WarmCache(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	products, err := s.products.List(ctx, false)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products for cache warmup")
		return err
	}

	for _, product := range products {
		s.cacheProduct(ctx, product)
	}
	return nil
}

func (s *CatalogService) cacheProduct(ctx context.Context, product *entity.Product) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(product.ID), data, 1*time.Minute).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error caching product %d", product.ID)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, productID int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKey(productID)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error invalidating product %d", productID)
	}
}

// Admin actions resolvable through the typed-product-id flow.
const (
	ProductActionEnable  = "enable"
	ProductActionDisable = "disable"
	ProductActionDelete  = "delete"
)

// RequestProductAction puts an admin into the awaiting-product-id state for
// enable/disable/delete. A previous pending input is replaced.
func (s *CatalogService) RequestProductAction(ctx context.Context, adminID int64, action string) (string, error) {
	switch action {
	case ProductActionEnable, ProductActionDisable, ProductActionDelete:
	default:
		return "", fmt.Errorf("product action %q: %w", action, apperr.ErrAwaitingNothing)
	}

	err := s.pending.Set(ctx, adminID, session.PendingInput{
		Kind:        session.KindProductID,
		AdminAction: action,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Enter the id of the product to %s. Send /cancel to abort.", action), nil
}

// SubmitProductIDText interprets an admin's free-text message as the product
// id for the pending action. Non-numeric input keeps the pending state so the
// admin is re-prompted.
func (s *CatalogService) SubmitProductIDText(ctx context.Context, adminID int64, text string) (string, error) {
	input, err := s.pending.Get(ctx, adminID)
	if err != nil {
		return "", err
	}
	if input == nil || input.Kind != session.KindProductID {
		return "", apperr.ErrAwaitingNothing
	}

	productID, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return "", fmt.Errorf("%q is not a product id: %w", text, apperr.ErrInvalidQuantity)
	}

	if err := s.pending.Clear(ctx, adminID); err != nil {
		return "", err
	}

	switch input.AdminAction {
	case ProductActionEnable:
		if err := s.EnableProduct(ctx, productID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Product %d enabled", productID), nil
	case ProductActionDisable:
		if err := s.DisableProduct(ctx, productID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Product %d disabled", productID), nil
	case ProductActionDelete:
		if err := s.DeleteProduct(ctx, productID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Product %d deleted", productID), nil
	}
	return "", apperr.ErrAwaitingNothing
}
