package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
	"storefront-bot/internal/session"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type CartService struct {
	products ProductRepo
	carts    CartRepo
	variants map[int][]entity.Variant
	pending  session.Store
}

// NewCartService creates a new instance of CartService.
func NewCartService(products ProductRepo, carts CartRepo, variants map[int][]entity.Variant, pending session.Store) *CartService {
	return &CartService{
		products: products,
		carts:    carts,
		variants: variants,
		pending:  pending,
	}
}

func (s *CartService) resolveVariant(productID int, variantID string) (*entity.Variant, error) {
	for _, v := range s.variants[productID] {
		if v.ID == variantID {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("variant %s of product %d: %w", variantID, productID, apperr.ErrVariantNotFound)
}

// AddItem validates the quantity, snapshots the unit price from the catalog
// (or variant table) and merges the line into the user's cart. The returned
// confirmation names the item and quantity for the transport to echo back.
func (s *CartService) AddItem(ctx context.Context, userID int64, productID int, variantID string, quantity decimal.Decimal) (*entity.Cart, string, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, "", fmt.Errorf("quantity %s: %w", quantity.String(), apperr.ErrInvalidQuantity)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	if !product.IsActive {
		return nil, "", fmt.Errorf("product %d inactive: %w", productID, apperr.ErrProductNotFound)
	}

	name := product.Name
	price := product.Price
	minQty := product.MinOrderQty
	if variantID != "" {
		variant, err := s.resolveVariant(productID, variantID)
		if err != nil {
			return nil, "", err
		}
		name = fmt.Sprintf("%s %s", product.Name, variant.Name)
		price = variant.Price
		if variant.MinQuantity.GreaterThan(decimal.Zero) {
			minQty = variant.MinQuantity
		}
	}

	if minQty.GreaterThan(decimal.Zero) && quantity.LessThan(minQty) {
		return nil, "", fmt.Errorf("minimum order is %s: %w", minQty.String(), apperr.ErrBelowMinimumQuantity)
	}

	// Stock ceiling counts what the cart already holds for this line. The
	// authoritative guard runs again inside the checkout transaction.
	inCart := decimal.Zero
	if existing, err := s.carts.GetByUser(ctx, userID); err != nil {
		return nil, "", err
	} else if existing != nil {
		for _, l := range existing.Lines {
			if l.ProductID == productID && l.VariantID == variantID {
				inCart = l.Quantity
			}
		}
	}
	if inCart.Add(quantity).GreaterThan(product.Stock) {
		return nil, "", fmt.Errorf("only %s left in stock: %w", product.Stock.String(), apperr.ErrInsufficientStock)
	}

	line := entity.CartLine{
		ProductID: productID,
		VariantID: variantID,
		Name:      name,
		UnitPrice: price,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	}
	if err := s.carts.UpsertLine(ctx, userID, line); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Error adding cart line")
		return nil, "", err
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	confirmation := fmt.Sprintf("%s x %s added to cart", quantity.String(), name)
	return cart, confirmation, nil
}

// View returns the cart without mutating it. A nil cart means the user never
// had one; a non-nil empty cart means it was used and later emptied. Callers
// word their replies differently for the two cases.
func (s *CartService) View(ctx context.Context, userID int64) (*entity.Cart, error) {
	return s.carts.GetByUser(ctx, userID)
}

// Clear empties the cart. Clearing an empty or absent cart succeeds.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.carts.Clear(ctx, userID)
}

// RequestCustomQuantity puts the user into the awaiting-quantity state for
// one product/variant. A previous pending target is silently replaced.
func (s *CartService) RequestCustomQuantity(ctx context.Context, userID int64, productID int, variantID string) (string, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return "", err
	}
	if variantID != "" {
		if _, err := s.resolveVariant(productID, variantID); err != nil {
			return "", err
		}
	}

	err := s.pending.Set(ctx, userID, session.PendingInput{
		Kind:      session.KindCustomQuantity,
		ProductID: productID,
		VariantID: variantID,
	})
	if err != nil {
		return "", err
	}

	return "Enter the quantity you want (a number above zero). Send /cancel to abort.", nil
}

// SubmitQuantityText interprets a free-text message as the pending quantity.
// Non-numeric or non-positive input keeps the pending state and returns a
// validation error so the transport re-prompts instead of treating the text
// as a command.
func (s *CartService) SubmitQuantityText(ctx context.Context, userID int64, text string) (*entity.Cart, string, error) {
	input, err := s.pending.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if input == nil || input.Kind != session.KindCustomQuantity {
		return nil, "", apperr.ErrAwaitingNothing
	}

	quantity, err := decimal.NewFromString(text)
	if err != nil || quantity.LessThanOrEqual(decimal.Zero) {
		return nil, "", fmt.Errorf("%q is not a valid quantity: %w", text, apperr.ErrInvalidQuantity)
	}

	if err := s.pending.Clear(ctx, userID); err != nil {
		return nil, "", err
	}

	return s.AddItem(ctx, userID, input.ProductID, input.VariantID, quantity)
}

// CancelPending clears whatever input the user was being waited on for.
func (s *CartService) CancelPending(ctx context.Context, userID int64) error {
	return s.pending.Clear(ctx, userID)
}

// HasPendingQuantity reports whether the next text from the user should go to
// SubmitQuantityText.
func (s *CartService) HasPendingQuantity(ctx context.Context, userID int64) (bool, error) {
	input, err := s.pending.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return input != nil && input.Kind == session.KindCustomQuantity, nil
}
