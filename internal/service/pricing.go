package service

import (
	"github.com/shopspring/decimal"

	"storefront-bot/internal/entity"
)

// Discount tiers are advisory: they are shown to the customer and attached to
// discount requests, but never applied to the charged total. Converting an
// advisory tier into an actual reduction is a manual admin step.
var (
	discountTier1Qty = decimal.NewFromInt(30)
	discountTier2Qty = decimal.NewFromInt(50)
)

// ComputeTotal sums unit price times quantity over all lines. Decimal
// arithmetic keeps the result exact to the minor currency unit no matter how
// many additions led here.
func ComputeTotal(cart *entity.Cart) decimal.Decimal {
	return cart.Total()
}

// DiscountTier maps a total quantity to its advisory percentage:
// below 30 none, 30 to below 50 ten percent, 50 and up fifteen percent.
func DiscountTier(totalQuantity decimal.Decimal) int64 {
	switch {
	case totalQuantity.GreaterThanOrEqual(discountTier2Qty):
		return 15
	case totalQuantity.GreaterThanOrEqual(discountTier1Qty):
		return 10
	default:
		return 0
	}
}

// DiscountEligible reports whether the cart qualifies for a bulk-discount
// request at all.
func DiscountEligible(cart *entity.Cart) bool {
	return DiscountTier(cart.TotalQuantity()) > 0
}
