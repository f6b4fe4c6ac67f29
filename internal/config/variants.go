package config

import (
	"github.com/shopspring/decimal"

	"storefront-bot/internal/entity"
)

// Variants maps product ids to their selectable variants. Variants are
// reference data maintained by hand: each has its own price and may carry a
// minimum order quantity overriding the product default.
func Variants() map[int][]entity.Variant {
	return map[int][]entity.Variant{
		1: {
			{
				ID:          "1_classic",
				ProductID:   1,
				Name:        "Classic",
				Description: "The original blend",
				Price:       decimal.NewFromInt(20),
			},
			{
				ID:          "1_reserve",
				ProductID:   1,
				Name:        "Reserve",
				Description: "Small-batch reserve edition",
				Price:       decimal.NewFromInt(22),
			},
			{
				ID:          "1_gold",
				ProductID:   1,
				Name:        "Gold",
				Description: "Top-shelf gold selection",
				Price:       decimal.NewFromInt(25),
			},
		},
		2: {
			{
				ID:          "2_bulk",
				ProductID:   2,
				Name:        "Bulk",
				Description: "Wholesale pack, large orders only",
				Price:       decimal.NewFromInt(15),
				MinQuantity: decimal.NewFromInt(100),
			},
		},
	}
}
