package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one row in a user's cart. UnitPrice is snapshotted when the line
// is first added and is never re-read from the catalog: later price changes do
// not affect items already in the cart.
type CartLine struct {
	ProductID int             `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

// LineTotal is unit price times quantity, exact to the minor currency unit.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

// SameIdentity reports whether two lines refer to the same product+variant.
func (l CartLine) SameIdentity(other CartLine) bool {
	return l.ProductID == other.ProductID && l.VariantID == other.VariantID
}

type Cart struct {
	UserID int64      `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total is always derived from the lines; there is no cached total field to
// drift out of sync.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// TotalQuantity sums quantities across all lines, not distinct products.
func (c Cart) TotalQuantity() decimal.Decimal {
	qty := decimal.Zero
	for _, l := range c.Lines {
		qty = qty.Add(l.Quantity)
	}
	return qty
}

/*
Schema MySQL for cart tables:
CREATE TABLE `carts` (
  `user_id` bigint NOT NULL,
  `created_at` datetime NOT NULL,
  PRIMARY KEY (`user_id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE `cart_items` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `user_id` bigint NOT NULL,
  `product_id` int(11) NOT NULL,
  `variant_id` varchar(64) NOT NULL DEFAULT '',
  `name` varchar(255) NOT NULL,
  `unit_price` decimal(10,2) NOT NULL,
  `quantity` decimal(10,2) NOT NULL,
  `added_at` datetime NOT NULL,
  PRIMARY KEY (`id`),
  UNIQUE KEY `user_line_idx` (`user_id`, `product_id`, `variant_id`),
  FOREIGN KEY (`user_id`) REFERENCES carts(`user_id`) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
