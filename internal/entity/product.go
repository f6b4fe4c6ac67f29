package entity

import "github.com/shopspring/decimal"

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       decimal.Decimal `json:"stock"`
	IsActive    bool            `json:"is_active"`
	Category    string          `json:"category"`
	MinOrderQty decimal.Decimal `json:"min_order_qty"`
}

// Variant is a named sub-option of a product with its own price. Variants are
// read-only reference data loaded from config, not database rows.
type Variant struct {
	ID          string          `json:"id"`
	ProductID   int             `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

/*
Schema MySQL for product table:
CREATE TABLE `products` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `name` varchar(255) NOT NULL,
  `description` text NOT NULL,
  `price` decimal(10,2) NOT NULL,
  `stock` decimal(10,2) NOT NULL,
  `is_active` tinyint(1) NOT NULL DEFAULT 1,
  `category` varchar(64) NOT NULL DEFAULT '',
  `min_order_qty` decimal(10,2) NOT NULL DEFAULT 0,
  PRIMARY KEY (`id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
