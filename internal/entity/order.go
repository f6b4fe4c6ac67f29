package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCrypto PaymentMethod = "crypto"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCrypto
}

// Order is an immutable snapshot of a cart at commit time. Only Status changes
// after creation, via admin transitions.
type Order struct {
	ID              int             `json:"id"`
	Reference       string          `json:"reference"`
	CustomerID      int64           `json:"customer_id"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	DeliveryAddress string          `json:"delivery_address"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"order_id"`
	ProductID int             `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Customer struct {
	UserID          int64  `json:"user_id"`
	FirstName       string `json:"first_name"`
	Username        string `json:"username"`
	DeliveryAddress string `json:"delivery_address"`
}

/*
Schema MySQL:
CREATE TABLE `customers` (
  `user_id` bigint NOT NULL,
  `first_name` varchar(255) NOT NULL DEFAULT '',
  `username` varchar(255) NOT NULL DEFAULT '',
  `delivery_address` varchar(512) NOT NULL DEFAULT '',
  PRIMARY KEY (`user_id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE `orders` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `reference` varchar(36) NOT NULL UNIQUE,
  `customer_id` bigint NOT NULL,
  `total` decimal(10,2) NOT NULL,
  `payment_method` varchar(16) NOT NULL,
  `delivery_address` varchar(512) NOT NULL DEFAULT '',
  `status` varchar(20) NOT NULL,
  `created_at` datetime NOT NULL,
  `updated_at` datetime NOT NULL,
  PRIMARY KEY (`id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE `order_items` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `order_id` int(11) NOT NULL,
  `product_id` int(11) NOT NULL,
  `variant_id` varchar(64) NOT NULL DEFAULT '',
  `name` varchar(255) NOT NULL,
  `unit_price` decimal(10,2) NOT NULL,
  `quantity` decimal(10,2) NOT NULL,
  `line_total` decimal(10,2) NOT NULL,
  PRIMARY KEY (`id`),
  FOREIGN KEY (`order_id`) REFERENCES orders(`id`) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
