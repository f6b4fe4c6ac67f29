package migrations

import (
	"database/sql"
	"time"
)

func execWithRetry(db *sql.DB, query string, retries int) error {
	_, err := db.Exec(query)
	if err == nil {
		return nil
	}
	for i := 0; i < retries; i++ {
		time.Sleep(1 * time.Second)
		_, err = db.Exec(query)
		if err == nil {
			return nil
		}
	}
	return err
}

// AutoMigrateProducts creates the products table if it does not exist.
func AutoMigrateProducts(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			stock DECIMAL(10,2) NOT NULL DEFAULT 0,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			category VARCHAR(64) NOT NULL DEFAULT '',
			min_order_qty DECIMAL(10,2) NOT NULL DEFAULT 0
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateCustomers creates the customers table if it does not exist.
func AutoMigrateCustomers(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS customers (
			user_id BIGINT PRIMARY KEY,
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			username VARCHAR(255) NOT NULL DEFAULT '',
			delivery_address VARCHAR(512) NOT NULL DEFAULT ''
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateCarts creates the cart tables if they do not exist. The unique
// key on (user_id, product_id, variant_id) is what makes the single-statement
// line upsert in the cart repository possible.
func AutoMigrateCarts(retries int, db *sql.DB) error {
	cartQuery := `
		CREATE TABLE IF NOT EXISTS carts (
			user_id BIGINT PRIMARY KEY,
			created_at DATETIME NOT NULL
		);
	`
	if err := execWithRetry(db, cartQuery, retries); err != nil {
		return err
	}

	itemQuery := `
		CREATE TABLE IF NOT EXISTS cart_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			product_id INT NOT NULL,
			variant_id VARCHAR(64) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			quantity DECIMAL(10,2) NOT NULL,
			added_at DATETIME NOT NULL,
			UNIQUE KEY user_line_idx (user_id, product_id, variant_id),
			FOREIGN KEY (user_id) REFERENCES carts(user_id) ON DELETE CASCADE
		);
	`
	return execWithRetry(db, itemQuery, retries)
}

// AutoMigrateOrders creates the orders and order_items tables if they do not
// exist.
func AutoMigrateOrders(retries int, db *sql.DB) error {
	orderQuery := `
		CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			reference VARCHAR(36) NOT NULL UNIQUE,
			customer_id BIGINT NOT NULL,
			total DECIMAL(10,2) NOT NULL,
			payment_method VARCHAR(16) NOT NULL,
			delivery_address VARCHAR(512) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	if err := execWithRetry(db, orderQuery, retries); err != nil {
		return err
	}

	itemQuery := `
		CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			variant_id VARCHAR(64) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			quantity DECIMAL(10,2) NOT NULL,
			line_total DECIMAL(10,2) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);
	`
	return execWithRetry(db, itemQuery, retries)
}
