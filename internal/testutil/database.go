package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB configura una base de datos de prueba
// Espera que exista una BD MySQL en localhost:3306 llamada 'boutique_test'
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/boutique_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Verify connection
	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB limpia la BD de prueba
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderStatusHistory", "OrderItems", "Orders", "ProductImages", "ProductSizes", "Products", "Users"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables crea las tablas necesarias para los tests
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL,
		salePrice DECIMAL(10,2),
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		isDeleted TINYINT(1) NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_active (isActive, isDeleted)
	)`

	createProductSizesTable := `
	CREATE TABLE IF NOT EXISTS ProductSizes (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		size VARCHAR(20) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		UNIQUE KEY uq_product_size (productId, size)
	)`

	createProductImagesTable := `
	CREATE TABLE IF NOT EXISTS ProductImages (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		url VARCHAR(500) NOT NULL,
		isPrimary TINYINT(1) NOT NULL DEFAULT 0,
		INDEX idx_product (productId)
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderNumber VARCHAR(40) NOT NULL UNIQUE,
		userId INT UNSIGNED,
		customerName VARCHAR(150) NOT NULL,
		customerEmail VARCHAR(150) NOT NULL,
		customerPhone VARCHAR(30),
		shippingAddress JSON NOT NULL,
		billingAddress JSON NOT NULL,
		paymentMethod VARCHAR(20) NOT NULL,
		paymentStatus VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		stripePaymentIntentId VARCHAR(100),
		razorpayOrderId VARCHAR(100),
		subtotal DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		tax DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		shippingCost DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		discount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		total DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		status VARCHAR(30) NOT NULL DEFAULT 'pending',
		trackingNumber VARCHAR(100),
		confirmedAt DATETIME,
		shippedAt DATETIME,
		deliveredAt DATETIME,
		cancelledAt DATETIME,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_user (userId),
		INDEX idx_status (status),
		INDEX idx_stripe_intent (stripePaymentIntentId),
		INDEX idx_razorpay_order (razorpayOrderId)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		productId INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		unitPrice DECIMAL(10,2) NOT NULL,
		quantity INT NOT NULL,
		size VARCHAR(20) NOT NULL,
		color VARCHAR(50),
		imageUrl VARCHAR(500),
		lineTotal DECIMAL(10,2) NOT NULL,
		INDEX idx_order (orderId)
	)`

	createOrderStatusHistoryTable := `
	CREATE TABLE IF NOT EXISTS OrderStatusHistory (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		status VARCHAR(30) NOT NULL,
		actor VARCHAR(50) NOT NULL,
		note VARCHAR(500),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_order (orderId)
	)`

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS Users (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(150) NOT NULL UNIQUE,
		phone VARCHAR(30),
		passwordHash VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'customer',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	statements := []string{
		createProductsTable,
		createProductSizesTable,
		createProductImagesTable,
		createOrdersTable,
		createOrderItemsTable,
		createOrderStatusHistoryTable,
		createUsersTable,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create test table: %v", err)
		}
	}
}

// SeedProduct inserta un producto con sus talles para los tests de inventario
func SeedProduct(t *testing.T, db *sql.DB, name string, price float64, sizes map[string]int) int {
	result, err := db.Exec(
		"INSERT INTO Products (name, description, price) VALUES (?, ?, ?)",
		name, "test product", price,
	)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}

	for size, stock := range sizes {
		if _, err := db.Exec(
			"INSERT INTO ProductSizes (productId, size, stock) VALUES (?, ?, ?)",
			id, size, stock,
		); err != nil {
			t.Fatalf("failed to seed product size: %v", err)
		}
	}

	return int(id)
}
