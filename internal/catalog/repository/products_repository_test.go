package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "boutique/internal/errors"
	"boutique/internal/testutil"
)

// Unit Tests

func TestNewMySQLProductRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLProductRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestProductRepository_FindByID_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	productID := testutil.SeedProduct(t, db, "Linen Shirt", 25.00, map[string]int{"S": 3, "M": 10})
	_, err := db.Exec("INSERT INTO ProductImages (productId, url, isPrimary) VALUES (?, ?, 1)",
		productID, "https://cdn.example.com/shirt.jpg")
	require.NoError(t, err)

	product, err := repo.FindByID(context.Background(), productID)
	require.NoError(t, err)

	assert.Equal(t, "Linen Shirt", product.Name)
	assert.Equal(t, 25.00, product.Price)
	assert.Len(t, product.Sizes, 2)
	assert.Equal(t, 13, product.TotalStock())
	assert.Equal(t, "https://cdn.example.com/shirt.jpg", product.PrimaryImage())
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	_, err := repo.FindByID(context.Background(), 99999)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestProductRepository_FindByID_InactiveHidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	productID := testutil.SeedProduct(t, db, "Retired Jacket", 80.00, map[string]int{"M": 1})
	_, err := db.Exec("UPDATE Products SET isActive = 0 WHERE id = ?", productID)
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), productID)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestProductRepository_DecrementStock_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	productID := testutil.SeedProduct(t, db, "Linen Shirt", 25.00, map[string]int{"M": 10})

	err := repo.DecrementStock(context.Background(), db, productID, "M", 4)
	require.NoError(t, err)

	var stock int
	require.NoError(t, db.QueryRow(
		"SELECT stock FROM ProductSizes WHERE productId = ? AND size = ?", productID, "M").Scan(&stock))
	assert.Equal(t, 6, stock)
}

func TestProductRepository_DecrementStock_Insufficient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	productID := testutil.SeedProduct(t, db, "Linen Shirt", 25.00, map[string]int{"M": 2})

	err := repo.DecrementStock(context.Background(), db, productID, "M", 5)

	stockErr, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	// The failed decrement must not touch the counter.
	var stock int
	require.NoError(t, db.QueryRow(
		"SELECT stock FROM ProductSizes WHERE productId = ? AND size = ?", productID, "M").Scan(&stock))
	assert.Equal(t, 2, stock)
}

func TestProductRepository_DecrementStock_PerSizeIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	productID := testutil.SeedProduct(t, db, "Linen Shirt", 25.00, map[string]int{"S": 5, "M": 5})

	require.NoError(t, repo.DecrementStock(context.Background(), db, productID, "M", 5))

	// M is exhausted; S is untouched.
	err := repo.DecrementStock(context.Background(), db, productID, "M", 1)
	_, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok)

	require.NoError(t, repo.DecrementStock(context.Background(), db, productID, "S", 1))
}

func TestProductRepository_DecrementStock_ConcurrentNeverOversells(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	productID := testutil.SeedProduct(t, db, "Limited Sneaker", 150.00, map[string]int{"42": 5})

	const workers = 20
	var wg sync.WaitGroup
	successes := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.DecrementStock(context.Background(), db, productID, "42", 1); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	won := 0
	for range successes {
		won++
	}
	assert.Equal(t, 5, won, "exactly the available units may be sold")

	var stock int
	require.NoError(t, db.QueryRow(
		"SELECT stock FROM ProductSizes WHERE productId = ? AND size = ?", productID, "42").Scan(&stock))
	assert.Equal(t, 0, stock, "stock must never go negative")
}

func TestProductRepository_RestoreStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	productID := testutil.SeedProduct(t, db, "Linen Shirt", 25.00, map[string]int{"M": 3})

	require.NoError(t, repo.RestoreStock(context.Background(), db, productID, "M", 2))

	var stock int
	require.NoError(t, db.QueryRow(
		"SELECT stock FROM ProductSizes WHERE productId = ? AND size = ?", productID, "M").Scan(&stock))
	assert.Equal(t, 5, stock)
}

func TestProductRepository_RestoreStock_MissingSize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	err := repo.RestoreStock(context.Background(), db, 99999, "M", 1)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
