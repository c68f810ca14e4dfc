package repository

import (
	"context"
	"database/sql"
	"fmt"

	"boutique/internal/domain"
	"boutique/internal/errors"
	"boutique/internal/infrastructure/mysql"
)

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

// FindByID loads the product aggregate: row, sizes and images. Inactive and
// soft-deleted products are treated as not found, matching what a buyer can
// actually order.
func (r *MySQLProductRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, salePrice, isActive, isDeleted, createdAt, updatedAt
		FROM Products
		WHERE id = ? AND isActive = 1 AND isDeleted = 0
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.SalePrice,
		&p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	if p.Sizes, err = r.loadSizes(ctx, id); err != nil {
		return nil, err
	}
	if p.Images, err = r.loadImages(ctx, id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *MySQLProductRepository) loadSizes(ctx context.Context, productID int) ([]domain.ProductSize, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT size, stock FROM ProductSizes WHERE productId = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("querying product sizes: %w", err)
	}
	defer rows.Close()

	var sizes []domain.ProductSize
	for rows.Next() {
		var s domain.ProductSize
		if err := rows.Scan(&s.Size, &s.Stock); err != nil {
			return nil, fmt.Errorf("scanning product size row: %w", err)
		}
		sizes = append(sizes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product size rows: %w", err)
	}

	return sizes, nil
}

func (r *MySQLProductRepository) loadImages(ctx context.Context, productID int) ([]domain.ProductImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT url, isPrimary FROM ProductImages WHERE productId = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("querying product images: %w", err)
	}
	defer rows.Close()

	var images []domain.ProductImage
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.URL, &img.IsPrimary); err != nil {
			return nil, fmt.Errorf("scanning product image row: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product image rows: %w", err)
	}

	return images, nil
}

// DecrementStock takes quantity units out of a size's stock counter as a
// single conditional UPDATE. The WHERE clause carries the stock check, so two
// checkouts racing for the last units can never drive the counter negative;
// the loser sees zero affected rows and gets InsufficientStock with the
// quantity still available.
func (r *MySQLProductRepository) DecrementStock(ctx context.Context, tx mysql.DBTX, productID int, size string, quantity int) error {
	query := `UPDATE ProductSizes SET stock = stock - ? WHERE productId = ? AND size = ? AND stock >= ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID, size, quantity)
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	available, err := r.availableStock(ctx, tx, productID, size)
	if err != nil {
		return err
	}
	return errors.NewInsufficientStockError(productID, size, quantity, available)
}

// RestoreStock puts quantity units back, the inverse of DecrementStock. Zero
// affected rows means the size row no longer exists (product removed after
// the order was placed); callers decide whether that aborts or is skipped.
func (r *MySQLProductRepository) RestoreStock(ctx context.Context, tx mysql.DBTX, productID int, size string, quantity int) error {
	query := `UPDATE ProductSizes SET stock = stock + ? WHERE productId = ? AND size = ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID, size)
	if err != nil {
		return fmt.Errorf("restoring stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product %d size %s not found", productID, size))
	}

	return nil
}

func (r *MySQLProductRepository) availableStock(ctx context.Context, tx mysql.DBTX, productID int, size string) (int, error) {
	var available int
	err := tx.QueryRowContext(ctx,
		`SELECT stock FROM ProductSizes WHERE productId = ? AND size = ?`, productID, size).Scan(&available)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("product %d size %s not found", productID, size))
	}
	if err != nil {
		return 0, fmt.Errorf("querying available stock: %w", err)
	}
	return available, nil
}
