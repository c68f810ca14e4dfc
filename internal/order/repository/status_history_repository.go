package repository

import (
	"context"
	"database/sql"
	"fmt"

	"boutique/internal/domain"
	"boutique/internal/infrastructure/mysql"
)

// MySQLStatusHistoryRepository persists the append-only status log. Rows are
// never updated or deleted.
type MySQLStatusHistoryRepository struct {
	db *sql.DB
}

func NewMySQLStatusHistoryRepository(db *sql.DB) *MySQLStatusHistoryRepository {
	return &MySQLStatusHistoryRepository{db: db}
}

func (r *MySQLStatusHistoryRepository) Append(ctx context.Context, tx mysql.DBTX, change domain.StatusChange) (uint, error) {
	query := `INSERT INTO OrderStatusHistory (orderId, status, actor, note) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, change.OrderID, change.Status, change.Actor, change.Note)
	if err != nil {
		return 0, fmt.Errorf("appending status history: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLStatusHistoryRepository) ListByOrderID(ctx context.Context, orderID uint) ([]domain.StatusChange, error) {
	query := `
		SELECT id, orderId, status, actor, note, createdAt
		FROM OrderStatusHistory
		WHERE orderId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying status history: %w", err)
	}
	defer rows.Close()

	var changes []domain.StatusChange
	for rows.Next() {
		var c domain.StatusChange
		if err := rows.Scan(&c.ID, &c.OrderID, &c.Status, &c.Actor, &c.Note, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning status history row: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status history rows: %w", err)
	}

	return changes, nil
}
