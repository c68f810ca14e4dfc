package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boutique/internal/domain"
	apperrors "boutique/internal/errors"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

const userColumns = "id, name, email, phone, passwordHash, role, createdAt, updatedAt"

func (r *MySQLUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM Users WHERE id = ?", userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), fmt.Sprintf("user %d", id))
}

func (r *MySQLUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM Users WHERE email = ?", userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), fmt.Sprintf("user %s", email))
}

func (r *MySQLUserRepository) Insert(ctx context.Context, user *domain.User) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO Users (name, email, phone, passwordHash, role) VALUES (?, ?, ?, ?, ?)",
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role,
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user insert id: %w", err)
	}
	user.ID = uint(id)
	return nil
}

func (r *MySQLUserRepository) scanOne(row *sql.Row, subject string) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(subject)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}
