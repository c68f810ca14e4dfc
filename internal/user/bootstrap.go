package user

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"boutique/internal/domain"
	apperrors "boutique/internal/errors"
	"boutique/internal/user/repository"
)

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// Safe to run on every startup.
func EnsureAdmin(ctx context.Context, users *repository.MySQLUserRepository, email, password string, logger *zap.Logger) error {
	if email == "" || password == "" {
		logger.Info("admin bootstrap skipped, no credentials configured")
		return nil
	}

	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := users.Insert(ctx, admin); err != nil {
		return err
	}

	logger.Info("admin account created", zap.String("email", email))
	return nil
}
