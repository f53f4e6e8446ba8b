package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"parking-slot-backend/config"
	"parking-slot-backend/internal/model"
	"parking-slot-backend/internal/store"
)

// SeedAdmin creates the operator account from config if it does not exist
// yet. Idempotent; a no-op when no admin email is configured.
func SeedAdmin(ctx context.Context, s store.Store, cfg config.AuthConfig) error {
	if cfg.AdminEmail == "" {
		log.Println("No admin account configured; administrative reset will be unavailable")
		return nil
	}
	if cfg.AdminPassword == "" {
		return fmt.Errorf("auth.admin_password must be set when auth.admin_email is set")
	}

	_, err := s.GetUserByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.CreateUser(ctx, &admin); err != nil {
		return err
	}
	log.Printf("Seeded admin account %s", cfg.AdminEmail)
	return nil
}
