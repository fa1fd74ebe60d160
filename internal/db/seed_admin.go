package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hrportal/hradmin/internal/auth"
	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/security"
)

// EnsureAdminUser creates the configured admin account on first start. It
// does nothing when ADMIN_USERNAME or ADMIN_PASSWORD is unset or the user
// already exists.
func EnsureAdminUser(ctx context.Context, users auth.UserStore, hasher security.Hasher, cfg config.Config, log *slog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	exists, err := users.UsernameExists(ctx, cfg.AdminUsername)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		return nil
	}

	email := cfg.AdminEmail
	if email == "" {
		email = cfg.AdminUsername + "@hradmin.local"
	}

	digest, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	u, err := users.Create(ctx, cfg.AdminUsername, email, digest)
	if err != nil {
		// another instance won the race
		if errors.Is(err, auth.ErrDuplicateUsername) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}

	if log != nil {
		log.Info("admin user created", "user_id", u.ID, "username", u.Username)
	}
	return nil
}
