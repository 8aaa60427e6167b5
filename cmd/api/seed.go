// AngelaMos | 2026
// seed.go

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/angelamos/wholesale-api/internal/config"
	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/rbac"
	"github.com/angelamos/wholesale-api/internal/user"
)

// seedCmd provisions the bootstrap super admin account. The catalog of
// roles and permissions ships in the migrations; accounts need argon2
// hashing, which cannot run in SQL.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the bootstrap super admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context(), configPath)
	},
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.Seed.AdminUsername == "" || cfg.Seed.AdminPassword == "" {
		return errors.New("seed: admin username and password are required")
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	userRepo := user.NewRepository(db.DB)
	rbacRepo := rbac.NewRepository(db.DB)

	admin, err := userRepo.GetByUsernameOrEmail(ctx, cfg.Seed.AdminUsername)
	if errors.Is(err, core.ErrNotFound) {
		passwordHash, hashErr := core.HashPassword(cfg.Seed.AdminPassword)
		if hashErr != nil {
			return fmt.Errorf("seed: hash password: %w", hashErr)
		}

		admin = &user.User{
			ID:           uuid.New().String(),
			Username:     cfg.Seed.AdminUsername,
			Email:        strings.ToLower(cfg.Seed.AdminEmail),
			PasswordHash: passwordHash,
			FullName:     "Super Admin",
			Tier:         user.TierSuperAdmin,
			Status:       user.StatusActive,
		}

		if createErr := userRepo.Create(ctx, admin); createErr != nil {
			return fmt.Errorf("seed: create admin: %w", createErr)
		}
		logger.Info("super admin created", "username", admin.Username)
	} else if err != nil {
		return fmt.Errorf("seed: lookup admin: %w", err)
	} else {
		if !admin.IsSuperAdmin() {
			return fmt.Errorf(
				"seed: user %s already exists with tier %s, refusing to promote",
				admin.Username, admin.Tier,
			)
		}
		logger.Info("super admin already exists", "username", admin.Username)
	}

	role, err := rbacRepo.GetRoleByName(ctx, rbac.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("seed: lookup role: %w", err)
	}

	if err := rbacRepo.AssignRole(ctx, admin.ID, role.ID); err != nil {
		return fmt.Errorf("seed: assign role: %w", err)
	}

	if err := rbacRepo.GrantAllToUser(ctx, admin.ID); err != nil {
		return fmt.Errorf("seed: grant permissions: %w", err)
	}

	logger.Info("seed complete", "user_id", admin.ID)
	return nil
}
