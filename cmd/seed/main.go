// Package main creates the administrator account.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"userportal/internal/auth"
	"userportal/internal/config"
	"userportal/internal/db"
	apperrors "userportal/internal/errors"
	"userportal/internal/logging"
	"userportal/internal/model"
	"userportal/internal/repository"
)

const defaultSeedTimeout = 30 * time.Second

type seedOptions struct {
	configFile string
	name       string
	password   string
	email      string
	timeout    time.Duration
}

func main() {
	if err := newSeedCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the administrator account",
		Long: `Creates the account used by /admin_login. The command refuses to
overwrite an existing account with the same name.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file path")
	cmd.Flags().String("db-driver", "mysql", "database driver (mysql or sqlite)")
	cmd.Flags().String("db-dsn", "", "database DSN")
	cmd.Flags().StringVar(&opts.name, "name", "", "admin name")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password")
	cmd.Flags().StringVar(&opts.email, "email", "", "admin email")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultSeedTimeout, "timeout for database operations")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if err := cfg.ValidateDB(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	logging.SetDefault("userportal-seed", "dev", cfg.Log.Format, cfg.Log.Level)

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	gormDB, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	admin, err := seedAdmin(ctx, repository.NewUserRepository(gormDB), auth.NewBcryptHasher(auth.DefaultCost),
		opts.name, opts.password, opts.email)
	if err != nil {
		return err
	}

	slog.Info("admin account created", "name", admin.Name, "id", admin.ID)
	cmd.Printf("Created admin %q\n", admin.Name)
	return nil
}

// seedAdmin stores a role-1 account. It fails with ErrUserAlreadyExists when
// the name is taken.
func seedAdmin(ctx context.Context, users repository.UserRepository, hasher auth.PasswordHasher, name, password, email string) (*model.User, error) {
	if name == "" || password == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("name and password are required")
	}

	_, err := users.FindByName(ctx, name)
	if err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("name", name).Wrap(err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}

	admin := &model.User{Name: name, Password: hash, Email: email, Role: model.RoleAdmin}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, oops.Code("USER_CREATE_FAILED").With("name", name).Wrap(err)
	}
	return admin, nil
}
