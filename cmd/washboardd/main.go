package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/washboardhq/washboard/internal/backup"
	"github.com/washboardhq/washboard/internal/config"
	"github.com/washboardhq/washboard/internal/server"
	"github.com/washboardhq/washboard/internal/services"
	"github.com/washboardhq/washboard/internal/store"
	"github.com/washboardhq/washboard/internal/version"
	"github.com/washboardhq/washboard/pkg/models"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	backupPath := flag.String("backup", "", "write a tar.gz backup of the database to this path and exit")
	restorePath := flag.String("restore", "", "restore a tar.gz backup into the data directory and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Washboard server starting", zap.String("version", version.Short()))

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *backupPath != "" {
		if err := backup.Create(ctx, cfg.GetString("server.db_path"), *configPath, *backupPath); err != nil {
			logger.Fatal("backup failed", zap.Error(err))
		}
		logger.Info("backup written", zap.String("path", *backupPath))
		return
	}
	if *restorePath != "" {
		dest := filepath.Dir(cfg.GetString("server.db_path"))
		if err := backup.Restore(ctx, *restorePath, dest); err != nil {
			logger.Fatal("restore failed", zap.Error(err))
		}
		logger.Info("backup restored", zap.String("dest", dest))
		return
	}

	// Open the database and build the repositories
	db, err := store.New(cfg.GetString("server.db_path"))
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	users, err := services.NewSQLiteUserRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize users repository", zap.Error(err))
	}
	customers, err := services.NewSQLiteCustomerRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize customers repository", zap.Error(err))
	}
	catalog, err := services.NewSQLiteServiceRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize services repository", zap.Error(err))
	}
	transactions, err := services.NewSQLiteTransactionRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize transactions repository", zap.Error(err))
	}
	refresh, err := services.NewSQLiteRefreshTokenRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize refresh tokens repository", zap.Error(err))
	}

	if err := seedAdmin(ctx, users, logger); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	auth := server.NewAuthenticator(users, refresh,
		signingSecret(cfg, logger),
		cfg.GetDuration("server.access_ttl"),
		cfg.GetDuration("server.refresh_ttl"),
		logger,
	)

	// Create and start HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.GetString("server.host"), cfg.GetInt("server.port"))
	srv := server.New(addr, auth, server.Repositories{
		Users:        users,
		Customers:    customers,
		Transactions: transactions,
		Services:     catalog,
	}, logger)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("Washboard server ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("Washboard server stopped")
}

// signingSecret returns the configured token secret, or generates an
// ephemeral one. An ephemeral secret invalidates all tokens on restart.
func signingSecret(cfg *config.Config, logger *zap.Logger) []byte {
	if secret := cfg.GetString("server.secret"); secret != "" {
		return []byte(secret)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		logger.Fatal("failed to generate signing secret", zap.Error(err))
	}
	logger.Warn("server.secret not set, using an ephemeral signing secret")
	return []byte(hex.EncodeToString(buf))
}

// seedAdmin creates the initial admin account on an empty users table so a
// fresh install can log in. Credentials come from WASHBOARD_ADMIN_PASSWORD;
// without it the account is skipped.
func seedAdmin(ctx context.Context, users services.UserRepository, logger *zap.Logger) error {
	if _, err := users.GetByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, services.ErrNotFound) {
		return err
	}

	password := os.Getenv("WASHBOARD_ADMIN_PASSWORD")
	if password == "" {
		logger.Info("no admin account and WASHBOARD_ADMIN_PASSWORD not set, skipping seed")
		return nil
	}

	hash, err := server.HashPassword(password)
	if err != nil {
		return err
	}
	account := &services.UserAccount{
		User: models.User{
			Username:  "admin",
			Email:     "admin@localhost",
			FirstName: "Admin",
			LastName:  "User",
			Role:      models.RoleAdmin,
		},
		PasswordHash: hash,
	}
	if err := users.Create(ctx, account); err != nil {
		return err
	}
	logger.Info("seeded admin account", zap.Int("id", account.ID))
	return nil
}
