package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/internal/db"
	"github.com/terry001-s/socialgraph/internal/models"
	"github.com/terry001-s/socialgraph/pkg/config"
	"github.com/terry001-s/socialgraph/pkg/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Running schema migration")

	// Connect to the database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// The follow edge and like tables rely on composite primary keys and
	// the self-follow check constraint; AutoMigrate creates them so the
	// invariants are storage-enforced before the server takes traffic.
	err = database.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.NotificationSetting{},
	)
	if err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	logger.Info("Migration complete")
}
