package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/curiocollect/curio/internal/config"
	"github.com/curiocollect/curio/internal/service"
	"github.com/curiocollect/curio/internal/settings"
	"github.com/curiocollect/curio/internal/storage"
)

// initStorage opens the database and runs migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initSettings loads the persisted UI preferences.
func initSettings() (*settings.Store, error) {
	path := viper.GetString("settings.path")
	if path == "" {
		path = config.DefaultSettingsPath
	}
	return settings.NewStore(config.ExpandPath(path))
}
