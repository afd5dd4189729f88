package config

import (
	"fmt"
	"os"

	"project-tracker/internal/apper"
	"project-tracker/internal/logging"
	"project-tracker/internal/repository/sqldb"
)

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (sqldb.Repository, error) {
	dialect, err := sqldb.DialectFor(config.Database.Driver)
	if err != nil {
		return nil, err
	}

	dsn := config.Database.DSN
	if dialect.Name == sqldb.SQLite.Name && dsn == "" {
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = config.GetDatabasePath()
	}

	repo, err := sqldb.Open(dialect, dsn, sqldb.Options{
		QueryTimeout: config.GetQueryTimeout(),
		WriteTimeout: config.GetWriteTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqldb.Repository, error) {
	repo, err := sqldb.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}

// CreateApperClient creates the hosted backend client
func CreateApperClient(config *Config, logger *logging.Logger) (*apper.Client, error) {
	client, err := apper.NewClient(apper.Config{
		BaseURL:   config.Backend.BaseURL,
		ProjectID: config.Backend.ProjectID,
		PublicKey: config.Backend.PublicKey,
		Timeout:   config.Backend.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize apper client: %w", err)
	}
	return client, nil
}
