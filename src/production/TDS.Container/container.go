package container

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	config "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Config"
	logger "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Logger"
)

// Container manages dependencies and their lifecycle
type Container struct {
	config *config.Config
	logger *logger.Logger

	client   *mongo.Client
	database *mongo.Database

	// Mutex for thread-safe access
	mu sync.Mutex

	// Cleanup functions run at Shutdown, in reverse order
	cleanupFuncs []func(ctx context.Context) error
}

// NewApiContainer creates a new container for the API service
func NewApiContainer() (*Container, error) {
	cfg, err := config.LoadApiConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load API configuration: %w", err)
	}

	log := logger.NewLogger(&cfg.Logging)

	return &Container{
		config: cfg,
		logger: log,
	}, nil
}

// NewContainerWithConfig creates a container from an existing config.
// Used by the seeder, which loads a narrower configuration.
func NewContainerWithConfig(db config.DatabaseConfig, logging config.LoggingConfig) *Container {
	cfg := &config.Config{Database: db, Logging: logging}
	return &Container{
		config: cfg,
		logger: logger.NewLogger(&cfg.Logging),
	}
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.logger
}

// InitializeDatabase connects to MongoDB and verifies the connection
func (c *Container) InitializeDatabase(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.config.Database.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(c.config.Database.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	c.client = client
	c.database = client.Database(c.config.Database.Name)
	c.cleanupFuncs = append(c.cleanupFuncs, client.Disconnect)

	c.logger.WithField("database", c.config.Database.Name).Info("Connected to MongoDB")
	return nil
}

// GetDatabase returns the database handle
func (c *Container) GetDatabase() (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	return c.database, nil
}

// Shutdown releases all container-owned resources
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.cleanupFuncs = nil
	c.client = nil
	c.database = nil

	return firstErr
}
