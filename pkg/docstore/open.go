package docstore

import (
	"context"
	"fmt"

	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

// Open selects the concrete store implementation exactly once, from the
// credentials that are configured. Mongo wins when a URI is present,
// Postgres when database credentials are, and the in-memory degraded mode
// is allowed only in debug builds so synthetic data can never pose as
// production data.
func Open(ctx context.Context, config utils.StoreConfig, debug bool, log *zap.Logger) (Store, error) {
	if config.MongoURI != "" {
		store, err := NewMongoStore(ctx, config.MongoURI, config.MongoName)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		log.Info("Document store selected", zap.String("backend", "mongo"), zap.String("database", config.MongoName))
		return store, nil
	}

	if config.PGHost != "" {
		store, err := NewPostgresStore(ctx, PostgresConfig{
			Host:     config.PGHost,
			Port:     config.PGPort,
			Name:     config.PGName,
			User:     config.PGUser,
			Password: config.PGPassword,
			MaxConns: config.PGMaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		log.Info("Document store selected", zap.String("backend", "postgres"), zap.String("database", config.PGName))
		return store, nil
	}

	if debug {
		log.Warn("No store credentials configured, using non-persistent in-memory store")
		return NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("no document store configured: set MONGO_URI or DB_HOST")
}
