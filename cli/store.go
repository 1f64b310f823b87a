package cli

import (
	"context"
	"fmt"

	"secondbrain/config"
	"secondbrain/config/database"
	"secondbrain/internal/knowledge/repository"
	"secondbrain/pkg/logger"
)

// openStore connects the configured backend. The returned close func releases it.
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.NoteRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresRepository(db), func() { db.Close() }, nil

	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Sugar.Errorf("Failed to disconnect from MongoDB: %v", err)
			}
		}
		return repository.NewMongoRepository(db), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
