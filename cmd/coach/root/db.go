package root

import (
	"context"
	"database/sql"
	"os"

	"growthcoach/internal/config"
	"growthcoach/internal/engine"
	"growthcoach/internal/storage"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	tuning := config.Default()
	if path := os.Getenv("COACH_TUNING"); path != "" {
		tuning, err = config.LoadFile(path)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return engine.NewServiceWithTuning(db, tuning), cleanup, nil
}
