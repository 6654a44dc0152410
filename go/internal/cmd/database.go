package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/holdtight/go/internal/dbconfig"
	"github.com/rs/zerolog/log"
)

func setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	dbConfig := dbconfig.NewConfigFromEnv()

	pool, err := dbConfig.Connect(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user", dbConfig.User).
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("connected to database")
	return pool, nil
}
