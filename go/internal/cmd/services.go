package main

import (
	"context"
	"fmt"

	"github.com/mcdev12/holdtight/go/internal/events"
	"github.com/mcdev12/holdtight/go/internal/game"
	"github.com/mcdev12/holdtight/go/internal/gateway"
	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/mcdev12/holdtight/go/internal/publish"
	"github.com/mcdev12/holdtight/go/internal/questions"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Table       *game.Table
	Connections *gateway.ConnectionManager
	Stats       *publish.StatsPublisher

	closers []func()
}

// Close releases connections opened during setup.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func loadQuestions(ctx context.Context, config *Config) ([]models.Question, error) {
	var source questions.Source
	switch config.Questions.Source {
	case sourcePostgres:
		pool, err := setupDatabase(ctx)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		source = questions.NewPostgresSource(pool, config.questionSet())
	default:
		source = questions.FileSource{Path: config.questionFile()}
	}

	pool, err := source.Questions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	log.Info().
		Str("source", config.Questions.Source).
		Bool("hard_mode", config.Questions.HardMode).
		Int("questions", len(pool)).
		Int("valid", questions.CountValid(pool)).
		Msg("questions loaded")
	return pool, nil
}

func setupServices(ctx context.Context, config *Config) (*Services, error) {
	// Question source → table → publishers → gateway
	pool, err := loadQuestions(ctx, config)
	if err != nil {
		return nil, err
	}

	services := &Services{}
	fanout := publish.Fanout{publish.LogPublisher{}}

	if config.NATS.URL != "" {
		nc, err := publish.Connect(config.NATS.URL)
		if err != nil {
			return nil, err
		}
		services.closers = append(services.closers, func() {
			if err := nc.Drain(); err != nil {
				log.Error().Err(err).Msg("failed to drain NATS connection")
			}
		})
		fanout = append(fanout, publish.NewNATSPublisher(nc, config.NATS.Subject))
		log.Info().Str("url", nc.ConnectedUrl()).Str("subject", config.NATS.Subject).Msg("publishing events to NATS")
	} else {
		log.Info().Msg("NATS_URL not set, events stay in process")
	}

	// The table publishes to the manager, which is built from the table below.
	// Nothing is published before Start.
	var connections *gateway.ConnectionManager
	fanout = append(fanout, publish.Func(func(ctx context.Context, event *events.Event) error {
		return connections.Publish(ctx, event)
	}))
	services.Stats = publish.NewStatsPublisher(fanout)

	table, err := game.NewTable(config.tableConfig(), pool, game.WithPublisher(services.Stats))
	if err != nil {
		services.Close()
		return nil, err
	}
	connections = gateway.NewConnectionManager(table, gateway.DefaultConnectionConfig())

	services.Table = table
	services.Connections = connections
	return services, nil
}
