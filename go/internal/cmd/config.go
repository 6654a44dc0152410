package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/mcdev12/holdtight/go/internal/game"
	"github.com/mcdev12/holdtight/go/internal/game/round"
	"github.com/mcdev12/holdtight/go/internal/game/session"
	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/mcdev12/holdtight/go/internal/publish"
	"gopkg.in/yaml.v3"
)

const (
	sourceFile     = "file"
	sourcePostgres = "postgres"
)

type Config struct {
	Game struct {
		Players          int      `yaml:"players"`
		Names            []string `yaml:"names"`
		TotalRounds      int      `yaml:"total_rounds"` // 0 plays until stopped
		CountdownSeconds int      `yaml:"countdown_seconds"`
		RoundTimeoutSec  int      `yaml:"round_timeout_sec"`
	} `yaml:"game"`
	Questions struct {
		Source   string `yaml:"source"`
		File     string `yaml:"file"`
		HardFile string `yaml:"hard_file"`
		HardMode bool   `yaml:"hard_mode"`
		Set      string `yaml:"set"`
		HardSet  string `yaml:"hard_set"`
	} `yaml:"questions"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	NATS struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() *Config {
	var c Config
	c.Game.Players = 2
	c.Game.TotalRounds = 10
	c.Game.CountdownSeconds = 3
	c.Game.RoundTimeoutSec = int(round.DefaultTimeout / time.Second)
	c.Questions.Source = sourceFile
	c.Questions.File = "go/internal/assets/questions.json"
	c.Questions.HardFile = "go/internal/assets/questions_hard.json"
	c.Questions.Set = "default"
	c.Questions.HardSet = "hard"
	c.Server.Port = "8080"
	c.NATS.Subject = publish.DefaultSubjectPrefix
	c.LogLevel = "info"
	return &c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// loadConfig reads path over the defaults, then applies environment
// overrides and finally any caller overrides. A missing file is not an error.
func loadConfig(path string, overrides ...func(*Config)) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.applyEnv()
	for _, override := range overrides {
		override(config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.Questions.Source = getEnv("QUESTION_SOURCE", c.Questions.Source)
	c.Questions.File = getEnv("QUESTION_FILE", c.Questions.File)
	c.Questions.HardMode = getEnvAsBool("HARD_MODE", c.Questions.HardMode)
	c.Game.Players = getEnvAsInt("PLAYERS", c.Game.Players)
	c.Game.TotalRounds = getEnvAsInt("TOTAL_ROUNDS", c.Game.TotalRounds)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate rejects settings a table could not run with.
func (c *Config) Validate() error {
	if c.Game.Players < models.MinPlayers || c.Game.Players > models.MaxPlayers {
		return fmt.Errorf("game.players must be between %d and %d, got %d", models.MinPlayers, models.MaxPlayers, c.Game.Players)
	}
	if len(c.Game.Names) > c.Game.Players {
		return fmt.Errorf("game.names has %d entries for %d players", len(c.Game.Names), c.Game.Players)
	}
	for i, name := range c.Game.Names {
		if utf8.RuneCountInString(name) > models.MaxNameLength {
			return fmt.Errorf("game.names[%d] is longer than %d characters", i, models.MaxNameLength)
		}
	}
	if c.Game.TotalRounds < 0 {
		return fmt.Errorf("game.total_rounds must not be negative")
	}
	if c.Game.CountdownSeconds <= 0 {
		return fmt.Errorf("game.countdown_seconds must be positive")
	}
	if c.Game.RoundTimeoutSec <= 0 {
		return fmt.Errorf("game.round_timeout_sec must be positive")
	}
	switch c.Questions.Source {
	case sourceFile, sourcePostgres:
	default:
		return fmt.Errorf("questions.source must be %q or %q, got %q", sourceFile, sourcePostgres, c.Questions.Source)
	}
	return nil
}

// questionFile returns the file to load, honoring hard mode.
func (c *Config) questionFile() string {
	if c.Questions.HardMode && c.Questions.HardFile != "" {
		return c.Questions.HardFile
	}
	return c.Questions.File
}

// questionSet returns the Postgres set to load, honoring hard mode.
func (c *Config) questionSet() string {
	if c.Questions.HardMode && c.Questions.HardSet != "" {
		return c.Questions.HardSet
	}
	return c.Questions.Set
}

func (c *Config) tableConfig() game.Config {
	return game.Config{
		Session: session.Config{
			PlayerCount: c.Game.Players,
			Names:       c.Game.Names,
			TotalRounds: c.Game.TotalRounds,
		},
		Round: round.Config{
			CountdownSeconds: c.Game.CountdownSeconds,
			CountdownTick:    time.Second,
			Timeout:          time.Duration(c.Game.RoundTimeoutSec) * time.Second,
		},
	}
}
