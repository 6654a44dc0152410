package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "NATS_URL", "QUESTION_SOURCE", "QUESTION_FILE", "HARD_MODE", "PLAYERS", "TOTAL_ROUNDS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdtight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	config, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, config.Game.Players)
	assert.Equal(t, 10, config.Game.TotalRounds)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, sourceFile, config.Questions.Source)

	table := config.tableConfig()
	assert.Equal(t, 3, table.Round.CountdownSeconds)
	assert.Equal(t, 35*time.Second, table.Round.Timeout)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
game:
  players: 4
  names: [Ada, Grace]
  total_rounds: 0
  countdown_seconds: 5
  round_timeout_sec: 20
questions:
  source: postgres
  set: office
  hard_set: office_hard
nats:
  url: nats://nats:4222
`)
	t.Setenv("PORT", "9090")
	t.Setenv("HARD_MODE", "true")

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, config.Game.Players)
	assert.Equal(t, []string{"Ada", "Grace"}, config.Game.Names)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "nats://nats:4222", config.NATS.URL)
	assert.Equal(t, "office_hard", config.questionSet())
	assert.Equal(t, "go/internal/assets/questions_hard.json", config.questionFile())

	table := config.tableConfig()
	assert.Equal(t, 0, table.Session.TotalRounds)
	assert.Equal(t, 20*time.Second, table.Round.Timeout)
	assert.Equal(t, 5, table.Round.CountdownSeconds)
}

func TestValidateRejects(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"too many players": "game:\n  players: 9\n",
		"too few players":  "game:\n  players: 1\n",
		"long name":        "game:\n  names: [\"abcdefghijklmnopqrstuvwxyz\"]\n",
		"extra names":      "game:\n  names: [a, b, c]\n",
		"zero countdown":   "game:\n  countdown_seconds: 0\n",
		"zero timeout":     "game:\n  round_timeout_sec: -1\n",
		"bad source":       "questions:\n  source: s3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	clearEnv(t)
	_, err := loadConfig(writeConfig(t, "game: [unclosed"))
	assert.Error(t, err)
}
