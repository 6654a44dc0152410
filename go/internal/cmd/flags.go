package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagValues holds command-line overrides. Only flags the user set are applied.
type flagValues struct {
	configPath string
	port       string
	players    int
	rounds     int
	hardMode   bool
	logLevel   string
	natsURL    string
}

func registerFlags(flags *pflag.FlagSet, v *flagValues) {
	flags.StringVarP(&v.configPath, "config", "c", getEnv("HOLDTIGHT_CONFIG", "holdtight.yaml"), "path to the YAML config file")
	flags.StringVarP(&v.port, "port", "p", "", "HTTP listen port")
	flags.IntVarP(&v.players, "players", "n", 0, "number of players (2-8)")
	flags.IntVarP(&v.rounds, "rounds", "r", 0, "rounds per match, 0 plays until ended")
	flags.BoolVar(&v.hardMode, "hard", false, "use the hard question set")
	flags.StringVar(&v.logLevel, "log-level", "", "zerolog level (debug, info, warn, error)")
	flags.StringVar(&v.natsURL, "nats-url", "", "NATS server to publish events to")
}

// override returns a config override applying every flag that was set.
func (v *flagValues) override(flags *pflag.FlagSet) func(*Config) {
	return func(c *Config) {
		if flags.Changed("port") {
			c.Server.Port = v.port
		}
		if flags.Changed("players") {
			c.Game.Players = v.players
		}
		if flags.Changed("rounds") {
			c.Game.TotalRounds = v.rounds
		}
		if flags.Changed("hard") {
			c.Questions.HardMode = v.hardMode
		}
		if flags.Changed("log-level") {
			c.LogLevel = v.logLevel
		}
		if flags.Changed("nats-url") {
			c.NATS.URL = v.natsURL
		}
	}
}

func newRootCommand() *cobra.Command {
	var values flagValues
	cmd := &cobra.Command{
		Use:           "holdtight",
		Short:         "Hold-and-release timing party game server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig(values.configPath, values.override(cmd.Flags()))
			if err != nil {
				return err
			}
			return run(cmd.Context(), config)
		},
	}
	registerFlags(cmd.Flags(), &values)
	return cmd
}
