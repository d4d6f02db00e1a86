// Package config loads application configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full bot configuration. A malformed or incomplete file is
// a fatal startup error.
type Config struct {
	Matrix   MatrixConfig      `yaml:"matrix"`
	Bot      BotConfig         `yaml:"bot"`
	GitHub   GitHubConfig      `yaml:"github"`
	MSC      MSCConfig         `yaml:"msc"`
	News     NewsConfig        `yaml:"news"`
	Logging  LoggingConfig     `yaml:"logging"`
	MatrixID map[string]string `yaml:"user_ids"` // GitHub login -> Matrix user ID for mentions.
}

// MatrixConfig configures the chat transport.
type MatrixConfig struct {
	HomeserverURL string        `yaml:"homeserver_url"`
	UserID        string        `yaml:"user_id"`
	Token         string        `yaml:"token"`
	MessageType   string        `yaml:"message_type"`  // "m.notice" (default) or "m.text".
	SyncInterval  time.Duration `yaml:"sync_interval"` // Pause between sync passes.
}

// BotConfig configures command handling and the daily summary.
type BotConfig struct {
	CommandName      string        `yaml:"command"`            // Messages addressed "<command>:" are commands.
	DataFilepath     string        `yaml:"data_filepath"`      // Room-settings snapshot file.
	DailySummaryTime string        `yaml:"daily_summary_time"` // Default "HH:MM" UTC trigger.
	TickInterval     time.Duration `yaml:"tick_interval"`      // Scheduler due-check granularity.
}

// GitHubConfig configures the issue tracker.
type GitHubConfig struct {
	Token string `yaml:"token"`
	Repo  string `yaml:"repo"` // "owner/name".
}

// MSCConfig configures proposal-lifecycle parameters.
type MSCConfig struct {
	FCPLengthDays int    `yaml:"fcp_length"`    // Final comment period length in days.
	FCPBotUser    string `yaml:"fcp_bot_user"`  // Login whose comments mark FCP starts.
	ReviewFeedURL string `yaml:"review_feed_url"`
}

// NewsConfig configures the news digest.
type NewsConfig struct {
	AnnouncementFeedURL string `yaml:"announcement_feed_url"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level   string `yaml:"level"`   // "debug" or "info" (default).
	Logfile string `yaml:"logfile"` // Empty means stderr.
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// defaults returns a Config pre-filled with every optional value.
func defaults() *Config {
	return &Config{
		Matrix: MatrixConfig{
			MessageType:  "m.notice",
			SyncInterval: 3 * time.Second,
		},
		Bot: BotConfig{
			CommandName:      "mscbot",
			DataFilepath:     "room_data.json",
			DailySummaryTime: "09:00",
			TickInterval:     30 * time.Second,
		},
		MSC: MSCConfig{
			FCPLengthDays: 5,
			FCPBotUser:    "mscbot",
		},
	}
}

func (c *Config) validate() error {
	required := []struct {
		value string
		name  string
	}{
		{c.Matrix.HomeserverURL, "matrix.homeserver_url"},
		{c.Matrix.UserID, "matrix.user_id"},
		{c.Matrix.Token, "matrix.token"},
		{c.GitHub.Token, "github.token"},
		{c.GitHub.Repo, "github.repo"},
		{c.MSC.ReviewFeedURL, "msc.review_feed_url"},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	if _, err := time.Parse("15:04", c.Bot.DailySummaryTime); err != nil {
		return fmt.Errorf("bot.daily_summary_time %q is not a valid HH:MM time", c.Bot.DailySummaryTime)
	}
	if c.MSC.FCPLengthDays <= 0 {
		return fmt.Errorf("msc.fcp_length must be positive, got %d", c.MSC.FCPLengthDays)
	}
	if c.Bot.TickInterval <= 0 {
		return fmt.Errorf("bot.tick_interval must be positive, got %s", c.Bot.TickInterval)
	}

	return nil
}
