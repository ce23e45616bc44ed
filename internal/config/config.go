package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Discord   DiscordConfig
	Redis     RedisConfig
	Targeting TargetingConfig
	Scene     SceneConfig
	Log       LogConfig
}

// DiscordConfig holds Discord-specific configuration. Reminders go to
// Discord only when both fields are set.
type DiscordConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether Discord notifications are configured
func (c DiscordConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

// RedisConfig holds Redis-specific configuration. An empty URL selects the
// in-memory repositories.
type RedisConfig struct {
	URL string
	// InteractionTTL bounds how long an unplaced template prompt is kept
	InteractionTTL time.Duration
}

// TargetingConfig tunes template target capture
type TargetingConfig struct {
	PollInterval   time.Duration
	PollTimeout    time.Duration
	RemoveTemplate bool
	ExcludeCaster  bool
}

// SceneConfig tunes the reference scene
type SceneConfig struct {
	// RenderDelay simulates the host rendering highlights asynchronously
	RenderDelay time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Discord: DiscordConfig{
			Token:     os.Getenv("DISCORD_TOKEN"),
			ChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		},
		Redis: RedisConfig{
			URL:            os.Getenv("REDIS_URL"),
			InteractionTTL: getEnvAsDurationOrDefault("INTERACTION_TTL", 10*time.Minute),
		},
		Targeting: TargetingConfig{
			PollInterval:   getEnvAsDurationOrDefault("TARGETING_POLL_INTERVAL", 20*time.Millisecond),
			PollTimeout:    getEnvAsDurationOrDefault("TARGETING_POLL_TIMEOUT", time.Second),
			RemoveTemplate: getEnvAsBoolOrDefault("TARGETING_REMOVE_TEMPLATE", false),
			ExcludeCaster:  getEnvAsBoolOrDefault("TARGETING_EXCLUDE_CASTER", false),
		},
		Scene: SceneConfig{
			RenderDelay: getEnvAsDurationOrDefault("SCENE_RENDER_DELAY", 0),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
		},
	}

	if cfg.Discord.Token != "" && cfg.Discord.ChannelID == "" {
		return nil, fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	if cfg.Targeting.PollInterval <= 0 {
		return nil, fmt.Errorf("TARGETING_POLL_INTERVAL must be positive")
	}
	if cfg.Targeting.PollTimeout < cfg.Targeting.PollInterval {
		return nil, fmt.Errorf("TARGETING_POLL_TIMEOUT must not be shorter than TARGETING_POLL_INTERVAL")
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.Log.Format)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// Durations accept Go syntax ("250ms") or a bare number of milliseconds
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
