package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultSuperuserID is the account exempt from confirmation gates and
// lockdown bans.
const DefaultSuperuserID = "1382693027600007200"

type Config struct {
	DiscordToken       string        `yaml:"discord_token"`
	LogLevel           string        `yaml:"log_level"`
	CommandPrefix      string        `yaml:"command_prefix"`
	LogChannelID       string        `yaml:"log_channel_id"`
	LogChannelName     string        `yaml:"log_channel_name"`
	StaffRoleName      string        `yaml:"staff_role_name"`
	SuperuserID        string        `yaml:"superuser_id"`
	TicketMessagesPath string        `yaml:"ticket_messages_path"`
	WarnsPath          string        `yaml:"warns_path"`
	Health             HealthConfig  `yaml:"health"`
	Spam               WindowConfig  `yaml:"spam"`
	Nuke               WindowConfig  `yaml:"nuke"`
	NewBot             NewBotConfig  `yaml:"new_bot"`
	Confirm            ConfirmConfig `yaml:"confirm"`
	Social             SocialConfig  `yaml:"social"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// WindowConfig triggers once Limit events land inside WindowSeconds.
type WindowConfig struct {
	Limit         int `yaml:"limit"`
	WindowSeconds int `yaml:"window_seconds"`
}

func (w WindowConfig) Window() time.Duration {
	return time.Duration(w.WindowSeconds) * time.Second
}

type NewBotConfig struct {
	WatchSeconds int `yaml:"watch_seconds"`
}

func (n NewBotConfig) Watch() time.Duration {
	return time.Duration(n.WatchSeconds) * time.Second
}

type ConfirmConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

func (c ConfirmConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SocialConfig throttles the fun commands per user.
type SocialConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:           "info",
		CommandPrefix:      "!",
		LogChannelName:     "logs-bot",
		StaffRoleName:      "Staff",
		SuperuserID:        DefaultSuperuserID,
		TicketMessagesPath: "ticket_messages.json",
		WarnsPath:          "warns.json",
		Health:             HealthConfig{Enabled: false, Addr: ":8080"},
		Spam:               WindowConfig{Limit: 6, WindowSeconds: 4},
		Nuke:               WindowConfig{Limit: 2, WindowSeconds: 8},
		NewBot:             NewBotConfig{WatchSeconds: 120},
		Confirm:            ConfirmConfig{TimeoutSeconds: 10},
		Social:             SocialConfig{PerSecond: 0.5, Burst: 3},
	}
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	// A missing .env is fine; the process env still applies.
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}
	normalize(&cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("BOT_TOKEN", cfg.DiscordToken)
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.CommandPrefix = envString("COMMAND_PREFIX", cfg.CommandPrefix)
	cfg.LogChannelID = envString("LOG_CHANNEL_ID", cfg.LogChannelID)
	cfg.LogChannelName = envString("LOG_CHANNEL_NAME", cfg.LogChannelName)
	cfg.StaffRoleName = envString("STAFF_ROLE_NAME", cfg.StaffRoleName)
	cfg.SuperuserID = envString("SUPERUSER_ID", cfg.SuperuserID)
	cfg.TicketMessagesPath = envString("TICKET_MESSAGES_PATH", cfg.TicketMessagesPath)
	cfg.WarnsPath = envString("WARNS_PATH", cfg.WarnsPath)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
	cfg.Spam.Limit = envInt("SPAM_MESSAGES", cfg.Spam.Limit)
	cfg.Spam.WindowSeconds = envInt("SPAM_WINDOW_SECONDS", cfg.Spam.WindowSeconds)
	cfg.Nuke.Limit = envInt("NUKE_DELETES", cfg.Nuke.Limit)
	cfg.Nuke.WindowSeconds = envInt("NUKE_WINDOW_SECONDS", cfg.Nuke.WindowSeconds)
	cfg.NewBot.WatchSeconds = envInt("NEW_BOT_WATCH_SECONDS", cfg.NewBot.WatchSeconds)
	cfg.Confirm.TimeoutSeconds = envInt("CONFIRM_TIMEOUT_SECONDS", cfg.Confirm.TimeoutSeconds)
}

// normalize restores defaults for values that would disable a safeguard.
func normalize(cfg *Config) {
	defaults := DefaultConfig()
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = defaults.CommandPrefix
	}
	if cfg.Spam.Limit <= 0 || cfg.Spam.WindowSeconds <= 0 {
		cfg.Spam = defaults.Spam
	}
	if cfg.Nuke.Limit <= 0 || cfg.Nuke.WindowSeconds <= 0 {
		cfg.Nuke = defaults.Nuke
	}
	if cfg.NewBot.WatchSeconds <= 0 {
		cfg.NewBot = defaults.NewBot
	}
	if cfg.Confirm.TimeoutSeconds <= 0 {
		cfg.Confirm = defaults.Confirm
	}
	if cfg.Social.PerSecond <= 0 || cfg.Social.Burst <= 0 {
		cfg.Social = defaults.Social
	}
	cfg.LogChannelName = strings.TrimSpace(cfg.LogChannelName)
	if cfg.LogChannelName == "" {
		cfg.LogChannelName = defaults.LogChannelName
	}
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(strings.ToLower(level)))

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}
