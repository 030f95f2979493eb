package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
	LevelCrit = "CRIT"
)

const (
	ColorInfo = 0x00ffcc
	ColorWarn = 0xffaa00
	ColorCrit = 0xff0000
)

// Entry is one moderation log line. Event doubles as the embed title.
type Entry struct {
	GuildID   string
	UserID    string
	Level     string
	Event     string
	Details   string
	CreatedAt time.Time
}

type Logger struct {
	logger *zap.Logger
	notify func(context.Context, Entry)
	now    func() time.Time
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger, now: time.Now}
}

func (l *Logger) SetNotifier(notify func(context.Context, Entry)) {
	l.notify = notify
}

func (l *Logger) Log(ctx context.Context, level, guildID, userID, event, details string) {
	entry := Entry{
		GuildID:   guildID,
		UserID:    userID,
		Level:     level,
		Event:     event,
		Details:   details,
		CreatedAt: l.now(),
	}
	if l.notify != nil {
		l.notify(ctx, entry)
	}
	l.logger.Info("audit", zap.String("level", level), zap.String("guild_id", guildID), zap.String("user_id", userID), zap.String("event", event), zap.String("details", details))
}

func ColorFor(level string) int {
	switch level {
	case LevelCrit:
		return ColorCrit
	case LevelWarn:
		return ColorWarn
	default:
		return ColorInfo
	}
}

// Embed renders entry for the log channel.
func Embed(entry Entry, guildName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       entry.Event,
		Description: entry.Details,
		Color:       ColorFor(entry.Level),
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Servidor: %s • ID: %s", guildName, entry.GuildID)},
		Timestamp:   entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}
