package antispam

import (
	"context"
	"fmt"
	"time"

	"femb-paradise/internal/config"
	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/monitoring"
	"femb-paradise/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Muter interface {
	Mute(guildID, userID string) error
}

type Notifier interface {
	SendMessage(channelID, content string) (*discordgo.Message, error)
}

// Module mutes authors who post too many messages inside the spam window.
// Every message past the limit grants the role again.
type Module struct {
	tracker  *utils.WindowTracker
	limit    int
	muter    Muter
	notifier Notifier
	audit    *audit.Logger
	logger   *zap.Logger
}

func New(cfg config.WindowConfig, muter Muter, notifier Notifier, auditLogger *audit.Logger, logger *zap.Logger) *Module {
	return &Module{
		tracker:  utils.NewWindowTracker(cfg.Window()),
		limit:    cfg.Limit,
		muter:    muter,
		notifier: notifier,
		audit:    auditLogger,
		logger:   logger,
	}
}

// HandleMessage records the message and mutes its author when the limit is
// reached. It reports whether the limit was reached.
func (m *Module) HandleMessage(ctx context.Context, msg *discordgo.Message, now time.Time) bool {
	if msg == nil || msg.Author == nil || msg.GuildID == "" {
		return false
	}
	key := msg.GuildID + ":" + msg.Author.ID
	count := m.tracker.Record(key, now)
	if count < m.limit {
		return false
	}

	if err := m.muter.Mute(msg.GuildID, msg.Author.ID); err != nil {
		m.logger.Error("spam mute failed", zap.String("guild_id", msg.GuildID), zap.String("user_id", msg.Author.ID), zap.Error(err))
		return true
	}
	monitoring.SpamMutes.Inc()

	notice := fmt.Sprintf("🚫 **<@%s> muteado por spam!** (AutoMod)", msg.Author.ID)
	if _, err := m.notifier.SendMessage(msg.ChannelID, notice); err != nil {
		m.logger.Warn("spam notice failed", zap.String("channel_id", msg.ChannelID), zap.Error(err))
	}
	details := fmt.Sprintf("%s muteado por spam (detected %d msgs en %ds).", msg.Author.Username, count, int(m.tracker.Window().Seconds()))
	m.audit.Log(ctx, audit.LevelWarn, msg.GuildID, msg.Author.ID, "AutoMute por spam", details)
	return true
}
