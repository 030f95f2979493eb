package antibot

import (
	"context"
	"fmt"
	"time"

	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/monitoring"
	"femb-paradise/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const banReason = "Bot malicioso detectado (auto)"

type Banner interface {
	Ban(guildID, userID, reason string) error
}

// Module bans bot accounts that start talking right after they join.
type Module struct {
	watch  *utils.JoinWatch
	banner Banner
	audit  *audit.Logger
	logger *zap.Logger
}

func New(watch time.Duration, banner Banner, auditLogger *audit.Logger, logger *zap.Logger) *Module {
	return &Module{
		watch:  utils.NewJoinWatch(watch),
		banner: banner,
		audit:  auditLogger,
		logger: logger,
	}
}

func (m *Module) HandleJoin(member *discordgo.Member, at time.Time) {
	if member == nil || member.User == nil || !member.User.Bot {
		return
	}
	m.watch.Mark(member.User.ID, at)
}

// HandleMessage bans the author when it is a watched bot still inside its
// watch window. It reports whether a ban was attempted.
func (m *Module) HandleMessage(ctx context.Context, msg *discordgo.Message, at time.Time) bool {
	if msg == nil || msg.Author == nil || msg.GuildID == "" {
		return false
	}
	if !m.watch.Within(msg.Author.ID, at) {
		return false
	}
	if err := m.banner.Ban(msg.GuildID, msg.Author.ID, banReason); err != nil {
		m.logger.Error("malicious bot ban failed", zap.String("guild_id", msg.GuildID), zap.String("user_id", msg.Author.ID), zap.Error(err))
		return true
	}
	monitoring.BotBans.Inc()
	m.audit.Log(ctx, audit.LevelCrit, msg.GuildID, msg.Author.ID, "Bot malicioso baneado",
		fmt.Sprintf("%s fue baneado automáticamente (%s)", msg.Author.Username, msg.Author.ID))
	return true
}

func (m *Module) Watched() int {
	return m.watch.Len()
}
