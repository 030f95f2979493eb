package antinuke

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"femb-paradise/internal/config"
	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/monitoring"
	"femb-paradise/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// StrippedPermissions are removed from every role on lockdown.
const StrippedPermissions = discordgo.PermissionManageChannels | discordgo.PermissionManageRoles | discordgo.PermissionAdministrator

const banReason = "Ataque detectado — Anti-Nuke"

type Platform interface {
	BotUserID() string
	AuditActor(guildID string, action discordgo.AuditLogAction, targetID string) (string, error)
	Roles(guildID string) ([]*discordgo.Role, error)
	EditRolePermissions(guildID, roleID string, permissions int64) error
	Ban(guildID, userID, reason string) error
	SendMessage(channelID, content string) (*discordgo.Message, error)
}

// Report describes one lockdown run.
type Report struct {
	GuildID string
	ActorID string
	Roles   utils.Results
	Banned  bool
	BanErr  error
}

// Module watches channel deletions and locks the server down once per
// process when a single actor deletes too many channels too fast.
type Module struct {
	tracker     *utils.WindowTracker
	limit       int
	platform    Platform
	protectedID string
	logChannel  func(guildID string) string
	audit       *audit.Logger
	logger      *zap.Logger

	latched atomic.Bool
}

func New(cfg config.WindowConfig, platform Platform, protectedID string, logChannel func(guildID string) string, auditLogger *audit.Logger, logger *zap.Logger) *Module {
	return &Module{
		tracker:     utils.NewWindowTracker(cfg.Window()),
		limit:       cfg.Limit,
		platform:    platform,
		protectedID: protectedID,
		logChannel:  logChannel,
		audit:       auditLogger,
		logger:      logger,
	}
}

// Latched reports whether lockdown has already fired.
func (m *Module) Latched() bool {
	return m.latched.Load()
}

// HandleChannelDelete attributes the deletion and runs lockdown when the
// actor crosses the limit. The report is nil when nothing fired.
func (m *Module) HandleChannelDelete(ctx context.Context, guildID, channelID string, now time.Time) *Report {
	actorID, err := m.platform.AuditActor(guildID, discordgo.AuditLogActionChannelDelete, channelID)
	if err != nil {
		m.logger.Debug("audit actor unavailable", zap.String("guild_id", guildID), zap.Error(err))
		return nil
	}
	if actorID == "" || actorID == m.platform.BotUserID() || actorID == m.protectedID {
		return nil
	}

	count := m.tracker.Record(guildID+":"+actorID, now)
	if count < m.limit {
		return nil
	}
	if !m.latched.CompareAndSwap(false, true) {
		return nil
	}
	return m.lockdown(ctx, guildID, actorID, count)
}

func (m *Module) lockdown(ctx context.Context, guildID, actorID string, count int) *Report {
	monitoring.Lockdowns.Inc()
	report := &Report{GuildID: guildID, ActorID: actorID}

	roles, err := m.platform.Roles(guildID)
	if err != nil {
		m.logger.Error("lockdown role listing failed", zap.String("guild_id", guildID), zap.Error(err))
	}
	for _, role := range roles {
		if role == nil {
			continue
		}
		if role.Permissions&StrippedPermissions == 0 {
			continue
		}
		err := m.platform.EditRolePermissions(guildID, role.ID, role.Permissions&^StrippedPermissions)
		report.Roles.Add(role.ID, role.Name, err)
	}
	report.Roles.Log(m.logger, "lockdown role edits", zap.String("guild_id", guildID), zap.String("actor_id", actorID))

	if actorID != m.protectedID {
		if err := m.platform.Ban(guildID, actorID, banReason); err != nil {
			report.BanErr = err
			m.logger.Error("lockdown ban failed", zap.String("guild_id", guildID), zap.String("actor_id", actorID), zap.Error(err))
		} else {
			report.Banned = true
		}
	}

	details := fmt.Sprintf("actor=%s deletes=%d roles=%s banned=%t", actorID, count, report.Roles.Summary(), report.Banned)
	m.audit.Log(ctx, audit.LevelCrit, guildID, actorID, "Anti-Nuke activado", details)

	if channelID := m.logChannel(guildID); channelID != "" {
		alert := fmt.Sprintf("🚨 **ANTI–NUKE ACTIVADO** 🚨\nUsuario detectado: <@%s> (`%s`)\nSe removieron permisos críticos y se bloqueó el servidor.", actorID, actorID)
		if _, err := m.platform.SendMessage(channelID, alert); err != nil {
			m.logger.Warn("lockdown alert failed", zap.String("channel_id", channelID), zap.Error(err))
		}
	}
	return report
}
