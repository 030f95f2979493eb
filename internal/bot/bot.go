package bot

import (
	"context"
	"strings"
	"time"

	"femb-paradise/internal/config"
	"femb-paradise/internal/confirm"
	"femb-paradise/internal/layout"
	"femb-paradise/internal/modules/antibot"
	"femb-paradise/internal/modules/antinuke"
	"femb-paradise/internal/modules/antispam"
	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/modules/moderation"
	"femb-paradise/internal/naming"
	"femb-paradise/internal/platform"
	"femb-paradise/internal/storage"
	"femb-paradise/internal/tickets"
	"femb-paradise/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const presence = "Preparando Femb-Paradise"

// Stores are the JSON files the bot reads and writes.
type Stores struct {
	TicketMessages *storage.TicketMessages
	Warns          *storage.Warns
}

type Bot struct {
	cfg      config.Config
	logger   *zap.Logger
	session  *discordgo.Session
	discord  *platform.Discord
	platform platform.Platform
	stores   Stores

	audit    *audit.Logger
	tickets  *tickets.Engine
	gate     *confirm.Gate
	layout   *layout.Builder
	muter    *moderation.Muter
	antispam *antispam.Module
	antinuke *antinuke.Module
	antibot  *antibot.Module
	social   *utils.KeyedLimiter
	commands map[string]command

	ctx       context.Context
	cancel    context.CancelFunc
	now       func() time.Time
	randIntN  func(n int) int
	startedAt time.Time
}

func New(cfg config.Config, logger *zap.Logger, stores Stores) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	discord := platform.NewDiscord(session)
	b := assemble(cfg, logger, discord, stores)
	b.session = session
	b.discord = discord
	return b, nil
}

// assemble wires every component around p. It performs no network calls.
func assemble(cfg config.Config, logger *zap.Logger, p platform.Platform, stores Stores) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	auditLogger := audit.NewLogger(logger)

	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		platform:  p,
		stores:    stores,
		audit:     auditLogger,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
		randIntN:  defaultRandIntN,
		startedAt: time.Now(),
	}

	b.muter = moderation.NewMuter(p, logger)
	b.tickets = tickets.NewEngine(p, stores.TicketMessages, tickets.Options{
		StaffRoleName: cfg.StaffRoleName,
		SuperuserID:   cfg.SuperuserID,
		CommandPrefix: cfg.CommandPrefix,
	}, auditLogger, logger)
	b.gate = confirm.New(p, cfg.Confirm.Timeout(), cfg.SuperuserID, logger)
	b.layout = layout.NewBuilder(p, b.tickets, logger)
	b.antispam = antispam.New(cfg.Spam, b.muter, p, auditLogger, logger)
	b.antinuke = antinuke.New(cfg.Nuke, p, cfg.SuperuserID, b.logChannelID, auditLogger, logger)
	b.antibot = antibot.New(cfg.NewBot.Watch(), p, auditLogger, logger)
	b.social = utils.NewKeyedLimiter(cfg.Social.PerSecond, cfg.Social.Burst)
	b.commands = commandTable()

	auditLogger.SetNotifier(b.notifyAudit)
	return b
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onMessageReactionAdd)
	b.session.AddHandler(b.onChannelDelete)
	b.session.AddHandler(b.onGuildMemberAdd)

	return b.session.Open()
}

// Ready reports whether the gateway session is up.
func (b *Bot) Ready() bool {
	return b.discord != nil && b.discord.Ready()
}

func (b *Bot) Close(context.Context) {
	b.cancel()
	if b.session != nil {
		_ = b.session.Close()
	}
}

// logChannelID resolves the moderation log channel: the configured id when
// it belongs to the guild, otherwise a text channel whose normalized name
// matches the configured name.
func (b *Bot) logChannelID(guildID string) string {
	if id := b.cfg.LogChannelID; id != "" {
		if channel, err := b.platform.Channel(id); err == nil && channel.GuildID == guildID {
			return id
		}
	}
	if b.cfg.LogChannelName == "" {
		return ""
	}
	channels, err := b.platform.GuildChannels(guildID)
	if err != nil {
		b.logger.Warn("log channel lookup failed", zap.String("guild_id", guildID), zap.Error(err))
		return ""
	}
	want := naming.Normalize(b.cfg.LogChannelName)
	for _, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		if channel.Name == b.cfg.LogChannelName || strings.Contains(naming.Normalize(naming.StripDecor(channel.Name)), want) {
			return channel.ID
		}
	}
	return ""
}

func (b *Bot) notifyAudit(_ context.Context, entry audit.Entry) {
	channelID := b.logChannelID(entry.GuildID)
	if channelID == "" {
		return
	}
	guildName := entry.GuildID
	if guild, err := b.platform.Guild(entry.GuildID); err == nil {
		guildName = guild.Name
	}
	if _, err := b.platform.SendEmbed(channelID, audit.Embed(entry, guildName)); err != nil {
		b.logger.Warn("audit notify failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}

// sendLog mirrors an embed to the log channel when one exists.
func (b *Bot) sendLog(guildID string, embed *discordgo.MessageEmbed) {
	channelID := b.logChannelID(guildID)
	if channelID == "" {
		return
	}
	if _, err := b.platform.SendEmbed(channelID, embed); err != nil {
		b.logger.Warn("log embed failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}
