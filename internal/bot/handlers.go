package bot

import (
	"context"

	"femb-paradise/internal/monitoring"
	"femb-paradise/internal/tickets"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// recoverEvent keeps one bad event from taking the process down.
func (b *Bot) recoverEvent(event string) {
	if r := recover(); r != nil {
		b.logger.Error("event handler panic", zap.String("event", event), zap.Any("panic", r), zap.Stack("stack"))
	}
}

func (b *Bot) onReady(session *discordgo.Session, ready *discordgo.Ready) {
	defer b.recoverEvent("ready")
	monitoring.DiscordEvents.WithLabelValues("ready").Inc()

	b.logger.Info("bot ready", zap.String("user", ready.User.Username), zap.String("user_id", ready.User.ID), zap.Int("guilds", len(ready.Guilds)))
	if err := session.UpdateGameStatus(0, presence); err != nil {
		b.logger.Warn("presence update failed", zap.Error(err))
	}
}

func (b *Bot) onMessageCreate(_ *discordgo.Session, event *discordgo.MessageCreate) {
	defer b.recoverEvent("message_create")
	monitoring.DiscordEvents.WithLabelValues("message_create").Inc()
	b.handleMessage(b.ctx, event.Message)
}

func (b *Bot) onMessageReactionAdd(_ *discordgo.Session, event *discordgo.MessageReactionAdd) {
	defer b.recoverEvent("reaction_add")
	monitoring.DiscordEvents.WithLabelValues("reaction_add").Inc()
	b.handleReaction(b.ctx, event.MessageReaction)
}

func (b *Bot) onChannelDelete(_ *discordgo.Session, event *discordgo.ChannelDelete) {
	defer b.recoverEvent("channel_delete")
	monitoring.DiscordEvents.WithLabelValues("channel_delete").Inc()
	if event.Channel == nil || event.GuildID == "" {
		return
	}
	b.antinuke.HandleChannelDelete(b.ctx, event.GuildID, event.ID, b.now())
}

func (b *Bot) onGuildMemberAdd(_ *discordgo.Session, event *discordgo.GuildMemberAdd) {
	defer b.recoverEvent("member_add")
	monitoring.DiscordEvents.WithLabelValues("member_add").Inc()
	if event.Member == nil {
		return
	}
	b.antibot.HandleJoin(event.Member, b.now())
}

// handleMessage runs automod before commands. Bot authors only feed the
// new-bot watch.
func (b *Bot) handleMessage(ctx context.Context, msg *discordgo.Message) {
	if msg == nil || msg.Author == nil || msg.GuildID == "" {
		return
	}
	now := b.now()
	if msg.Author.Bot {
		b.antibot.HandleMessage(ctx, msg, now)
		return
	}
	b.antispam.HandleMessage(ctx, msg, now)
	b.dispatch(ctx, msg)
}

// handleReaction offers the reaction to a pending confirmation first, then
// to the ticket prompts.
func (b *Bot) handleReaction(ctx context.Context, r *discordgo.MessageReaction) {
	if r == nil || r.UserID == b.platform.BotUserID() {
		return
	}
	if b.gate.HandleReaction(r.MessageID, r.UserID, r.Emoji.Name, b.now()) {
		return
	}
	if r.GuildID == "" {
		return
	}

	reaction := tickets.Reaction{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.Name,
		Bot:       r.Member != nil && r.Member.User != nil && r.Member.User.Bot,
	}
	channel, decision, err := b.tickets.HandleReaction(ctx, reaction)
	if err != nil {
		b.logger.Error("ticket open failed", zap.String("guild_id", r.GuildID), zap.String("user_id", r.UserID), zap.String("template", decision.TemplateID), zap.Error(err))
		return
	}
	if channel != nil {
		b.logger.Info("ticket opened", zap.String("guild_id", r.GuildID), zap.String("channel_id", channel.ID), zap.String("template", decision.TemplateID))
	}
}
