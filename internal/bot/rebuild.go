package bot

import (
	"context"
	"fmt"

	"femb-paradise/internal/confirm"
	"femb-paradise/internal/modules/audit"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	logChannelTopic  = "Canal de logs del bot"
	progressStarted  = "🔧 Iniciando reconstrucción del servidor... Esto puede tardar unos segundos."
	progressFinished = "✅ Reconstrucción completa. Estructura creada correctamente."
)

// cmdRebuild wipes every channel except the log channel and recreates the
// server structure. Everyone but the superuser must confirm first.
func (b *Bot) cmdRebuild(c *commandContext) error {
	guild, err := b.platform.Guild(c.guildID)
	if err != nil {
		return fmt.Errorf("load guild: %w", err)
	}

	prompt := &discordgo.MessageEmbed{
		Title: "Confirmación requerida",
		Description: fmt.Sprintf("Has solicitado reconstruir completamente el servidor **%s**.\n"+
			"Esto **ELIMINARÁ TODOS LOS CANALES** actuales y creará una nueva estructura.\n\n"+
			"Si estás seguro, reacciona con %s en los próximos %d segundos.", guild.Name, confirm.Emoji, int(b.cfg.Confirm.Timeout().Seconds())),
		Color: confirm.PromptColor,
	}
	outcome, err := b.gate.Confirm(c.ctx, c.channelID, c.author.ID, prompt)
	if err != nil {
		return fmt.Errorf("confirmation: %w", err)
	}
	if !outcome.Proceed() {
		b.gate.NotifyTimeout(b.ctx, c.channelID)
		return nil
	}

	logger := b.logger.With(zap.String("run_id", uuid.NewString()), zap.String("guild_id", c.guildID), zap.String("user_id", c.author.ID))
	logger.Info("rebuild started", zap.Stringer("confirmation", outcome))

	logChannelID := b.ensureLogChannel(c.guildID, logger)
	progress := b.startProgress(c.author.ID, logChannelID, logger)

	if err := b.rebuild(c.ctx, c.guildID, logChannelID, logger); err != nil {
		logger.Error("rebuild failed", zap.Error(err))
		b.updateProgress(progress, logChannelID, fmt.Sprintf("❌ Ocurrió un error durante la reconstrucción: `%v`", err), false)
		if logChannelID != "" {
			if _, sendErr := b.platform.SendMessage(logChannelID, fmt.Sprintf("❌ Error durante la reconstrucción: `%v`", err)); sendErr != nil {
				logger.Warn("rebuild error notice failed", zap.Error(sendErr))
			}
		}
		b.audit.Log(c.ctx, audit.LevelCrit, c.guildID, c.author.ID, "Error reconstrucción", fmt.Sprintf("Error: %v", err))
		return reportedError{err}
	}

	b.audit.Log(c.ctx, audit.LevelInfo, c.guildID, c.author.ID, "Servidor reconstruido",
		fmt.Sprintf("Reconstrucción ejecutada por %s (%s)", c.author.Username, c.author.ID))
	b.updateProgress(progress, logChannelID, progressFinished, true)
	logger.Info("rebuild finished")
	return nil
}

func (b *Bot) rebuild(ctx context.Context, guildID, logChannelID string, logger *zap.Logger) error {
	var keep []string
	if logChannelID != "" {
		keep = append(keep, logChannelID)
	}
	purged, err := b.layout.Purge(guildID, keep...)
	if err != nil {
		return err
	}
	purged.Log(logger, "purge finished")

	report, err := b.layout.Create(ctx, guildID)
	if report != nil {
		report.Categories.Log(logger, "categories created")
		report.Channels.Log(logger, "channels created")
		report.Prompts.Log(logger, "ticket prompts posted")
	}
	return err
}

// ensureLogChannel returns the log channel, creating it when the guild has none.
func (b *Bot) ensureLogChannel(guildID string, logger *zap.Logger) string {
	if id := b.logChannelID(guildID); id != "" {
		return id
	}
	channel, err := b.platform.CreateChannel(guildID, discordgo.GuildChannelCreateData{
		Name:  b.cfg.LogChannelName,
		Type:  discordgo.ChannelTypeGuildText,
		Topic: logChannelTopic,
	})
	if err != nil {
		logger.Warn("log channel create failed", zap.Error(err))
		return ""
	}
	return channel.ID
}

// startProgress posts the progress line by DM, falling back to the log channel.
func (b *Bot) startProgress(userID, logChannelID string, logger *zap.Logger) *discordgo.Message {
	if dm, err := b.platform.DirectChannel(userID); err == nil {
		if msg, err := b.platform.SendMessage(dm.ID, progressStarted); err == nil {
			return msg
		}
	}
	if logChannelID == "" {
		return nil
	}
	msg, err := b.platform.SendMessage(logChannelID, progressStarted)
	if err != nil {
		logger.Warn("progress notice failed", zap.Error(err))
		return nil
	}
	return msg
}

// updateProgress edits the progress line. A failed edit falls back to the
// log channel when fallback is set.
func (b *Bot) updateProgress(progress *discordgo.Message, logChannelID, content string, fallback bool) {
	if progress != nil {
		if _, err := b.platform.EditMessage(progress.ChannelID, progress.ID, content); err == nil {
			return
		}
	}
	if fallback && logChannelID != "" {
		_, _ = b.platform.SendMessage(logChannelID, content)
	}
}
