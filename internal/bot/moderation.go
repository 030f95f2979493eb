package bot

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	defaultReason     = "Sin razón"
	defaultWarnReason = "Sin razón especificada"

	// Discord refuses bulk deletes of messages older than this.
	bulkDeleteMaxAge = 14 * 24 * time.Hour
	bulkDeleteMax    = 100
	clearNoticeTTL   = 3 * time.Second

	// Embeds hold at most 25 fields.
	maxEmbedFields = 25
)

func (b *Bot) cmdWarn(c *commandContext) error {
	if len(c.args) == 0 {
		return usageError(fmt.Sprintf("❌ Debes mencionar a un usuario: `%swarn @usuario razón`", b.cfg.CommandPrefix))
	}
	target, err := b.targetMember(c, c.args[0])
	if err != nil {
		return err
	}
	_, reason := splitFirst(c.rest)
	if reason == "" {
		reason = defaultWarnReason
	}

	now := b.now()
	warn, err := storage.NewWarn(c.author.ID, reason, now)
	if err != nil {
		return err
	}
	total, err := b.stores.Warns.Add(target.User.ID, warn)
	if err != nil {
		return fmt.Errorf("save warn: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "⚠️ Usuario Advertido",
		Color: 0xff6600,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Usuario", Value: mention(target.User.ID)},
			{Name: "🛡️ Moderador", Value: mention(c.author.ID)},
			{Name: "📄 Razón", Value: reason},
			{Name: "📚 Cantidad total de warns", Value: strconv.Itoa(total)},
		},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
	b.sendEmbed(c, embed)
	b.sendLog(c.guildID, embed)
	return nil
}

func (b *Bot) cmdUnwarn(c *commandContext) error {
	if len(c.args) == 0 {
		return usageError(fmt.Sprintf("❌ Ejemplo correcto: `%sunwarn @usuario ID`", b.cfg.CommandPrefix))
	}
	target, err := b.targetMember(c, c.args[0])
	if err != nil {
		return err
	}
	index := 0
	if len(c.args) > 1 {
		index, _ = strconv.Atoi(c.args[1])
	}

	removed, remaining, err := b.stores.Warns.Remove(target.User.ID, index)
	switch {
	case errors.Is(err, storage.ErrNoWarns):
		return usageError("❌ Ese usuario no tiene warns.")
	case errors.Is(err, storage.ErrWarnIndex):
		return usageError("❌ ID de warn inválida.")
	case err != nil:
		return fmt.Errorf("remove warn: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "🟢 Warn removido",
		Color: 0x55ff55,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Usuario", Value: mention(target.User.ID)},
			{Name: "🛠️ Moderador", Value: mention(c.author.ID)},
			{Name: "🗑️ Warn eliminado", Value: "**Razón:** " + removed.Reason},
			{Name: "📦 Warns restantes", Value: strconv.Itoa(remaining)},
		},
	}
	b.sendEmbed(c, embed)
	b.sendLog(c.guildID, embed)
	return nil
}

func (b *Bot) cmdWarns(c *commandContext) error {
	target := c.member
	if len(c.args) > 0 {
		member, err := b.targetMember(c, c.args[0])
		if err != nil {
			return err
		}
		target = member
	}

	warns := b.stores.Warns.List(target.User.ID)
	if len(warns) == 0 {
		b.reply(c, fmt.Sprintf("🟢 **%s** no tiene ninguna advertencia.", target.User.Username))
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title: "📚 Warns de " + target.User.Username,
		Color: 0xffcc00,
	}
	for i, warn := range warns {
		if i == maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("⚠️ Warn #%d", i+1),
			Value: fmt.Sprintf("**Razón:** %s\n**Fecha:** %s\n**Moderador:** <@%s>", warn.Reason, warn.Date, warn.ModeratorID()),
		})
	}
	b.sendEmbed(c, embed)
	return nil
}

// cmdClear deletes the last N messages, optionally only those of one member.
// The count excludes the command message itself.
func (b *Bot) cmdClear(c *commandContext) error {
	usage := usageError(fmt.Sprintf("❌ Uso correcto: `%[1]sclear cantidad` o `%[1]sclear cantidad @usuario`", b.cfg.CommandPrefix))
	if len(c.args) == 0 {
		return usage
	}
	amount, err := strconv.Atoi(c.args[0])
	if err != nil || amount < 1 {
		return usage
	}
	var target *discordgo.Member
	if len(c.args) > 1 {
		if target, err = b.targetMember(c, c.args[1]); err != nil {
			return err
		}
	}

	history, err := b.history(c.channelID, amount+1)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	cutoff := b.now().Add(-bulkDeleteMaxAge)
	var recent, old []string
	count := 0
	for _, msg := range history {
		if target != nil && (msg.Author == nil || msg.Author.ID != target.User.ID) {
			continue
		}
		if msg.Timestamp.Before(cutoff) {
			old = append(old, msg.ID)
		} else {
			recent = append(recent, msg.ID)
		}
		if msg.ID != c.msg.ID {
			count++
		}
	}

	for start := 0; start < len(recent); start += bulkDeleteMax {
		end := min(start+bulkDeleteMax, len(recent))
		chunk := recent[start:end]
		if len(chunk) == 1 {
			old = append(old, chunk[0])
			continue
		}
		if err := b.platform.BulkDelete(c.channelID, chunk); err != nil {
			return fmt.Errorf("bulk delete: %w", err)
		}
	}
	for _, id := range old {
		if err := b.platform.DeleteMessage(c.channelID, id); err != nil {
			b.logger.Warn("message delete failed", zap.String("channel_id", c.channelID), zap.String("message_id", id), zap.Error(err))
		}
	}

	notice := fmt.Sprintf("🧹 **Borrados `%d` mensajes** ", count)
	if target != nil {
		notice += "de " + mention(target.User.ID)
	}
	if sent := b.send(c, notice); sent != nil {
		b.deleteLater(c.channelID, sent.ID, clearNoticeTTL)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Moderador", Value: mention(c.author.ID)},
		{Name: "Cantidad", Value: strconv.Itoa(count)},
	}
	if target != nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Mensajes de", Value: mention(target.User.ID)})
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "Canal", Value: "<#" + c.channelID + ">"})
	b.sendLog(c.guildID, &discordgo.MessageEmbed{Title: "🧹 Mensajes Borrados", Color: 0xff0000, Fields: fields})
	return nil
}

func (b *Bot) cmdBan(c *commandContext) error {
	target, reason, err := b.targetWithReason(c)
	if err != nil {
		return err
	}
	if err := b.platform.Ban(c.guildID, target.User.ID, reason); err != nil {
		return fmt.Errorf("ban %s: %w", target.User.ID, err)
	}
	b.send(c, fmt.Sprintf("🔨 Usuario baneado: %s — %s", target.User.Username, reason))
	b.audit.Log(c.ctx, audit.LevelWarn, c.guildID, target.User.ID, "Usuario baneado",
		fmt.Sprintf("%s baneado por %s: %s", target.User.Username, c.author.Username, reason))
	return nil
}

func (b *Bot) cmdKick(c *commandContext) error {
	target, reason, err := b.targetWithReason(c)
	if err != nil {
		return err
	}
	if err := b.platform.Kick(c.guildID, target.User.ID, reason); err != nil {
		return fmt.Errorf("kick %s: %w", target.User.ID, err)
	}
	b.send(c, fmt.Sprintf("👢 Usuario expulsado: %s — %s", target.User.Username, reason))
	b.audit.Log(c.ctx, audit.LevelWarn, c.guildID, target.User.ID, "Usuario expulsado",
		fmt.Sprintf("%s expulsado por %s: %s", target.User.Username, c.author.Username, reason))
	return nil
}

func (b *Bot) cmdMute(c *commandContext) error {
	if len(c.args) == 0 {
		return usageError(missingArgumentHint)
	}
	target, err := b.targetMember(c, c.args[0])
	if err != nil {
		return err
	}
	if err := b.muter.Mute(c.guildID, target.User.ID); err != nil {
		return err
	}
	b.send(c, fmt.Sprintf("🔇 %s ha sido muteado.", mention(target.User.ID)))
	return nil
}

func (b *Bot) cmdUnmute(c *commandContext) error {
	if len(c.args) == 0 {
		return usageError(missingArgumentHint)
	}
	target, err := b.targetMember(c, c.args[0])
	if err != nil {
		return err
	}
	if _, err := b.muter.Unmute(c.guildID, target.User.ID); err != nil {
		return err
	}
	b.send(c, fmt.Sprintf("🔊 %s ahora puede hablar.", mention(target.User.ID)))
	return nil
}

func (b *Bot) targetWithReason(c *commandContext) (*discordgo.Member, string, error) {
	if len(c.args) == 0 {
		return nil, "", usageError(missingArgumentHint)
	}
	target, err := b.targetMember(c, c.args[0])
	if err != nil {
		return nil, "", err
	}
	_, reason := splitFirst(c.rest)
	if reason == "" {
		reason = defaultReason
	}
	return target, reason, nil
}

// history reads up to limit recent messages, newest first.
func (b *Bot) history(channelID string, limit int) ([]*discordgo.Message, error) {
	var out []*discordgo.Message
	before := ""
	for len(out) < limit {
		page, err := b.platform.RecentMessages(channelID, min(bulkDeleteMax, limit-len(out)), before)
		if err != nil {
			return out, err
		}
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
		before = page[len(page)-1].ID
	}
	return out, nil
}

// deleteLater removes a transient notice after ttl or on shutdown.
func (b *Bot) deleteLater(channelID, messageID string, ttl time.Duration) {
	go func() {
		timer := time.NewTimer(ttl)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-b.ctx.Done():
		}
		if err := b.platform.DeleteMessage(channelID, messageID); err != nil {
			b.logger.Debug("notice delete failed", zap.String("message_id", messageID), zap.Error(err))
		}
	}()
}
