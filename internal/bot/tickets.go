package bot

import (
	"errors"
	"fmt"

	"femb-paradise/internal/tickets"
)

func (b *Bot) cmdTicket(c *commandContext) error {
	channel, err := b.platform.Channel(c.channelID)
	if err != nil {
		return fmt.Errorf("load channel: %w", err)
	}
	created, err := b.tickets.OpenFromChannel(c.ctx, c.guildID, channel, c.author)
	if errors.Is(err, tickets.ErrNotTicketChannel) {
		return usageError("Este comando sólo puede usarse dentro de los canales de **Tickets** designados.")
	}
	if err != nil {
		b.reply(c, fmt.Sprintf("❌ Error al crear el ticket: `%v`", err))
		return reportedError{err}
	}
	b.reply(c, fmt.Sprintf("✅ He creado tu ticket: <#%s>", created.ID))
	return nil
}

func (b *Bot) cmdClose(c *commandContext) error {
	err := b.tickets.Close(c.ctx, c.guildID, c.channelID, c.member)
	if err == nil || errors.Is(err, tickets.ErrNotTicketChannel) || errors.Is(err, tickets.ErrNotAuthorized) {
		return err
	}
	b.reply(c, fmt.Sprintf("❌ No pude cerrar el ticket: `%v`", err))
	return reportedError{err}
}
