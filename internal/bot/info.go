package bot

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

const (
	dateLayout       = "02/01/2006 15:04:05"
	unknownDate      = "Desconocido"
	defaultEmbedHue  = 0x00ffcc
	inactivityWindow = 14 * 24 * time.Hour
	maxMessageLength = 2000
)

var (
	trailingColor = regexp.MustCompile(`(#[0-9a-fA-F]{6})\s*$`)
	pollEmojis    = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}
)

const rulesText = "ㅤ〔 **Reglas a tener en cuenta** 〕ㅤㅤㅤㅤ\n\n" +
	"• **1)** El respeto es obligatorio. No se toleran faltas de respeto.\n" +
	"• **2)** Ayuda a otros usuarios cuando sea necesario.\n" +
	"• **3)** Evita spam y flood.\n" +
	"• **4)** Prohibido contenido NSFW o gore.\n" +
	"• **5)** No se permite publicidad sin autorización.\n" +
	"• **6)** No uses nombres o fotos ofensivas.\n" +
	"• **7)** Raids están totalmente prohibidos.\n" +
	"• **8)** Prohibidas amenazas de cualquier tipo.\n" +
	"• **9)** No hables mal de otros clanes o comunidades.\n" +
	"• **10)** No divulgues información personal.\n" +
	"• **11)** Prohibido contenido ilegal, hacks o software malicioso.\n" +
	"• **12)** Usa cada canal correctamente.\n" +
	"• **13)** No hagas menciones innecesarias.\n" +
	"• **14)** No se permite lenguaje tóxico o discriminatorio.\n" +
	"• **15)** Prohibido usar hacks o exploits.\n" +
	"• **16)** No suplantes a otros usuarios o staff.\n\n" +
	"➜ **TENER EN CUENTA**\n" +
	"• El staff puede sancionar según gravedad.\n" +
	"• Los canales tienen mensajes anclados.\n" +
	"• Puedes acudir al equipo de staff.\n" +
	"• Usa el sentido común.\n\n" +
	"Si has leído todas las reglas, reacciona con **✅** para confirmar que las aceptas."

const rulesImage = "https://i.pinimg.com/1200x/49/02/b2/4902b247b3797864c192454de45af835.jpg"

func (b *Bot) cmdHelp(c *commandContext) error {
	p := b.cfg.CommandPrefix
	b.sendEmbed(c, &discordgo.MessageEmbed{
		Title:       "Femb-Paradise Bot — Ayuda",
		Description: "Comandos disponibles y descripción breve.",
		Color:       0xffaacc,
		Fields: []*discordgo.MessageEmbedField{
			{Name: p + "Femb-Paradise", Value: "(Admin) Reconstruir TODO el servidor con la estructura predeterminada. Requiere confirmación (salvo SuperUser)."},
			{Name: p + "ticket", Value: "Crear un ticket manualmente (si estás en un canal de tickets)."},
			{Name: p + "close", Value: "Cerrar el ticket actual (Staff, creador o SuperUser)."},
			{Name: "Moderación", Value: "warn, unwarn, warns, clear, ban, kick, mute, unmute."},
			{Name: "Comandos extra", Value: "Reglas, 8ball, love, ship, kiss, hug, slap, amorpropio, informacion, server, embed, encuesta, inactivos, stats."},
		},
	})
	return nil
}

func (b *Bot) cmdRules(c *commandContext) error {
	msg := b.sendEmbed(c, &discordgo.MessageEmbed{
		Title:       "📜 Reglas del Servidor",
		Description: rulesText,
		Color:       0xffaa00,
		Image:       &discordgo.MessageEmbedImage{URL: rulesImage},
	})
	if msg == nil {
		return nil
	}
	if err := b.platform.AddReaction(c.channelID, msg.ID, "✅"); err != nil {
		return fmt.Errorf("add reaction: %w", err)
	}
	return nil
}

func (b *Bot) cmdMemberInfo(c *commandContext) error {
	target := c.member
	if len(c.args) > 0 {
		member, err := b.targetMember(c, c.args[0])
		if err != nil {
			return err
		}
		target = member
	}

	joined := unknownDate
	if !target.JoinedAt.IsZero() {
		joined = target.JoinedAt.Format(dateLayout)
	}
	b.sendEmbed(c, &discordgo.MessageEmbed{
		Title:     "Información de " + target.User.Username,
		Color:     0x88ccff,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: target.User.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: target.User.ID},
			{Name: "Fecha de entrada", Value: joined, Inline: true},
			{Name: "Cuenta creada", Value: snowflakeDate(target.User.ID), Inline: true},
			{Name: "Warns", Value: strconv.Itoa(b.stores.Warns.Count(target.User.ID)), Inline: true},
		},
	})
	return nil
}

func (b *Bot) cmdServerInfo(c *commandContext) error {
	guild, err := b.platform.Guild(c.guildID)
	if err != nil {
		return fmt.Errorf("load guild: %w", err)
	}
	b.sendEmbed(c, &discordgo.MessageEmbed{
		Title: "Información de " + guild.Name,
		Color: 0x88ccff,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Miembros", Value: strconv.Itoa(guild.MemberCount)},
			{Name: "Fecha de creación", Value: snowflakeDate(guild.ID)},
			{Name: "ID", Value: guild.ID},
		},
	})
	return nil
}

// cmdEmbed posts a custom embed. A trailing #RRGGBB in the description sets
// its color.
func (b *Bot) cmdEmbed(c *commandContext) error {
	title, rest := quotedArg(c.rest)
	description := unquote(rest)
	if title == "" || description == "" {
		return usageError(fmt.Sprintf("Uso: `%sembed \"Título\" \"Descripción\"`", b.cfg.CommandPrefix))
	}
	description, color := embedColor(description)
	b.sendEmbed(c, &discordgo.MessageEmbed{Title: title, Description: description, Color: color})
	return nil
}

func embedColor(description string) (string, int) {
	color := defaultEmbedHue
	if loc := trailingColor.FindStringSubmatchIndex(description); loc != nil {
		if value, err := strconv.ParseInt(description[loc[2]+1:loc[3]], 16, 32); err == nil {
			color = int(value)
			description = strings.TrimSpace(description[:loc[0]])
		}
	}
	return description, color
}

func (b *Bot) cmdPoll(c *commandContext) error {
	if !strings.Contains(c.rest, "|") {
		return usageError(fmt.Sprintf("Uso: `%sencuesta Pregunta | Opción1 | Opción2 | ...`", b.cfg.CommandPrefix))
	}
	var parts []string
	for _, part := range strings.Split(c.rest, "|") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 3 || len(parts) > len(pollEmojis)+1 {
		return usageError("La encuesta necesita entre 2 y 10 opciones.")
	}
	question, options := parts[0], parts[1:]

	var description strings.Builder
	for i, option := range options {
		fmt.Fprintf(&description, "%s %s\n", pollEmojis[i], option)
	}
	msg := b.sendEmbed(c, &discordgo.MessageEmbed{
		Title:       "📊 " + question,
		Description: description.String(),
		Color:       0x99ccff,
	})
	if msg == nil {
		return nil
	}
	for i := range options {
		if err := b.platform.AddReaction(c.channelID, msg.ID, pollEmojis[i]); err != nil {
			return fmt.Errorf("add poll reaction: %w", err)
		}
	}
	return nil
}

// cmdInactive lists human members without a message in this channel during
// the last 14 days.
func (b *Bot) cmdInactive(c *commandContext) error {
	b.send(c, "🔎 Buscando usuarios inactivos… esto puede tardar un poco.")

	cutoff := b.now().Add(-inactivityWindow)
	active, err := b.activeAuthors(c.channelID, cutoff)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	guild, err := b.platform.Guild(c.guildID)
	if err != nil {
		return fmt.Errorf("load guild: %w", err)
	}

	var mentions []string
	for _, member := range guild.Members {
		if member.User == nil || member.User.Bot {
			continue
		}
		if _, ok := active[member.User.ID]; !ok {
			mentions = append(mentions, mention(member.User.ID))
		}
	}
	if len(mentions) == 0 {
		b.send(c, "✔ Todos han hablado en los últimos 14 días.")
		return nil
	}
	for _, chunk := range chunkJoin("⚠ Usuarios inactivos (+14 días):\n", mentions, ", ", maxMessageLength) {
		b.send(c, chunk)
	}
	return nil
}

// activeAuthors pages back through history until it passes cutoff.
func (b *Bot) activeAuthors(channelID string, cutoff time.Time) (map[string]struct{}, error) {
	active := make(map[string]struct{})
	before := ""
	for {
		page, err := b.platform.RecentMessages(channelID, bulkDeleteMax, before)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return active, nil
		}
		for _, msg := range page {
			if msg.Timestamp.Before(cutoff) {
				return active, nil
			}
			if msg.Author != nil && !msg.Author.Bot {
				active[msg.Author.ID] = struct{}{}
			}
		}
		before = page[len(page)-1].ID
	}
}

func (b *Bot) cmdStats(c *commandContext) error {
	fields := []*discordgo.MessageEmbedField{
		{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
		{Name: "🚀 Goroutines", Value: strconv.Itoa(runtime.NumGoroutine()), Inline: true},
		{Name: "⏱️ Activo desde", Value: b.now().Sub(b.startedAt).Truncate(time.Second).String(), Inline: true},
	}
	if count, err := cpu.Counts(true); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🔼 CPUs", Value: strconv.Itoa(count), Inline: true})
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "🧠 Memoria del sistema",
			Value:  fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024),
			Inline: true,
		})
	}
	if uptime, err := host.Uptime(); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🖥️ Host activo", Value: (time.Duration(uptime) * time.Second).String(), Inline: true})
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			fields = append(fields, &discordgo.MessageEmbedField{Name: "📦 RSS", Value: fmt.Sprintf("%d MB", info.RSS/1024/1024), Inline: true})
		}
		if percent, err := proc.CPUPercent(); err == nil {
			fields = append(fields, &discordgo.MessageEmbedField{Name: "🔥 CPU del proceso", Value: fmt.Sprintf("%.1f%%", percent), Inline: true})
		}
	} else {
		b.logger.Debug("process stats unavailable", zap.Error(err))
	}

	b.sendEmbed(c, &discordgo.MessageEmbed{
		Title:  "Estado del bot",
		Color:  0x5865f2,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: "Femb-Paradise・" + b.now().Format("15:04")},
	})
	return nil
}

func snowflakeDate(id string) string {
	created, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return unknownDate
	}
	return created.Format(dateLayout)
}

// chunkJoin joins items after header, starting a new message before any
// chunk would exceed limit.
func chunkJoin(header string, items []string, sep string, limit int) []string {
	var out []string
	var current strings.Builder
	current.WriteString(header)
	empty := true
	for _, item := range items {
		extra := len(item)
		if !empty {
			extra += len(sep)
		}
		if !empty && current.Len()+extra > limit {
			out = append(out, current.String())
			current.Reset()
			empty = true
		}
		if !empty {
			current.WriteString(sep)
		}
		current.WriteString(item)
		empty = false
	}
	return append(out, current.String())
}
