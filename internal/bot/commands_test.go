package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestSocialCommands(t *testing.T) {
	h := newHarness(t)
	general := h.channel("general")
	h.member("111", "romeo")
	h.fake.AddMember(&discordgo.Member{User: &discordgo.User{ID: "112", Username: "julieta"}, Nick: "Juli"})

	h.run("111", general.ID, "!love <@112>")
	require.Equal(t, "💘 **<@111> y <@112> tienen un 0% de compatibilidad amorosa!**", lastContent(h.fake.SentTo(general.ID)))

	h.run("111", general.ID, "!ship <@111> <@112>")
	require.Equal(t, "💔 **romeo ❤️ Juli = 0%** 💔", lastContent(h.fake.SentTo(general.ID)))

	h.run("111", general.ID, "!8ball")
	require.Equal(t, "❓ Usa: `!8ball [pregunta]`", lastContent(h.fake.SentTo(general.ID)))

	h.run("111", general.ID, "!8ball ¿lloverá?")
	require.Equal(t, cooldownNotice, lastContent(h.fake.SentTo(general.ID)))

	h.clock.Advance(10 * time.Second)
	h.run("111", general.ID, "!8ball ¿lloverá?")
	require.Equal(t, "🎱 Sí.", lastContent(h.fake.SentTo(general.ID)))
}

func TestSocialTargetsTheBot(t *testing.T) {
	h := newHarness(t)
	general := h.channel("general")
	h.member("111", "bully")

	h.run("111", general.ID, "!slap <@"+botID+">")
	embed := lastSentEmbed(h.fake.SentTo(general.ID))
	require.Equal(t, "💥 ¡*c enoja en robot*!", embed.Title)
	require.Equal(t, slapBackGIFs[0], embed.Image.URL)

	h.run("111", general.ID, "!hug <@"+botID+">")
	require.Equal(t, "❤️ ¡Awww!", lastSentEmbed(h.fake.SentTo(general.ID)).Title)

	h.run("111", general.ID, "!kiss <@"+botID+">")
	require.Equal(t, "😳 <@111> ¿me... besas? ¿estás bien? 👀", lastContent(h.fake.SentTo(general.ID)))

	h.clock.Advance(10 * time.Second)
	h.run("111", general.ID, "!hug")
	require.Equal(t, "Menciona a alguien para abrazar: `!hug @user`", lastContent(h.fake.SentTo(general.ID)))
}

func TestShipHeart(t *testing.T) {
	require.Equal(t, "💖", shipHeart(71))
	require.Equal(t, "💛", shipHeart(70))
	require.Equal(t, "💛", shipHeart(41))
	require.Equal(t, "💔", shipHeart(40))
}

func TestEmbedCommand(t *testing.T) {
	h := newHarness(t)
	general := h.channel("general")

	h.run(superuser, general.ID, `!embed "Anuncio" "Evento el sábado #FF8800"`)
	embed := lastSentEmbed(h.fake.SentTo(general.ID))
	require.Equal(t, "Anuncio", embed.Title)
	require.Equal(t, "Evento el sábado", embed.Description)
	require.Equal(t, 0xff8800, embed.Color)

	h.run(superuser, general.ID, `!embed Aviso sin color`)
	embed = lastSentEmbed(h.fake.SentTo(general.ID))
	require.Equal(t, "Aviso", embed.Title)
	require.Equal(t, "sin color", embed.Description)
	require.Equal(t, defaultEmbedHue, embed.Color)

	h.run(superuser, general.ID, `!embed "Solo título"`)
	require.Equal(t, "Uso: `!embed \"Título\" \"Descripción\"`", lastContent(h.fake.SentTo(general.ID)))
}

func TestPollCommand(t *testing.T) {
	h := newHarness(t)
	general := h.channel("general")

	h.run("111", general.ID, "!encuesta ¿Mapa? | Norte | Sur | Este")
	sent := lastSentEmbedMessage(h.fake.SentTo(general.ID))
	require.Equal(t, "📊 ¿Mapa?", sent.Embed.Title)
	require.Equal(t, "1️⃣ Norte\n2️⃣ Sur\n3️⃣ Este\n", sent.Embed.Description)
	require.Equal(t, []string{"1️⃣", "2️⃣", "3️⃣"}, h.fake.ReactionsOn(sent.MessageID))

	h.run("111", general.ID, "!encuesta ¿Mapa? | Norte")
	require.Equal(t, "La encuesta necesita entre 2 y 10 opciones.", lastContent(h.fake.SentTo(general.ID)))

	h.run("111", general.ID, "!encuesta sin opciones")
	require.Contains(t, lastContent(h.fake.SentTo(general.ID)), "Uso:")
}

func TestRulesCommandAddsCheckmark(t *testing.T) {
	h := newHarness(t)
	general := h.channel("general")

	h.run("111", general.ID, "!Reglas")
	sent := lastSentEmbedMessage(h.fake.SentTo(general.ID))
	require.Equal(t, "📜 Reglas del Servidor", sent.Embed.Title)
	require.Equal(t, []string{"✅"}, h.fake.ReactionsOn(sent.MessageID))

	h.run("111", general.ID, "!reglas")
	require.Len(t, h.fake.SentTo(general.ID), 1)
}

func TestInactiveMembers(t *testing.T) {
	h := newHarness(t)
	general := h.channel("general")
	h.member("111", "active")
	h.member("112", "quiet")
	h.member("113", "ghost")
	now := h.clock.Now()

	h.fake.AddHistory(general.ID,
		&discordgo.Message{ID: "h1", Author: &discordgo.User{ID: "111"}, Timestamp: now.Add(-time.Hour)},
		&discordgo.Message{ID: "h2", Author: &discordgo.User{ID: botID, Bot: true}, Timestamp: now.Add(-2 * time.Hour)},
		&discordgo.Message{ID: "h3", Author: &discordgo.User{ID: "113"}, Timestamp: now.Add(-20 * 24 * time.Hour)},
	)

	h.run("111", general.ID, "!inactivos")
	sent := h.fake.SentTo(general.ID)
	require.Equal(t, "🔎 Buscando usuarios inactivos… esto puede tardar un poco.", sent[0].Content)
	require.Equal(t, "⚠ Usuarios inactivos (+14 días):\n<@112>, <@113>", lastContent(sent))
}

func TestInfoCommands(t *testing.T) {
	h := newHarness(t)
	general := h.channel("general")
	joined := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	h.fake.AddMember(&discordgo.Member{User: &discordgo.User{ID: "175928847299117063", Username: "veteran"}, JoinedAt: joined})

	h.run(superuser, general.ID, "!informacion <@175928847299117063>")
	embed := lastSentEmbed(h.fake.SentTo(general.ID))
	require.Equal(t, "Información de veteran", embed.Title)
	require.Equal(t, "05/03/2024 10:30:00", embed.Fields[1].Value)
	require.Equal(t, "0", embed.Fields[3].Value)

	created, err := discordgo.SnowflakeTimestamp("175928847299117063")
	require.NoError(t, err)
	require.Equal(t, created.Format(dateLayout), embed.Fields[2].Value)

	h.run(superuser, general.ID, "!server")
	embed = lastSentEmbed(h.fake.SentTo(general.ID))
	require.Equal(t, "Información de Femb Paradise", embed.Title)
	require.Equal(t, guildID, embed.Fields[2].Value)

	h.run(superuser, general.ID, "!help")
	require.Equal(t, "Femb-Paradise Bot — Ayuda", lastSentEmbed(h.fake.SentTo(general.ID)).Title)

	h.run(superuser, general.ID, "!stats")
	embed = lastSentEmbed(h.fake.SentTo(general.ID))
	require.Equal(t, "Estado del bot", embed.Title)
	require.GreaterOrEqual(t, len(embed.Fields), 3)
}

func TestChunkJoin(t *testing.T) {
	items := []string{"<@1>", "<@2>", "<@3>"}
	require.Equal(t, []string{"H:<@1>, <@2>, <@3>"}, chunkJoin("H:", items, ", ", 100))

	chunks := chunkJoin("H:", items, ", ", 12)
	require.Equal(t, []string{"H:<@1>, <@2>", "<@3>"}, chunks)
	for _, chunk := range chunks {
		require.LessOrEqual(t, len(chunk), 12)
	}
}

func TestQuotedArg(t *testing.T) {
	arg, rest := quotedArg(`"dos palabras" resto aquí`)
	require.Equal(t, "dos palabras", arg)
	require.Equal(t, "resto aquí", rest)

	arg, rest = quotedArg("simple resto")
	require.Equal(t, "simple", arg)
	require.Equal(t, "resto", rest)

	require.Equal(t, "x", unquote(` "x" `))
	require.True(t, strings.HasPrefix(unquote(`"abierto`), `"`))
}

func TestHandlersRecoverFromPanics(t *testing.T) {
	h := newHarness(t)
	h.bot.commands["help"] = command{
		authorize: allowAll,
		run:       func(*Bot, *commandContext) error { panic("boom") },
	}
	general := h.channel("general")

	require.NotPanics(t, func() {
		h.bot.onMessageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
			ID: "p1", GuildID: guildID, ChannelID: general.ID, Content: "!help", Author: &discordgo.User{ID: "111"},
		}})
	})
}
