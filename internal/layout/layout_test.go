package layout

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/naming"
	"femb-paradise/internal/platform/platformtest"
	"femb-paradise/internal/storage"
	"femb-paradise/internal/tickets"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBuilder(t *testing.T, fake *platformtest.Fake) (*Builder, *storage.TicketMessages) {
	t.Helper()
	messages, err := storage.OpenTicketMessages(filepath.Join(t.TempDir(), "ticket_messages.json"))
	require.NoError(t, err)
	engine := tickets.NewEngine(fake, messages, tickets.Options{}, audit.NewLogger(zap.NewNop()), zap.NewNop())
	return NewBuilder(fake, engine, zap.NewNop()), messages
}

func countChannels() (text, voice int) {
	for _, block := range Structure {
		text += len(block.Text)
		voice += len(block.Voice)
	}
	return text, voice
}

func TestCreateBuildsWholeStructure(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	builder, messages := newBuilder(t, fake)

	report, err := builder.Create(context.Background(), "g1")
	require.NoError(t, err)

	text, voice := countChannels()
	require.Len(t, Structure, 8)
	require.Equal(t, 4, voice)
	require.Len(t, report.Categories, 8)
	require.Len(t, report.Channels, text+voice)
	require.Empty(t, report.Channels.Failed())
	require.Len(t, fake.CreatedSnapshot(), 8+text+voice)

	require.Len(t, report.Prompts, len(tickets.Templates))
	require.Empty(t, report.Prompts.Failed())
	require.Equal(t, len(tickets.Templates), messages.Len())

	var voiceSeen int
	for _, channel := range fake.CreatedSnapshot() {
		if channel.Type == discordgo.ChannelTypeGuildVoice {
			voiceSeen++
			require.NotEmpty(t, channel.ParentID)
		}
	}
	require.Equal(t, voice, voiceSeen)
}

func TestPromptsLandInTicketChannels(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	builder, _ := newBuilder(t, fake)

	report, err := builder.Create(context.Background(), "g1")
	require.NoError(t, err)

	for _, prompt := range report.Prompts {
		tmpl, ok := tickets.Templates.Lookup(prompt.Name)
		require.True(t, ok)
		sent := fake.SentTo(prompt.ID)
		require.Len(t, sent, 1)
		require.Equal(t, []string{tmpl.Trigger}, fake.ReactionsOn(sent[0].MessageID))
	}
}

func TestCategoryFallbackName(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	fake.FailCreateChannel["🏠・INFORMACIÓN"] = errors.New("invalid form body")
	builder, _ := newBuilder(t, fake)

	report, err := builder.Create(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, "INFORMACIÓN", fake.CreatedSnapshot()[0].Name)
	require.Empty(t, report.Categories.Failed())
}

func TestChannelFailureAbortsCreate(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	memes := naming.Decorate("🤣・memes", naming.DefaultEmoji)
	fake.FailCreateChannel[memes] = errors.New("missing permissions")
	builder, _ := newBuilder(t, fake)

	report, err := builder.Create(context.Background(), "g1")
	require.Error(t, err)
	failed := report.Channels.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, memes, failed[0].Name)
	require.Len(t, report.Categories, 2)
}

func TestPurgeKeepsAndRecordsFailures(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	logs := fake.AddChannel(&discordgo.Channel{Name: "logs-bot"})
	general := fake.AddChannel(&discordgo.Channel{Name: "general"})
	stuck := fake.AddChannel(&discordgo.Channel{Name: "stuck"})
	fake.FailDeleteChannel[stuck.ID] = errors.New("missing access")
	builder, _ := newBuilder(t, fake)

	results, err := builder.Purge("g1", logs.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 1, results.Succeeded())
	require.Equal(t, stuck.ID, results.Failed()[0].ID)
	require.Equal(t, []string{general.ID}, fake.Deleted)

	remaining := fake.ChannelsSnapshot()
	require.Len(t, remaining, 2)
}
