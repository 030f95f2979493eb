package antibot

import (
	"context"
	"testing"
	"time"

	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/platform/platformtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func botMessage(id string) *discordgo.Message {
	return &discordgo.Message{ID: "m1", GuildID: "g1", ChannelID: "c1", Author: &discordgo.User{ID: id, Username: "raider", Bot: true}}
}

func TestBanWithinWatchWindow(t *testing.T) {
	fake := platformtest.New("g1", "self")
	auditLogger := audit.NewLogger(zap.NewNop())
	var events []string
	auditLogger.SetNotifier(func(_ context.Context, e audit.Entry) { events = append(events, e.Event) })
	module := New(120*time.Second, fake, auditLogger, zap.NewNop())
	joined := time.Unix(1_700_000_000, 0)

	module.HandleJoin(&discordgo.Member{User: &discordgo.User{ID: "b1", Bot: true}}, joined)
	require.True(t, module.HandleMessage(context.Background(), botMessage("b1"), joined.Add(30*time.Second)))
	require.Equal(t, []string{"b1"}, fake.Bans)
	require.Equal(t, []string{"Bot malicioso baneado"}, events)
}

func TestNoBanAfterWatchWindow(t *testing.T) {
	fake := platformtest.New("g1", "self")
	module := New(120*time.Second, fake, audit.NewLogger(zap.NewNop()), zap.NewNop())
	joined := time.Unix(1_700_000_000, 0)

	module.HandleJoin(&discordgo.Member{User: &discordgo.User{ID: "b1", Bot: true}}, joined)
	require.False(t, module.HandleMessage(context.Background(), botMessage("b1"), joined.Add(121*time.Second)))
	require.Empty(t, fake.Bans)
	require.Equal(t, 1, module.Watched())
}

func TestHumansAreNotWatched(t *testing.T) {
	fake := platformtest.New("g1", "self")
	module := New(120*time.Second, fake, audit.NewLogger(zap.NewNop()), zap.NewNop())
	joined := time.Unix(1_700_000_000, 0)

	module.HandleJoin(&discordgo.Member{User: &discordgo.User{ID: "h1"}}, joined)
	require.False(t, module.HandleMessage(context.Background(), botMessage("h1"), joined.Add(time.Second)))
	require.False(t, module.HandleMessage(context.Background(), botMessage("unknown"), joined))
	require.Zero(t, module.Watched())
}
