package antispam

import (
	"context"
	"testing"
	"time"

	"femb-paradise/internal/config"
	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/modules/moderation"
	"femb-paradise/internal/platform/platformtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newModule(t *testing.T) (*Module, *platformtest.Fake, *[]audit.Entry) {
	t.Helper()
	fake := platformtest.New("g1", "bot")
	fake.AddChannel(&discordgo.Channel{ID: "c1", Name: "general"})
	auditLogger := audit.NewLogger(zap.NewNop())
	var entries []audit.Entry
	auditLogger.SetNotifier(func(_ context.Context, entry audit.Entry) { entries = append(entries, entry) })
	muter := moderation.NewMuter(fake, zap.NewNop())
	module := New(config.WindowConfig{Limit: 6, WindowSeconds: 4}, muter, fake, auditLogger, zap.NewNop())
	return module, fake, &entries
}

func message(author string) *discordgo.Message {
	return &discordgo.Message{ID: "m", ChannelID: "c1", GuildID: "g1", Author: &discordgo.User{ID: author, Username: author}}
}

func TestSpamTriggersOnSixthMessage(t *testing.T) {
	module, fake, entries := newModule(t)
	base := time.Unix(1_700_000_000, 0)

	for i := 0; i < 5; i++ {
		require.False(t, module.HandleMessage(context.Background(), message("u1"), base.Add(time.Duration(i)*500*time.Millisecond)))
	}
	require.Empty(t, fake.RoleGrants)

	require.True(t, module.HandleMessage(context.Background(), message("u1"), base.Add(3*time.Second)))
	role := fake.RoleByName(moderation.MutedRoleName)
	require.NotNil(t, role)
	require.Equal(t, []string{"u1:" + role.ID}, fake.RoleGrants)

	sent := fake.SentTo("c1")
	require.Len(t, sent, 1)
	require.Equal(t, "🚫 **<@u1> muteado por spam!** (AutoMod)", sent[0].Content)
	require.Len(t, *entries, 1)
	require.Equal(t, "AutoMute por spam", (*entries)[0].Event)
}

func TestSpamRegrantsAboveLimit(t *testing.T) {
	module, fake, _ := newModule(t)
	base := time.Unix(1_700_000_000, 0)

	for i := 0; i < 8; i++ {
		module.HandleMessage(context.Background(), message("u1"), base.Add(time.Duration(i)*100*time.Millisecond))
	}
	require.Len(t, fake.RoleGrants, 3)
}

func TestSpamWindowEvicts(t *testing.T) {
	module, fake, _ := newModule(t)
	base := time.Unix(1_700_000_000, 0)

	for i := 0; i < 10; i++ {
		require.False(t, module.HandleMessage(context.Background(), message("u1"), base.Add(time.Duration(i)*time.Second)))
	}
	require.Empty(t, fake.RoleGrants)
}

func TestSpamAuthorsAreIndependent(t *testing.T) {
	module, fake, _ := newModule(t)
	base := time.Unix(1_700_000_000, 0)

	for i := 0; i < 5; i++ {
		module.HandleMessage(context.Background(), message("u1"), base)
		module.HandleMessage(context.Background(), message("u2"), base)
	}
	require.Empty(t, fake.RoleGrants)
}

func TestSpamIgnoresDirectMessages(t *testing.T) {
	module, _, _ := newModule(t)
	msg := message("u1")
	msg.GuildID = ""
	require.False(t, module.HandleMessage(context.Background(), msg, time.Now()))
	require.False(t, module.HandleMessage(context.Background(), nil, time.Now()))
}
