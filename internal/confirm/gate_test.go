package confirm

import (
	"context"
	"testing"
	"time"

	"femb-paradise/internal/platform/platformtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const superuser = "999"

type result struct {
	outcome Outcome
	err     error
}

func start(ctx context.Context, gate *Gate, invoker string) <-chan result {
	done := make(chan result, 1)
	go func() {
		outcome, err := gate.Confirm(ctx, "ch", invoker, &discordgo.MessageEmbed{Title: "¿Seguro?"})
		done <- result{outcome: outcome, err: err}
	}()
	return done
}

func promptID(t *testing.T, fake *platformtest.Fake, gate *Gate) string {
	t.Helper()
	require.Eventually(t, func() bool { return gate.Waiting() == 1 }, time.Second, 5*time.Millisecond)
	sent := fake.SentTo("ch")
	require.Len(t, sent, 1)
	return sent[0].MessageID
}

func TestAcknowledgedOnlyByInvokerWithEmoji(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	gate := New(fake, 5*time.Second, superuser, zap.NewNop())
	done := start(context.Background(), gate, "u1")
	msgID := promptID(t, fake, gate)

	require.Equal(t, []string{Emoji}, fake.ReactionsOn(msgID))
	require.Equal(t, PromptColor, fake.SentTo("ch")[0].Embed.Color)

	now := time.Now()
	require.False(t, gate.HandleReaction(msgID, "u2", Emoji, now), "other user")
	require.False(t, gate.HandleReaction(msgID, "u1", "❌", now), "other emoji")
	require.False(t, gate.HandleReaction("other", "u1", Emoji, now), "other message")
	require.True(t, gate.HandleReaction(msgID, "u1", Emoji, now))
	require.False(t, gate.HandleReaction(msgID, "u1", Emoji, now), "already consumed")

	res := <-done
	require.NoError(t, res.err)
	require.Equal(t, Acknowledged, res.outcome)
	require.True(t, res.outcome.Proceed())
	require.Zero(t, gate.Waiting())
}

func TestLateAcknowledgementRejected(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	gate := New(fake, 200*time.Millisecond, superuser, zap.NewNop())
	done := start(context.Background(), gate, "u1")
	msgID := promptID(t, fake, gate)

	require.False(t, gate.HandleReaction(msgID, "u1", Emoji, time.Now().Add(time.Hour)))

	res := <-done
	require.NoError(t, res.err)
	require.Equal(t, TimedOut, res.outcome)
	require.False(t, res.outcome.Proceed())
}

func TestTimeout(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	gate := New(fake, 30*time.Millisecond, superuser, zap.NewNop())

	outcome, err := gate.Confirm(context.Background(), "ch", "u1", &discordgo.MessageEmbed{Title: "¿Seguro?"})
	require.NoError(t, err)
	require.Equal(t, TimedOut, outcome)
	require.Zero(t, gate.Waiting())
}

func TestSuperuserBypasses(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	gate := New(fake, time.Second, superuser, zap.NewNop())

	outcome, err := gate.Confirm(context.Background(), "ch", superuser, &discordgo.MessageEmbed{Title: "¿Seguro?"})
	require.NoError(t, err)
	require.Equal(t, Bypassed, outcome)
	require.Empty(t, fake.SentSnapshot())
}

func TestCancelledContext(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	gate := New(fake, time.Minute, superuser, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := start(ctx, gate, "u1")
	promptID(t, fake, gate)

	cancel()
	res := <-done
	require.ErrorIs(t, res.err, context.Canceled)
	require.Zero(t, gate.Waiting())
}

func TestNotifyTimeoutRemovesNotice(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	gate := New(fake, time.Second, superuser, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	gate.NotifyTimeout(ctx, "ch")
	sent := fake.SentTo("ch")
	require.Len(t, sent, 1)
	require.Equal(t, TimeoutNotice, sent[0].Content)

	// Cancelling skips the wait and cleans up immediately.
	cancel()
	require.Eventually(t, func() bool {
		return len(fake.DeletedMessagesSnapshot()) == 1
	}, time.Second, 5*time.Millisecond)
}
