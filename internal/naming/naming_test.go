package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStylize(t *testing.T) {
	require.Equal(t, "𝙩𝙞𝙘𝙠𝙚𝙩-𝙖𝙗", Stylize("Ticket-AB"))
	require.Equal(t, "𝙣𝙞ñ𝙤 42", Stylize("niño 42"))
}

func TestDecorate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		want     string
	}{
		{name: "separator", input: "🎟️・ticket-ayuda-general", fallback: DefaultEmoji, want: "「🎟️」𝙩𝙞𝙘𝙠𝙚𝙩-𝙖𝙮𝙪𝙙𝙖-𝙜𝙚𝙣𝙚𝙧𝙖𝙡"},
		{name: "leading emoji", input: "🔊 General", fallback: DefaultEmoji, want: "「🔊」𝙜𝙚𝙣𝙚𝙧𝙖𝙡"},
		{name: "fallback", input: "ticket-bob", fallback: "🚫", want: "「🚫」𝙩𝙞𝙘𝙠𝙚𝙩-𝙗𝙤𝙗"},
		{name: "already decorated", input: "「🎮」𝙟𝙪𝙚𝙜𝙤𝙨", fallback: DefaultEmoji, want: "「🎮」𝙟𝙪𝙚𝙜𝙤𝙨"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decorate(tt.input, tt.fallback))
		})
	}
}

func TestStripDecorAndNormalize(t *testing.T) {
	decorated := Decorate("🖥️・ticket-problemas-técnicos", DefaultEmoji)
	require.Equal(t, Stylize("ticket-problemas-técnicos"), StripDecor(decorated))
	require.Equal(t, "ticket-problemas-tecnicos", Normalize(StripDecor(decorated)))
	require.Equal(t, "plain", StripDecor("plain"))
	require.Equal(t, "a-b-c", Normalize("A—B–C"))
	require.Equal(t, "", Normalize(""))
}

func TestIsTicketChannel(t *testing.T) {
	require.True(t, IsTicketChannel(Decorate("💰・ticket-donaciones", DefaultEmoji)))
	require.True(t, IsTicketChannel("ticket-bob-2"))
	require.False(t, IsTicketChannel(Decorate("💬・chat-general", DefaultEmoji)))
}

func TestKey(t *testing.T) {
	require.Equal(t, "ticket-ayuda-general", Key("🎟️・ticket-ayuda-general"))
	require.Equal(t, "charla-casual", Key("🗣️・Charla casual"))
	require.Equal(t, "soporte-tickets", Key("🎫 soporte_tickets"))
}

func TestSafeNames(t *testing.T) {
	require.Equal(t, "INFORMACIÓN", SafeCategoryName("🏠・INFORMACIÓN"))
	long := strings.Repeat("a b", 60)
	safe := SafeChannelName(long)
	require.NotContains(t, safe, " ")
	require.Len(t, []rune(safe), 100)
}
