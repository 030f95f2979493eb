package monitoring

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AppName prefixes every metric name.
const AppName = "paradise"

var (
	// DiscordEvents counts gateway events by type.
	DiscordEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_total_discord_events", AppName),
		Help: "Total number of gateway events handled",
	}, []string{"event"})

	// Commands counts chat commands by name and outcome.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_total_commands", AppName),
		Help: "Total number of chat commands by outcome",
	}, []string{"command", "outcome"})

	// CommandLatency is the time spent handling a command.
	CommandLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    fmt.Sprintf("%s_command_latency_seconds", AppName),
		Help:    "Command handling latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	// SpamMutes counts automatic mutes.
	SpamMutes = promauto.NewCounter(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_total_spam_mutes", AppName),
		Help: "Total number of automatic spam mutes",
	})

	// Lockdowns counts anti-nuke lockdowns.
	Lockdowns = promauto.NewCounter(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_total_lockdowns", AppName),
		Help: "Total number of anti-nuke lockdowns",
	})

	// BotBans counts malicious bots banned right after joining.
	BotBans = promauto.NewCounter(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_total_bot_bans", AppName),
		Help: "Total number of newly joined bots banned",
	})

	// TicketsOpened counts ticket channels by template.
	TicketsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_total_tickets_opened", AppName),
		Help: "Total number of ticket channels created",
	}, []string{"template"})

	// TicketsClosed counts closed ticket channels.
	TicketsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_total_tickets_closed", AppName),
		Help: "Total number of ticket channels closed",
	})

	// Confirmations counts confirmation prompts by outcome.
	Confirmations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_total_confirmations", AppName),
		Help: "Total number of confirmation prompts by outcome",
	}, []string{"outcome"})
)
