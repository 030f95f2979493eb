// Package confirm implements the reaction-based confirmation step used before
// destructive commands.
package confirm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"femb-paradise/internal/monitoring"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	Emoji         = "✅"
	PromptColor   = 0xff66aa
	TimeoutNotice = "⏱️ Tiempo de confirmación agotado. Operación cancelada."

	noticeLifetime = 8 * time.Second
)

type Outcome int

const (
	Bypassed Outcome = iota + 1
	Acknowledged
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Bypassed:
		return "bypassed"
	case Acknowledged:
		return "acknowledged"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Proceed reports whether the guarded operation may run.
func (o Outcome) Proceed() bool {
	return o == Bypassed || o == Acknowledged
}

type Platform interface {
	SendMessage(channelID, content string) (*discordgo.Message, error)
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	AddReaction(channelID, messageID, emoji string) error
	DeleteMessage(channelID, messageID string) error
}

// Pending is a confirmation waiting for its invoker. It is never persisted.
type Pending struct {
	ID        string
	InvokerID string
	ChannelID string
	MessageID string
	Deadline  time.Time

	ack chan struct{}
}

type Gate struct {
	mu      sync.Mutex
	pending map[string]*Pending

	platform    Platform
	timeout     time.Duration
	superuserID string
	logger      *zap.Logger
	now         func() time.Time
}

func New(platform Platform, timeout time.Duration, superuserID string, logger *zap.Logger) *Gate {
	return &Gate{
		pending:     make(map[string]*Pending),
		platform:    platform,
		timeout:     timeout,
		superuserID: superuserID,
		logger:      logger,
		now:         time.Now,
	}
}

// Confirm posts prompt in channelID and waits for the invoker to react with
// Emoji. The superuser skips the prompt entirely.
func (g *Gate) Confirm(ctx context.Context, channelID, invokerID string, prompt *discordgo.MessageEmbed) (Outcome, error) {
	if g.superuserID != "" && invokerID == g.superuserID {
		monitoring.Confirmations.WithLabelValues(Bypassed.String()).Inc()
		return Bypassed, nil
	}

	if prompt.Color == 0 {
		prompt.Color = PromptColor
	}
	msg, err := g.platform.SendEmbed(channelID, prompt)
	if err != nil {
		return 0, fmt.Errorf("send confirmation: %w", err)
	}
	if err := g.platform.AddReaction(channelID, msg.ID, Emoji); err != nil {
		return 0, fmt.Errorf("add confirmation reaction: %w", err)
	}

	pending := &Pending{
		ID:        uuid.NewString(),
		InvokerID: invokerID,
		ChannelID: channelID,
		MessageID: msg.ID,
		Deadline:  g.now().Add(g.timeout),
		ack:       make(chan struct{}),
	}
	g.mu.Lock()
	g.pending[msg.ID] = pending
	g.mu.Unlock()
	defer g.forget(msg.ID)

	logger := g.logger.With(zap.String("confirmation_id", pending.ID), zap.String("invoker_id", invokerID))
	logger.Debug("awaiting confirmation", zap.String("message_id", msg.ID))

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case <-pending.ack:
		logger.Info("confirmation acknowledged")
		monitoring.Confirmations.WithLabelValues(Acknowledged.String()).Inc()
		return Acknowledged, nil
	case <-timer.C:
		logger.Info("confirmation timed out")
		monitoring.Confirmations.WithLabelValues(TimedOut.String()).Inc()
		return TimedOut, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// HandleReaction consumes a reaction if it acknowledges a pending prompt.
// Only the invoker's Emoji on that exact message before the deadline counts.
func (g *Gate) HandleReaction(messageID, userID, emoji string, at time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	pending, ok := g.pending[messageID]
	if !ok {
		return false
	}
	if userID != pending.InvokerID || strings.ReplaceAll(emoji, "\uFE0F", "") != Emoji {
		return false
	}
	if at.After(pending.Deadline) {
		return false
	}
	delete(g.pending, messageID)
	close(pending.ack)
	return true
}

// Waiting is the number of prompts still open.
func (g *Gate) Waiting() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// NotifyTimeout posts TimeoutNotice and removes it after a few seconds.
func (g *Gate) NotifyTimeout(ctx context.Context, channelID string) {
	msg, err := g.platform.SendMessage(channelID, TimeoutNotice)
	if err != nil {
		g.logger.Warn("timeout notice failed", zap.String("channel_id", channelID), zap.Error(err))
		return
	}
	go func() {
		timer := time.NewTimer(noticeLifetime)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		if err := g.platform.DeleteMessage(channelID, msg.ID); err != nil {
			g.logger.Debug("timeout notice cleanup failed", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}()
}

func (g *Gate) forget(messageID string) {
	g.mu.Lock()
	delete(g.pending, messageID)
	g.mu.Unlock()
}
