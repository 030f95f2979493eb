// Package layout tears down and recreates the server's channel structure.
package layout

import (
	"context"
	"fmt"

	"femb-paradise/internal/naming"
	"femb-paradise/internal/tickets"
	"femb-paradise/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Platform interface {
	GuildChannels(guildID string) ([]*discordgo.Channel, error)
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	DeleteChannel(channelID string) error
}

// Prompter posts ticket prompts into freshly created channels.
type Prompter interface {
	PostPrompt(ctx context.Context, channelID, templateID string) (string, error)
	Catalog() tickets.Catalog
}

// Report collects per-item results of a Create run.
type Report struct {
	Categories utils.Results
	Channels   utils.Results
	Prompts    utils.Results
}

type Builder struct {
	platform  Platform
	prompter  Prompter
	structure []Block
	logger    *zap.Logger
}

func NewBuilder(platform Platform, prompter Prompter, logger *zap.Logger) *Builder {
	return &Builder{
		platform:  platform,
		prompter:  prompter,
		structure: Structure,
		logger:    logger,
	}
}

// Purge deletes every channel of the guild except the ids in keep. A failed
// deletion is recorded and the purge moves on.
func (b *Builder) Purge(guildID string, keep ...string) (utils.Results, error) {
	var results utils.Results
	channels, err := b.platform.GuildChannels(guildID)
	if err != nil {
		return results, fmt.Errorf("list channels: %w", err)
	}
	skip := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		if id != "" {
			skip[id] = struct{}{}
		}
	}
	for _, channel := range channels {
		if _, ok := skip[channel.ID]; ok {
			continue
		}
		results.Add(channel.ID, channel.Name, b.platform.DeleteChannel(channel.ID))
	}
	results.Log(b.logger, "purge", zap.String("guild_id", guildID))
	return results, nil
}

// Create builds every block in order. A category or channel that cannot be
// created even with its fallback name aborts the run; prompt failures do not.
func (b *Builder) Create(ctx context.Context, guildID string) (*Report, error) {
	report := &Report{}
	catalog := b.prompter.Catalog()

	for _, block := range b.structure {
		category, err := b.create(guildID, block.Category, naming.SafeCategoryName(block.Category), discordgo.ChannelTypeGuildCategory, "")
		report.Categories.Add(idOf(category), block.Category, err)
		if err != nil {
			return report, fmt.Errorf("create category %q: %w", block.Category, err)
		}

		for _, raw := range block.Text {
			decorated := naming.Decorate(raw, naming.DefaultEmoji)
			channel, err := b.create(guildID, decorated, naming.SafeChannelName(decorated), discordgo.ChannelTypeGuildText, category.ID)
			report.Channels.Add(idOf(channel), decorated, err)
			if err != nil {
				return report, fmt.Errorf("create channel %q: %w", raw, err)
			}
			key := naming.Key(raw)
			if _, ok := catalog.Lookup(key); !ok {
				continue
			}
			_, err = b.prompter.PostPrompt(ctx, channel.ID, key)
			report.Prompts.Add(channel.ID, key, err)
		}

		for _, raw := range block.Voice {
			decorated := naming.Decorate(raw, naming.DefaultEmoji)
			channel, err := b.create(guildID, decorated, naming.SafeChannelName(decorated), discordgo.ChannelTypeGuildVoice, category.ID)
			report.Channels.Add(idOf(channel), decorated, err)
			if err != nil {
				return report, fmt.Errorf("create voice channel %q: %w", raw, err)
			}
		}
	}

	report.Channels.Log(b.logger, "structure channels", zap.String("guild_id", guildID))
	report.Prompts.Log(b.logger, "ticket prompts", zap.String("guild_id", guildID))
	return report, nil
}

// create tries name and then fallback once.
func (b *Builder) create(guildID, name, fallback string, kind discordgo.ChannelType, parentID string) (*discordgo.Channel, error) {
	channel, err := b.platform.CreateChannel(guildID, discordgo.GuildChannelCreateData{Name: name, Type: kind, ParentID: parentID})
	if err == nil {
		return channel, nil
	}
	b.logger.Warn("channel create failed, retrying with fallback name", zap.String("name", name), zap.String("fallback", fallback), zap.Error(err))
	return b.platform.CreateChannel(guildID, discordgo.GuildChannelCreateData{Name: fallback, Type: kind, ParentID: parentID})
}

func idOf(channel *discordgo.Channel) string {
	if channel == nil {
		return ""
	}
	return channel.ID
}
