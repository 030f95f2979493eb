package moderation

import (
	"fmt"

	"femb-paradise/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const MutedRoleName = "Muted"

// MutedDeny is what the muted role loses on every channel.
const MutedDeny = discordgo.PermissionSendMessages | discordgo.PermissionAddReactions

type MutePlatform interface {
	Roles(guildID string) ([]*discordgo.Role, error)
	CreateRole(guildID, name string) (*discordgo.Role, error)
	GuildChannels(guildID string) ([]*discordgo.Channel, error)
	SetChannelPermissions(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error
	AddMemberRole(guildID, userID, roleID string) error
	RemoveMemberRole(guildID, userID, roleID string) error
}

type Muter struct {
	platform MutePlatform
	logger   *zap.Logger
}

func NewMuter(platform MutePlatform, logger *zap.Logger) *Muter {
	return &Muter{platform: platform, logger: logger}
}

// FindRole returns the muted role or nil.
func (m *Muter) FindRole(guildID string) (*discordgo.Role, error) {
	roles, err := m.platform.Roles(guildID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	for _, role := range roles {
		if role != nil && role.Name == MutedRoleName {
			return role, nil
		}
	}
	return nil, nil
}

// EnsureRole returns the muted role, creating it when absent. A fresh role is
// denied send and react on every channel; per-channel outcomes are returned.
func (m *Muter) EnsureRole(guildID string) (*discordgo.Role, utils.Results, error) {
	role, err := m.FindRole(guildID)
	if err != nil {
		return nil, nil, err
	}
	if role != nil {
		return role, nil, nil
	}

	role, err = m.platform.CreateRole(guildID, MutedRoleName)
	if err != nil {
		return nil, nil, fmt.Errorf("create muted role: %w", err)
	}

	channels, err := m.platform.GuildChannels(guildID)
	if err != nil {
		return role, nil, fmt.Errorf("list channels: %w", err)
	}
	var results utils.Results
	for _, channel := range channels {
		if channel == nil {
			continue
		}
		err := m.platform.SetChannelPermissions(channel.ID, role.ID, discordgo.PermissionOverwriteTypeRole, 0, MutedDeny)
		results.Add(channel.ID, channel.Name, err)
	}
	results.Log(m.logger, "muted role channel overwrites", zap.String("guild_id", guildID), zap.String("role_id", role.ID))
	return role, results, nil
}

func (m *Muter) Mute(guildID, userID string) error {
	role, _, err := m.EnsureRole(guildID)
	if err != nil {
		return err
	}
	if err := m.platform.AddMemberRole(guildID, userID, role.ID); err != nil {
		return fmt.Errorf("grant muted role: %w", err)
	}
	return nil
}

// Unmute removes the muted role. It reports false when the guild has no
// muted role at all.
func (m *Muter) Unmute(guildID, userID string) (bool, error) {
	role, err := m.FindRole(guildID)
	if err != nil || role == nil {
		return false, err
	}
	if err := m.platform.RemoveMemberRole(guildID, userID, role.ID); err != nil {
		return true, fmt.Errorf("revoke muted role: %w", err)
	}
	return true, nil
}
