// Package platform is the set of Discord capabilities the bot relies on.
// Discord adapts a live session; platformtest.Fake keeps everything in memory.
package platform

import (
	"github.com/bwmarrin/discordgo"
)

type Platform interface {
	BotUserID() string

	Guild(guildID string) (*discordgo.Guild, error)
	GuildChannels(guildID string) ([]*discordgo.Channel, error)
	Channel(channelID string) (*discordgo.Channel, error)
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	DeleteChannel(channelID string) error
	SetChannelPermissions(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error

	SendMessage(channelID, content string) (*discordgo.Message, error)
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	SendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(channelID, messageID, content string) (*discordgo.Message, error)
	DeleteMessage(channelID, messageID string) error
	AddReaction(channelID, messageID, emoji string) error
	RecentMessages(channelID string, limit int, beforeID string) ([]*discordgo.Message, error)
	BulkDelete(channelID string, messageIDs []string) error
	DirectChannel(userID string) (*discordgo.Channel, error)

	Roles(guildID string) ([]*discordgo.Role, error)
	CreateRole(guildID, name string) (*discordgo.Role, error)
	EditRolePermissions(guildID, roleID string, permissions int64) error

	Member(guildID, userID string) (*discordgo.Member, error)
	AddMemberRole(guildID, userID, roleID string) error
	RemoveMemberRole(guildID, userID, roleID string) error
	Ban(guildID, userID, reason string) error
	Kick(guildID, userID, reason string) error

	// AuditActor returns the user behind the most recent audit entry of the
	// given action on targetID, or "" when none is known.
	AuditActor(guildID string, action discordgo.AuditLogAction, targetID string) (string, error)
}
