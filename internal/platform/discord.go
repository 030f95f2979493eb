package platform

import (
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
)

// auditMaxAge bounds how old an audit entry may be to be attributed to a
// live event.
const auditMaxAge = 30 * time.Second

type Discord struct {
	session *discordgo.Session
}

func NewDiscord(session *discordgo.Session) *Discord {
	return &Discord{session: session}
}

func (d *Discord) Session() *discordgo.Session {
	return d.session
}

// Ready reports whether the gateway has delivered its Ready payload.
func (d *Discord) Ready() bool {
	return d.session != nil && d.session.DataReady
}

func (d *Discord) BotUserID() string {
	if d.session.State == nil || d.session.State.User == nil {
		return ""
	}
	return d.session.State.User.ID
}

func (d *Discord) Guild(guildID string) (*discordgo.Guild, error) {
	if d.session.State != nil {
		if guild, err := d.session.State.Guild(guildID); err == nil && guild != nil {
			return guild, nil
		}
	}
	return d.session.Guild(guildID)
}

func (d *Discord) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	return d.session.GuildChannels(guildID)
}

func (d *Discord) Channel(channelID string) (*discordgo.Channel, error) {
	if d.session.State != nil {
		if channel, err := d.session.State.Channel(channelID); err == nil && channel != nil {
			return channel, nil
		}
	}
	return d.session.Channel(channelID)
}

func (d *Discord) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return d.session.GuildChannelCreateComplex(guildID, data)
}

func (d *Discord) DeleteChannel(channelID string) error {
	_, err := d.session.ChannelDelete(channelID)
	return err
}

func (d *Discord) SetChannelPermissions(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error {
	return d.session.ChannelPermissionSet(channelID, targetID, targetType, allow, deny)
}

func (d *Discord) SendMessage(channelID, content string) (*discordgo.Message, error) {
	return d.session.ChannelMessageSend(channelID, content)
}

func (d *Discord) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return d.session.ChannelMessageSendEmbed(channelID, embed)
}

func (d *Discord) SendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return d.session.ChannelMessageSendComplex(channelID, data)
}

func (d *Discord) EditMessage(channelID, messageID, content string) (*discordgo.Message, error) {
	return d.session.ChannelMessageEdit(channelID, messageID, content)
}

func (d *Discord) DeleteMessage(channelID, messageID string) error {
	return d.session.ChannelMessageDelete(channelID, messageID)
}

func (d *Discord) AddReaction(channelID, messageID, emoji string) error {
	return d.session.MessageReactionAdd(channelID, messageID, emoji)
}

func (d *Discord) RecentMessages(channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	return d.session.ChannelMessages(channelID, limit, beforeID, "", "")
}

func (d *Discord) BulkDelete(channelID string, messageIDs []string) error {
	return d.session.ChannelMessagesBulkDelete(channelID, messageIDs)
}

func (d *Discord) DirectChannel(userID string) (*discordgo.Channel, error) {
	return d.session.UserChannelCreate(userID)
}

func (d *Discord) Roles(guildID string) ([]*discordgo.Role, error) {
	return d.session.GuildRoles(guildID)
}

func (d *Discord) CreateRole(guildID, name string) (*discordgo.Role, error) {
	return d.session.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name})
}

func (d *Discord) EditRolePermissions(guildID, roleID string, permissions int64) error {
	_, err := d.session.GuildRoleEdit(guildID, roleID, &discordgo.RoleParams{Permissions: &permissions})
	return err
}

func (d *Discord) Member(guildID, userID string) (*discordgo.Member, error) {
	if d.session.State != nil {
		if member, err := d.session.State.Member(guildID, userID); err == nil && member != nil {
			return member, nil
		}
	}
	return d.session.GuildMember(guildID, userID)
}

func (d *Discord) AddMemberRole(guildID, userID, roleID string) error {
	return d.session.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (d *Discord) RemoveMemberRole(guildID, userID, roleID string) error {
	return d.session.GuildMemberRoleRemove(guildID, userID, roleID)
}

func (d *Discord) Ban(guildID, userID, reason string) error {
	return d.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

func (d *Discord) Kick(guildID, userID, reason string) error {
	return d.session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (d *Discord) AuditActor(guildID string, action discordgo.AuditLogAction, targetID string) (string, error) {
	logs, err := d.session.GuildAuditLog(guildID, "", "", int(action), 5)
	if err != nil {
		return "", err
	}
	if logs == nil {
		return "", errors.New("empty audit log response")
	}
	for _, entry := range logs.AuditLogEntries {
		if entry == nil {
			continue
		}
		if targetID != "" && entry.TargetID != targetID {
			continue
		}
		ts, err := discordgo.SnowflakeTimestamp(entry.ID)
		if err == nil && time.Since(ts) > auditMaxAge {
			continue
		}
		return entry.UserID, nil
	}
	return "", nil
}

var _ Platform = (*Discord)(nil)
