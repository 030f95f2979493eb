// Package platformtest provides an in-memory platform.Platform for tests.
package platformtest

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"femb-paradise/internal/platform"

	"github.com/bwmarrin/discordgo"
)

var ErrNotFound = errors.New("platformtest: not found")

const dmPrefix = "dm-"

// DMChannelID is the id DirectChannel hands out for userID.
func DMChannelID(userID string) string { return dmPrefix + userID }

// Sent is a message the fake accepted.
type Sent struct {
	ChannelID string
	MessageID string
	Content   string
	Embed     *discordgo.MessageEmbed
}

type Reaction struct {
	ChannelID string
	MessageID string
	Emoji     string
}

type PermissionSet struct {
	ChannelID  string
	TargetID   string
	TargetType discordgo.PermissionOverwriteType
	Allow      int64
	Deny       int64
}

type Fake struct {
	mu sync.Mutex

	BotID   string
	GuildID string
	next    int

	guild    *discordgo.Guild
	channels []*discordgo.Channel
	roles    []*discordgo.Role
	members  map[string]*discordgo.Member
	messages map[string][]*discordgo.Message

	AuditActorID string
	AuditErr     error

	FailRoleEdit      map[string]error
	FailCreateChannel map[string]error
	FailDeleteChannel map[string]error
	FailBan           error
	FailDM            error
	FailCreateRole    error

	Created     []*discordgo.Channel
	Deleted     []string
	SentLog     []Sent
	Edited      []Sent
	DeletedMsgs []string
	Reactions   []Reaction
	Permissions []PermissionSet
	RoleEdits   map[string]int64
	RoleGrants  []string
	RoleRevokes []string
	Bans        []string
	Kicks       []string
	BulkDeleted []string
}

func New(guildID, botID string) *Fake {
	return &Fake{
		BotID:             botID,
		GuildID:           guildID,
		next:              1000,
		guild:             &discordgo.Guild{ID: guildID, Name: "Femb Paradise", MemberCount: 0},
		members:           make(map[string]*discordgo.Member),
		messages:          make(map[string][]*discordgo.Message),
		FailRoleEdit:      make(map[string]error),
		FailCreateChannel: make(map[string]error),
		FailDeleteChannel: make(map[string]error),
		RoleEdits:         make(map[string]int64),
		roles:             []*discordgo.Role{{ID: guildID, Name: "@everyone"}},
	}
}

func (f *Fake) nextID() string {
	f.next++
	return strconv.Itoa(f.next)
}

// AddChannel seeds a channel without recording it as created.
func (f *Fake) AddChannel(channel *discordgo.Channel) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if channel.ID == "" {
		channel.ID = f.nextID()
	}
	if channel.GuildID == "" {
		channel.GuildID = f.GuildID
	}
	f.channels = append(f.channels, channel)
	return channel
}

func (f *Fake) AddRole(role *discordgo.Role) *discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	if role.ID == "" {
		role.ID = f.nextID()
	}
	f.roles = append(f.roles, role)
	return role
}

func (f *Fake) AddMember(member *discordgo.Member) *discordgo.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	member.GuildID = f.GuildID
	f.members[member.User.ID] = member
	f.guild.MemberCount = len(f.members)
	return member
}

func (f *Fake) SetOwner(userID string) {
	f.mu.Lock()
	f.guild.OwnerID = userID
	f.mu.Unlock()
}

// AddHistory seeds messages returned by RecentMessages, newest first.
func (f *Fake) AddHistory(channelID string, messages ...*discordgo.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[channelID] = append(f.messages[channelID], messages...)
}

func (f *Fake) ChannelsSnapshot() []*discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.Channel(nil), f.channels...)
}

func (f *Fake) CreatedSnapshot() []*discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.Channel(nil), f.Created...)
}

func (f *Fake) SentSnapshot() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Sent(nil), f.SentLog...)
}

// SentTo returns messages delivered to channelID in order.
func (f *Fake) SentTo(channelID string) []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Sent
	for _, sent := range f.SentLog {
		if sent.ChannelID == channelID {
			out = append(out, sent)
		}
	}
	return out
}

func (f *Fake) DeletedMessagesSnapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.DeletedMsgs...)
}

func (f *Fake) ReactionsOn(messageID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.Reactions {
		if r.MessageID == messageID {
			out = append(out, r.Emoji)
		}
	}
	return out
}

func (f *Fake) RoleByName(name string) *discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, role := range f.roles {
		if role.Name == name {
			return role
		}
	}
	return nil
}

func (f *Fake) BotUserID() string { return f.BotID }

func (f *Fake) Guild(guildID string) (*discordgo.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if guildID != f.GuildID {
		return nil, ErrNotFound
	}
	guild := *f.guild
	guild.Roles = append([]*discordgo.Role(nil), f.roles...)
	guild.Channels = append([]*discordgo.Channel(nil), f.channels...)
	guild.Members = make([]*discordgo.Member, 0, len(f.members))
	for _, member := range f.members {
		guild.Members = append(guild.Members, member)
	}
	sort.Slice(guild.Members, func(i, j int) bool { return guild.Members[i].User.ID < guild.Members[j].User.ID })
	return &guild, nil
}

func (f *Fake) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.Channel(nil), f.channels...), nil
}

func (f *Fake) Channel(channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, channel := range f.channels {
		if channel.ID == channelID {
			return channel, nil
		}
	}
	if strings.HasPrefix(channelID, dmPrefix) {
		return &discordgo.Channel{ID: channelID, Type: discordgo.ChannelTypeDM}, nil
	}
	return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
}

func (f *Fake) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailCreateChannel[data.Name]; ok {
		return nil, err
	}
	channel := &discordgo.Channel{
		ID:                   f.nextID(),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		Topic:                data.Topic,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels = append(f.channels, channel)
	f.Created = append(f.Created, channel)
	return channel, nil
}

func (f *Fake) DeleteChannel(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailDeleteChannel[channelID]; ok {
		return err
	}
	for i, channel := range f.channels {
		if channel.ID == channelID {
			f.channels = append(f.channels[:i], f.channels[i+1:]...)
			f.Deleted = append(f.Deleted, channelID)
			return nil
		}
	}
	return fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
}

func (f *Fake) SetChannelPermissions(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Permissions = append(f.Permissions, PermissionSet{ChannelID: channelID, TargetID: targetID, TargetType: targetType, Allow: allow, Deny: deny})
	return nil
}

func (f *Fake) send(channelID, content string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDM != nil && strings.HasPrefix(channelID, dmPrefix) {
		return nil, f.FailDM
	}
	msg := &discordgo.Message{ID: f.nextID(), ChannelID: channelID, Content: content}
	if embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{embed}
	}
	f.SentLog = append(f.SentLog, Sent{ChannelID: channelID, MessageID: msg.ID, Content: content, Embed: embed})
	return msg, nil
}

func (f *Fake) SendMessage(channelID, content string) (*discordgo.Message, error) {
	return f.send(channelID, content, nil)
}

func (f *Fake) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return f.send(channelID, "", embed)
}

func (f *Fake) SendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	var embed *discordgo.MessageEmbed
	if len(data.Embeds) > 0 {
		embed = data.Embeds[0]
	}
	return f.send(channelID, data.Content, embed)
}

func (f *Fake) EditMessage(channelID, messageID, content string) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edited = append(f.Edited, Sent{ChannelID: channelID, MessageID: messageID, Content: content})
	return &discordgo.Message{ID: messageID, ChannelID: channelID, Content: content}, nil
}

func (f *Fake) DeleteMessage(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeletedMsgs = append(f.DeletedMsgs, messageID)
	return nil
}

func (f *Fake) AddReaction(channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reactions = append(f.Reactions, Reaction{ChannelID: channelID, MessageID: messageID, Emoji: emoji})
	return nil
}

func (f *Fake) RecentMessages(channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	history := f.messages[channelID]
	start := 0
	if beforeID != "" {
		start = len(history)
		for i, msg := range history {
			if msg.ID == beforeID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(history) {
		end = len(history)
	}
	return append([]*discordgo.Message(nil), history[start:end]...), nil
}

func (f *Fake) BulkDelete(channelID string, messageIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BulkDeleted = append(f.BulkDeleted, messageIDs...)
	return nil
}

func (f *Fake) DirectChannel(userID string) (*discordgo.Channel, error) {
	if f.FailDM != nil {
		return nil, f.FailDM
	}
	return &discordgo.Channel{ID: dmPrefix + userID, Type: discordgo.ChannelTypeDM}, nil
}

func (f *Fake) Roles(guildID string) ([]*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.Role(nil), f.roles...), nil
}

func (f *Fake) CreateRole(guildID, name string) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreateRole != nil {
		return nil, f.FailCreateRole
	}
	role := &discordgo.Role{ID: f.nextID(), Name: name}
	f.roles = append(f.roles, role)
	return role, nil
}

func (f *Fake) EditRolePermissions(guildID, roleID string, permissions int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailRoleEdit[roleID]; ok {
		return err
	}
	for _, role := range f.roles {
		if role.ID == roleID {
			role.Permissions = permissions
			f.RoleEdits[roleID] = permissions
			return nil
		}
	}
	return fmt.Errorf("role %s: %w", roleID, ErrNotFound)
}

func (f *Fake) Member(guildID, userID string) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.members[userID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", userID, ErrNotFound)
	}
	return member, nil
}

// MembersSnapshot returns members ordered by id.
func (f *Fake) MembersSnapshot() []*discordgo.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*discordgo.Member, 0, len(f.members))
	for _, member := range f.members {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.ID < out[j].User.ID })
	return out
}

func (f *Fake) AddMemberRole(guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RoleGrants = append(f.RoleGrants, userID+":"+roleID)
	if member, ok := f.members[userID]; ok {
		member.Roles = append(member.Roles, roleID)
	}
	return nil
}

func (f *Fake) RemoveMemberRole(guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RoleRevokes = append(f.RoleRevokes, userID+":"+roleID)
	return nil
}

func (f *Fake) Ban(guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailBan != nil {
		return f.FailBan
	}
	f.Bans = append(f.Bans, userID)
	return nil
}

func (f *Fake) Kick(guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Kicks = append(f.Kicks, userID)
	return nil
}

func (f *Fake) AuditActor(guildID string, action discordgo.AuditLogAction, targetID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.AuditActorID, f.AuditErr
}

var _ platform.Platform = (*Fake)(nil)
