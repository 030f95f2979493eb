package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"femb-paradise/internal/modules/audit"
	"femb-paradise/internal/monitoring"
	"femb-paradise/internal/naming"
	"femb-paradise/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

var (
	ErrNotTicketChannel = errors.New("not a ticket channel")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrUnknownTemplate  = errors.New("unknown ticket template")
)

const (
	CategoryName  = "🎟️・TICKETS"
	categoryBadge = "🎟️"

	ownerAllow = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory
	staffAllow = ownerAllow | discordgo.PermissionManageMessages
)

type Platform interface {
	BotUserID() string
	Guild(guildID string) (*discordgo.Guild, error)
	GuildChannels(guildID string) ([]*discordgo.Channel, error)
	Channel(channelID string) (*discordgo.Channel, error)
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	DeleteChannel(channelID string) error
	SendMessage(channelID, content string) (*discordgo.Message, error)
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	SendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	AddReaction(channelID, messageID, emoji string) error
	DirectChannel(userID string) (*discordgo.Channel, error)
	Member(guildID, userID string) (*discordgo.Member, error)
}

// MessageMap remembers which template a prompt message opens.
type MessageMap interface {
	Put(messageID, templateID string) error
	Get(messageID string) (string, bool)
}

type Options struct {
	StaffRoleName string
	SuperuserID   string
	CommandPrefix string
}

// Reaction is the part of a reaction event the engine routes on.
type Reaction struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
	Bot       bool
}

type Engine struct {
	platform Platform
	messages MessageMap
	catalog  Catalog
	opts     Options
	audit    *audit.Logger
	logger   *zap.Logger
}

func NewEngine(platform Platform, messages MessageMap, opts Options, auditLogger *audit.Logger, logger *zap.Logger) *Engine {
	if opts.CommandPrefix == "" {
		opts.CommandPrefix = "!"
	}
	return &Engine{
		platform: platform,
		messages: messages,
		catalog:  Templates,
		opts:     opts,
		audit:    auditLogger,
		logger:   logger,
	}
}

func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// PromptEmbed renders the embed users react to.
func PromptEmbed(tmpl Template) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Color:       promptColor,
	}
	for _, field := range tmpl.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: field.Name, Value: field.Value})
	}
	if tmpl.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: tmpl.Footer}
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "\u200b", Value: promptCall})
	return embed
}

// PostPrompt sends the prompt for templateID, adds its trigger and records
// the message so later reactions can be routed.
func (e *Engine) PostPrompt(ctx context.Context, channelID, templateID string) (string, error) {
	tmpl, ok := e.catalog.Lookup(templateID)
	if !ok {
		return "", fmt.Errorf("%s: %w", templateID, ErrUnknownTemplate)
	}
	msg, err := e.platform.SendEmbed(channelID, PromptEmbed(tmpl))
	if err != nil {
		return "", fmt.Errorf("send prompt: %w", err)
	}
	if err := e.platform.AddReaction(channelID, msg.ID, tmpl.Trigger); err != nil {
		return msg.ID, fmt.Errorf("add trigger: %w", err)
	}
	if err := e.messages.Put(msg.ID, tmpl.ID); err != nil {
		return msg.ID, fmt.Errorf("record prompt: %w", err)
	}
	e.logger.Info("ticket prompt posted", zap.String("channel_id", channelID), zap.String("message_id", msg.ID), zap.String("template", tmpl.ID))
	return msg.ID, nil
}

// Route decides what a reaction on a prompt does. It never touches the
// platform beyond the bot id.
func (e *Engine) Route(r Reaction) Decision {
	templateID, ok := e.messages.Get(r.MessageID)
	if !ok {
		return Decision{Outcome: OutcomeUntracked}
	}
	if r.Bot || r.UserID == e.platform.BotUserID() {
		return Decision{Outcome: OutcomeBotActor, TemplateID: templateID}
	}
	tmpl, ok := e.catalog.Lookup(templateID)
	if !ok {
		return Decision{Outcome: OutcomeUntracked}
	}
	if !sameEmoji(r.Emoji, tmpl.Trigger) {
		return Decision{Outcome: OutcomeWrongEmoji, TemplateID: templateID}
	}
	return Decision{Outcome: OutcomeCreate, TemplateID: templateID}
}

// HandleReaction opens a ticket when the reaction routes to OutcomeCreate.
// The returned channel is nil for every other outcome.
func (e *Engine) HandleReaction(ctx context.Context, r Reaction) (*discordgo.Channel, Decision, error) {
	decision := e.Route(r)
	if decision.Outcome != OutcomeCreate {
		return nil, decision, nil
	}
	member, err := e.platform.Member(r.GuildID, r.UserID)
	if err != nil {
		return nil, decision, fmt.Errorf("resolve member: %w", err)
	}
	if member.User == nil || member.User.Bot {
		return nil, Decision{Outcome: OutcomeBotActor, TemplateID: decision.TemplateID}, nil
	}
	channel, err := e.Open(ctx, r.GuildID, member.User, decision.TemplateID)
	if err != nil {
		return nil, decision, err
	}
	e.notifyOwner(r.GuildID, member.User.ID)
	return channel, decision, nil
}

// Open creates the ticket channel for owner under the tickets category.
func (e *Engine) Open(ctx context.Context, guildID string, owner *discordgo.User, templateID string) (*discordgo.Channel, error) {
	tmpl, ok := e.catalog.Lookup(templateID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", templateID, ErrUnknownTemplate)
	}
	guild, err := e.platform.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("load guild: %w", err)
	}
	channels, err := e.platform.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	category, err := e.ensureCategory(guildID, channels)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{})
	for _, channel := range channels {
		if channel.ParentID == category.ID {
			existing[strings.ToLower(naming.StripDecor(channel.Name))] = struct{}{}
		}
	}
	name := naming.Decorate(ticketName(existing, owner.Username), tmpl.Trigger)

	channel, err := e.platform.CreateChannel(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             category.ID,
		PermissionOverwrites: e.overwrites(guild, owner.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket channel: %w", err)
	}

	welcome := &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", owner.ID),
		Embeds: []*discordgo.MessageEmbed{{
			Title: "Ticket — " + tmpl.Title,
			Description: fmt.Sprintf("Hola <@%s>! Este canal ha sido creado para atender tu solicitud.\n\n"+
				"Staff: para cerrar el ticket usad `%sclose`.\n"+
				"Owner: describe aquí tu problema con la mayor cantidad de detalle posible.", owner.ID, e.opts.CommandPrefix),
			Color: welcomeColor,
		}},
	}
	if _, err := e.platform.SendComplex(channel.ID, welcome); err != nil {
		e.logger.Warn("ticket welcome failed", zap.String("channel_id", channel.ID), zap.Error(err))
	}

	e.audit.Log(ctx, audit.LevelInfo, guildID, owner.ID, "Ticket creado", fmt.Sprintf("%s abrió %s (%s)", owner.Username, channel.Name, tmpl.ID))
	monitoring.TicketsOpened.WithLabelValues(tmpl.ID).Inc()
	return channel, nil
}

// OpenFromChannel is the manual path: the template is inferred from the
// channel the command was typed in.
func (e *Engine) OpenFromChannel(ctx context.Context, guildID string, channel *discordgo.Channel, owner *discordgo.User) (*discordgo.Channel, error) {
	if channel == nil || !naming.IsTicketChannel(channel.Name) {
		return nil, ErrNotTicketChannel
	}
	return e.Open(ctx, guildID, owner, e.InferTemplate(channel.Name))
}

// InferTemplate picks the first template whose key appears in the channel
// name, or DefaultTemplateID.
func (e *Engine) InferTemplate(channelName string) string {
	plain := naming.Normalize(naming.StripDecor(channelName))
	for _, tmpl := range e.catalog {
		key := naming.Normalize(tmpl.ID)
		if strings.Contains(plain, key) || strings.Contains(plain, strings.ReplaceAll(key, "-", "_")) {
			return tmpl.ID
		}
	}
	return DefaultTemplateID
}

// Owner is the first member overwrite that grants view.
func Owner(channel *discordgo.Channel) string {
	if channel == nil {
		return ""
	}
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeMember && overwrite.Allow&discordgo.PermissionViewChannel != 0 {
			return overwrite.ID
		}
	}
	return ""
}

// CanClose reports whether member may close channel.
func (e *Engine) CanClose(guild *discordgo.Guild, channel *discordgo.Channel, member *discordgo.Member) bool {
	if member == nil || member.User == nil {
		return false
	}
	if e.opts.SuperuserID != "" && member.User.ID == e.opts.SuperuserID {
		return true
	}
	if owner := Owner(channel); owner != "" && owner == member.User.ID {
		return true
	}
	if staff := e.staffRole(guild); staff != nil {
		return utils.HasRole(member, staff.ID)
	}
	return utils.HasPermission(utils.MemberPermissions(guild, member), discordgo.PermissionManageMessages)
}

// Close deletes a ticket channel on behalf of member.
func (e *Engine) Close(ctx context.Context, guildID, channelID string, member *discordgo.Member) error {
	if member == nil || member.User == nil {
		return ErrNotAuthorized
	}
	channel, err := e.platform.Channel(channelID)
	if err != nil {
		return fmt.Errorf("load channel: %w", err)
	}
	superuser := e.opts.SuperuserID != "" && member.User.ID == e.opts.SuperuserID
	if !superuser && !naming.IsTicketChannel(channel.Name) {
		return ErrNotTicketChannel
	}
	guild, err := e.platform.Guild(guildID)
	if err != nil {
		return fmt.Errorf("load guild: %w", err)
	}
	if !e.CanClose(guild, channel, member) {
		return ErrNotAuthorized
	}

	e.audit.Log(ctx, audit.LevelInfo, guildID, member.User.ID, "Ticket cerrado", fmt.Sprintf("%s cerró %s", member.User.Username, channel.Name))
	if err := e.platform.DeleteChannel(channelID); err != nil {
		return fmt.Errorf("delete ticket channel: %w", err)
	}
	monitoring.TicketsClosed.Inc()
	return nil
}

func (e *Engine) ensureCategory(guildID string, channels []*discordgo.Channel) (*discordgo.Channel, error) {
	for _, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildCategory {
			continue
		}
		if strings.HasPrefix(channel.Name, categoryBadge) || strings.Contains(strings.ToUpper(channel.Name), "TICKETS") {
			return channel, nil
		}
	}
	category, err := e.platform.CreateChannel(guildID, discordgo.GuildChannelCreateData{
		Name: CategoryName,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return nil, fmt.Errorf("create tickets category: %w", err)
	}
	return category, nil
}

func (e *Engine) overwrites(guild *discordgo.Guild, ownerID string) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		{ID: guild.ID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: ownerID, Type: discordgo.PermissionOverwriteTypeMember, Allow: ownerAllow},
	}
	if staff := e.staffRole(guild); staff != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{ID: staff.ID, Type: discordgo.PermissionOverwriteTypeRole, Allow: staffAllow})
	}
	return overwrites
}

func (e *Engine) staffRole(guild *discordgo.Guild) *discordgo.Role {
	if guild == nil || e.opts.StaffRoleName == "" {
		return nil
	}
	for _, role := range guild.Roles {
		if role.Name == e.opts.StaffRoleName {
			return role
		}
	}
	return nil
}

func (e *Engine) notifyOwner(guildID, userID string) {
	guildName := guildID
	if guild, err := e.platform.Guild(guildID); err == nil {
		guildName = guild.Name
	}
	dm, err := e.platform.DirectChannel(userID)
	if err == nil {
		_, err = e.platform.SendMessage(dm.ID, fmt.Sprintf("✅ Se ha creado tu ticket en **%s**. Revisa el canal en el servidor.", guildName))
	}
	if err != nil {
		e.logger.Debug("ticket dm failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// ticketName returns the first stylized ticket-{handle}[-N] not in existing.
func ticketName(existing map[string]struct{}, handle string) string {
	base := strings.ToLower("ticket-" + handle)
	candidate := naming.Stylize(base)
	for n := 2; ; n++ {
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
		candidate = naming.Stylize(fmt.Sprintf("%s-%d", base, n))
	}
}

func sameEmoji(a, b string) bool {
	return strings.ReplaceAll(a, "\uFE0F", "") == strings.ReplaceAll(b, "\uFE0F", "")
}
