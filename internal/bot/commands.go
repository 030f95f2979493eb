package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"femb-paradise/internal/monitoring"
	"femb-paradise/internal/naming"
	"femb-paradise/internal/tickets"
	"femb-paradise/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	forbiddenNotice      = "❌ No tienes permisos para usar este comando."
	missingArgumentHint  = "❌ Falta un argumento requerido."
	memberNotFoundNotice = "❌ No encontré a ese miembro en el servidor."
	cooldownNotice       = "⏳ Vas muy rápido, espera unos segundos antes de repetir."
)

var errForbidden = errors.New("forbidden")

// usageError is a validation failure; its text is replied verbatim.
type usageError string

func (e usageError) Error() string { return string(e) }

// reportedError wraps a failure the command already told the user about.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

type commandContext struct {
	ctx       context.Context
	msg       *discordgo.Message
	guildID   string
	channelID string
	author    *discordgo.User
	member    *discordgo.Member
	name      string
	args      []string
	rest      string
}

type authorizer func(b *Bot, c *commandContext) error

type command struct {
	run       func(b *Bot, c *commandContext) error
	authorize authorizer
	throttled bool
}

// commandTable maps each command name to its handler and authorization
// predicate. Names are case-sensitive.
func commandTable() map[string]command {
	return map[string]command{
		"Femb-Paradise": {run: (*Bot).cmdRebuild, authorize: requireAdmin},
		"embed":         {run: (*Bot).cmdEmbed, authorize: requireAdmin},

		"close": {run: (*Bot).cmdClose, authorize: requireTicketCloser},

		"warn":   {run: (*Bot).cmdWarn, authorize: requirePermission(discordgo.PermissionKickMembers)},
		"unwarn": {run: (*Bot).cmdUnwarn, authorize: requirePermission(discordgo.PermissionKickMembers)},
		"kick":   {run: (*Bot).cmdKick, authorize: requirePermission(discordgo.PermissionKickMembers)},
		"clear":  {run: (*Bot).cmdClear, authorize: requirePermission(discordgo.PermissionManageMessages)},
		"ban":    {run: (*Bot).cmdBan, authorize: requirePermission(discordgo.PermissionBanMembers)},
		"mute":   {run: (*Bot).cmdMute, authorize: requirePermission(discordgo.PermissionManageRoles)},
		"unmute": {run: (*Bot).cmdUnmute, authorize: requirePermission(discordgo.PermissionManageRoles)},

		"ticket":      {run: (*Bot).cmdTicket, authorize: allowAll},
		"warns":       {run: (*Bot).cmdWarns, authorize: allowAll},
		"help":        {run: (*Bot).cmdHelp, authorize: allowAll},
		"Reglas":      {run: (*Bot).cmdRules, authorize: allowAll},
		"informacion": {run: (*Bot).cmdMemberInfo, authorize: allowAll},
		"server":      {run: (*Bot).cmdServerInfo, authorize: allowAll},
		"encuesta":    {run: (*Bot).cmdPoll, authorize: allowAll},
		"inactivos":   {run: (*Bot).cmdInactive, authorize: allowAll},
		"stats":       {run: (*Bot).cmdStats, authorize: allowAll},

		"8ball":      {run: (*Bot).cmdEightBall, authorize: allowAll, throttled: true},
		"love":       {run: (*Bot).cmdLove, authorize: allowAll, throttled: true},
		"ship":       {run: (*Bot).cmdShip, authorize: allowAll, throttled: true},
		"kiss":       {run: (*Bot).cmdKiss, authorize: allowAll, throttled: true},
		"hug":        {run: (*Bot).cmdHug, authorize: allowAll, throttled: true},
		"slap":       {run: (*Bot).cmdSlap, authorize: allowAll, throttled: true},
		"amorpropio": {run: (*Bot).cmdSelfLove, authorize: allowAll, throttled: true},
	}
}

func allowAll(*Bot, *commandContext) error { return nil }

func requireAdmin(b *Bot, c *commandContext) error {
	return requirePermission(discordgo.PermissionAdministrator)(b, c)
}

// requirePermission passes the superuser and members holding bit.
func requirePermission(bit int64) authorizer {
	return func(b *Bot, c *commandContext) error {
		if b.isSuperuser(c.author.ID) {
			return nil
		}
		guild, err := b.platform.Guild(c.guildID)
		if err != nil {
			return fmt.Errorf("load guild: %w", err)
		}
		if !utils.HasPermission(utils.MemberPermissions(guild, c.member), bit) {
			return errForbidden
		}
		return nil
	}
}

func requireTicketCloser(b *Bot, c *commandContext) error {
	if b.isSuperuser(c.author.ID) {
		return nil
	}
	channel, err := b.platform.Channel(c.channelID)
	if err != nil {
		return fmt.Errorf("load channel: %w", err)
	}
	if !naming.IsTicketChannel(channel.Name) {
		return tickets.ErrNotTicketChannel
	}
	guild, err := b.platform.Guild(c.guildID)
	if err != nil {
		return fmt.Errorf("load guild: %w", err)
	}
	if !b.tickets.CanClose(guild, channel, c.member) {
		return tickets.ErrNotAuthorized
	}
	return nil
}

func (b *Bot) isSuperuser(userID string) bool {
	return b.cfg.SuperuserID != "" && userID == b.cfg.SuperuserID
}

// dispatch runs msg as a command. It reports false when msg is not one.
func (b *Bot) dispatch(ctx context.Context, msg *discordgo.Message) bool {
	prefix := b.cfg.CommandPrefix
	if prefix == "" || !strings.HasPrefix(msg.Content, prefix) {
		return false
	}
	name, rest := splitFirst(strings.TrimPrefix(msg.Content, prefix))
	cmd, ok := b.commands[name]
	if !ok {
		return false
	}

	start := time.Now()
	c := &commandContext{
		ctx:       ctx,
		msg:       msg,
		guildID:   msg.GuildID,
		channelID: msg.ChannelID,
		author:    msg.Author,
		member:    b.resolveMember(msg),
		name:      name,
		args:      strings.Fields(rest),
		rest:      rest,
	}

	outcome := b.execute(cmd, c)
	monitoring.Commands.WithLabelValues(name, outcome).Inc()
	monitoring.CommandLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return true
}

func (b *Bot) execute(cmd command, c *commandContext) string {
	if cmd.throttled && !b.social.AllowAt(c.author.ID, b.now()) {
		b.reply(c, cooldownNotice)
		return "throttled"
	}
	if cmd.authorize != nil {
		if err := cmd.authorize(b, c); err != nil {
			return b.replyError(c, err)
		}
	}
	if err := cmd.run(b, c); err != nil {
		return b.replyError(c, err)
	}
	return "ok"
}

// replyError tells the invoker what went wrong and returns the metric outcome.
func (b *Bot) replyError(c *commandContext, err error) string {
	var usage usageError
	var reported reportedError
	switch {
	case errors.Is(err, errForbidden):
		b.reply(c, forbiddenNotice)
		return "forbidden"
	case errors.As(err, &usage):
		b.reply(c, string(usage))
		return "usage"
	case errors.Is(err, tickets.ErrNotTicketChannel):
		b.reply(c, "Este comando sólo funciona dentro de un canal de ticket.")
		return "usage"
	case errors.Is(err, tickets.ErrNotAuthorized):
		b.reply(c, "Sólo el creador del ticket, Staff o el SuperUser pueden cerrar este ticket.")
		return "forbidden"
	case errors.As(err, &reported):
		b.logger.Error("command failed", zap.String("command", c.name), zap.String("guild_id", c.guildID), zap.Error(reported.err))
		return "error"
	default:
		b.logger.Error("command failed", zap.String("command", c.name), zap.String("guild_id", c.guildID), zap.Error(err))
		b.reply(c, fmt.Sprintf("❌ Ocurrió un error: `%v`", err))
		return "error"
	}
}

// resolveMember prefers the platform's member record; message payloads
// carry a member without its user.
func (b *Bot) resolveMember(msg *discordgo.Message) *discordgo.Member {
	if member, err := b.platform.Member(msg.GuildID, msg.Author.ID); err == nil && member != nil {
		if member.User == nil {
			copied := *member
			copied.User = msg.Author
			return &copied
		}
		return member
	}
	if msg.Member != nil {
		copied := *msg.Member
		copied.User = msg.Author
		copied.GuildID = msg.GuildID
		return &copied
	}
	return &discordgo.Member{GuildID: msg.GuildID, User: msg.Author}
}

// reply answers the invoking message without pinging its author.
func (b *Bot) reply(c *commandContext, content string) *discordgo.Message {
	msg, err := b.platform.SendComplex(c.channelID, &discordgo.MessageSend{
		Content:   content,
		Reference: c.msg.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	})
	if err != nil {
		b.logger.Warn("reply failed", zap.String("channel_id", c.channelID), zap.Error(err))
		return nil
	}
	return msg
}

func (b *Bot) send(c *commandContext, content string) *discordgo.Message {
	msg, err := b.platform.SendMessage(c.channelID, content)
	if err != nil {
		b.logger.Warn("send failed", zap.String("channel_id", c.channelID), zap.Error(err))
		return nil
	}
	return msg
}

func (b *Bot) sendEmbed(c *commandContext, embed *discordgo.MessageEmbed) *discordgo.Message {
	msg, err := b.platform.SendEmbed(c.channelID, embed)
	if err != nil {
		b.logger.Warn("embed failed", zap.String("channel_id", c.channelID), zap.Error(err))
		return nil
	}
	return msg
}

// targetMember resolves a mention or raw id to a guild member.
func (b *Bot) targetMember(c *commandContext, token string) (*discordgo.Member, error) {
	userID, ok := parseUserID(token)
	if !ok {
		return nil, usageError(memberNotFoundNotice)
	}
	member, err := b.platform.Member(c.guildID, userID)
	if err != nil || member == nil || member.User == nil {
		return nil, usageError(memberNotFoundNotice)
	}
	return member, nil
}

// parseUserID accepts <@id>, <@!id> and a bare snowflake.
func parseUserID(token string) (string, bool) {
	id := strings.TrimSpace(token)
	if strings.HasPrefix(id, "<@") && strings.HasSuffix(id, ">") {
		id = strings.TrimPrefix(strings.TrimSuffix(id[2:], ">"), "!")
	}
	if id == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", false
	}
	return id, true
}

func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, isSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// quotedArg reads one argument that may be wrapped in double quotes.
func quotedArg(s string) (string, string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		if end := strings.Index(s[1:], `"`); end >= 0 {
			return s[1 : end+1], strings.TrimSpace(s[end+2:])
		}
	}
	return splitFirst(s)
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

func mention(userID string) string { return "<@" + userID + ">" }

// displayName is the nickname when set, else the username.
func displayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	return member.User.Username
}
