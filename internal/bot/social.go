package bot

import (
	"fmt"
	"math/rand"

	"github.com/bwmarrin/discordgo"
)

var eightBallAnswers = []string{"Sí.", "No.", "Tal vez.", "Definitivamente.", "Pregunta después.", "No puedo predecirlo."}

var (
	selfLoveGIFs = []string{
		"https://media.giphy.com/media/1BXa2alBjrCXC/giphy.gif",
		"https://media.giphy.com/media/26ufdipQqU2lhNA4g/giphy.gif",
	}
	kissGIFs = []string{
		"https://media.giphy.com/media/G3va31oEEnIkM/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExemdmbm1qdzgyMWRnejNyMndwb3VmZHE5dDNpdmdoOWQzY2k2NG03OCZlcD12MV9naWZzX3NlYXJjaCZjdD1n/11rWoZNpAKw8w/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPWVjZjA1ZTQ3ZXRsZG5mOXhpMzJlZzJoZTg2NHZsbmplem5lOHM1eW9uejV1NDVydCZlcD12MV9naWZzX3NlYXJjaCZjdD1n/ZL0G3c9BDX9ja/giphy.gif",
		"https://media.giphy.com/media/hnNyVPIXgLdle/giphy.gif",
	}
	hugGIFs = []string{
		"https://media.giphy.com/media/l2QDM9Jnim1YVILXa/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExczU1bmliYnZuMjg0Z29jOWF2OHB0anJ0a3kzdm4xeDdvaWlzbTJwZCZlcD12MV9naWZzX3NlYXJjaCZjdD1n/42YlR8u9gV5Cw/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExdTV5Y2Nia2ZzdDJiczdrd2p5M21sYnhuNW5vODRtY2c2Znk0cnJqdCZlcD12MV9naWZzX3NlYXJjaCZjdD1n/Y8wCpaKI9PUBO/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPWVjZjA1ZTQ3M2h1dnp1Zmp5Zml2YnlzbnkzNTk1a3BkYXN4YW1tOWMzcnlkcjEzMCZlcD12MV9naWZzX3NlYXJjaCZjdD1n/BXrwTdoho6hkQ/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPWVjZjA1ZTQ3MTF3dmJyZ3Uwb2o0dDM1cGczNmwxc2lweWhzbGk5ZTlxYXgzZ2gybSZlcD12MV9naWZzX3NlYXJjaCZjdD1n/od5H3PmEG5EVq/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPWVjZjA1ZTQ3MTF3dmJyZ3Uwb2o0dDM1cGczNmwxc2lweWhzbGk5ZTlxYXgzZ2gybSZlcD12MV9naWZzX3NlYXJjaCZjdD1n/f6y4qvdxwEDx6/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPWVjZjA1ZTQ3MmhseDNubmpyYnZ0MGR0emp2eGx0OTVvcWN2YTU1bmVnbWFuN2x5ZyZlcD12MV9naWZzX3NlYXJjaCZjdD1n/FWBwZHGW2F0e4/giphy.gif",
		"https://media.giphy.com/media/od5H3PmEG5EVq/giphy.gif",
	}
	slapGIFs = []string{
		"https://media3.giphy.com/media/v1.Y2lkPTc5MGI3NjExN3JoZ3R1dG9peHV5a3N0aWl0aXdlMGs2dGRrbXk0bTl4cHdrYnljayZlcD12MV9pbnRlcm5hbF9naWZfYnlfaWQmY3Q9Zw/4R6EMXhNPz5WsJFEta/giphy.gif",
		"https://media.giphy.com/media/RXGNsyRb1hDJm/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExOGhrM3VjNDlyenUwZ2tiaG12ZmhmZHg4eW5rNW5xeHZjZzB5Yms4YyZlcD12MV9naWZzX3NlYXJjaCZjdD1n/DuVRadBbaX6A8/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExNnk2MGNlNXI5ZGF3eWZrMDBqMnBlOTJ6am55MXd6djJoN3RwOHpzciZlcD12MV9naWZzX3NlYXJjaCZjdD1n/Gf3AUz3eBNbTW/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExMDV1cWJoYmR2d2M5MDc4b2V5Yzc2a3ZvdGV1aXhvZnRmM2FhZG40eCZlcD12MV9naWZzX3NlYXJjaCZjdD1n/uqSU9IEYEKAbS/giphy.gif",
	}
	slapBackGIFs = []string{
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExNnVzczc1bnY0aWZoa2ZpMWc0eTlwMGJuemFyOGpwNWR1NnNpZzc0eiZlcD12MV9naWZzX3NlYXJjaCZjdD1n/xIytx7kHpq74c/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExNnVzczc1bnY0aWZoa2ZpMWc0eTlwMGJuemFyOGpwNWR1NnNpZzc0eiZlcD12MV9naWZzX3NlYXJjaCZjdD1n/3oEduMlSdVYeI35kUo/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExZGJrdmE5Y3ZrcHZ6YmZucnl5ZjRsc3p2OTMwc2oybmZlMXJycHA0aCZlcD12MV9naWZzX3NlYXJjaCZjdD1n/dAC1oKY7OQzMQ/giphy.gif",
		"https://media.giphy.com/media/v1.Y2lkPTc5MGI3NjExMXN0azFybWpyemRlZzFvZHFoeDZ5ZHFxZmNoYzRmYjZwaWt1ZG1wMiZlcD12MV9naWZzX3NlYXJjaCZjdD1n/bv7I7BKRBYOJLWoSlz/giphy.gif",
	}
)

func defaultRandIntN(n int) int { return rand.Intn(n) }

func (b *Bot) pick(options []string) string {
	return options[b.randIntN(len(options))]
}

// percent is a uniform roll in 0..100.
func (b *Bot) percent() int { return b.randIntN(101) }

// shipHeart grades a compatibility score.
func shipHeart(score int) string {
	switch {
	case score > 70:
		return "💖"
	case score > 40:
		return "💛"
	default:
		return "💔"
	}
}

func (b *Bot) cmdEightBall(c *commandContext) error {
	if c.rest == "" {
		return usageError(fmt.Sprintf("❓ Usa: `%s8ball [pregunta]`", b.cfg.CommandPrefix))
	}
	b.send(c, "🎱 "+b.pick(eightBallAnswers))
	return nil
}

func (b *Bot) cmdLove(c *commandContext) error {
	if len(c.args) == 0 {
		return usageError(missingArgumentHint)
	}
	target, err := b.targetMember(c, c.args[0])
	if err != nil {
		return err
	}
	b.send(c, fmt.Sprintf("💘 **%s y %s tienen un %d%% de compatibilidad amorosa!**", mention(c.author.ID), mention(target.User.ID), b.percent()))
	return nil
}

func (b *Bot) cmdShip(c *commandContext) error {
	if len(c.args) < 2 {
		return usageError(missingArgumentHint)
	}
	first, err := b.targetMember(c, c.args[0])
	if err != nil {
		return err
	}
	second, err := b.targetMember(c, c.args[1])
	if err != nil {
		return err
	}
	score := b.percent()
	heart := shipHeart(score)
	b.send(c, fmt.Sprintf("%s **%s ❤️ %s = %d%%** %s", heart, displayName(first), displayName(second), score, heart))
	return nil
}

func (b *Bot) cmdSelfLove(c *commandContext) error {
	b.sendEmbed(c, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("💖 %s se da amor a sí mismo", mention(c.author.ID)),
		Color:       0xffddaa,
		Image:       &discordgo.MessageEmbedImage{URL: b.pick(selfLoveGIFs)},
	})
	return nil
}

func (b *Bot) cmdKiss(c *commandContext) error {
	target, err := b.socialTarget(c, "Menciona a alguien para besar: `%skiss @user`")
	if err != nil {
		return err
	}
	if target.User.ID == b.platform.BotUserID() {
		b.send(c, fmt.Sprintf("😳 %s ¿me... besas? ¿estás bien? 👀", mention(c.author.ID)))
		return nil
	}
	b.sendEmbed(c, &discordgo.MessageEmbed{
		Title:       "💋 ¡Beso!",
		Description: fmt.Sprintf("%s **le ha dado un beso a** %s 😳", mention(c.author.ID), mention(target.User.ID)),
		Color:       0xff4d88,
		Image:       &discordgo.MessageEmbedImage{URL: b.pick(kissGIFs)},
	})
	return nil
}

func (b *Bot) cmdHug(c *commandContext) error {
	target, err := b.socialTarget(c, "Menciona a alguien para abrazar: `%shug @user`")
	if err != nil {
		return err
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🤗 ¡Abrazo!",
		Description: fmt.Sprintf("%s **abrazó fuertemente a** %s 🫂", mention(c.author.ID), mention(target.User.ID)),
		Color:       0x66ccff,
		Image:       &discordgo.MessageEmbedImage{URL: b.pick(hugGIFs)},
	}
	if target.User.ID == b.platform.BotUserID() {
		embed.Title = "❤️ ¡Awww!"
		embed.Description = fmt.Sprintf("%s **l@ abraza de vuelta** 🤗", mention(c.author.ID))
		embed.Color = 0x66ffcc
	}
	b.sendEmbed(c, embed)
	return nil
}

func (b *Bot) cmdSlap(c *commandContext) error {
	target, err := b.socialTarget(c, "Menciona a alguien para pegar: `%sslap @user`")
	if err != nil {
		return err
	}
	if target.User.ID == b.platform.BotUserID() {
		b.sendEmbed(c, &discordgo.MessageEmbed{
			Title:       "💥 ¡*c enoja en robot*!",
			Description: fmt.Sprintf("%s, ¿me pegaste? **¡esto no se queda así!** 😠", mention(c.author.ID)),
			Color:       0xff0000,
			Image:       &discordgo.MessageEmbedImage{URL: b.pick(slapBackGIFs)},
		})
		return nil
	}
	b.sendEmbed(c, &discordgo.MessageEmbed{
		Title:       "👋 ¡TORTAZO!",
		Description: fmt.Sprintf("%s **le pegó un tremendo cachetazo a** %s 😳", mention(c.author.ID), mention(target.User.ID)),
		Color:       0xff6688,
		Image:       &discordgo.MessageEmbedImage{URL: b.pick(slapGIFs)},
	})
	return nil
}

// socialTarget resolves the mentioned member; hint is formatted with the prefix.
func (b *Bot) socialTarget(c *commandContext, hint string) (*discordgo.Member, error) {
	if len(c.args) == 0 {
		return nil, usageError(fmt.Sprintf(hint, b.cfg.CommandPrefix))
	}
	return b.targetMember(c, c.args[0])
}
