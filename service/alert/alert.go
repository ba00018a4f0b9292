package alert

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/xerrors"

	bCtx "github.com/stakevault/goapi/base/ctx"
)

// Notifier posts operational alerts to the ops channel. Implementations
// must never block a ledger mutation on delivery.
type Notifier interface {
	Notify(c bCtx.Ctx, title, message string)
}

type DiscordNotifierCfg struct {
	BotKey    string
	ChannelId string
}

type discordNotifier struct {
	cfg     DiscordNotifierCfg
	discord *discordgo.Session
}

func NewDiscordNotifier(cfg DiscordNotifierCfg) (Notifier, error) {
	discord, err := discordgo.New(fmt.Sprintf("Bot %s", cfg.BotKey))
	if err != nil {
		return nil, xerrors.Errorf("discordgo.New: %w", err)
	}
	return &discordNotifier{cfg: cfg, discord: discord}, nil
}

func (n *discordNotifier) Notify(c bCtx.Ctx, title, message string) {
	// fire and forget, alerting never fails or delays the caller
	go func() {
		msg := &discordgo.MessageEmbed{
			Title:       title,
			Description: message,
		}
		if _, err := n.discord.ChannelMessageSendEmbed(n.cfg.ChannelId, msg); err != nil {
			c.WithField("err", err).Warn("discord.ChannelMessageSendEmbed failed")
		}
	}()
}

type noopNotifier struct{}

// NewNoopNotifier is used when no ops channel is configured.
func NewNoopNotifier() Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) Notify(c bCtx.Ctx, title, message string) {}
