package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	colorInfo     = 0x3498db
	colorPrompt   = 0x9b59b6
	colorWarning  = 0xe67e22
	colorReminder = 0x2ecc71
)

// EmbedSender is the part of a discordgo session the notifier needs
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifierConfig configures a DiscordNotifier
type DiscordNotifierConfig struct {
	Session   EmbedSender
	ChannelID string
	Now       func() time.Time
}

// DiscordNotifier posts notices as embeds to a single channel
type DiscordNotifier struct {
	session   EmbedSender
	channelID string
	now       func() time.Time
}

// NewDiscordNotifier creates a notifier posting to cfg.ChannelID
func NewDiscordNotifier(cfg *DiscordNotifierConfig) (*DiscordNotifier, error) {
	if cfg == nil || cfg.Session == nil {
		return nil, fmt.Errorf("discord session is required")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("discord channel id is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &DiscordNotifier{
		session:   cfg.Session,
		channelID: cfg.ChannelID,
		now:       now,
	}, nil
}

// Notify posts the notice. A notice for one player mentions them.
func (n *DiscordNotifier) Notify(ctx context.Context, notice *Notice) error {
	if notice == nil {
		return fmt.Errorf("notice is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	embed := BuildEmbed(notice, n.now())
	if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send %s notice: %w", notice.Kind, err)
	}
	return nil
}

// BuildEmbed renders a notice as a rich embed
func BuildEmbed(notice *Notice, at time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       notice.Title,
		Description: notice.Body,
		Color:       colorFor(notice.Kind),
		Timestamp:   at.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: string(notice.Kind),
		},
	}
	if notice.UserID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "For",
			Value:  "<@" + notice.UserID + ">",
			Inline: true,
		})
	}
	return embed
}

func colorFor(kind Kind) int {
	switch kind {
	case KindPrompt:
		return colorPrompt
	case KindWarning:
		return colorWarning
	case KindReminder:
		return colorReminder
	default:
		return colorInfo
	}
}
