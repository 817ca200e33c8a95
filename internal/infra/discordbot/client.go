package discordbot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"daily_report_bot/internal/domain/report"
)

// NewClient creates a gateway client that receives guild interactions and
// message content.
func NewClient(token string) (*bot.Client, error) {
	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create Discord client: %w", err)
	}
	return client, nil
}

// MessageSender is the part of the REST client the adapter needs.
type MessageSender interface {
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// DisgoAdapter implements chat.Client on top of the disgo REST client.
type DisgoAdapter struct {
	sender MessageSender
}

func NewDisgoAdapter(sender MessageSender) *DisgoAdapter {
	return &DisgoAdapter{sender: sender}
}

// SendReminder posts the reminder with an @everyone mention and the button
// that opens the report flow.
func (a *DisgoAdapter) SendReminder(ctx context.Context, channelID snowflake.ID, dateKey string) error {
	if _, err := a.sender.CreateMessage(channelID, reminderMessage(dateKey), rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send reminder to channel %s: %w", channelID, err)
	}
	return nil
}

// PostReport posts r as an embed.
func (a *DisgoAdapter) PostReport(ctx context.Context, channelID snowflake.ID, r *report.Report) error {
	msg := discord.MessageCreate{Embeds: []discord.Embed{reportEmbed(r)}}
	if _, err := a.sender.CreateMessage(channelID, msg, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to post report to channel %s: %w", channelID, err)
	}
	return nil
}
