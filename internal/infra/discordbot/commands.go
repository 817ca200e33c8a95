package discordbot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// Commands are the slash commands the bot answers.
var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        CommandDaily,
		Description: "日報を提出する",
	},
	discord.SlashCommandCreate{
		Name:        CommandRemindDaily,
		Description: "【手動】日報リマインドを送信する",
	},
}

// CommandRegistrar is the part of the REST client used to publish commands.
type CommandRegistrar interface {
	SetGuildCommands(applicationID snowflake.ID, guildID snowflake.ID, commandCreates []discord.ApplicationCommandCreate, opts ...rest.RequestOpt) ([]discord.ApplicationCommand, error)
}

// RegisterCommands replaces the guild's commands with Commands.
func RegisterCommands(ctx context.Context, r CommandRegistrar, applicationID, guildID snowflake.ID) ([]discord.ApplicationCommand, error) {
	if applicationID == 0 || guildID == 0 {
		return nil, fmt.Errorf("application id and guild id are required")
	}
	created, err := r.SetGuildCommands(applicationID, guildID, Commands, rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to register commands in guild %s: %w", guildID, err)
	}
	return created, nil
}
