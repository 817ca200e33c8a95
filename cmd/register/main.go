package main

import (
	"context"
	"time"

	"daily_report_bot/internal/infra/config"
	"daily_report_bot/internal/infra/discordbot"

	"github.com/disgoorg/disgo/rest"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	cfg, err := config.LoadRegistration()
	if err != nil {
		log.WithError(err).Fatal("Could not load registration configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := rest.New(rest.NewClient(cfg.DiscordToken))
	defer client.Close(ctx)

	log.WithField("guild_id", cfg.GuildID.String()).Info("Registering guild commands...")
	created, err := discordbot.RegisterCommands(ctx, client, cfg.ApplicationID, cfg.GuildID)
	if err != nil {
		log.WithError(err).Fatal("Command registration failed")
	}
	for _, cmd := range created {
		log.WithField("command", cmd.Name()).Info("Registered")
	}
	log.Info("Done.")
}
