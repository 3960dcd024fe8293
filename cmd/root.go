/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "creatrends",
		Usage: "Trending creatives and image generation prompts",
		Description: `Serves a catalog of trending fashion, beauty and home
		creatives collected from Telegram channels, and returns ready-made
		image generation prompts for any of them.

		Channel posts come from a demo source by default. The live source
		reads public channel previews and needs Telegram credentials.

		Flags can generally be set via environment variables, e.g.:

		--port => CREATRENDS_PORT=8000
		--source => CREATRENDS_SOURCE=live
		--telegram-api-id => TELEGRAM_API_ID=12345
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"CREATRENDS_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "Log format (text, json)",
				EnvVars: []string{"CREATRENDS_LOG_FORMAT"},
			},
		},
		Before: func(ctx *cli.Context) error {
			level, err := log.ParseLevel(ctx.String("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)

			switch ctx.String("log-format") {
			case "json":
				log.SetFormatter(&log.JSONFormatter{})
			case "text":
				log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			default:
				return fmt.Errorf("unknown log format %q", ctx.String("log-format"))
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			feedCmd(),
			channelsCmd(),
			promptCmd(),
			configureCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
