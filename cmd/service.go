package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"creatrends/catalog"
	"creatrends/config"
	"creatrends/feeds"
	"creatrends/prompts"
	"creatrends/telegram"

	"github.com/urfave/cli/v2"
)

// Flags shared by every command that needs the catalog and post source
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a channels TOML file, built-in channels are used when empty",
			EnvVars: []string{"CREATRENDS_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "source",
			Value:   string(telegram.ModeDemo),
			Usage:   "Channel post source (demo, live)",
			EnvVars: []string{"CREATRENDS_SOURCE"},
		},
		&cli.StringFlag{
			Name:    "telegram-api-id",
			Usage:   "Telegram API id",
			EnvVars: []string{"TELEGRAM_API_ID"},
		},
		&cli.StringFlag{
			Name:    "telegram-api-hash",
			Usage:   "Telegram API hash",
			EnvVars: []string{"TELEGRAM_API_HASH"},
		},
		&cli.StringFlag{
			Name:    "telegram-session",
			Usage:   "Telegram session string",
			EnvVars: []string{"TELEGRAM_SESSION"},
		},
		&cli.StringFlag{
			Name:    "telegram-base-url",
			Value:   telegram.DefaultBaseUrl,
			Usage:   "Host serving public channel previews",
			EnvVars: []string{"CREATRENDS_TELEGRAM_BASE_URL"},
		},
		&cli.DurationFlag{
			Name:    "fetch-timeout",
			Value:   10 * time.Second,
			Usage:   "Timeout for a single channel fetch",
			EnvVars: []string{"CREATRENDS_FETCH_TIMEOUT"},
		},
	}
}

type services struct {
	store   *catalog.Store
	feeds   *feeds.Service
	prompts *prompts.Generator
}

func buildServices(ctx *cli.Context) (*services, error) {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	mode, err := telegram.ParseMode(ctx.String("source"))
	if err != nil {
		return nil, err
	}

	store := catalog.New(cfg.Channels, catalog.OptionsFromConfig(cfg, time.Now()))
	source := telegram.NewSource(telegram.SourceConfig{
		Mode: mode,
		Credentials: telegram.Credentials{
			ApiId:   ctx.String("telegram-api-id"),
			ApiHash: ctx.String("telegram-api-hash"),
			Session: ctx.String("telegram-session"),
		},
		BaseUrl: ctx.String("telegram-base-url"),
		Timeout: ctx.Duration("fetch-timeout"),
	})

	return &services{
		store:   store,
		feeds:   feeds.NewService(store, source, ctx.Duration("fetch-timeout")),
		prompts: prompts.NewGenerator(store),
	}, nil
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
