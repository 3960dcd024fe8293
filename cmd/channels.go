/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"

	"creatrends/feeds"

	"github.com/urfave/cli/v2"
)

// channelsCmd prints the aggregated channel posts of a category
func channelsCmd() *cli.Command {
	return &cli.Command{
		Name:  "channels",
		Usage: "Print recent posts from the channels of a category",
		Description: `Fetches recent posts from every configured channel of a
category using the selected post source and prints them as JSON, most
viewed first.

Channels that fail are logged to stderr and skipped.`,
		Flags: append(serviceFlags(),
			&cli.StringFlag{
				Name:     "category",
				Aliases:  []string{"k"},
				Usage:    "Channel category (fashion, beauty, home)",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: feeds.DefaultLimit,
				Usage: "Maximum number of posts",
			},
		),
		Action: func(ctx *cli.Context) error {
			svc, err := buildServices(ctx)
			if err != nil {
				return err
			}

			result, err := svc.feeds.GetChannelPosts(ctx.Context, ctx.String("category"), ctx.Int("limit"))
			if err != nil {
				return err
			}
			if result.Error != "" {
				return errors.New(result.Error)
			}
			return printJSON(result)
		},
	}
}
