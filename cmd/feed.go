/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"creatrends/feeds"

	"github.com/urfave/cli/v2"
)

// feedCmd prints a page of the catalog feed
func feedCmd() *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Print a page of the catalog feed",
		Description: `Prints one page of the catalog feed for a category as JSON.

Items are filtered by a minimum view count and ordered by views, with
engagement breaking ties.`,
		Flags: append(serviceFlags(),
			&cli.StringFlag{
				Name:     "category",
				Aliases:  []string{"k"},
				Usage:    "Feed category (fashion, beauty, home)",
				Required: true,
			},
			&cli.Int64Flag{
				Name:  "min-views",
				Value: feeds.DefaultMinViews,
				Usage: "Minimum number of views",
			},
			&cli.IntFlag{
				Name:  "page",
				Value: 1,
				Usage: "Page number, starting at 1",
			},
		),
		Action: func(ctx *cli.Context) error {
			svc, err := buildServices(ctx)
			if err != nil {
				return err
			}

			page, err := svc.feeds.GetFeed(ctx.String("category"), ctx.Int64("min-views"), ctx.Int("page"))
			if err != nil {
				return err
			}
			return printJSON(page)
		},
	}
}
