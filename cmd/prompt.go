/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"

	"github.com/urfave/cli/v2"
)

// promptCmd prints the prompts for a feed item
func promptCmd() *cli.Command {
	return &cli.Command{
		Name:      "prompt",
		Usage:     "Print the image generation prompts for a feed item",
		ArgsUsage: "<feed-item-id>",
		Description: `Prints the ready prompt, the parametrized template and the
negative prompt for a catalog item id (fashion_rogov24_1) or a channel post
id (rogov24_demo_1, rogov24_42).`,
		Flags: serviceFlags(),
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return errors.New("please specify exactly one feed item id")
			}

			svc, err := buildServices(ctx)
			if err != nil {
				return err
			}

			triple, err := svc.prompts.Generate(ctx.Args().First())
			if err != nil {
				return err
			}
			return printJSON(triple)
		},
	}
}
