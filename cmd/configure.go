/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/cqroot/prompt"
	"github.com/cqroot/prompt/input"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// configureCmd stores Telegram credentials in a .env file
func configureCmd() *cli.Command {
	return &cli.Command{
		Name:  "configure",
		Usage: "Store Telegram credentials in a .env file",
		Description: `Asks for the Telegram API id, API hash and session string and
writes them to a .env file, which is loaded on startup.

Other values already present in the file are kept.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Path of the .env file to update",
			},
		},
		Action: func(ctx *cli.Context) error {
			path := ctx.String("env-file")

			env, err := godotenv.Read(path)
			if errors.Is(err, fs.ErrNotExist) {
				env = map[string]string{}
			} else if err != nil {
				return fmt.Errorf("could not read %s: %w", path, err)
			}

			apiId, err := prompt.New().Ask("Telegram API id:").Input(env["TELEGRAM_API_ID"])
			if err != nil {
				return err
			}

			apiHash, err := prompt.New().Ask("Telegram API hash:").Input("", input.WithEchoMode(input.EchoNone))
			if err != nil {
				return err
			}

			session, err := prompt.New().Ask("Telegram session:").Input("", input.WithEchoMode(input.EchoNone))
			if err != nil {
				return err
			}

			if apiId == "" || apiHash == "" || session == "" {
				return errors.New("api id, api hash and session are all required")
			}

			env["TELEGRAM_API_ID"] = apiId
			env["TELEGRAM_API_HASH"] = apiHash
			env["TELEGRAM_SESSION"] = session
			if env["CREATRENDS_SOURCE"] == "" {
				env["CREATRENDS_SOURCE"] = "live"
			}

			if err := godotenv.Write(env, path); err != nil {
				return fmt.Errorf("could not write %s: %w", path, err)
			}
			if err := os.Chmod(path, 0o600); err != nil {
				return fmt.Errorf("could not restrict permissions of %s: %w", path, err)
			}

			fmt.Println("Saved Telegram credentials to", path)
			return nil
		},
	}
}
