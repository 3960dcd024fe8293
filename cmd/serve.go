/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creatrends/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// serveCmd represents the serve command
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the creative trends API",
		Description: `Starts the HTTP server on the specified or default port.

Serves the catalog feed, channel posts, prompt generation, the photo proxy
and the control panel at /ui.`,
		Flags: append(serviceFlags(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8000,
				Usage:   "Port to listen on",
				EnvVars: []string{"CREATRENDS_PORT", "PORT"},
			},
			&cli.StringFlag{
				Name:    "platform",
				Value:   server.DefaultPlatform,
				Usage:   "Platform name reported by the root endpoint",
				EnvVars: []string{"CREATRENDS_PLATFORM"},
			},
			&cli.StringFlag{
				Name:    "allow-origins",
				Value:   "*",
				Usage:   "Comma separated CORS origins",
				EnvVars: []string{"CREATRENDS_ALLOW_ORIGINS"},
			},
			&cli.StringFlag{
				Name:    "photo-url",
				Value:   server.DefaultPhotoUrl,
				Usage:   "Upstream image for the photo proxy",
				EnvVars: []string{"CREATRENDS_PHOTO_URL"},
			},
			&cli.DurationFlag{
				Name:    "photo-timeout",
				Value:   10 * time.Second,
				Usage:   "Timeout for upstream photo requests",
				EnvVars: []string{"CREATRENDS_PHOTO_TIMEOUT"},
			},
		),
		Action: func(ctx *cli.Context) error {
			svc, err := buildServices(ctx)
			if err != nil {
				return err
			}

			app := server.Server(&server.ServerConfig{
				Platform:     ctx.String("platform"),
				AllowOrigins: ctx.String("allow-origins"),
				Feeds:        svc.feeds,
				Prompts:      svc.prompts,
				PhotoUrl:     ctx.String("photo-url"),
				PhotoTimeout: ctx.Duration("photo-timeout"),
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			done := make(chan struct{})

			go func() {
				<-c
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
				close(done)
			}()

			addr := fmt.Sprintf(":%d", ctx.Int("port"))
			log.WithFields(log.Fields{
				"addr": addr,
				"ui":   fmt.Sprintf("http://0.0.0.0%s/ui", addr),
			}).Info("Starting server")

			if err := app.Listen(addr); err != nil {
				return err
			}

			<-done
			log.Info("Done!")
			return nil
		},
	}
}
