package main

import (
	"creatrends/cmd"

	"github.com/joho/godotenv"
	_ "golang.org/x/crypto/x509roots/fallback" // We need this to make TLS work in scratch containers
)

func main() {
	// Optional, flags and the environment still apply without it
	_ = godotenv.Load()

	cmd.Execute()
}
