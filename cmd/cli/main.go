package main

import (
	"context"
	"log"
	"os"

	"github.com/teamgensourei/boundary/internal/buildinfo"
	"github.com/teamgensourei/boundary/internal/cli"
	"github.com/teamgensourei/boundary/internal/config"
	"github.com/teamgensourei/boundary/internal/flagx"
	"github.com/teamgensourei/boundary/internal/logging"
)

func main() {
	buildinfo.Print(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewDefault(os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// A pasted link (OAuth callback or emailed sign-in URL) may arrive as
	// the single positional argument.
	startupURL := ""
	if args := flagx.PositionalArgs(os.Args[1:]); len(args) > 0 {
		startupURL = args[0]
	}

	if err := app.Run(ctx, startupURL); err != nil {
		log.Fatalf("%v", err)
	}
}
