package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/keyregistry/internal/buildinfo"
	"github.com/dmitrijs2005/keyregistry/internal/logging"
	"github.com/dmitrijs2005/keyregistry/internal/server"
	"github.com/dmitrijs2005/keyregistry/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
