package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/friendbook/internal/buildinfo"
	"github.com/dmitrijs2005/friendbook/internal/client/cli"
	"github.com/dmitrijs2005/friendbook/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
