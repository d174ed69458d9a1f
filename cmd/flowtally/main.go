package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"flowtally/internal/config"
	"flowtally/internal/logging"
	"flowtally/internal/tally"
)

func main() {
	configPath := flag.String("config", "", "optional TOML run configuration")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := config.DefaultRunConfig()
	if *configPath != "" {
		loaded, err := config.LoadRunConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "flowtally: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	svc := tally.NewService(cfg)
	log.Debug().Str("run", svc.Describe()).Msg("starting")
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "flowtally: %v\n", err)
		os.Exit(1)
	}
}
