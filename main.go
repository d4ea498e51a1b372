package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hexarena/communication"
	"hexarena/communication/server"
	"hexarena/engine"
	"hexarena/meta"
)

func main() {
	configPath := flag.String("config", "", "YAML game config, defaults when empty")
	level := flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the config")
	pretty := flag.Bool("pretty", false, "Human-readable logs on stderr")
	addr := flag.String("http", "", "Serve HTTP on this address instead of stdin/stdout")
	flag.Parse()

	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := meta.Default()
	var err error
	if *configPath != "" {
		if cfg, err = meta.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}
	lvl, err := zerolog.ParseLevel(cmp.Or(*level, cfg.LogLevel))
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(lvl)
	s, err := engine.NewSession(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("session ended")
			stop()
		}
	}()

	if *addr != "" {
		err = server.NewServerCommunicator(s).Start(*addr)
	} else {
		err = serve(ctx, s, communication.NewStream(os.Stdin, os.Stdout))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("")
	}
}
