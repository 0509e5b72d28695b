package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/requiem-ai/modelhub/context"
	"github.com/requiem-ai/modelhub/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
	zerolog.TimeFieldFormat = time.RFC3339
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))
	switch logLevel {
	case "trace":
		log.Info().Str("level", logLevel).Msg("Setting Log Level")
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		log.Info().Str("level", logLevel).Msg("Setting Log Level")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		fallthrough
	default:
		log.Info().Str("level", logLevel).Msg("Setting Log Level")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Msg("Starting ModelHub")

	ctx, err := context.NewCtx(
		&services.SetupService{},
		&services.HubService{},
		&services.TelegramService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build service context")
		return
	}

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("service context exited with error")
		return
	}
}
