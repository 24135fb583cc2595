package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/transport/http"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	if err := http.Run(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
