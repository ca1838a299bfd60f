// Command server runs the profile board HTTP API.
//
//	server [--env-file .env] serve      # default
//	server [--env-file .env] provision  # create collections, indexes and counters, then exit
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
