package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/ecommerce-api/internal/testhelpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run the ecommerce-api testcontainers with the environment variables from the .env file.
DB_TYPE selects the database (mariadb or postgres), DB_IMAGE reuses a prebuilt service image.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if envFilename != "" {
		log.Info().Str("file", envFilename).Msg("Loading environment variables")
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatal().Err(err).Msg("Failed to load environment variables")
		}
	} else {
		log.Info().Msg("No environment file specified, using current environment variables")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	started := make(chan *testhelpers.TestContainers, 1)
	go func() {
		testContainers, err := testhelpers.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create test containers")
		}
		started <- testContainers
	}()

	var testContainers *testhelpers.TestContainers
	for testContainers == nil {
		select {
		case testContainers = <-started:
			log.Info().Msg("Containers are up, send SIGINT or SIGTERM to stop them")
		case sig := <-sigs:
			log.Warn().Str("signal", sig.String()).Msg("Received signal before containers started, exiting")
			os.Exit(1)
		}
	}

	sig := <-sigs
	log.Info().Str("signal", sig.String()).Msg("Terminating test containers")
	testContainers.Terminate(nil)
}
