// Package main is the entry point for the packgenius application.
//
// @title           PackGenius API
// @version         1.0.0
// @description     Nested packaging planner: fits a product into inner packs and master cartons,
// @description     picks the smallest stock carton that holds the master pack, and designs a
// @description     custom carton when none fits.
//
// @contact.name   API Support
// @contact.url    https://github.com/guttosm/packgenius
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 HS256 JWT as "Bearer <token>". Takes precedence over the API key.
//
// @tag.name        Packaging
// @tag.description Packaging plan calculation
//
// @tag.name        Inventory
// @tag.description Stock carton inventory management
//
// @tag.name        History
// @tag.description Calculation history
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/packgenius/config"
	_ "github.com/guttosm/packgenius/docs" // swagger docs
	"github.com/guttosm/packgenius/internal/app"
)

func main() {
	cli := kingpin.New("packgenius", "PackGenius - nested packaging planner with stock carton selection")
	configFile := cli.Flag("config", "Path to YAML configuration file").Envar("CONFIG_FILE").String()
	port := cli.Flag("port", "HTTP port exposed by the service").String()
	logLevel := cli.Flag("log-level", "Log level (debug, info, warn, error)").String()

	var mongoSet, advisorSet, strictSet bool
	mongo := cli.Flag("mongo", "Persist inventory and history in MongoDB").IsSetByUser(&mongoSet).Bool()
	advisorEnabled := cli.Flag("advisor", "Request AI packaging analyses").IsSetByUser(&advisorSet).Bool()
	strict := cli.Flag("strict", "Reject non-positive dimensions and arrangements").IsSetByUser(&strictSet).Bool()

	kingpin.MustParse(cli.Parse(os.Args[1:]))

	overrides := &config.Overrides{ConfigFile: *configFile}
	if *port != "" {
		overrides.Port = port
	}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}
	if mongoSet {
		overrides.MongoEnabled = mongo
	}
	if advisorSet {
		overrides.AdvisorEnabled = advisorEnabled
	}
	if strictSet {
		overrides.Strict = strict
	}

	cfg, err := config.LoadWithOverrides(overrides)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application := app.InitializeApp(cfg)
	if err := application.NewServer().Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
