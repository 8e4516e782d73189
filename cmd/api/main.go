package main

import (
	"os"

	"github.com/yigit/openhacks/internal/pkg/logger"
	"github.com/yigit/openhacks/internal/server"
)

// @title OpenHacks API
// @version 1.0
// @description API for organizing hackathons: events, registrations, teams, submissions, judging and announcements
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@openhacks.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Identity provider token, optionally prefixed with "Bearer "

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
