package main

import (
	"os"

	"github.com/tjmun/confreg/internal/pkg/logger"
	"github.com/tjmun/confreg/internal/server"
)

// @title Conference Registration API
// @version 1.0
// @description API for conference registration, announcements and seat lookup

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token, also accepted from the session cookie

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Server exited gracefully.")
}
