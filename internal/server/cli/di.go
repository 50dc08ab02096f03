package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/config"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/session"
)

// для тестов
var (
	OpenDB             = config.OpenDB
	RunMigrations      = config.RunMigrations
	RollbackMigrations = config.RollbackMigrations
	NewRedisStore      = session.NewRedisStore
	ReadPassword       = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return readPassword(cmd, fromStdin)
	}
)
