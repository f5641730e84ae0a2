package command

import (
	"time"

	"libraryhub/internal/microservices/http-api/repository"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Delete refresh tokens that expired before now",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := repository.NewRefreshTokenRepository(app.db.Gorm)
		n, err := repo.DeleteExpired(cmd.Context(), time.Now().UTC())
		if err != nil {
			return err
		}
		app.logger.Info("refresh tokens purged", "deleted", n)
		return printJSON(cmd, map[string]int64{"deleted": n})
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
