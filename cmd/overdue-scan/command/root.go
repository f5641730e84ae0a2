package command

// root.go defines the root command of the scheduled maintenance job.
// It is meant to be started by cron or a Kubernetes CronJob.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"libraryhub/database"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// env is what every subcommand needs, built once in PersistentPreRunE.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *database.DB
	redis  *redis.Client
}

var (
	app  env
	stop context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "overdue-scan",
	Short: "libraryhub scheduled jobs",
	Long: `overdue-scan runs the periodic libraryhub maintenance:
flagging overdue loans and fining them, and purging expired refresh tokens.

Without a subcommand it runs the overdue scan.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		app.cfg = cfg
		app.logger = logger.New(cfg)

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		stop = cancel
		cmd.SetContext(ctx)

		app.db, err = database.ConnectDB(ctx, cfg, app.logger)
		if err != nil {
			return err
		}
		app.redis, err = cache.NewClient(ctx, cfg)
		if err != nil {
			app.db.Close()
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeEnv()
	},
	RunE: runScan,
}

func closeEnv() {
	if app.redis != nil {
		app.redis.Close()
	}
	app.db.Close()
	if stop != nil {
		stop()
	}
}

// Execute runs the root command. Called once by main.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON writes v to the command's stdout, one document per line.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
