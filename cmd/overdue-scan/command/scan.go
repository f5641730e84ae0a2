package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"libraryhub/internal/cache"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const leaseKey = "overdue-scan"

var (
	loop     bool
	interval time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Flag overdue loans and issue their fines",
	Long: `scan marks every Active loan whose due date has passed as Overdue and
records one pending fine for it. Only one scanner runs at a time across hosts;
a run that cannot take the lease exits without doing anything.`,
	RunE: runScan,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, scanCmd} {
		cmd.Flags().BoolVar(&loop, "loop", false, "keep running, scanning every --interval")
		cmd.Flags().DurationVar(&interval, "interval", 0, "time between scans with --loop (default OVERDUE_SCAN_INTERVAL)")
	}
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	policy, err := service.NewFinePolicy(app.cfg)
	if err != nil {
		return err
	}
	loans := service.NewLoanService(
		service.NewGuard(repository.NewUserRepository(app.db.Gorm)),
		repository.NewLoanRepository(app.db.Gorm),
		policy,
		app.cfg.OverdueScanWorkers,
		app.logger,
	)

	hostname, _ := os.Hostname()
	lease := cache.NewLease(app.redis, leaseKey, hostname+"/"+uuid.NewString(), app.cfg.OverdueScanLease)

	if !loop {
		return scanOnce(ctx, cmd, loans, lease)
	}

	every := interval
	if every <= 0 {
		every = app.cfg.OverdueScanInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		if err := scanOnce(ctx, cmd, loans, lease); err != nil {
			app.logger.Error("overdue scan failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func scanOnce(ctx context.Context, cmd *cobra.Command, loans service.LoanService, lease *cache.Lease) error {
	if err := lease.Acquire(ctx); err != nil {
		if errors.Is(err, cache.ErrLeaseHeld) {
			app.logger.Info("overdue scan skipped", "reason", "lease held elsewhere")
			return nil
		}
		return err
	}
	defer func() {
		// ctx may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lease.Release(releaseCtx); err != nil {
			app.logger.Warn("lease release failed", "error", err)
		}
	}()

	// a lost lease cancels the scan
	scanCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		if err := lease.KeepAlive(scanCtx, app.cfg.OverdueScanLease/3); err != nil {
			app.logger.Error("lease renewal failed", "error", err)
			cancel(err)
		}
	}()

	report, err := loans.ScanOverdue(scanCtx, time.Now().UTC())
	if cause := context.Cause(scanCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		err = cause
	}
	if err != nil && !errors.Is(err, service.ErrScanIncomplete) {
		return fmt.Errorf("scan overdue loans: %w", err)
	}
	if perr := printJSON(cmd, report); perr != nil {
		return perr
	}
	return err
}
