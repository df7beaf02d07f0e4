package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/amoylab/npipe-admin/internal/mockserver"
	"github.com/amoylab/npipe-admin/internal/mockserver/database"
	"github.com/amoylab/npipe-admin/internal/mockserver/session"
	"github.com/amoylab/npipe-admin/pkg/logger"
	"github.com/amoylab/npipe-admin/pkg/metrics"
	"github.com/amoylab/npipe-admin/pkg/trace"
	"github.com/amoylab/npipe-admin/pkg/utils"
	"github.com/amoylab/npipe-admin/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	addr       string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mock-server",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", cnst.MockServerName, version.Get())
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop a running mock-server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := config.LoadConfig[config.MockServerConfig](configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration %s: %w", cfgPath, err)
			}
			if err := utils.NewPIDManager(cfg.PID).Signal(syscall.SIGTERM); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stop signal sent")
			return nil
		},
	}

	rootCmd = &cobra.Command{
		Use:   cnst.MockServerName,
		Short: "Mock npipe admin backend",
		Long:  `mock-server serves the npipe admin API backed by a local database, for developing and testing npipe-admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", cnst.MockServerYaml, "path to configuration file")
	rootCmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on, overrides port")
	rootCmd.AddCommand(versionCmd, stopCmd)
}

func run(ctx context.Context) error {
	cfg, cfgPath, err := config.LoadConfig[config.MockServerConfig](configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration %s: %w", cfgPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()
	lg.Info("loaded configuration", zap.String("path", cfgPath))

	shutdownTrace, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTrace(sctx); err != nil {
			lg.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	pid := utils.NewPIDManager(cfg.PID)
	if err := pid.WritePID(); err != nil {
		return err
	}
	defer func() {
		if err := pid.RemovePID(); err != nil {
			lg.Warn("failed to remove PID file", zap.Error(err))
		}
	}()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	sessions, err := session.NewStore(lg, &cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer sessions.Close()

	srv, err := mockserver.New(cfg, lg, db, sessions, m)
	if err != nil {
		return err
	}

	listen := addr
	if listen == "" {
		listen = fmt.Sprintf(":%d", cfg.Port)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down mock server")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
