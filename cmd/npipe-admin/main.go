package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/pkg/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	apiURL     string
	waitFor    time.Duration

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of npipe-admin",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cnst.CommandName, version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:           cnst.CommandName,
		Short:         "npipe admin client",
		Long:          `npipe-admin manages the players and tunnels of an npipe server through its admin API`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", cnst.ClientYaml, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "admin API base url, overrides api_url")
	rootCmd.PersistentFlags().DurationVar(&waitFor, "wait", 30*time.Second, "how long to wait for the server")
	rootCmd.AddCommand(versionCmd, loginCmd, logoutCmd, testAuthCmd, playersCmd, tunnelsCmd)
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
