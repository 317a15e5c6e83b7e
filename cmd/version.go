package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/spf13/cobra"
)

// Build metadata, overridden with -ldflags "-X .../cmd.Version=...".
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and the message identifier produced",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), config.DefaultEdifactConfig())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// printVersion writes one line, e.g.
//
//	edifact-orders 1.0.0 (ORDERS:D:96A:UN, built unknown, go1.24.0)
func printVersion(w io.Writer, dialect config.EdifactConfig) {
	fmt.Fprintf(w, "edifact-orders %s (%s:%s:%s:%s, built %s, %s)\n",
		Version,
		dialect.MessageType, dialect.Version, dialect.Release, dialect.ControllingAgency,
		BuildDate, runtime.Version())
}
