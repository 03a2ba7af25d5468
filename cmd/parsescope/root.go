package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsescope/parsescope/internal/config"
)

// NewRootCmd creates the root command for parsescope.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parsescope",
		Short: "Inspect and render content extracted by a Parser Engine backend",
		Long: `parsescope talks to a Parser Engine backend and shows the files it has
processed together with their extracted text.

Each content item is classified and rendered as the first matching of:
JSON, delimited table, credential list, key/value data, or numbered text.
Items longer than the character limit are truncated until expanded, and
tables are shown one page at a time.

Backend settings come from built-in defaults, then the selected profile of
the configuration file (.parsescope), then command-line flags.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("log-format", "text", "Log format on stderr (text or json)")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .parsescope in current or home directory)")
	flags.StringP("profile", "P", "", "Configuration profile to use")

	flags.String(config.FlagHost, config.DefaultHost, "Backend host")
	flags.Int(config.FlagPort, config.DefaultPort, "Backend port")
	flags.String(config.FlagBaseURL, "", "Backend base URL (overrides --host and --port)")
	flags.String(config.FlagProxy, "", "SOCKS5 proxy for backend traffic (host:port)")
	flags.Duration(config.FlagTimeout, config.DefaultTimeout, "Timeout for each backend request")
	flags.String("data-dir", "", "Directory of the local cache (default: XDG data directory)")

	flags.BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	flags.BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")
	flags.StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	cmd.AddCommand(NewDashboardCmd())
	cmd.AddCommand(NewHealthCmd())
	cmd.AddCommand(NewFilesCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewViewCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
