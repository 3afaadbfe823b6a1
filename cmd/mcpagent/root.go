package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "cmd")

// Version is set at build time
var Version = "dev"

// DefaultConfigFile is the config file used when --config is not set
const DefaultConfigFile = "mcpagent.yaml"

type globalFlags struct {
	configFile string
	logLevel   string
}

var logLevels = map[string]xlog.LogLevel{
	"critical": xlog.CRITICAL,
	"error":    xlog.ERROR,
	"warning":  xlog.WARNING,
	"notice":   xlog.NOTICE,
	"info":     xlog.INFO,
	"debug":    xlog.DEBUG,
	"trace":    xlog.TRACE,
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "mcpagent",
		Short:         "LLM agent with local tools and MCP tool servers",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(errOut, flags.logLevel)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", DefaultConfigFile, "configuration file: .yaml, .json or .toml")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "error", "log level: critical|error|warning|notice|info|debug|trace")

	cmd.AddCommand(
		newRunCmd(flags),
		newToolsCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

func setupLogging(w io.Writer, level string) error {
	l, ok := logLevels[strings.ToLower(level)]
	if !ok {
		return errors.Newf("invalid log level: %q", level)
	}
	xlog.SetFormatter(xlog.NewStringFormatter(w))
	xlog.SetGlobalLogLevel(l)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mcpagent %s\n", Version)
		},
	}
}
