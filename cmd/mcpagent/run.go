package main

import (
	"context"
	"io/fs"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/callbacks"
	"github.com/effective-security/mcpagent/config"
	"github.com/effective-security/mcpagent/internal/dependency"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

// DefaultInstruction is sent when the instruction file does not exist
const DefaultInstruction = "Hello!"

type runFlags struct {
	instructionFile string
	maxTurns        int
	verbose         bool
}

func newRunCmd(global *globalFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send the instruction to the model and execute the requested tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgent(cmd, global, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.instructionFile, "instruction", "i", "instruction.txt", "file with the user instruction")
	cmd.Flags().IntVar(&flags.maxTurns, "max-turns", 0, "maximum number of model turns, overrides llm.max_turns")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "print the model calls and full tool results")
	return cmd
}

func runAgent(cmd *cobra.Command, global *globalFlags, flags *runFlags) error {
	ctx := cmd.Context()

	cfg, err := config.Load(global.configFile)
	if err != nil {
		return err
	}
	if flags.maxTurns > 0 {
		cfg.LLM.MaxTurns = flags.maxTurns
	}

	instruction, err := readInstruction(flags.instructionFile)
	if err != nil {
		return err
	}

	mode := callbacks.ModeDefault
	if flags.verbose {
		mode = callbacks.ModeVerbose
	}
	callback := callbacks.NewFanout(
		callbacks.NewPrinter(cmd.OutOrStdout(), mode),
		callbacks.NewPackageLogger(logger),
	)

	c, err := dependency.New(ctx, cfg,
		dependency.WithClientInfo("mcpagent", Version),
		dependency.WithCallback(callback),
	)
	if err != nil {
		return err
	}
	defer closeContainer(c)

	assistant, err := c.Assistant()
	if err != nil {
		return err
	}

	_, err = assistant.Run(ctx, instruction)
	return err
}

// readInstruction returns the content of the file,
// or DefaultInstruction if the file does not exist or is empty.
func readInstruction(file string) (string, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.KV(xlog.NOTICE, "status", "instruction_not_found", "file", file)
			return DefaultInstruction, nil
		}
		return "", errors.Wrap(err, "failed to read instruction")
	}
	instruction := strings.TrimSpace(string(b))
	if instruction == "" {
		return DefaultInstruction, nil
	}
	return instruction, nil
}

func closeContainer(c *dependency.Container) {
	// the run context may be cancelled by a signal
	if err := c.Close(context.Background()); err != nil {
		logger.KV(xlog.WARNING, "status", "shutdown_failed", "err", err.Error())
	}
}
