/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fulmenhq/nodelic/pkg/buildinfo"
	"github.com/fulmenhq/nodelic/pkg/exitcode"
	"github.com/fulmenhq/nodelic/pkg/licenses"
	"github.com/fulmenhq/nodelic/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// Tests build isolated command trees from it without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodelic",
		Short: "Report the declared licenses of a Node project's dependencies",
		Long: `Nodelic reads package.json and node_modules/ and prints the license declared by
each direct dependency. It never installs, resolves or modifies packages.

Examples:
   nodelic                      # Dependencies of the project next to the binary
   nodelic -p ../webapp         # Project path relative to the binary's location
   nodelic -d -j                # Include devDependencies, print a JSON array
   nodelic --format markdown    # Markdown table
   nodelic version              # Show version`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{err: fmt.Errorf("unexpected argument %q", args[0])}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		RunE: runReport,
	}

	cmd.PersistentFlags().String("log-level", "warn", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored log output")
	cmd.PersistentFlags().String("config", "", "Config file (default .nodelic.yaml in the working directory or $HOME)")

	bindReportFlags(cmd.Flags())

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("nodelic {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newVersionCommand())
}

var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd)
}

// Execute runs the root command and exits with the mapped exit code.
// This is called by main.main().
func Execute() {
	os.Exit(execute(rootCmd))
}

func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return exitcode.Success
	}
	code := exitCodeFor(err)
	printError(cmd.ErrOrStderr(), err)
	logger.Debug("Command failed", logger.Err(err), logger.String("exit", exitcode.String(code)))
	return code
}

// usageError marks invalid flags or configuration.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return exitcode.ConfigError
	}
	return exitcode.GeneralError
}

// printError writes the error and, when one is known, a remediation hint.
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "ERROR: %s\n", err)
	var missing *licenses.MissingInputError
	if errors.As(err, &missing) && missing.Hint != "" {
		_, _ = fmt.Fprintln(w, missing.Hint)
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "nodelic",
		Output:    cmd.ErrOrStderr(),
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
