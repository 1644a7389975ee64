// Package commands implements the CLI commands for pinsync.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/pinsync/internal/app"
	"go.trai.ch/pinsync/internal/build"
	"go.trai.ch/pinsync/internal/core/domain"
)

// CLI represents the command line interface for pinsync.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Sync(ctx context.Context, opts app.SyncOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:   "pinsync",
		Short: "Sync dependency pins from one DEPS file into another",
		Long: "pinsync copies the pins of the source DEPS file into the generated block\n" +
			"of the target DEPS file. The target is only replaced when every pin resolves;\n" +
			"otherwise the result is left next to it with a .new suffix.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	// -v belongs to --verbose. Bound before the version flag, which only
	// takes the shorthand while it is free.
	c.bindSyncFlags(rootCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) bindSyncFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("dart_deps", "d", domain.DefaultSourcePath(), "Path to the source DEPS file")
	flags.StringP("flutter_deps", "f", domain.DefaultTargetPath(), "Path to the target DEPS file")
	flags.StringP("config", "c", "", "Path to the settings file (default "+domain.SettingsFileName+" if present)")
	flags.Bool("check", false, "Report whether the target is up to date without writing")
	flags.BoolP("verbose", "v", false, "Log progress and step timings")
	flags.Bool("json", false, "Log as JSON")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts := app.SyncOptions{}

		// Path flags override the settings file only when given.
		if flags.Changed("dart_deps") {
			opts.Source, _ = flags.GetString("dart_deps")
		}
		if flags.Changed("flutter_deps") {
			opts.Target, _ = flags.GetString("flutter_deps")
		}
		opts.ConfigPath, _ = flags.GetString("config")
		opts.Check, _ = flags.GetBool("check")
		opts.Verbose, _ = flags.GetBool("verbose")
		opts.JSON, _ = flags.GetBool("json")

		return c.app.Sync(cmd.Context(), opts)
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
