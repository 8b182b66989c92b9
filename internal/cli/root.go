package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the config overrides of the interactive
// session.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Database     string
	Credentials  string
	ImportFile   string
	PasswordHash string
	ResetOnStart bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the members CLI.
// Run without a subcommand it starts the interactive session.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "members",
		Short: "members - terminal member book",
		Long: `A terminal member book backed by a single SQLite file.

Asks for an account and password checked against a JSON credential file,
then shows a numbered menu to create, import, list, add, update, search
and delete member records (name, sex, phone).

Example:
  members
  members --config ./members.yaml
  members --db ./wanghong.db --credentials ./pass.json --password-hash md5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	// Session overrides, applied over the config file only when set
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Credentials, "credentials", "", "path to credential JSON file")
	cmd.Flags().StringVar(&opts.ImportFile, "import-file", "", "text file read by the import choice")
	cmd.Flags().StringVar(&opts.PasswordHash, "password-hash", "", "password comparison (plain|md5|bcrypt)")
	cmd.Flags().BoolVar(&opts.ResetOnStart, "reset-on-start", true, "clear all records when the session starts")

	cmd.AddCommand(NewHashPasswordCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the text logger used for diagnostics. The menu owns
// stdout, so only warnings are logged unless verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}
