package cli

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/members/internal/config"
	"github.com/roach88/members/internal/console"
	"github.com/roach88/members/internal/credential"
	"github.com/roach88/members/internal/store"
)

// runSession loads configuration, runs the login gate and, on success, the
// menu loop. A rejected login is a normal exit.
func runSession(opts *RootOptions, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	applyOverrides(opts, cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logger = logger.With("session", uuid.Must(uuid.NewV7()).String())
	logger.Debug("session starting",
		"db", cfg.Database,
		"credentials", cfg.Credentials,
		"import_file", cfg.ImportFile,
		"password_hash", cfg.PasswordHash,
	)

	st := store.NewSQLiteStore(cfg.Database, logger)
	sh := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), st, cfg, logger)

	creds, err := credential.Load(cfg.Credentials)
	if err != nil {
		sh.Report(err)
	}
	if !sh.Login(creds) {
		return nil
	}

	// No signal handler: SIGINT ends the process even while a prompt blocks.
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "session error", err)
	}
	return nil
}

// applyOverrides copies explicitly set flags over cfg.
func applyOverrides(opts *RootOptions, cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}
	if flags.Changed("credentials") {
		cfg.Credentials = opts.Credentials
	}
	if flags.Changed("import-file") {
		cfg.ImportFile = opts.ImportFile
	}
	if flags.Changed("password-hash") {
		cfg.PasswordHash = credential.Mode(opts.PasswordHash)
	}
	if flags.Changed("reset-on-start") {
		cfg.ResetOnStart = opts.ResetOnStart
	}
}
