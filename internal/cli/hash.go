package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/members/internal/credential"
)

// HashOptions holds flags for the hash-password command.
type HashOptions struct {
	*RootOptions
	Mode string
}

// HashResult is the JSON payload of hash-password.
type HashResult struct {
	Mode string `json:"mode"`
	Hash string `json:"hash"`
}

// NewHashPasswordCommand creates the hash-password command.
func NewHashPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the stored form of a password",
		Long: `Print the value to put in the password field of the credential file
for the chosen --password-hash mode.

Example:
  members hash-password s3cret
  members hash-password s3cret --mode md5
  members hash-password s3cret --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return hashPassword(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", string(credential.ModeBcrypt), "hash mode (plain|md5|bcrypt)")

	return cmd
}

func hashPassword(opts *HashOptions, password string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	mode, err := credential.ParseMode(opts.Mode)
	if err != nil {
		_ = formatter.Error("E001", err.Error())
		return WrapExitError(ExitCommandError, "invalid hash mode", err)
	}

	formatter.VerboseLog("hashing with mode %s", mode)
	hash, err := credential.Hash(password, mode)
	if err != nil {
		_ = formatter.Error("E002", err.Error())
		return WrapExitError(ExitFailure, "hash failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(HashResult{Mode: string(mode), Hash: hash})
	}
	return formatter.Success(hash)
}
