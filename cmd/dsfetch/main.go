package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appErrors "dsfetch/internal/errors"
)

// errIncomplete marks a run that finished but left files unverified.
var errIncomplete = errors.New("some files could not be verified")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		exitWithError(err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dsfetch",
		Short: "Download and verify the files listed in a dataset manifest",
		Long: `dsfetch reads a manifest of filename,URL,folder,MD5 rows, verifies each
file below the base directory and downloads only the ones that are missing or
whose checksum does not match. Running it again re-verifies everything without
touching the network for files that are already correct.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cfg := bindFetchFlags(root)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return executeFetch(cmd, cfg)
	}

	root.AddCommand(newFetchCommand())
	root.AddCommand(newInspectCommand())
	return root
}

func exitWithError(err error) {
	code, msg := exitStatus(err)
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(code)
}

// exitStatus maps a command error to the process exit code and the message
// for stderr. An incomplete run prints nothing so the summary stays last.
func exitStatus(err error) (int, string) {
	if errors.Is(err, errIncomplete) {
		return 2, ""
	}
	return 1, appErrors.UserMessage(err)
}
