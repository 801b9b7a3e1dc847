package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
)

var version = "0.1.0"

// usageError is a command-line mistake reported like a repository error.
type usageError string

func (e usageError) Error() string { return string(e) }

const (
	errNoCommand         = usageError("Please enter a command.")
	errUnknownCommand    = usageError("No command with that name exists.")
	errIncorrectOperands = usageError("Incorrect operands.")
)

var (
	workDir string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "gitlet",
		Short: "A small single-user version-control system",
		Long: `gitlet snapshots the files of one flat directory into a local,
content-addressed history with branches and three-way merges.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errNoCommand
			}
			return errUnknownCommand
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "working directory of the repository")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errIncorrectOperands
	})

	rootCmd.AddCommand(initCmd, addCmd, commitCmd, rmCmd)
	rootCmd.AddCommand(logCmd, globalLogCmd, findCmd, statusCmd, showCmd, searchCmd, journalCmd, relatedCmd)
	rootCmd.AddCommand(checkoutCmd, branchCmd, rmBranchCmd, resetCmd, mergeCmd)
	rootCmd.AddCommand(configCmd, mountCmd)
}

func setupLogging(on bool) {
	log.SetPrefix("gitlet: ")
	log.SetFlags(0)
	if on {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
}

// exactArgs is cobra.ExactArgs with the fixed operand message.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errIncorrectOperands
		}
		return nil
	}
}

// exitCode maps an error to the process status. Repository and usage errors
// are expected outcomes; anything else is an I/O or internal failure.
func exitCode(err error) int {
	var repoErr *dag.Error
	var usage usageError
	if errors.As(err, &repoErr) || errors.As(err, &usage) || errors.Is(err, config.ErrKeyNotFound) {
		return 0
	}
	return 1
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(exitCode(err))
	}
}
