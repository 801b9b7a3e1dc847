package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Read and write repository configuration",
	}

	configGetCmd = &cobra.Command{
		Use:   "get <section.key>",
		Short: "Print a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := repoDir()
			if err != nil {
				return err
			}
			val, err := config.Get(dir, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	}

	configSetCmd = &cobra.Command{
		Use:   "set <section.key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Written under the repository lock.
			return withRepo(func(r *dag.Repository, _ *config.Config) error {
				return config.Set(r.Dir(), args[0], args[1])
			})
		},
	}
)

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
}

func repoDir() (string, error) {
	root, err := filepath.Abs(workDir)
	if err != nil {
		return "", err
	}
	r, err := dag.OpenReadOnly(root)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return r.Dir(), nil
}
