package main

import (
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a repository in the working directory",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(workDir)
		if err != nil {
			return err
		}
		r, err := dag.Init(root, time.Now())
		if err != nil {
			return err
		}
		defer r.Close()

		cfg, err := config.Load(r.Dir())
		if err != nil {
			return err
		}
		if err := config.WriteDefault(r.Dir(), cfg); err != nil {
			return err
		}
		log.Printf("initialized %s at %s", r.Dir(), r.Graph.Head().Short())
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Stage a file for the next commit",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(r *dag.Repository, _ *config.Config) error {
			return r.Add(args[0])
		})
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit <message>",
	Short: "Record the staged changes",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errIncorrectOperands
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var message string
		if len(args) == 1 {
			message = args[0]
		}
		return withRepo(func(r *dag.Repository, _ *config.Config) error {
			c, err := r.Commit(message, r.Now())
			if err != nil {
				return err
			}
			log.Printf("committed %s", c.ID.Short())
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <file>",
	Short: "Unstage a file, or stage the removal of a tracked file",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(r *dag.Repository, _ *config.Config) error {
			return r.Remove(args[0])
		})
	},
}
