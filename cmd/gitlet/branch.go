package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
)

// checkoutCmd takes three forms:
//
//	checkout <branch>
//	checkout -- <file>
//	checkout <commit> -- <file>
var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch> | -- <file> | <commit> -- <file>",
	Short: "Switch branches or restore a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		dash := cmd.ArgsLenAtDash()
		switch {
		case dash == -1 && len(args) == 1:
			return withRepo(func(r *dag.Repository, _ *config.Config) error {
				return r.CheckoutBranch(args[0])
			})
		case dash == 0 && len(args) == 1:
			return withRepo(func(r *dag.Repository, _ *config.Config) error {
				return r.CheckoutFile(args[0], "")
			})
		case dash == 1 && len(args) == 2:
			return withRepo(func(r *dag.Repository, _ *config.Config) error {
				return r.CheckoutFile(args[1], args[0])
			})
		}
		return errIncorrectOperands
	},
}

var branchCmd = &cobra.Command{
	Use:   "branch <name>",
	Short: "Create a branch at HEAD",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(r *dag.Repository, _ *config.Config) error {
			return r.CreateBranch(args[0])
		})
	},
}

var rmBranchCmd = &cobra.Command{
	Use:   "rm-branch <name>",
	Short: "Delete a branch pointer",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(r *dag.Repository, _ *config.Config) error {
			return r.RemoveBranch(args[0])
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <commit>",
	Short: "Move the current branch to a commit and check out its files",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(r *dag.Repository, _ *config.Config) error {
			c, err := r.Reset(args[0])
			if err != nil {
				return err
			}
			log.Printf("reset %s to %s", r.Graph.Current(), c.ID.Short())
			return nil
		})
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge <branch>",
	Short: "Merge a branch into the current branch",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(r *dag.Repository, _ *config.Config) error {
			res, err := r.Merge(args[0], r.Now())
			if err != nil {
				return err
			}
			log.Printf("merge %s: %s base %s", args[0], res.Split.Kind, res.Split.Base.Short())
			if msg := res.Outcome.String(); msg != "" {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			return nil
		})
	},
}
