package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the history of the current branch",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReadOnly(func(r *dag.Repository, _ *config.Config) error {
			commits, err := r.Log()
			if err != nil {
				return err
			}
			return dag.FormatLog(cmd.OutOrStdout(), commits)
		})
	},
}

var globalLogCmd = &cobra.Command{
	Use:   "global-log",
	Short: "Show every commit ever made",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReadOnly(func(r *dag.Repository, _ *config.Config) error {
			commits, err := r.GlobalLog()
			if err != nil {
				return err
			}
			return dag.FormatLog(cmd.OutOrStdout(), commits)
		})
	},
}

var findCmd = &cobra.Command{
	Use:   "find <message>",
	Short: "Print the ids of commits with the given message",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReadOnly(func(r *dag.Repository, _ *config.Config) error {
			ids, err := r.Find(args[0])
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show branches, staged changes and working-tree state",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReadOnly(func(r *dag.Repository, _ *config.Config) error {
			st, err := r.Status()
			if err != nil {
				return err
			}
			return dag.FormatStatus(cmd.OutOrStdout(), st)
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <commit>",
	Short: "Print a commit record",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReadOnly(func(r *dag.Repository, _ *config.Config) error {
			c, err := r.Show(args[0])
			if err != nil {
				return err
			}
			return printCommit(cmd.OutOrStdout(), c)
		})
	},
}

func printCommit(w io.Writer, c *dag.Commit) error {
	mb, err := c.ID.Multibase()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "commit %s\n", c.ID)
	fmt.Fprintf(w, "cid    %s\n", mb)
	if len(c.Parents) > 0 {
		parents := make([]string, len(c.Parents))
		for i, p := range c.Parents {
			parents[i] = string(p)
		}
		fmt.Fprintf(w, "parent %s\n", strings.Join(parents, " "))
	}
	if c.Author != "" {
		fmt.Fprintf(w, "author %s\n", c.Author)
	}
	fmt.Fprintf(w, "date   %s\n\n    %s\n\n", c.Timestamp, c.Message)
	for _, name := range c.Manifest.Names() {
		fmt.Fprintf(w, "%s  %s\n", c.Manifest[name].Short(), name)
	}
	return nil
}

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <words>...",
	Short: "Rank commits by the words in their message, author and files",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errIncorrectOperands
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReadOnly(func(r *dag.Repository, _ *config.Config) error {
			commits, err := r.SearchCommits(strings.Join(args, " "), searchLimit)
			if err != nil {
				return err
			}
			for _, c := range commits {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.ID.Short(), c.Message)
			}
			return nil
		})
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal [branch]",
	Short: "Show how branch pointers moved",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errIncorrectOperands
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var branch string
		if len(args) == 1 {
			branch = args[0]
		}
		return withReadOnly(func(r *dag.Repository, _ *config.Config) error {
			entries, err := r.Journal.Entries(branch)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-12s %-12s %s..%s\n",
					e.Time, e.Branch, e.Action, shortOrDash(e.From), shortOrDash(e.To))
			}
			return nil
		})
	},
}

func shortOrDash(id dag.ID) string {
	if id == dag.NoID {
		return "-"
	}
	return id.Short()
}

var relatedLimit int

var relatedCmd = &cobra.Command{
	Use:   "related <file>",
	Short: "List files that tend to change together with a file",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReadOnly(func(r *dag.Repository, cfg *config.Config) error {
			limit := cfg.Related.Limit
			if cmd.Flags().Changed("limit") {
				limit = relatedLimit
			}
			names, err := r.Related(args[0], cfg.Related.Window, limit)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "n", 10, "maximum number of files")
}
