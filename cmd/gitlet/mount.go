package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/systemshift/gitlet/internal/dag"
	gitletfuse "github.com/systemshift/gitlet/internal/fuse"
)

var mountDebug bool

var mountCmd = &cobra.Command{
	Use:   "mount <mountpoint>",
	Short: "Expose branches, commits and history as a read-only filesystem",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mountpoint := args[0]
		if err := os.MkdirAll(mountpoint, 0755); err != nil {
			return err
		}
		root, err := filepath.Abs(workDir)
		if err != nil {
			return err
		}
		repo, err := dag.OpenReadOnly(root)
		if err != nil {
			return err
		}
		defer repo.Close()
		if _, err := loadConfig(repo); err != nil {
			return err
		}

		log.Printf("mounting %s at %s", repo.Dir(), mountpoint)
		server, err := gitletfuse.MountFS(mountpoint, repo, mountDebug)
		if err != nil {
			return err
		}

		// Unmount on signal
		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-done
			log.Println("shutting down...")
			if err := server.Unmount(); err != nil {
				log.Printf("unmount: %v", err)
			}
		}()

		log.Printf("ready (pid %d)", os.Getpid())
		server.Wait()
		log.Println("stopped")
		return nil
	},
}

func init() {
	mountCmd.Flags().BoolVar(&mountDebug, "debug", false, "log every FUSE request")
}
