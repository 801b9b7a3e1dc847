package main

import (
	"log"
	"path/filepath"

	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
)

type repoFunc func(r *dag.Repository, cfg *config.Config) error

// withRepo runs fn as one transaction: open and lock the repository under
// --dir, run fn, save only if fn succeeded, unlock.
func withRepo(fn repoFunc) error {
	return run(dag.Open, fn, true)
}

// withReadOnly runs fn against an unlocked repository and never saves.
func withReadOnly(fn repoFunc) error {
	return run(dag.OpenReadOnly, fn, false)
}

func run(open func(string) (*dag.Repository, error), fn repoFunc, save bool) error {
	root, err := filepath.Abs(workDir)
	if err != nil {
		return err
	}
	r, err := open(root)
	if err != nil {
		return err
	}
	defer r.Close()

	cfg, err := loadConfig(r)
	if err != nil {
		return err
	}
	log.Printf("opened %s (%s at %s)", r.Dir(), r.Graph.Current(), r.Graph.Head().Short())

	if err := fn(r, cfg); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := r.Save(); err != nil {
		return err
	}
	log.Printf("saved %s at %s", r.Graph.Current(), r.Graph.Head().Short())
	return nil
}

func loadConfig(r *dag.Repository) (*config.Config, error) {
	cfg, err := config.Load(r.Dir())
	if err != nil {
		return nil, err
	}
	if cfg.Core.Verbose {
		setupLogging(true)
	}
	r.Author = cfg.Author()
	return cfg, nil
}
