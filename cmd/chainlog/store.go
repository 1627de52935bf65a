// Package main provides the entry point for the chainlog CLI.
package main

import (
	"path/filepath"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/config"
	"github.com/rowanvale/chainlog/internal/git"
	"github.com/rowanvale/chainlog/internal/output"
)

// storageDirName is the default storage directory at the repo root.
const storageDirName = ".chainlog"

// openStore builds a Store for the current repository.
// The storage directory defaults to <repo-root>/.chainlog and can be
// overridden by storage_dir in the config file.
func openStore() (*chain.Store, error) {
	if !git.IsRepo() {
		return nil, output.NewSystemError("not in a git repository")
	}

	root, err := git.RepoRoot()
	if err != nil {
		return nil, err
	}

	dir := config.Load().StorageDir
	if dir == "" {
		dir = filepath.Join(root, storageDirName)
	}

	repo := chain.Repository{
		Name: filepath.Base(root),
		Path: root,
	}
	return chain.NewStore(dir, repo), nil
}
