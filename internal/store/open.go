package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names.
const (
	BackendFile      = "file"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is a directory for the file backend and a database file for
	// sqlite. Relative paths resolve against Root.
	Path                string
	Root                string
	FirestoreProject    string
	FirestoreCollection string
	CredentialsFile     string
}

// Open returns the configured backend.
func Open(ctx context.Context, opts Options) (Documents, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFile(resolve(opts.Root, opts.Path, "data"))
	case BackendSQLite:
		return OpenSQLite(resolve(opts.Root, opts.Path, "troskovi.db"))
	case BackendFirestore:
		if opts.FirestoreProject == "" {
			return nil, fmt.Errorf("firestore backend requires a project ID")
		}
		return OpenFirestore(ctx, opts.FirestoreProject, opts.FirestoreCollection, opts.CredentialsFile)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func resolve(root, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}
