package loader

import (
	"os"
	"time"

	"sift/internal/errors"
)

// EntryKind tags a directory entry
type EntryKind uint8

const (
	// EntryFile is a regular file
	EntryFile EntryKind = iota
	// EntryDir is a directory
	EntryDir
	// EntryOther is anything else (symlink, socket, ...)
	EntryOther
)

// Entry is one directory entry. ModTime is only meaningful for EntryFile.
type Entry struct {
	Name    string
	Kind    EntryKind
	ModTime time.Time
}

// Listing is an ordered set of entries for one root path.
type Listing struct {
	Path    string
	Entries []Entry
}

// ListFunc is the directory-listing capability consumed by the loader.
// Injectable so hosts can supply a cancellable or virtual filesystem.
type ListFunc func(path string) (Listing, error)

// ListDirectory lists a directory on the local filesystem, tagging each
// entry with its kind and, for files, its modification time.
func ListDirectory(path string) (Listing, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return Listing{}, errors.Newf(errors.ListingFailed, err, "cannot list %s", path)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		switch {
		case de.Type().IsRegular():
			info, err := de.Info()
			if err != nil {
				// Entry vanished between readdir and stat.
				continue
			}
			entries = append(entries, Entry{Name: de.Name(), Kind: EntryFile, ModTime: info.ModTime()})
		case de.IsDir():
			entries = append(entries, Entry{Name: de.Name(), Kind: EntryDir})
		default:
			entries = append(entries, Entry{Name: de.Name(), Kind: EntryOther})
		}
	}

	return Listing{Path: path, Entries: entries}, nil
}
