// Package loader implements the incremental load of save-analysis
// artifacts: for every candidate artifact across a set of roots it decides,
// against a caller-supplied freshness snapshot, whether the artifact must
// be (re)read and decoded, and returns the units that needed loading.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sift/internal/analysis"
	"sift/internal/decode"
	"sift/internal/errors"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// Unit is one compilation unit's loaded analysis bundle. A Unit is created
// once per successful load and never mutated; when the artifact changes
// again a new Unit supersedes it.
type Unit struct {
	Analysis  *analysis.Record
	Timestamp time.Time
	Path      string
}

// RootEnumerator supplies the root directories to scan. It invokes the
// visitor once per root and returns the concatenation of all visitor
// results. This is the loader's only way of discovering what to scan.
type RootEnumerator interface {
	EachRoot(visit func(root string) []Unit) []Unit
}

// StaticRoots enumerates a fixed list of root paths in order.
type StaticRoots []string

// EachRoot implements RootEnumerator
func (r StaticRoots) EachRoot(visit func(root string) []Unit) []Unit {
	var units []Unit
	for _, root := range r {
		units = append(units, visit(root)...)
	}
	return units
}

// DecodeFunc is the decode capability: bytes in, typed record or error out.
type DecodeFunc func(data []byte) (*analysis.Record, error)

// Options configures a Loader. The zero value is usable: local filesystem
// listing, the package decode step, no diagnostics, default parallelism.
type Options struct {
	// Decode overrides the decode step (default decode.Record)
	Decode DecodeFunc
	// List overrides the directory-listing capability (default ListDirectory)
	List ListFunc
	// Diagnostics receives per-artifact and per-root outcomes
	Diagnostics Diagnostics
	// Workers bounds per-root decode parallelism (default 4)
	Workers int
	// FailureCacheSize bounds the decode failure cache (default 256).
	// Malformed artifacts are re-encountered on every call because the
	// caller cannot advance their timestamp; caching the failure by
	// content hash avoids re-decoding them until their bytes change.
	FailureCacheSize int
}

type failureKey struct {
	path string
	hash uint64
}

// Loader performs incremental loads. It is stateless across calls except
// for the decode failure cache, which is keyed by content hash so it never
// changes observable results: decoding is deterministic over the bytes.
// Safe for concurrent use.
type Loader struct {
	decode   DecodeFunc
	list     ListFunc
	diag     Diagnostics
	workers  int
	failures *lru.Cache[failureKey, error]
}

// New creates a Loader
func New(opts Options) *Loader {
	if opts.Decode == nil {
		opts.Decode = decode.Record
	}
	if opts.List == nil {
		opts.List = ListDirectory
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = NopDiagnostics{}
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.FailureCacheSize <= 0 {
		opts.FailureCacheSize = 256
	}

	failures, _ := lru.New[failureKey, error](opts.FailureCacheSize)

	return &Loader{
		decode:   opts.Decode,
		list:     opts.List,
		diag:     opts.Diagnostics,
		workers:  opts.Workers,
		failures: failures,
	}
}

// Load scans every root the enumerator produces and returns a Unit for
// each artifact the snapshot's freshness policy required loading:
//
//   - Unseen paths load unconditionally.
//   - KnownAt paths load only when observed mtime is strictly newer.
//   - Pinned paths never load.
//
// A root whose listing fails contributes nothing; an artifact whose read
// or decode fails is silently absent from the result. Both are reported to
// the diagnostics sink only. Results are concatenated across roots with no
// deduplication; order is not significant.
func (l *Loader) Load(ctx context.Context, roots RootEnumerator, snap Snapshot) []Unit {
	if snap == nil {
		snap = MapSnapshot(nil)
	}
	session := uuid.New().String()

	return roots.EachRoot(func(root string) []Unit {
		return l.loadRoot(ctx, session, root, snap)
	})
}

// LoadAll is Load with no prior knowledge: every artifact is unseen.
func (l *Loader) LoadAll(ctx context.Context, roots RootEnumerator) []Unit {
	return l.Load(ctx, roots, MapSnapshot(nil))
}

func (l *Loader) loadRoot(ctx context.Context, session, root string, snap Snapshot) []Unit {
	start := time.Now()

	listing, err := l.list(root)
	if err != nil {
		l.diag.ListingFailed(session, root, err)
		return nil
	}

	var (
		mu    sync.Mutex
		units []Unit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for _, entry := range listing.Entries {
		if entry.Kind != EntryFile {
			continue
		}
		path := filepath.Join(root, entry.Name)
		if !snap.Freshness(path).ShouldLoad(entry.ModTime) {
			continue
		}

		mtime := entry.ModTime
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if unit, ok := l.loadArtifact(session, path, mtime); ok {
				mu.Lock()
				units = append(units, unit)
				mu.Unlock()
			}
			// Per-artifact failures never escalate; partial progress
			// is always returned.
			return nil
		})
	}

	_ = g.Wait()

	l.diag.RootLoaded(session, root, len(units), time.Since(start))
	return units
}

func (l *Loader) loadArtifact(session, path string, mtime time.Time) (Unit, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Read errors are never cached: the next call may find the
		// artifact readable again without any mtime change.
		serr := errors.Newf(errors.ArtifactUnreadable, err, "cannot read %s", path)
		l.diag.ArtifactSkipped(session, path, serr)
		return Unit{}, false
	}

	key := failureKey{path: path, hash: xxhash.Sum64(data)}
	if prev, ok := l.failures.Get(key); ok {
		l.diag.ArtifactSkipped(session, path, prev)
		return Unit{}, false
	}

	rec, err := l.decode(data)
	if err != nil {
		l.failures.Add(key, err)
		l.diag.ArtifactSkipped(session, path, err)
		return Unit{}, false
	}

	return Unit{Analysis: rec, Timestamp: mtime, Path: path}, true
}
