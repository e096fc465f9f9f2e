// Package registry implements the content-addressed Artifact Registry (C1).
//
// The registry holds a single root table of class-definition artifacts keyed
// by their MD5 digest, plus one child snapshot per job. A snapshot never
// copies bytes: it is a thin, copy-on-reference overlay that resolves a name
// to either a job-local override (set via Put on the snapshot itself) or the
// shared root artifact, and increments/decrements root refcounts instead of
// duplicating the underlying byte slice.
//
// Grounded on the teacher's WAL checksum/atomic-write discipline
// (internal/storage/wal/checksum.go) and its snapshot manager's
// temp-file-then-rename persistence pattern (internal/snapshot/snapshot_manager.go),
// generalized here to an in-memory content store instead of an on-disk log.
package registry

import (
	"sync"

	"github.com/anvil-run/anvil/internal/apierrors"
	"github.com/anvil-run/anvil/pkg/types"
)

// rootEntry is one digest-addressed artifact with a reference count. The
// count is the number of live snapshots (across all jobs) that have pulled
// this digest in by name; it reaches zero exactly when no job still needs
// the bytes, at which point the entry is evicted.
type rootEntry struct {
	artifact types.ClassArtifact
	refs     int
}

// SnapshotHandle identifies one job's artifact overlay.
type SnapshotHandle uint64

// snapshotState is the overlay for a single job: a set of name->digest
// bindings (some pointing at root entries, some at job-local artifacts) plus
// the job-local bytes for any name the job overrode itself.
type snapshotState struct {
	bindings map[string]types.Digest // name -> digest (root or local)
	local    map[types.Digest]types.ClassArtifact
	refd     map[types.Digest]struct{} // root digests this snapshot holds a ref on
}

// Registry is the coordinator-wide Artifact Registry.
type Registry struct {
	mu        sync.RWMutex
	root      map[types.Digest]*rootEntry
	rootNames map[string]types.Digest // name -> digest, for the shared root fallback
	snapshots map[SnapshotHandle]*snapshotState
	nextHandle SnapshotHandle
}

// New constructs an empty Artifact Registry.
func New() *Registry {
	return &Registry{
		root:       make(map[types.Digest]*rootEntry),
		rootNames:  make(map[string]types.Digest),
		snapshots:  make(map[SnapshotHandle]*snapshotState),
		nextHandle: 1,
	}
}

// PutGlobal installs an artifact in the shared root table, deduplicating on
// digest. It returns the digest regardless of whether this call created the
// entry or found an existing one with identical content.
func (r *Registry) PutGlobal(artifact types.ClassArtifact) types.Digest {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.root[artifact.Digest]; ok {
		entry.artifact.Name = artifact.Name
	} else {
		r.root[artifact.Digest] = &rootEntry{artifact: artifact}
	}
	r.rootNames[artifact.Name] = artifact.Digest
	return artifact.Digest
}

// GetDigest resolves a root-level artifact name to its digest.
func (r *Registry) GetDigest(name string) (types.Digest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.rootNames[name]
	if !ok {
		return types.Digest{}, apierrors.ErrUnknownClass
	}
	return d, nil
}

// GetBytes resolves a root-level digest to its artifact bytes.
func (r *Registry) GetBytes(digest types.Digest) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.root[digest]
	if !ok {
		return nil, apierrors.ErrMissingArtifact
	}
	return entry.artifact.Bytes, nil
}

// NewChildSnapshot allocates a fresh, empty overlay for a job. It copies no
// bytes; the snapshot resolves reads against the root table until the job
// overrides a name with ChildPut.
func (r *Registry) NewChildSnapshot() SnapshotHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.nextHandle
	r.nextHandle++
	r.snapshots[h] = &snapshotState{
		bindings: make(map[string]types.Digest),
		local:    make(map[types.Digest]types.ClassArtifact),
		refd:     make(map[types.Digest]struct{}),
	}
	return h
}

// ChildPut installs a job-local override for name, visible only through this
// snapshot. It never mutates the root table.
func (r *Registry) ChildPut(h SnapshotHandle, artifact types.ClassArtifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.snapshots[h]
	if !ok {
		return apierrors.ErrUnknownJob
	}
	snap.local[artifact.Digest] = artifact
	snap.bindings[artifact.Name] = artifact.Digest
	return nil
}

// ChildGetDigest resolves name through the job's overlay, falling back to
// the shared root table if the job never overrode it. On first resolution
// against a root digest it takes a reference so the root entry survives at
// least as long as this snapshot, and binds name to that digest in the
// overlay, so later PutGlobal calls for name do not change what this
// snapshot resolves.
func (r *Registry) ChildGetDigest(h SnapshotHandle, name string) (types.Digest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.snapshots[h]
	if !ok {
		return types.Digest{}, apierrors.ErrUnknownJob
	}
	if d, ok := snap.bindings[name]; ok {
		return d, nil
	}
	d, ok := r.rootNames[name]
	if !ok {
		return types.Digest{}, apierrors.ErrUnknownClass
	}
	if _, alreadyRefd := snap.refd[d]; !alreadyRefd {
		if entry, ok := r.root[d]; ok {
			entry.refs++
			snap.refd[d] = struct{}{}
		}
	}
	snap.bindings[name] = d
	return d, nil
}

// ChildGetBytes resolves digest through the job's local overrides first,
// then the shared root table.
func (r *Registry) ChildGetBytes(h SnapshotHandle, digest types.Digest) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.snapshots[h]
	if !ok {
		return nil, apierrors.ErrUnknownJob
	}
	if a, ok := snap.local[digest]; ok {
		return a.Bytes, nil
	}
	entry, ok := r.root[digest]
	if !ok {
		return nil, apierrors.ErrMissingArtifact
	}
	return entry.artifact.Bytes, nil
}

// Release tears down a job's overlay, dropping every reference it held on
// root entries. A root entry whose refcount reaches zero and that is not
// bound to any rootNames entry is evicted; named root artifacts persist
// across jobs by design (they are the shared "default class" pool).
func (r *Registry) Release(h SnapshotHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.snapshots[h]
	if !ok {
		return
	}
	for d := range snap.refd {
		entry, ok := r.root[d]
		if !ok {
			continue
		}
		entry.refs--
		if entry.refs <= 0 && !r.isNamedRoot(d) {
			delete(r.root, d)
		}
	}
	delete(r.snapshots, h)
}

func (r *Registry) isNamedRoot(d types.Digest) bool {
	for _, nd := range r.rootNames {
		if nd == d {
			return true
		}
	}
	return false
}
