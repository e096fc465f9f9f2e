package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/pkg/types"
)

func TestPutGlobalDedupesOnDigest(t *testing.T) {
	r := New()
	a := types.NewClassArtifact("counter.Task", []byte("classbytes"))
	d1 := r.PutGlobal(a)
	d2 := r.PutGlobal(a)
	assert.Equal(t, d1, d2)

	got, err := r.GetBytes(d1)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes, got)
}

func TestChildSnapshotOverridesRoot(t *testing.T) {
	r := New()
	root := types.NewClassArtifact("counter.Task", []byte("root-version"))
	r.PutGlobal(root)

	h := r.NewChildSnapshot()
	override := types.NewClassArtifact("counter.Task", []byte("job-local-version"))
	require.NoError(t, r.ChildPut(h, override))

	d, err := r.ChildGetDigest(h, "counter.Task")
	require.NoError(t, err)
	assert.Equal(t, override.Digest, d)

	b, err := r.ChildGetBytes(h, d)
	require.NoError(t, err)
	assert.Equal(t, override.Bytes, b)

	// root itself is untouched
	rootDigest, err := r.GetDigest("counter.Task")
	require.NoError(t, err)
	assert.Equal(t, root.Digest, rootDigest)
}

func TestChildSnapshotFallsBackToRoot(t *testing.T) {
	r := New()
	root := types.NewClassArtifact("shared.Task", []byte("shared-bytes"))
	r.PutGlobal(root)

	h := r.NewChildSnapshot()
	d, err := r.ChildGetDigest(h, "shared.Task")
	require.NoError(t, err)
	assert.Equal(t, root.Digest, d)

	b, err := r.ChildGetBytes(h, d)
	require.NoError(t, err)
	assert.Equal(t, root.Bytes, b)
}

// TestConcurrentChildSnapshotIsolation pins the invariant that a job's
// snapshot is isolated from concurrent root PutGlobal calls made while other
// jobs are running: a snapshot created before an update keeps resolving to
// the digest it first bound, even while new artifacts are installed at root.
func TestConcurrentChildSnapshotIsolation(t *testing.T) {
	r := New()
	root := types.NewClassArtifact("shared.Task", []byte("v1"))
	r.PutGlobal(root)

	h := r.NewChildSnapshot()
	d, err := r.ChildGetDigest(h, "shared.Task")
	require.NoError(t, err)
	require.Equal(t, root.Digest, d)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			other := r.NewChildSnapshot()
			artifact := types.NewClassArtifact("other.Task", []byte{byte(n)})
			_ = r.ChildPut(other, artifact)
			r.PutGlobal(types.NewClassArtifact("shared.Task", []byte{byte(n)}))
			r.Release(other)
		}(i)
	}
	wg.Wait()

	// the original snapshot's binding to shared.Task is untouched
	d2, err := r.ChildGetDigest(h, "shared.Task")
	require.NoError(t, err)
	assert.Equal(t, root.Digest, d2)
}

func TestReleaseDropsSnapshotButKeepsNamedRootArtifact(t *testing.T) {
	r := New()
	root := types.NewClassArtifact("shared.Task", []byte("shared-bytes"))
	r.PutGlobal(root)

	h := r.NewChildSnapshot()
	_, err := r.ChildGetDigest(h, "shared.Task") // takes a root ref
	require.NoError(t, err)
	r.Release(h)

	// root artifacts registered by name survive a releasing snapshot;
	// they are the shared default-class pool, not job-scoped.
	b, err := r.GetBytes(root.Digest)
	require.NoError(t, err)
	assert.Equal(t, root.Bytes, b)

	// but the released handle itself is gone
	_, err = r.ChildGetDigest(h, "shared.Task")
	assert.Error(t, err)
}
