// ============================================================================
// Anvil Worker Caches
// ============================================================================
//
// Package: internal/worker
// File: cache.go
// Purpose: LRU TaskExecutor cache and a (name, digest)-keyed class-bytes
// cache, each with a singleflight gate so a concurrent miss from multiple
// workers in the same pool fetches a class or executor exactly once.
//
// ============================================================================

package worker

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/anvil-run/anvil/pkg/types"
)

const maxCachedExecutors = 5

// executorCache holds deserialized TaskExecutor instances, one per job, with
// a bounded LRU so a long-running worker doesn't accumulate one entry per
// job it has ever seen.
type executorCache struct {
	lru     *lru.Cache[types.JobID, TaskExecutor]
	group   singleflight.Group
	factory ExecutorFactory
	source  Source
}

func newExecutorCache(factory ExecutorFactory, source Source) *executorCache {
	c, err := lru.New[types.JobID, TaskExecutor](maxCachedExecutors)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// maxCachedExecutors never is.
		panic(err)
	}
	return &executorCache{lru: c, factory: factory, source: source}
}

// get returns jobId's TaskExecutor, fetching and deserializing executor
// bytes from source on a cache miss. Concurrent misses for the same jobId
// collapse into a single fetch via singleflight.
func (c *executorCache) get(ctx context.Context, jobID types.JobID) (TaskExecutor, error) {
	if exec, ok := c.lru.Get(jobID); ok {
		return exec, nil
	}

	v, err, _ := c.group.Do(jobID.String(), func() (interface{}, error) {
		if exec, ok := c.lru.Get(jobID); ok {
			return exec, nil
		}
		raw, err := c.source.GetTaskExecutor(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("fetch executor: %w", err)
		}
		exec, err := c.factory(raw)
		if err != nil {
			return nil, fmt.Errorf("build executor: %w", err)
		}
		c.lru.Add(jobID, exec)
		return exec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(TaskExecutor), nil
}

// classKey identifies one resolved class by name and content digest.
type classKey struct {
	name   string
	digest types.Digest
}

// classCache resolves and caches class bytes by (name, digest), matching
// the class-loading strategy in SPEC_FULL.md §4.5: ask for the current
// digest, look up the cache, and on miss fetch bytes and store under that
// digest. The pending-lookup collapse is singleflight keyed by the digest
// alone, since two different names can never share one digest's bytes.
type classCache struct {
	group  singleflight.Group
	source Source

	mu    chan struct{} // binary semaphore guarding the map below
	bytes map[types.Digest][]byte
}

func newClassCache(source Source) *classCache {
	c := &classCache{
		source: source,
		mu:     make(chan struct{}, 1),
		bytes:  make(map[types.Digest][]byte),
	}
	c.mu <- struct{}{}
	return c
}

// loadClass resolves name under jobId: current digest from the source, then
// cache lookup, then a collapsed fetch on miss.
func (c *classCache) loadClass(ctx context.Context, name string, jobID types.JobID) ([]byte, error) {
	digest, err := c.source.GetClassDigest(ctx, name, jobID)
	if err != nil {
		return nil, fmt.Errorf("resolve class digest: %w", err)
	}

	<-c.mu
	cached, ok := c.bytes[digest]
	c.mu <- struct{}{}
	if ok {
		return cached, nil
	}

	v, err, _ := c.group.Do(digest.String(), func() (interface{}, error) {
		<-c.mu
		cached, ok := c.bytes[digest]
		c.mu <- struct{}{}
		if ok {
			return cached, nil
		}
		raw, err := c.source.GetClassBytes(ctx, digest, jobID)
		if err != nil {
			return nil, fmt.Errorf("fetch class bytes: %w", err)
		}
		<-c.mu
		c.bytes[digest] = raw
		c.mu <- struct{}{}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
