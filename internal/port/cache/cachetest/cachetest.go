// Package cachetest holds a behavior suite shared by the cache adapters' tests.
package cachetest

import (
	"context"
	"testing"
	"time"

	"github.com/Strob0t/taskgraph/internal/port/cache"
)

// Run checks the behavior every cache.Cache must share. sync is called
// after each write for caches that apply writes asynchronously; it may be nil.
func Run(t *testing.T, c cache.Cache, sync func()) {
	t.Helper()
	if sync == nil {
		sync = func() {}
	}
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		if err := c.Set(ctx, "workflow.wf-1", []byte(`{"workflow_name":"launch"}`), time.Minute); err != nil {
			t.Fatal(err)
		}
		sync()
		val, found, err := c.Get(ctx, "workflow.wf-1")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("expected found after Set")
		}
		if string(val) != `{"workflow_name":"launch"}` {
			t.Fatalf("expected workflow JSON, got %s", val)
		}
	})

	t.Run("GetMiss", func(t *testing.T) {
		_, found, err := c.Get(ctx, "workflow.missing")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected miss for nonexistent key")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = c.Set(ctx, "workflow.wf-2", []byte("v"), time.Minute)
		sync()
		if err := c.Delete(ctx, "workflow.wf-2"); err != nil {
			t.Fatal(err)
		}
		sync()
		_, found, err := c.Get(ctx, "workflow.wf-2")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected miss after Delete")
		}
	})

	t.Run("DeleteNonexistent", func(t *testing.T) {
		if err := c.Delete(ctx, "workflow.never"); err != nil {
			t.Fatal("Delete of nonexistent key should not error")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		_ = c.Set(ctx, "workflow.wf-3", []byte("v1"), time.Minute)
		sync()
		_ = c.Set(ctx, "workflow.wf-3", []byte("v2"), time.Minute)
		sync()
		val, found, err := c.Get(ctx, "workflow.wf-3")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("expected found after overwrite")
		}
		if string(val) != "v2" {
			t.Fatalf("expected v2 after overwrite, got %s", val)
		}
	})
}
