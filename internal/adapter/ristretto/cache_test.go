package ristretto_test

import (
	"context"
	"testing"
	"time"

	"github.com/Strob0t/taskgraph/internal/adapter/ristretto"
	"github.com/Strob0t/taskgraph/internal/port/cache/cachetest"
)

func TestCache_Behavior(t *testing.T) {
	c, err := ristretto.New(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	cachetest.Run(t, c, c.Wait)
}

func TestCache_StoresCopy(t *testing.T) {
	c, err := ristretto.New(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	buf := []byte("original")
	_ = c.Set(ctx, "workflow.copy", buf, time.Minute)
	c.Wait()
	copy(buf, "mutated!")

	val, found, _ := c.Get(ctx, "workflow.copy")
	if !found || string(val) != "original" {
		t.Fatalf("expected stored copy, got %q (found=%v)", val, found)
	}
}

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	if _, err := ristretto.New(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}
