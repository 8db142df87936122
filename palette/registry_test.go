package palette

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistryCreateDestroy(t *testing.T) {
	r := NewRegistry()

	h := r.Create(nil)
	if h == 0 {
		t.Fatal("Create returned the zero handle")
	}

	if n, err := r.Size(h); err != nil || n != 0 {
		t.Fatalf("Size(new) = (%d, %v), want (0, nil)", n, err)
	}

	if err := r.Destroy(h); err != nil {
		t.Fatalf("Destroy() = %v", err)
	}
	if _, err := r.Size(h); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("Size after Destroy = %v, want ErrUnknownHandle", err)
	}
	if err := r.Destroy(h); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("double Destroy = %v, want ErrUnknownHandle", err)
	}
}

func TestRegistryZeroHandle(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Size(0); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("Size(0) = %v, want ErrUnknownHandle", err)
	}
	if err := r.Clear(0); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("Clear(0) = %v, want ErrUnknownHandle", err)
	}
}

func TestRegistrySlotRecycling(t *testing.T) {
	r := NewRegistry()

	// Fill every shard once so a later Create lands on a recycled slot.
	handles := make([]Handle, shardCount)
	for i := range handles {
		handles[i] = r.Create(nil)
	}
	victim := handles[3]
	if err := r.Destroy(victim); err != nil {
		t.Fatalf("Destroy() = %v", err)
	}

	// Create until the victim's shard is revisited; the freed slot must be
	// reused, producing the same handle value.
	var recycled Handle
	for i := 0; i < shardCount; i++ {
		h := r.Create(nil)
		if h == victim {
			recycled = h
			break
		}
	}
	if recycled == 0 {
		t.Fatal("freed slot was not recycled within one shard round")
	}
}

func TestRegistryOps(t *testing.T) {
	r := NewRegistry()
	h := r.Create(nil)

	pos, err := r.Index(h, entry(1, 0x00010000))
	if err != nil || pos != 0 {
		t.Fatalf("Index = (%d, %v), want (0, nil)", pos, err)
	}
	if err := r.Add(h, entry(2, 0x00020000)); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if n, _ := r.Size(h); n != 2 {
		t.Fatalf("Size() = %d, want 2", n)
	}

	e, err := r.Get(h, 1)
	if err != nil || e.Ref != 2 {
		t.Fatalf("Get(1) = (%v, %v), want ref 2", e, err)
	}
	// Out of range falls back to position 0.
	e, err = r.Get(h, 50)
	if err != nil || e.Ref != 1 {
		t.Fatalf("Get(50) = (%v, %v), want fallback ref 1", e, err)
	}

	if err := r.Clear(h); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	if _, err := r.Get(h, 0); !errors.Is(err, ErrEmptyPalette) {
		t.Fatalf("Get after Clear = %v, want ErrEmptyPalette", err)
	}
}

func TestRegistryCloneIsSnapshot(t *testing.T) {
	r := NewRegistry()
	h := r.Create(nil)
	if err := r.Add(h, entry(1, 1)); err != nil {
		t.Fatal(err)
	}

	c, err := r.Clone(h)
	if err != nil {
		t.Fatalf("Clone() = %v", err)
	}
	if c == h {
		t.Fatal("Clone returned the source handle")
	}

	if err := r.Add(h, entry(2, 2)); err != nil {
		t.Fatal(err)
	}
	if n, _ := r.Size(c); n != 1 {
		t.Errorf("clone Size() = %d, want 1", n)
	}
	if n, _ := r.Size(h); n != 2 {
		t.Errorf("source Size() = %d, want 2", n)
	}
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry()

	const goroutines = 32
	const perG = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			h := r.Create(nil)
			for i := 0; i < perG; i++ {
				//nolint:gosec // test values stay small
				if _, err := r.Index(h, entry(HostRef(g), uint32(g)<<16|uint32(i))); err != nil {
					t.Errorf("Index: %v", err)
					return
				}
				if _, err := r.Size(h); err != nil {
					t.Errorf("Size: %v", err)
					return
				}
			}
			if n, _ := r.Size(h); n != perG {
				t.Errorf("Size() = %d, want %d", n, perG)
			}
			if err := r.Destroy(h); err != nil {
				t.Errorf("Destroy: %v", err)
			}
		}(g)
	}
	wg.Wait()
}

func TestRegistryConcurrentCloneAndWrite(t *testing.T) {
	r := NewRegistry()
	h := r.Create(nil)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint32(0); ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_, _ = r.Index(h, entry(1, i))
		}
	}()

	// Clones taken under the shard lock must always be internally
	// consistent: every position below Size resolves without error.
	for i := 0; i < 100; i++ {
		c, err := r.Clone(h)
		if err != nil {
			t.Fatalf("Clone() = %v", err)
		}
		n, _ := r.Size(c)
		for j := 0; j < n; j++ {
			if _, err := r.Get(c, j); err != nil {
				t.Fatalf("clone Get(%d) of %d: %v", j, n, err)
			}
		}
		_ = r.Destroy(c)
	}
	close(stop)
	wg.Wait()
}
