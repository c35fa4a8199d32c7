package upload

import (
	"sync"

	"github.com/dmitrijs2005/imgvault/internal/models"
)

// batch tracks one upload-all run. It settles exactly once, when every item
// has either succeeded or failed.
type batch struct {
	mu        sync.Mutex
	total     int
	succeeded int
	failed    int
	done      chan struct{}
}

func newBatch(total int) *batch {
	b := &batch{total: total, done: make(chan struct{})}
	if total == 0 {
		close(b.done)
	}
	return b
}

func (b *batch) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.succeeded+b.failed == b.total {
		return
	}
	if ok {
		b.succeeded++
	} else {
		b.failed++
	}
	if b.succeeded+b.failed == b.total {
		close(b.done)
	}
}

func (b *batch) result() models.BatchResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return models.BatchResult{Total: b.total, Succeeded: b.succeeded, Failed: b.failed}
}
