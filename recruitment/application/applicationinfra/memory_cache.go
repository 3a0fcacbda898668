package applicationinfra

import (
	"context"
	"slices"
	"sync"

	"github.com/Abraxas-365/hireform/recruitment/application"
)

// MemoryLatestCache is a single mutex-guarded slot holding the latest
// submission for the lifetime of the process.
type MemoryLatestCache struct {
	mu     sync.RWMutex
	latest *application.Submission
}

// NewMemoryLatestCache creates an empty cache
func NewMemoryLatestCache() *MemoryLatestCache {
	return &MemoryLatestCache{}
}

// Set overwrites the slot
func (c *MemoryLatestCache) Set(_ context.Context, submission *application.Submission) error {
	cp := clone(submission)

	c.mu.Lock()
	c.latest = cp
	c.mu.Unlock()
	return nil
}

// Get returns a copy of the slot, or nil when empty
func (c *MemoryLatestCache) Get(_ context.Context) (*application.Submission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.latest), nil
}

func clone(s *application.Submission) *application.Submission {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Skills = slices.Clone(s.Skills)
	if cp.Skills == nil {
		cp.Skills = []string{}
	}
	return &cp
}
