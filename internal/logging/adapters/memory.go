package adapters

import (
	"sync"

	"swcommons/internal/logging/types"
)

// MemoryAdapter keeps the most recent entries in memory.
// Used by tests and by the console to surface server-side warnings.
type MemoryAdapter struct {
	name    string
	limit   int
	entries []types.LogEntry
	mu      sync.Mutex
}

// NewMemoryAdapter keeps at most limit entries; limit <= 0 means 1000
func NewMemoryAdapter(name string, limit int) *MemoryAdapter {
	if limit <= 0 {
		limit = 1000
	}
	return &MemoryAdapter{name: name, limit: limit}
}

func (a *MemoryAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	copied := *entry
	copied.Fields = make(map[string]interface{}, len(entry.Fields))
	for k, v := range entry.Fields {
		copied.Fields[k] = v
	}
	a.entries = append(a.entries, copied)
	if len(a.entries) > a.limit {
		a.entries = a.entries[len(a.entries)-a.limit:]
	}
	return nil
}

// Entries returns a snapshot of the buffered entries, oldest first
func (a *MemoryAdapter) Entries() []types.LogEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]types.LogEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

func (a *MemoryAdapter) Close() error  { return nil }
func (a *MemoryAdapter) Health() error { return nil }
func (a *MemoryAdapter) Name() string  { return a.name }
