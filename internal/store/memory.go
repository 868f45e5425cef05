package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"swcommons/pkg/models"
)

// MemoryStore keeps every collection in process memory
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[models.Collection]map[string]*Stored
	seq         int64
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory gateway
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[models.Collection]map[string]*Stored),
		now:         time.Now,
	}
}

func (s *MemoryStore) Insert(ctx context.Context, c models.Collection, doc models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fields, err := copyDocument(doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[c]
	if !ok {
		coll = make(map[string]*Stored)
		s.collections[c] = coll
	}
	s.seq++
	id := uuid.NewString()
	coll[id] = &Stored{ID: id, Seq: s.seq, CreatedAt: s.now(), Fields: fields}
	return id, nil
}

func (s *MemoryStore) Patch(ctx context.Context, c models.Collection, id string, fields models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	patch, err := copyDocument(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.collections[c][id]
	if !ok {
		return notFound(c, id)
	}
	entry.Fields = applyPatch(entry.Fields, patch)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, c models.Collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[c][id]; !ok {
		return notFound(c, id)
	}
	delete(s.collections[c], id)
	return nil
}

func (s *MemoryStore) QueryAll(ctx context.Context, c models.Collection, order Order) ([]Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Stored, 0, len(s.collections[c]))
	for _, entry := range s.collections[c] {
		copied, err := s.snapshot(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if order == OrderNewestFirst {
			return out[i].Seq > out[j].Seq
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, c models.Collection, id string) (Stored, bool, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.collections[c][id]
	if !ok {
		return Stored{}, false, nil
	}
	copied, err := s.snapshot(entry)
	return copied, err == nil, err
}

func (s *MemoryStore) snapshot(entry *Stored) (Stored, error) {
	fields, err := copyDocument(entry.Fields)
	if err != nil {
		return Stored{}, err
	}
	return Stored{ID: entry.ID, Seq: entry.Seq, CreatedAt: entry.CreatedAt, Fields: fields}, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }
