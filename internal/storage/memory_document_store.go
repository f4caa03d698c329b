package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryDocumentStore keeps collections in process. Used for local runs and tests.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	order       map[string][]string
	watchers    map[string]map[int]func()
	nextWatch   int
}

// NewMemoryDocumentStore creates an empty store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		collections: make(map[string]map[string]Document),
		order:       make(map[string][]string),
		watchers:    make(map[string]map[int]func()),
	}
}

func (s *MemoryDocumentStore) insertLocked(collection string, data Document) string {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	id := uuid.NewString()
	s.collections[collection][id] = copyDocument(data)
	s.order[collection] = append(s.order[collection], id)
	return id
}

func (s *MemoryDocumentStore) Create(ctx context.Context, collection string, data Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	id := s.insertLocked(collection, data)
	s.mu.Unlock()

	s.notify(collection)
	return id, nil
}

func (s *MemoryDocumentStore) CreateMany(ctx context.Context, collection string, docs []Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	for _, doc := range docs {
		s.insertLocked(collection, doc)
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryDocumentStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return copyDocument(doc), nil
}

func (s *MemoryDocumentStore) Update(ctx context.Context, collection, id string, patch Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return ErrDocumentNotFound
	}
	for key, value := range patch {
		if err := setPath(doc, key, deepCopy(value)); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryDocumentStore) Query(ctx context.Context, collection string, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []Record
	for _, id := range s.order[collection] {
		doc := s.collections[collection][id]
		if matches(doc, q.Filters) {
			records = append(records, Record{ID: id, Data: copyDocument(doc)})
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(records, func(i, j int) bool {
			a, _ := lookupPath(records[i].Data, q.OrderBy)
			b, _ := lookupPath(records[j].Data, q.OrderBy)
			cmp, _ := compareValues(a, b)
			if q.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}
	return records, nil
}

func (s *MemoryDocumentStore) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	records, err := s.Query(ctx, collection, Query{Filters: filters})
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

func (s *MemoryDocumentStore) Watch(ctx context.Context, collection string, q Query, onChange func([]Record)) (func(), error) {
	deliver := func() {
		records, err := s.Query(context.Background(), collection, q)
		if err == nil {
			onChange(records)
		}
	}

	s.mu.Lock()
	if s.watchers[collection] == nil {
		s.watchers[collection] = make(map[int]func())
	}
	watchID := s.nextWatch
	s.nextWatch++
	s.watchers[collection][watchID] = deliver
	s.mu.Unlock()

	deliver()

	var once sync.Once
	stopped := make(chan struct{})
	stop := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers[collection], watchID)
			s.mu.Unlock()
			close(stopped)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-stopped:
		}
	}()
	return stop, nil
}

// notify runs every watcher of collection outside the lock
func (s *MemoryDocumentStore) notify(collection string) {
	s.mu.RLock()
	callbacks := make([]func(), 0, len(s.watchers[collection]))
	for _, cb := range s.watchers[collection] {
		callbacks = append(callbacks, cb)
	}
	s.mu.RUnlock()

	for _, cb := range callbacks {
		cb()
	}
}
