package storage

import (
	"context"
	"net/url"
	"sync"
)

type memoryBlob struct {
	data        []byte
	contentType string
}

// MemoryBlobStore keeps objects in process. URLs use the memory:// scheme.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	objects map[string]memoryBlob
}

// NewMemoryBlobStore creates an empty store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string]memoryBlob)}
}

func (s *MemoryBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (BlobRef, error) {
	if err := ctx.Err(); err != nil {
		return BlobRef{}, err
	}
	s.mu.Lock()
	s.objects[path] = memoryBlob{data: append([]byte(nil), data...), contentType: contentType}
	s.mu.Unlock()
	return BlobRef{Path: path, ContentType: contentType, Size: int64(len(data))}, nil
}

func (s *MemoryBlobStore) URL(ctx context.Context, ref BlobRef) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[ref.Path]
	s.mu.RUnlock()
	if !ok {
		return "", ErrBlobNotFound
	}
	return (&url.URL{Scheme: "memory", Path: "/" + ref.Path}).String(), nil
}

// Object returns a stored object, for tests and local inspection
func (s *MemoryBlobStore) Object(path string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.objects[path]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), blob.data...), blob.contentType, true
}

// Len returns the number of stored objects
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
