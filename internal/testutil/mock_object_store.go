package testutil

import (
	"context"
	"sync"

	"github.com/upassistify/upassistify/internal/s3"
)

var _ s3.ObjectStore = (*MockObjectStore)(nil)

// MockObjectStore keeps uploaded objects in memory
type MockObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{objects: make(map[string][]byte)}
}

func (m *MockObjectStore) PutObject(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MockObjectStore) PublicURL(key string) string {
	return "https://assets.example.com/" + key
}

func (m *MockObjectStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *MockObjectStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string][]byte)
}
