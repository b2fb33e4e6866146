package uploader

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// memStore is an in-memory objectStore for tests
type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	composes [][]string

	// failWrites makes the next n Write calls fail
	failWrites int
	closed     bool
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Write(_ context.Context, object string, data []byte, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites > 0 {
		s.failWrites--
		return fmt.Errorf("injected write failure")
	}
	s.objects[object] = append([]byte(nil), data...)
	return nil
}

func (s *memStore) Compose(_ context.Context, dst string, sources []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(sources) > 32 {
		return fmt.Errorf("too many sources")
	}
	var out []byte
	for _, src := range sources {
		data, ok := s.objects[src]
		if !ok {
			return fmt.Errorf("source %s not found", src)
		}
		out = append(out, data...)
	}
	s.objects[dst] = out
	s.composes = append(s.composes, append([]string(nil), sources...))
	return nil
}

func (s *memStore) Size(_ context.Context, object string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[object]
	if !ok {
		return 0, fmt.Errorf("object %s not found", object)
	}
	return int64(len(data)), nil
}

func (s *memStore) Delete(_ context.Context, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[object]; !ok {
		return fmt.Errorf("object %s not found", object)
	}
	delete(s.objects, object)
	return nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *memStore) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *memStore) get(object string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[object]
	return data, ok
}
