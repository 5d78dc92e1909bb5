// internal/remote/mock.go
// In-process mock remote store for development mode and tests.

package remote

import (
	"context"
	"encoding/json"
	"sync"
)

// MockStore keeps the aggregate document in memory and fans change
// notifications out to subscribers, mimicking the real store's push
// behavior (including the echo of one's own writes).
type MockStore struct {
	mu     sync.Mutex
	doc    map[string]interface{}
	exists bool
	subs   map[int]func([]byte)
	nextID int

	failWrites bool
	failReads  bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		doc:  make(map[string]interface{}),
		subs: make(map[int]func([]byte)),
	}
}

func (s *MockStore) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failReads {
		return nil, errMockUnavailable
	}
	if !s.exists {
		return nil, ErrNotFound
	}
	return json.Marshal(s.doc)
}

func (s *MockStore) Write(_ context.Context, fields map[string]interface{}) error {
	s.mu.Lock()
	if s.failWrites {
		s.mu.Unlock()
		return errMockUnavailable
	}

	for k, v := range fields {
		s.doc[k] = v
	}
	s.exists = true

	payload, _ := json.Marshal(s.doc)
	subs := make([]func([]byte), 0, len(s.subs))
	for _, cb := range s.subs {
		subs = append(subs, cb)
	}
	s.mu.Unlock()

	// Notify outside the lock; the real store echoes self-writes too.
	for _, cb := range subs {
		cb(payload)
	}
	return nil
}

func (s *MockStore) Subscribe(_ context.Context, onChange func([]byte), _ func(error)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = onChange

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}, nil
}

// PushExternal simulates a write from another device: it merges fields
// and notifies subscribers without going through Write's caller.
func (s *MockStore) PushExternal(fields map[string]interface{}) {
	_ = s.Write(context.Background(), fields)
}

// FailWrites toggles simulated remote write failures.
func (s *MockStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// FailReads toggles simulated remote read failures.
func (s *MockStore) FailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = fail
}

var errMockUnavailable = &mockError{"mock remote store unavailable"}

type mockError struct{ msg string }

func (e *mockError) Error() string { return e.msg }
