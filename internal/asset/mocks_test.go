package asset

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of the store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, filename, url string) (*Asset, error) {
	args := m.Called(ctx, filename, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Asset), args.Error(1) //nolint:errcheck // mock
}

func (m *MockStore) List(ctx context.Context) ([]Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Asset), args.Error(1) //nolint:errcheck // mock
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Asset), args.Error(1) //nolint:errcheck // mock
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockStorage is a mock implementation of storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	_, _ = io.Copy(io.Discard, reader)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) PublicURL(key string) string {
	return "https://media.s3.amazonaws.com/" + key
}

// memStore is an in-memory assets table ordered the way Postgres would return it.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Asset
	clock  func() time.Time
}

func newMemStore(clock func() time.Time) *memStore {
	return &memStore{rows: map[int64]Asset{}, clock: clock}
}

func (s *memStore) Create(_ context.Context, filename, url string) (*Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a := Asset{ID: s.nextID, Filename: filename, URL: url, CreatedAt: s.clock()}
	s.rows[a.ID] = a
	return &a, nil
}

func (s *memStore) List(_ context.Context) ([]Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Asset, 0, len(s.rows))
	for _, a := range s.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (*Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

// memObjects is an in-memory bucket.
type memObjects struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (o *memObjects) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[key] = b
	o.contentTypes[key] = contentType
	return nil
}

func (o *memObjects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.objects, key)
	return nil
}

func (o *memObjects) PublicURL(key string) string {
	return "https://media.s3.amazonaws.com/" + key
}

func (o *memObjects) get(key string) ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, ok := o.objects[key]
	return b, ok
}
