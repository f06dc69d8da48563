package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok || strings.HasPrefix(key, strings.TrimSuffix(pattern, "*")) {
			delete(m.items, key)
		}
	}
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

type stubStudents map[string]*models.Student

func (s stubStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return student, nil
}

type stubBatches map[string]*models.BatchDetail

func (s stubBatches) FindByID(ctx context.Context, id string) (*models.BatchDetail, error) {
	batch, ok := s[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return batch, nil
}

type stubEnrollments map[string]*models.EnrollmentDetail

func (s stubEnrollments) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	enrollment, ok := s[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return enrollment, nil
}

func strPtr(v string) *string {
	return &v
}

func appErrorOf(err error) *appErrors.Error {
	return appErrors.FromError(err)
}

const (
	testStudentID    = "6f1d1c7e-3f5a-4c41-9a55-0a0e0c7d1a01"
	testOtherStudent = "6f1d1c7e-3f5a-4c41-9a55-0a0e0c7d1a02"
	testBatchID      = "1b8e2f4a-7c1d-4e2b-8f3a-5d6c7b8a9e01"
	testOtherBatchID = "1b8e2f4a-7c1d-4e2b-8f3a-5d6c7b8a9e02"
	testEnrollmentID = "9c2d3e4f-5a6b-4c7d-8e9f-0a1b2c3d4e01"
	testEnrollment2  = "9c2d3e4f-5a6b-4c7d-8e9f-0a1b2c3d4e02"
	testBranchID     = "2a3b4c5d-6e7f-4a8b-9c0d-1e2f3a4b5c01"
)
