package store

import (
	"context"
	"sync"

	"logscrub/internal/models"
)

// Key identifies a stored record.
type Key struct {
	TenantID string
	LogID    string
}

// Memory is an in-memory Store with the same overwrite semantics as the
// DynamoDB implementation. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records map[Key]models.ProcessedRecord
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[Key]models.ProcessedRecord)}
}

// Put stores rec, replacing any existing record under the same key.
func (m *Memory) Put(_ context.Context, rec models.ProcessedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[Key{TenantID: rec.TenantID, LogID: rec.LogID}] = rec
	return nil
}

// Get returns the record under (tenantID, logID), if any.
func (m *Memory) Get(tenantID, logID string) (models.ProcessedRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[Key{TenantID: tenantID, LogID: logID}]
	return rec, ok
}

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
