package claimsource

import (
	"context"
	"sync"
)

// MemorySource implements Source with an in-process map. Suitable for tests
// and single-node deployments.
type MemorySource struct {
	mu     sync.RWMutex
	values map[string]map[string]any // claim key -> user id -> value
}

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		values: make(map[string]map[string]any),
	}
}

// Get returns the stored value for (claimKey, userID) or ErrNotFound.
func (m *MemorySource) Get(_ context.Context, claimKey, userID string) (any, error) {
	if err := validateKey(claimKey, userID); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[claimKey][userID]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set stores the value for (claimKey, userID).
func (m *MemorySource) Set(_ context.Context, claimKey, userID string, value any) error {
	if err := validateKey(claimKey, userID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users, ok := m.values[claimKey]
	if !ok {
		users = make(map[string]any)
		m.values[claimKey] = users
	}
	users[userID] = value
	return nil
}

// Delete removes the value for (claimKey, userID).
func (m *MemorySource) Delete(_ context.Context, claimKey, userID string) error {
	if err := validateKey(claimKey, userID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values[claimKey], userID)
	return nil
}
