package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/halgrim/quest-guide/pkg/quest"
	"github.com/halgrim/quest-guide/pkg/session"
)

// MockStorage is an in-memory Storage implementation for testing.
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*session.Session
	quests    map[string]*quest.Definition
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*session.Session),
		quests:   make(map[string]*quest.Definition),
	}
}

// SetPingError configures the mock to fail on ping with the given error.
// Pass nil to restore success.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// AddQuest registers a quest definition under a filename
func (m *MockStorage) AddQuest(filename string, def *quest.Definition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	def.FileName = filename
	m.quests[filename] = def
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) ListQuests(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	quests := make(map[string]string, len(m.quests))
	for filename, def := range m.quests {
		quests[def.Name] = filename
	}
	return quests, nil
}

func (m *MockStorage) GetQuestDefinition(ctx context.Context, filename string) (*quest.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.quests[filename]
	if !ok {
		return nil, fmt.Errorf("quest not found: %s", filename)
	}
	return def, nil
}

func (m *MockStorage) GetQuest(ctx context.Context, filename string) (*quest.Quest, error) {
	def, err := m.GetQuestDefinition(ctx, filename)
	if err != nil {
		return nil, err
	}
	q, err := quest.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("failed to compile quest %s: %w", filename, err)
	}
	return q, nil
}
