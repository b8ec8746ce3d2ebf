package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/halgrim/quest-guide/pkg/quest"
	"github.com/halgrim/quest-guide/pkg/session"
)

// Storage defines a unified interface for all storage operations: session
// persistence (Redis) and quest definition loading (filesystem).
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations (Redis-backed)
	SaveSession(ctx context.Context, s *session.Session) error
	// LoadSession returns (nil, nil) when the session does not exist.
	LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Quest operations (filesystem-backed). ListQuests maps quest names to
	// file names. GetQuest compiles a fresh tree per call, so each session
	// owns its own (latched conditions are per-tree state).
	ListQuests(ctx context.Context) (map[string]string, error)
	GetQuestDefinition(ctx context.Context, filename string) (*quest.Definition, error)
	GetQuest(ctx context.Context, filename string) (*quest.Quest, error)
}
