package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/halgrim/quest-guide/pkg/quest"
	"github.com/halgrim/quest-guide/pkg/session"
)

// RedisStorage implements the Storage interface using Redis for sessions
// and the filesystem for quest definitions.
type RedisStorage struct {
	client     *redis.Client
	logger     *slog.Logger
	dataDir    string
	sessionTTL time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance.
func NewRedisStorage(redisURL string, dataDir string, sessionTTL time.Duration, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	if dataDir == "" {
		dataDir = "./data"
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	return &RedisStorage{
		client:     rdb,
		logger:     logger,
		dataDir:    dataDir,
		sessionTTL: sessionTTL,
	}
}

// Client exposes the underlying Redis client for pub/sub consumers.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Session operations (Redis-backed)

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func (r *RedisStorage) SaveSession(ctx context.Context, s *session.Session) error {
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal session", "uuid", s.ID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(s.ID), string(data), r.sessionTTL).Err(); err != nil {
		r.logger.Error("Failed to save session", "uuid", s.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	cmd := r.client.Get(ctx, sessionKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(cmd.Val()), &s); err != nil {
		r.logger.Error("Failed to unmarshal session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete session", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Quest operations (filesystem-backed)

func (r *RedisStorage) ListQuests(ctx context.Context) (map[string]string, error) {
	questsDir := filepath.Join(r.dataDir, "quests")
	quests := make(map[string]string)

	err := filepath.WalkDir(questsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		file, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read quest file", "path", path, "error", err)
			return nil
		}

		var def quest.Definition
		if err := json.Unmarshal(file, &def); err != nil {
			r.logger.Warn("Failed to unmarshal quest file", "path", path, "error", err)
			return nil
		}

		quests[def.Name] = filepath.Base(path)
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk quests directory", "error", err)
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	return quests, nil
}

func (r *RedisStorage) GetQuestDefinition(ctx context.Context, filename string) (*quest.Definition, error) {
	path := filepath.Join(r.dataDir, "quests", filename)

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("quest not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to read quest file: %w", err)
	}

	var def quest.Definition
	if err := json.Unmarshal(file, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quest: %w", err)
	}
	def.FileName = filename

	return &def, nil
}

func (r *RedisStorage) GetQuest(ctx context.Context, filename string) (*quest.Quest, error) {
	def, err := r.GetQuestDefinition(ctx, filename)
	if err != nil {
		return nil, err
	}
	q, err := quest.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("failed to compile quest %s: %w", filename, err)
	}
	return q, nil
}
