package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeStepUpdated     EventType = "step.updated"
	EventTypeSessionComplete EventType = "session.complete"
	EventTypeSessionDeleted  EventType = "session.deleted"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// Channel returns the pub/sub channel name for a session.
func Channel(sessionID uuid.UUID) string {
	return "session-events:" + sessionID.String()
}

// Broadcaster publishes session events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishStepUpdated publishes the freshly resolved instruction for a session.
func (b *Broadcaster) PublishStepUpdated(ctx context.Context, sessionID uuid.UUID, instruction string) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeStepUpdated,
		SessionID: sessionID.String(),
		Data: map[string]any{
			"instruction": instruction,
		},
	})
}

// PublishSessionComplete publishes that the quest's progress counter has
// reached its completion value.
func (b *Broadcaster) PublishSessionComplete(ctx context.Context, sessionID uuid.UUID, questName string) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeSessionComplete,
		SessionID: sessionID.String(),
		Data: map[string]any{
			"quest_name": questName,
		},
	})
}

// PublishSessionDeleted publishes that a session was removed.
func (b *Broadcaster) PublishSessionDeleted(ctx context.Context, sessionID uuid.UUID) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeSessionDeleted,
		SessionID: sessionID.String(),
	})
}

func (b *Broadcaster) publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := Channel(sessionID)
	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event",
			"channel", channel,
			"type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Published event", "channel", channel, "type", event.Type)
	return nil
}
