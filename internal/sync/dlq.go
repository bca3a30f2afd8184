package sync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqKeyPrefix = "sync:dlq:"

// DeadLetter is one push that exhausted its retries.
type DeadLetter struct {
	EntityType string    `json:"entity_type"`
	EntityID   uint      `json:"entity_id"`
	Reason     string    `json:"reason"`
	FailedAt   time.Time `json:"failed_at"`
}

// DeadLetterQueue parks exhausted push failures in Redis lists, one list per
// entity type, for operator inspection and replay.
type DeadLetterQueue struct {
	rdb *redis.Client
}

func NewDeadLetterQueue(rdb *redis.Client) *DeadLetterQueue {
	return &DeadLetterQueue{rdb: rdb}
}

// Push parks one failure. Without a Redis client the letter is logged and
// dropped instead of stored.
func (q *DeadLetterQueue) Push(ctx context.Context, entityType string, entityID uint, reason string) error {
	if q.rdb == nil {
		log.Warn().Str("entity", entityType).Uint("id", entityID).Str("reason", reason).
			Msg("dead letter dropped, redis not configured")
		return nil
	}
	raw, err := json.Marshal(DeadLetter{
		EntityType: entityType,
		EntityID:   entityID,
		Reason:     reason,
		FailedAt:   time.Now(),
	})
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, dlqKeyPrefix+entityType, raw).Err()
}

func (q *DeadLetterQueue) Items(ctx context.Context, entityType string, limit int64) ([]DeadLetter, error) {
	if q.rdb == nil {
		return nil, nil
	}
	raw, err := q.rdb.LRange(ctx, dlqKeyPrefix+entityType, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	items := make([]DeadLetter, 0, len(raw))
	for _, r := range raw {
		var d DeadLetter
		if json.Unmarshal([]byte(r), &d) == nil {
			items = append(items, d)
		}
	}
	return items, nil
}

func (q *DeadLetterQueue) Depth(ctx context.Context, entityType string) (int64, error) {
	if q.rdb == nil {
		return 0, nil
	}
	return q.rdb.LLen(ctx, dlqKeyPrefix+entityType).Result()
}
