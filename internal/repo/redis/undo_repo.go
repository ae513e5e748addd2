package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	undosvc "github.com/TomShtern/Date-Program-sub005/internal/services/undo"
)

const undoPrefix = "undo:"

// UndoRepo keeps the single live undo record per actor as a redis hash.
// Writing overwrites whatever was there; the key TTL tracks the record's
// absolute expiry so stale records vanish on their own even though the
// service also checks expiry lazily.
type UndoRepo struct {
	client *goredis.Client
}

func NewUndoRepo(client *goredis.Client) *UndoRepo {
	return &UndoRepo{client: client}
}

func (r *UndoRepo) Put(ctx context.Context, record model.UndoRecord) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if record.Swipe.ActorUserID <= 0 || record.Swipe.TargetUserID <= 0 || record.ExpiresAt.IsZero() {
		return undosvc.ErrValidation
	}

	key := undoKey(record.Swipe.ActorUserID)
	fields := map[string]interface{}{
		"target_user_id": record.Swipe.TargetUserID,
		"direction":      string(record.Swipe.Direction),
		"created_at":     record.Swipe.CreatedAt.UTC().Unix(),
		"match_pair_id":  record.MatchPairID,
		"expires_at":     record.ExpiresAt.UTC().Unix(),
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, undoTTL(record.ExpiresAt))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store undo record: %w", err)
	}
	return nil
}

func (r *UndoRepo) Get(ctx context.Context, actorUserID int64) (model.UndoRecord, error) {
	if r.client == nil {
		return model.UndoRecord{}, fmt.Errorf("redis client is nil")
	}
	if actorUserID <= 0 {
		return model.UndoRecord{}, undosvc.ErrValidation
	}

	values, err := r.client.HGetAll(ctx, undoKey(actorUserID)).Result()
	if err != nil {
		return model.UndoRecord{}, fmt.Errorf("get undo record: %w", err)
	}
	if len(values) == 0 {
		return model.UndoRecord{}, undosvc.ErrRecordNotFound
	}

	return parseUndoRecord(actorUserID, values)
}

func (r *UndoRepo) Clear(ctx context.Context, actorUserID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if actorUserID <= 0 {
		return undosvc.ErrValidation
	}

	if err := r.client.Del(ctx, undoKey(actorUserID)).Err(); err != nil {
		return fmt.Errorf("clear undo record: %w", err)
	}
	return nil
}

func parseUndoRecord(actorUserID int64, values map[string]string) (model.UndoRecord, error) {
	targetID, err := strconv.ParseInt(values["target_user_id"], 10, 64)
	if err != nil || targetID <= 0 {
		return model.UndoRecord{}, fmt.Errorf("corrupt undo record target: %q", values["target_user_id"])
	}

	createdUnix, err := strconv.ParseInt(values["created_at"], 10, 64)
	if err != nil {
		return model.UndoRecord{}, fmt.Errorf("corrupt undo record created_at: %q", values["created_at"])
	}

	expiresUnix, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return model.UndoRecord{}, fmt.Errorf("corrupt undo record expires_at: %q", values["expires_at"])
	}

	return model.UndoRecord{
		Swipe: model.Swipe{
			ActorUserID:  actorUserID,
			TargetUserID: targetID,
			Direction:    enums.SwipeDirection(values["direction"]),
			CreatedAt:    time.Unix(createdUnix, 0).UTC(),
		},
		MatchPairID: values["match_pair_id"],
		ExpiresAt:   time.Unix(expiresUnix, 0).UTC(),
	}, nil
}

func undoTTL(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func undoKey(actorUserID int64) string {
	return undoPrefix + strconv.FormatInt(actorUserID, 10)
}
