package adapters

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
	"gold_fairvalue/internal/feature/fairvalue/usecase"
)

// SnapshotRedis は最新スナップショットのJSONをRedisの単一キーに保存します。
// 常に上書きするため、キーには最新の1件しか残りません。
type SnapshotRedis struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

var _ usecase.SnapshotPublisher = (*SnapshotRedis)(nil)

// NewSnapshotRedis は新しいSnapshotRedisを生成します。
// keyが空の場合は "gold_fairvalue:latest" を使います。ttlが0以下の場合は期限なしです。
func NewSnapshotRedis(rdb *redis.Client, key string, ttl time.Duration) *SnapshotRedis {
	if key == "" {
		key = "gold_fairvalue:latest"
	}
	if ttl < 0 {
		ttl = 0
	}
	return &SnapshotRedis{rdb: rdb, key: key, ttl: ttl}
}

// Publish はスナップショットをキーにSETします。
func (r *SnapshotRedis) Publish(ctx context.Context, snapshot entity.Snapshot) error {
	b, err := encodeSnapshot(snapshot, "")
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, bytes.TrimSpace(b), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
