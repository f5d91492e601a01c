package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotStore caches directory snapshots in Redis so multiple service
// instances share one view per tenant. The whole snapshot lives under a
// single key, so the three collections stay atomic in Redis too.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotStore creates a snapshot store. If Redis is unreachable the
// store degrades to a no-op and every Get is a miss.
func NewSnapshotStore(host string, port int, password string, db int, ttl time.Duration) *SnapshotStore {
	if host == "" {
		return &SnapshotStore{client: nil, ttl: ttl}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return &SnapshotStore{client: nil, ttl: ttl}
	}

	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) key(tenantID string) string {
	return fmt.Sprintf("directory:%s", tenantID)
}

// Get retrieves a cached snapshot for the tenant. Returns nil on miss or
// when Redis is unavailable.
func (s *SnapshotStore) Get(ctx context.Context, tenantID string) (*Snapshot, error) {
	if s.client == nil {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.key(tenantID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Set caches a snapshot for the tenant with the configured TTL
func (s *SnapshotStore) Set(ctx context.Context, tenantID string, snap Snapshot) error {
	if s.client == nil {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(tenantID), data, s.ttl).Err()
}

// Invalidate removes the tenant's cached snapshot
func (s *SnapshotStore) Invalidate(ctx context.Context, tenantID string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(tenantID)).Err()
}
