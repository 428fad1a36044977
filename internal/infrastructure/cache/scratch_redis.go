// Package cache provides the Redis-backed scratch store for in-progress
// transaction drafts.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"restock/internal/domain/imports"
	"restock/internal/domain/scratch"
)

const scratchKey = "scratch:import_draft"

// Payload markers. Snapshots above the threshold are zstd-compressed; a
// one-byte prefix records which form follows.
const (
	markerPlain byte = 0
	markerZstd  byte = 1
)

// RedisScratchStore keeps the single scratch slot in Redis with a TTL.
// Expiry is enforced by Redis itself via SET EX.
type RedisScratchStore struct {
	client  *redis.Client
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	// compressThreshold in bytes; snapshots below it are stored plain
	compressThreshold int
}

// NewRedisScratchStore creates the store. A non-positive ttl falls back
// to scratch.DefaultTTL.
func NewRedisScratchStore(client *redis.Client, ttl time.Duration) (*RedisScratchStore, error) {
	if ttl <= 0 {
		ttl = scratch.DefaultTTL
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &RedisScratchStore{
		client:            client,
		ttl:               ttl,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// NewRedisClient creates a Redis client for the scratch store.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Save stores the draft, replacing any previous snapshot in the slot and
// restarting the TTL.
func (s *RedisScratchStore) Save(ctx context.Context, doc *imports.ImportTransaction) error {
	snapshot := scratch.Snapshot{
		Transaction: doc,
		SavedAt:     time.Now().UTC(),
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal scratch snapshot: %w", err)
	}

	payload := make([]byte, 1, len(raw)+1)
	if len(raw) > s.compressThreshold {
		payload[0] = markerZstd
		payload = s.encoder.EncodeAll(raw, payload)
	} else {
		payload[0] = markerPlain
		payload = append(payload, raw...)
	}

	if err := s.client.Set(ctx, scratchKey, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save scratch snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot, or nil when the slot is empty or expired.
func (s *RedisScratchStore) Load(ctx context.Context) (*scratch.Snapshot, error) {
	payload, err := s.client.Get(ctx, scratchKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scratch snapshot: %w", err)
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("scratch snapshot payload is malformed")
	}

	raw := payload[1:]
	if payload[0] == markerZstd {
		raw, err = s.decoder.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress scratch snapshot: %w", err)
		}
	}

	var snapshot scratch.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal scratch snapshot: %w", err)
	}
	return &snapshot, nil
}

// Clear empties the slot.
func (s *RedisScratchStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, scratchKey).Err(); err != nil {
		return fmt.Errorf("clear scratch snapshot: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisScratchStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client and the zstd coders.
func (s *RedisScratchStore) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.client.Close()
}

var _ scratch.Store = (*RedisScratchStore)(nil)
