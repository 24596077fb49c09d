// Package session persists wizard sessions in Redis. A session lives for the
// configured TTL from its last write and disappears afterwards; there is no
// durable booking record here.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/alpenride/booking-api/internal/booking"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session: not found")

// Record is the stored session envelope.
type Record struct {
	ID        string        `json:"id"`
	State     booking.State `json:"state"`
	StockSeq  uint64        `json:"stockSeq"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Store reads and writes session records.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore wires a store over the shared Redis client.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(id string) string {
	return "session:" + id
}

// Create mints a fresh session with the initial wizard state.
func (s *Store) Create(ctx context.Context) (*Record, error) {
	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		State:     booking.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.write(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get loads a session by id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: get %s: %w", id, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return &rec, nil
}

// Save writes the record back and refreshes the TTL.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = time.Now().UTC()
	return s.write(ctx, rec)
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("session: delete %s: %w", id, err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", rec.ID, err)
	}
	if err := s.client.Set(ctx, key(rec.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: set %s: %w", rec.ID, err)
	}
	return nil
}
