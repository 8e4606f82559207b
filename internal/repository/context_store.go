package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Draft is the partially filled scheduling request a chat is in the middle
// of.  It accumulates slots across messages until date and time are both
// known.  Intent distinguishes schedule from reschedule.
type Draft struct {
	Intent   string `json:"intent"`
	Date     string `json:"date,omitempty"`     // YYYY-MM-DD
	Time     string `json:"time,omitempty"`     // HH:MM
	Duration int    `json:"duration,omitempty"` // minutes
	Title    string `json:"title,omitempty"`
}

// ContextStore keeps conversation drafts in Redis with a TTL so abandoned
// conversations expire on their own.  A nil Redis client degrades to a
// stateless assistant: Get always misses and Set/Clear are no-ops, mirroring
// how the cache and rate-limit middleware behave without Redis.
type ContextStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewContextStore(rdb *redis.Client, ttl time.Duration) *ContextStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ContextStore{rdb: rdb, ttl: ttl}
}

func draftKey(chatID int64) string { return fmt.Sprintf("ctx:%d", chatID) }

// Get returns the chat's draft, or nil when there is none.
func (s *ContextStore) Get(ctx context.Context, chatID int64) (*Draft, error) {
	if s.rdb == nil {
		return nil, nil
	}
	bs, err := s.rdb.Get(ctx, draftKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(bs, &d); err != nil {
		// A corrupt draft is dropped rather than wedging the chat.
		_ = s.rdb.Del(ctx, draftKey(chatID)).Err()
		return nil, nil
	}
	return &d, nil
}

// Set stores the chat's draft and refreshes its TTL.
func (s *ContextStore) Set(ctx context.Context, chatID int64, d *Draft) error {
	if s.rdb == nil || d == nil {
		return nil
	}
	bs, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, draftKey(chatID), bs, s.ttl).Err()
}

// Clear removes the chat's draft.
func (s *ContextStore) Clear(ctx context.Context, chatID int64) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, draftKey(chatID)).Err()
}
