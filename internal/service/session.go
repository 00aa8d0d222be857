package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// shownTTL is how long a guest session's already-shown set lives.
const shownTTL = 2 * time.Hour

// GuestSessionService tracks which whiskeys a guest session has already been
// shown, so repeated quick-pick requests rotate through the list.
type GuestSessionService struct {
	redis *redis.Client
}

// NewGuestSessionService creates a new GuestSessionService. A nil client
// disables session tracking: ShownItems returns nothing and RememberShown is
// a no-op.
func NewGuestSessionService(client *redis.Client) *GuestSessionService {
	return &GuestSessionService{redis: client}
}

// RememberShown records item ids as shown for the session and refreshes the
// set's TTL.
func (s *GuestSessionService) RememberShown(ctx context.Context, sessionID string, itemIDs []uint) error {
	if s.redis == nil || sessionID == "" || len(itemIDs) == 0 {
		return nil
	}
	key := shownKey(sessionID)
	members := make([]interface{}, len(itemIDs))
	for i, id := range itemIDs {
		members[i] = strconv.FormatUint(uint64(id), 10)
	}
	if err := s.redis.SAdd(ctx, key, members...).Err(); err != nil {
		return fmt.Errorf("failed to record shown items: %w", err)
	}
	if err := s.redis.Expire(ctx, key, shownTTL).Err(); err != nil {
		return fmt.Errorf("failed to refresh session TTL: %w", err)
	}
	return nil
}

// ShownItems returns the item ids already shown to the session. A Redis
// error degrades to an empty set: recommendations still work, they just may
// repeat.
func (s *GuestSessionService) ShownItems(ctx context.Context, sessionID string) []uint {
	if s.redis == nil || sessionID == "" {
		return nil
	}
	members, err := s.redis.SMembers(ctx, shownKey(sessionID)).Result()
	if err != nil {
		return nil
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseUint(m, 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

func shownKey(sessionID string) string {
	return fmt.Sprintf("sommelier:session:%s:shown", sessionID)
}
