// Package lock implements the per-hall-per-date advisory lock that
// serialises inventory writes during the PENDING -> APPROVED
// promotion.  Locks live in Redis as short-TTL keys acquired with SET
// NX; the TTL bounds the hold time should a process die mid-promotion.
package lock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
)

// releaseScript deletes a lock key only when it still carries the
// owner's token, so an expired lock re-acquired by someone else is
// never released by the previous holder.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// HallDateLock acquires advisory locks keyed on (hall, date) pairs.
// A nil Redis client degrades to a no-op lock: the conflict re-check
// and the status compare-and-swap still guard correctness, the lock
// only narrows the race window.
type HallDateLock struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewHallDateLock builds a HallDateLock.  ttl <= 0 defaults to 10s.
func NewHallDateLock(client *redis.Client, ttl time.Duration) *HallDateLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &HallDateLock{client: client, ttl: ttl, prefix: "halllock"}
}

// Key returns the lock key for one hall/date pair.
func (l *HallDateLock) Key(hallID uint64, date time.Time) string {
	return fmt.Sprintf("%s:%d:%s", l.prefix, hallID, date.Format("2006-01-02"))
}

// AcquireAll takes the lock for every hall/date pair or none.  Halls
// are locked in ascending ID order so two promotions over overlapping
// hall sets never acquire in conflicting order.  When any single lock
// is already held, everything acquired so far is released and the
// call fails with a model.ErrInventoryConflict wrap, since a held
// lock means another promotion on that hall/date is in flight.
func (l *HallDateLock) AcquireAll(ctx context.Context, hallIDs []uint64, date time.Time) (func(), error) {
	if l.client == nil || len(hallIDs) == 0 {
		return func() {}, nil
	}

	ids := append([]uint64(nil), hallIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	token := uuid.NewString()
	acquired := make([]string, 0, len(ids))
	release := func() {
		for _, key := range acquired {
			// Release is best-effort; the TTL cleans up after us.
			_ = l.client.Eval(context.Background(), releaseScript, []string{key}, token).Err()
		}
	}

	for _, id := range ids {
		key := l.Key(id, date)
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			release()
			return nil, err
		}
		if !ok {
			release()
			return nil, fmt.Errorf("%w: hall %d is being processed for %s, retry shortly",
				model.ErrInventoryConflict, id, date.Format("2006-01-02"))
		}
		acquired = append(acquired, key)
	}
	return release, nil
}
