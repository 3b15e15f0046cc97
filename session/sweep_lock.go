package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("overdue sweep already running")

const sweepLockKey = "lr:lock:overdue_sweep"

// SweepLock 用 SETNX 保证同一时刻只有一次逾期扫描
type SweepLock struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewSweepLock(rdb redis.Cmdable, ttl time.Duration) *SweepLock {
	return &SweepLock{rdb: rdb, ttl: ttl}
}

// 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Run holds the lock while fn executes. ErrLocked when another holder exists.
func (l *SweepLock) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, sweepLockKey, token, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrLocked
	}
	defer func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), l.rdb, []string{sweepLockKey}, token).Err()
	}()
	return fn(ctx)
}
