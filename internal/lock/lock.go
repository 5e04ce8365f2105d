package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrLockHeld is returned when another run already holds the program lock.
var ErrLockHeld = errors.New("program lock already held")

// ProgramLock serializes auto-assignment runs per program. Concurrent runs
// over the same unfilled slots would race the duplicate and cooldown
// checks and could double-book a person, so a run must acquire the lock
// for its program key first. The TTL guards against a crashed holder.
type ProgramLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewProgramLock creates a lock manager over the given Redis client.
func NewProgramLock(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *ProgramLock {
	return &ProgramLock{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// Acquire takes the lock for a program key. It returns an opaque token to
// pass to Release, or ErrLockHeld when the lock is taken.
func (l *ProgramLock) Acquire(ctx context.Context, programKey string) (string, error) {
	if programKey == "" {
		return "", fmt.Errorf("program key is required")
	}

	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, l.prefix+programKey, token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire program lock: %w", err)
	}
	if !ok {
		return "", ErrLockHeld
	}

	l.logger.Debug("Program lock acquired",
		zap.String("program", programKey),
	)
	return token, nil
}

// Release frees the lock if the token still owns it. Releasing a lock that
// expired or changed owner is a no-op.
func (l *ProgramLock) Release(ctx context.Context, programKey, token string) error {
	key := l.prefix + programKey

	current, err := l.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil // expired
		}
		return fmt.Errorf("failed to read program lock: %w", err)
	}
	if current != token {
		l.logger.Warn("Program lock owned by another run, not releasing",
			zap.String("program", programKey),
		)
		return nil
	}

	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release program lock: %w", err)
	}

	l.logger.Debug("Program lock released",
		zap.String("program", programKey),
	)
	return nil
}
