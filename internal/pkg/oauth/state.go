package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	stateKeyPrefix = "blogmind:oauth:state:"
	stateTTL       = 10 * time.Minute
)

var (
	ErrEmptyState   = errors.New("empty state parameter")
	ErrInvalidState = errors.New("invalid or expired state")
)

// StateStore OAuth state 存储，state 一次性使用
type StateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStateStore(rdb *redis.Client) *StateStore {
	return &StateStore{rdb: rdb, ttl: stateTTL}
}

// GenerateState 生成 32 字节随机 state，并记录登录成功后的前端回跳地址
func (s *StateStore) GenerateState(ctx context.Context, returnTo string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random state: %w", err)
	}
	state := hex.EncodeToString(buf)

	if err := s.rdb.Set(ctx, stateKeyPrefix+state, returnTo, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return state, nil
}

// ValidateState 校验并消费 state，返回回跳地址
func (s *StateStore) ValidateState(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrEmptyState
	}

	key := stateKeyPrefix + state

	var returnTo string
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrInvalidState
		}
		if err != nil {
			return fmt.Errorf("failed to get state: %w", err)
		}
		returnTo = val

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return "", err
	}

	return returnTo, nil
}
