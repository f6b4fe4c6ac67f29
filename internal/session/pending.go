// Package session tracks the one piece of conversational state the storefront
// needs: whether the next free-text message from a user should be interpreted
// as input to a pending flow instead of a command.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type Kind string

const (
	// KindCustomQuantity: the next numeric message is a quantity for the
	// stored product/variant.
	KindCustomQuantity Kind = "custom_quantity"
	// KindProductID: the next numeric message is a product id for the stored
	// admin action.
	KindProductID Kind = "product_id"
)

// PendingInput is the tagged awaiting-input state. A user has at most one:
// setting a new one replaces whatever was pending before.
type PendingInput struct {
	Kind        Kind   `json:"kind"`
	ProductID   int    `json:"product_id,omitempty"`
	VariantID   string `json:"variant_id,omitempty"`
	AdminAction string `json:"admin_action,omitempty"`
}

// Store holds per-user pending input. Get returns (nil, nil) when nothing is
// pending. There is no automatic expiry; Clear is the only way out.
type Store interface {
	Set(ctx context.Context, userID int64, input PendingInput) error
	Get(ctx context.Context, userID int64) (*PendingInput, error)
	Clear(ctx context.Context, userID int64) error
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(userID int64) string {
	return fmt.Sprintf("pending-input:%d", userID)
}

func (s *RedisStore) Set(ctx context.Context, userID int64, input PendingInput) error {
	data, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(userID), data, 0).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*PendingInput, error) {
	data, err := s.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var input PendingInput
	if err := json.Unmarshal([]byte(data), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}
