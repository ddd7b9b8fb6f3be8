package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskpad/taskpad/internal/model"
)

// Cache key prefix and TTL.
const (
	todoKeyPrefix = "todo:"

	// DefaultTodoTTL is the TTL for cached todo data.
	DefaultTodoTTL = 1 * time.Hour
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// todoKey builds the Redis key for a todo ID.
func todoKey(id string) string {
	return todoKeyPrefix + id
}

// GetTodo retrieves a todo from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetTodo(ctx context.Context, id string) (*model.Todo, error) {
	data, err := c.client.Get(ctx, todoKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var todo model.Todo
	if err := json.Unmarshal(data, &todo); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		c.client.Del(ctx, todoKey(id))
		return nil, ErrCacheMiss
	}

	return &todo, nil
}

// SetTodo stores a todo in cache.
func (c *Cache) SetTodo(ctx context.Context, todo *model.Todo) error {
	data, err := json.Marshal(todo)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}

	if err := c.client.SetEx(ctx, todoKey(todo.ID), data, DefaultTodoTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache todo: %w", err)
	}

	return nil
}

// DeleteTodo removes a todo from cache.
func (c *Cache) DeleteTodo(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, todoKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete todo from cache: %w", err)
	}

	return nil
}

// FlushTodos removes every cached todo.
// Used after bulk update/delete operations invalidated the whole keyspace.
func (c *Cache) FlushTodos(ctx context.Context) error {
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, todoKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan todo keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete todo keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return nil
}
