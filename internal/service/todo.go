// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskpad/taskpad/internal/cache"
	"github.com/taskpad/taskpad/internal/metrics"
	"github.com/taskpad/taskpad/internal/model"
	"github.com/taskpad/taskpad/internal/repository"
)

// Todo service errors.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidTodoID = errors.New("invalid todo id")
	ErrTodoNotFound  = errors.New("todo not found")
)

// TodoStore is the persistence contract the service needs.
// *repository.Repository satisfies it; tests substitute a fake.
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	GetTodoByID(ctx context.Context, id, ownerID string) (*model.Todo, error)
	ListTodos(ctx context.Context, ownerID string) ([]*model.Todo, error)
	UpdateTodo(ctx context.Context, todo *model.Todo, ownerID string) (*model.Todo, error)
	UpdateAllTodos(ctx context.Context, title, description string, completed bool) (int64, error)
	DeleteTodo(ctx context.Context, id, ownerID string) error
	DeleteAllTodos(ctx context.Context) (int64, error)
}

// TodoCache is the cache contract the service needs.
// *cache.Cache satisfies it; a nil cache disables caching.
type TodoCache interface {
	GetTodo(ctx context.Context, id string) (*model.Todo, error)
	SetTodo(ctx context.Context, todo *model.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	FlushTodos(ctx context.Context) error
}

// TodoService handles todo business logic.
type TodoService struct {
	store        TodoStore
	cache        TodoCache
	metrics      metrics.Recorder
	storeTimeout time.Duration
}

// NewTodoService creates a new TodoService.
// cache may be nil. storeTimeout bounds each store/cache call; zero
// disables the bound.
func NewTodoService(store TodoStore, todoCache TodoCache, recorder metrics.Recorder, storeTimeout time.Duration) *TodoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoService{
		store:        store,
		cache:        todoCache,
		metrics:      recorder,
		storeTimeout: storeTimeout,
	}
}

// opContext derives a bounded context for a single store or cache call.
func (s *TodoService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// TodoInput carries the mutable fields of a todo.
type TodoInput struct {
	Title       string
	Description string
	Completed   bool
}

// CreateTodo creates a new todo owned by ownerID (empty = unowned).
// Completed defaults to false when the caller does not set it.
func (s *TodoService) CreateTodo(ctx context.Context, input TodoInput, ownerID string) (*model.Todo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now().UTC()
	todo := &model.Todo{
		ID:          ulid.Make().String(),
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.store.CreateTodo(opCtx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.metrics.IncTodoCreated()
	return todo, nil
}

// ListTodos returns all todos visible to ownerID, newest first.
func (s *TodoService) ListTodos(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	todos, err := s.store.ListTodos(opCtx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

// GetTodo returns a single todo by ID, respecting the owner filter.
// A syntactically invalid ID yields ErrInvalidTodoID, never a lookup.
func (s *TodoService) GetTodo(ctx context.Context, id, ownerID string) (*model.Todo, error) {
	if err := validateTodoID(id); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cacheCtx, cancel := s.opContext(ctx)
		cached, err := s.cache.GetTodo(cacheCtx, id)
		cancel()
		if err == nil {
			s.metrics.IncTodoCacheHit()
			// The cache is keyed by ID only; the owner check still applies.
			if !cached.OwnedBy(ownerID) {
				return nil, ErrTodoNotFound
			}
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// Cache unavailable: fall through to the store.
			_ = err
		}
		s.metrics.IncTodoCacheMiss()
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	todo, err := s.store.GetTodoByID(opCtx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}

	if s.cache != nil {
		cacheCtx, cancel := s.opContext(ctx)
		_ = s.cache.SetTodo(cacheCtx, todo)
		cancel()
	}

	return todo, nil
}

// UpdateTodo replaces a todo's title, description and completed flag,
// returning the post-update record.
func (s *TodoService) UpdateTodo(ctx context.Context, id string, input TodoInput, ownerID string) (*model.Todo, error) {
	if err := validateTodoID(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	updated, err := s.store.UpdateTodo(opCtx, &model.Todo{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}

	s.invalidate(ctx, id)
	s.metrics.IncTodoUpdated()
	return updated, nil
}

// UpdateAllTodos replaces the mutable fields of every todo and returns
// the affected count. Only reachable in the open variant.
func (s *TodoService) UpdateAllTodos(ctx context.Context, input TodoInput) (int64, error) {
	if strings.TrimSpace(input.Title) == "" {
		return 0, ErrTitleRequired
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	count, err := s.store.UpdateAllTodos(opCtx, input.Title, input.Description, input.Completed)
	if err != nil {
		return 0, fmt.Errorf("update all todos: %w", err)
	}

	s.flush(ctx)
	s.metrics.IncTodoUpdated()
	return count, nil
}

// DeleteTodo removes a todo by ID, respecting the owner filter.
func (s *TodoService) DeleteTodo(ctx context.Context, id, ownerID string) error {
	if err := validateTodoID(id); err != nil {
		return err
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.store.DeleteTodo(opCtx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}

	s.invalidate(ctx, id)
	s.metrics.IncTodoDeleted()
	return nil
}

// DeleteAllTodos removes every todo and returns the removed count.
// Only reachable in the open variant.
func (s *TodoService) DeleteAllTodos(ctx context.Context) (int64, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	count, err := s.store.DeleteAllTodos(opCtx)
	if err != nil {
		return 0, fmt.Errorf("delete all todos: %w", err)
	}

	s.flush(ctx)
	s.metrics.IncTodoDeleted()
	return count, nil
}

// invalidate drops one cached todo. Best effort: the cache has a TTL.
func (s *TodoService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	cacheCtx, cancel := s.opContext(ctx)
	defer cancel()
	_ = s.cache.DeleteTodo(cacheCtx, id)
}

// flush drops the whole cached todo keyspace after a bulk write.
func (s *TodoService) flush(ctx context.Context) {
	if s.cache == nil {
		return
	}
	cacheCtx, cancel := s.opContext(ctx)
	defer cancel()
	_ = s.cache.FlushTodos(cacheCtx)
}

// validateTodoID rejects syntactically malformed identifiers so they
// surface as a client error rather than a not-found.
func validateTodoID(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return ErrInvalidTodoID
	}
	return nil
}
