package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskpad/taskpad/internal/cache"
	"github.com/taskpad/taskpad/internal/model"
	"github.com/taskpad/taskpad/internal/repository"
)

// FakeTodoStore is an in-memory TodoStore for unit tests.
// It mirrors the repository's owner-filter semantics: an empty ownerID
// matches everything, a non-empty one only rows with that exact owner.
type FakeTodoStore struct {
	mu    sync.Mutex
	todos map[string]*model.Todo

	// ForcedErr, when set, is returned by every method.
	ForcedErr error
}

// NewFakeTodoStore creates an empty FakeTodoStore.
func NewFakeTodoStore() *FakeTodoStore {
	return &FakeTodoStore{todos: make(map[string]*model.Todo)}
}

func cloneTodo(t *model.Todo) *model.Todo {
	c := *t
	return &c
}

// CreateTodo stores a copy of the todo.
func (f *FakeTodoStore) CreateTodo(ctx context.Context, todo *model.Todo) error {
	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos[todo.ID] = cloneTodo(todo)
	return nil
}

// GetTodoByID returns a copy of the stored todo, honoring the owner filter.
func (f *FakeTodoStore) GetTodoByID(ctx context.Context, id, ownerID string) (*model.Todo, error) {
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	todo, ok := f.todos[id]
	if !ok || !todo.OwnedBy(ownerID) {
		return nil, repository.ErrTodoNotFound
	}
	return cloneTodo(todo), nil
}

// ListTodos returns copies of matching todos, newest first.
func (f *FakeTodoStore) ListTodos(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var todos []*model.Todo
	for _, todo := range f.todos {
		if todo.OwnedBy(ownerID) {
			todos = append(todos, cloneTodo(todo))
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
	return todos, nil
}

// UpdateTodo replaces the mutable fields and returns the updated copy.
func (f *FakeTodoStore) UpdateTodo(ctx context.Context, todo *model.Todo, ownerID string) (*model.Todo, error) {
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.todos[todo.ID]
	if !ok || !existing.OwnedBy(ownerID) {
		return nil, repository.ErrTodoNotFound
	}
	existing.Title = todo.Title
	existing.Description = todo.Description
	existing.Completed = todo.Completed
	existing.UpdatedAt = time.Now().UTC()
	return cloneTodo(existing), nil
}

// UpdateAllTodos replaces the mutable fields of every todo.
func (f *FakeTodoStore) UpdateAllTodos(ctx context.Context, title, description string, completed bool) (int64, error) {
	if f.ForcedErr != nil {
		return 0, f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for _, todo := range f.todos {
		todo.Title = title
		todo.Description = description
		todo.Completed = completed
		todo.UpdatedAt = now
	}
	return int64(len(f.todos)), nil
}

// DeleteTodo removes a todo, honoring the owner filter.
func (f *FakeTodoStore) DeleteTodo(ctx context.Context, id, ownerID string) error {
	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	todo, ok := f.todos[id]
	if !ok || !todo.OwnedBy(ownerID) {
		return repository.ErrTodoNotFound
	}
	delete(f.todos, id)
	return nil
}

// DeleteAllTodos removes everything.
func (f *FakeTodoStore) DeleteAllTodos(ctx context.Context) (int64, error) {
	if f.ForcedErr != nil {
		return 0, f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	count := int64(len(f.todos))
	f.todos = make(map[string]*model.Todo)
	return count, nil
}

// Len reports how many todos the store holds.
func (f *FakeTodoStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.todos)
}

// FakeAccountStore is an in-memory AccountStore for unit tests.
type FakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*model.Account // keyed by email

	// ForcedErr, when set, is returned by every method.
	ForcedErr error
}

// NewFakeAccountStore creates an empty FakeAccountStore.
func NewFakeAccountStore() *FakeAccountStore {
	return &FakeAccountStore{accounts: make(map[string]*model.Account)}
}

func cloneAccount(a *model.Account) *model.Account {
	c := *a
	return &c
}

// CreateAccount stores a copy of the account, enforcing email uniqueness.
func (f *FakeAccountStore) CreateAccount(ctx context.Context, account *model.Account) error {
	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[account.Email]; exists {
		return repository.ErrEmailExists
	}
	f.accounts[account.Email] = cloneAccount(account)
	return nil
}

// GetAccountByEmail returns a copy of the stored account.
func (f *FakeAccountStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

// FakeTodoCache is an in-memory TodoCache for unit tests.
type FakeTodoCache struct {
	mu    sync.Mutex
	todos map[string]*model.Todo
}

// NewFakeTodoCache creates an empty FakeTodoCache.
func NewFakeTodoCache() *FakeTodoCache {
	return &FakeTodoCache{todos: make(map[string]*model.Todo)}
}

// GetTodo returns a cached copy or cache.ErrCacheMiss.
func (f *FakeTodoCache) GetTodo(ctx context.Context, id string) (*model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	todo, ok := f.todos[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return cloneTodo(todo), nil
}

// SetTodo caches a copy of the todo.
func (f *FakeTodoCache) SetTodo(ctx context.Context, todo *model.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos[todo.ID] = cloneTodo(todo)
	return nil
}

// DeleteTodo drops one entry.
func (f *FakeTodoCache) DeleteTodo(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.todos, id)
	return nil
}

// FlushTodos drops everything.
func (f *FakeTodoCache) FlushTodos(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = make(map[string]*model.Todo)
	return nil
}

// Len reports how many todos are cached.
func (f *FakeTodoCache) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.todos)
}
