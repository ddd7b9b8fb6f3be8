package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taskpad/taskpad/internal/model"
)

// Common errors for todo repository operations.
var (
	ErrTodoNotFound = errors.New("todo not found")
)

// CreateTodo inserts a new todo into the database.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (id, title, description, completed, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.OwnerID,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetTodoByID retrieves a todo by its ID.
// An empty ownerID matches any owner; otherwise the row must belong to that owner.
func (r *Repository) GetTodoByID(ctx context.Context, id, ownerID string) (*model.Todo, error) {
	query := `
		SELECT id, title, description, completed, owner_id, created_at, updated_at
		FROM todos
		WHERE id = $1 AND ($2 = '' OR owner_id = $2)
	`

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo by ID: %w", err)
	}

	return todo, nil
}

// ListTodos retrieves all todos, newest first, optionally restricted to one owner.
func (r *Repository) ListTodos(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	query := `
		SELECT id, title, description, completed, owner_id, created_at, updated_at
		FROM todos
		WHERE ($1 = '' OR owner_id = $1)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []*model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// UpdateTodo replaces a todo's mutable fields and returns the post-update row.
func (r *Repository) UpdateTodo(ctx context.Context, todo *model.Todo, ownerID string) (*model.Todo, error) {
	query := `
		UPDATE todos
		SET title = $2, description = $3, completed = $4, updated_at = NOW()
		WHERE id = $1 AND ($5 = '' OR owner_id = $5)
		RETURNING id, title, description, completed, owner_id, created_at, updated_at
	`

	updated, err := scanTodo(r.pool.QueryRow(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.Completed,
		ownerID,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

// UpdateAllTodos replaces the mutable fields of every todo.
// Returns the number of affected rows. Open variant only.
func (r *Repository) UpdateAllTodos(ctx context.Context, title, description string, completed bool) (int64, error) {
	query := `
		UPDATE todos
		SET title = $1, description = $2, completed = $3, updated_at = NOW()
	`

	result, err := r.pool.Exec(ctx, query, title, description, completed)
	if err != nil {
		return 0, fmt.Errorf("failed to update all todos: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteTodo removes a todo by ID.
func (r *Repository) DeleteTodo(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM todos
		WHERE id = $1 AND ($2 = '' OR owner_id = $2)
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// DeleteAllTodos removes every todo and returns the number removed.
// Open variant only.
func (r *Repository) DeleteAllTodos(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM todos`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all todos: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanTodo scans a single row into a Todo model.
func scanTodo(row pgx.Row) (*model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.OwnerID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	return &todo, err
}
