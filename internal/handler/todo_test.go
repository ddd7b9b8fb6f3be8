package handler_test

import (
	"net/http"
	"testing"

	"github.com/taskpad/taskpad/internal/model"
)

type todoEnvelope struct {
	Message string      `json:"message"`
	Todo    *model.Todo `json:"todo"`
}

type errorBody struct {
	Error string `json:"error"`
}

func TestTodoLifecycle_OpenVariant(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)

	// Create
	rec := env.do(t, http.MethodPost, "/todo", "", map[string]any{
		"title":       "Buy milk",
		"description": "2 liters",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	var created todoEnvelope
	decodeBody(t, rec, &created)
	if created.Message != "Todo created!" {
		t.Errorf("message = %q, want Todo created!", created.Message)
	}
	if created.Todo == nil || created.Todo.ID == "" {
		t.Fatalf("create should return the todo with an id, got %+v", created.Todo)
	}
	if created.Todo.Completed {
		t.Error("completed should default to false")
	}

	// Read back
	rec = env.do(t, http.MethodGet, "/todo/"+created.Todo.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d, body %s", rec.Code, rec.Body.String())
	}
	var got model.Todo
	decodeBody(t, rec, &got)
	if got.ID != created.Todo.ID || got.Title != "Buy milk" || got.Description != "2 liters" {
		t.Errorf("get returned %+v", got)
	}

	// Update
	rec = env.do(t, http.MethodPut, "/todo/"+created.Todo.ID, "", map[string]any{
		"title":     "Buy oat milk",
		"completed": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	var updated todoEnvelope
	decodeBody(t, rec, &updated)
	if updated.Message != "Todo updated!" {
		t.Errorf("message = %q, want Todo updated!", updated.Message)
	}
	if updated.Todo.Title != "Buy oat milk" || !updated.Todo.Completed {
		t.Errorf("update returned %+v", updated.Todo)
	}
	if updated.Todo.Description != "" {
		t.Errorf("update is a full replace; description = %q, want empty", updated.Todo.Description)
	}

	// Delete
	rec = env.do(t, http.MethodDelete, "/todo/"+created.Todo.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", rec.Code, rec.Body.String())
	}
	var msg struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &msg)
	if msg.Message != "Todo deleted!" {
		t.Errorf("message = %q, want Todo deleted!", msg.Message)
	}

	// Gone
	rec = env.do(t, http.MethodGet, "/todo/"+created.Todo.ID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", rec.Code)
	}
	var errResp errorBody
	decodeBody(t, rec, &errResp)
	if errResp.Error != "todo not found" {
		t.Errorf("error = %q, want todo not found", errResp.Error)
	}
}

func TestTodoList(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)

	// Empty list is a bare array, not null.
	rec := env.do(t, http.MethodGet, "/todo", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var todos []*model.Todo
	decodeBody(t, rec, &todos)
	if todos == nil {
		t.Error("empty list should decode to an empty array")
	}
	if len(todos) != 0 {
		t.Fatalf("expected empty list, got %d", len(todos))
	}

	for _, title := range []string{"first", "second"} {
		rec = env.do(t, http.MethodPost, "/todo", "", map[string]any{"title": title})
		if rec.Code != http.StatusOK {
			t.Fatalf("create %s: status %d", title, rec.Code)
		}
	}

	rec = env.do(t, http.MethodGet, "/todo", "", nil)
	decodeBody(t, rec, &todos)
	if len(todos) != 2 {
		t.Fatalf("list length = %d, want 2", len(todos))
	}
}

func TestTodoValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)

	cases := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantError  string
	}{
		{"create without title", http.MethodPost, "/todo", map[string]any{"description": "no title"}, http.StatusBadRequest, "title is required"},
		{"create with blank title", http.MethodPost, "/todo", map[string]any{"title": "   "}, http.StatusBadRequest, "title is required"},
		{"get with malformed id", http.MethodGet, "/todo/not-a-valid-id", nil, http.StatusBadRequest, "invalid todo id"},
		{"get unknown id", http.MethodGet, "/todo/01HV0000000000000000000000", nil, http.StatusNotFound, "todo not found"},
		{"update malformed id", http.MethodPut, "/todo/xyz", map[string]any{"title": "x"}, http.StatusBadRequest, "invalid todo id"},
		{"delete malformed id", http.MethodDelete, "/todo/xyz", nil, http.StatusBadRequest, "invalid todo id"},
		{"delete unknown id", http.MethodDelete, "/todo/01HV0000000000000000000000", nil, http.StatusNotFound, "todo not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, tc.method, tc.path, "", tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			var resp errorBody
			decodeBody(t, rec, &resp)
			if resp.Error != tc.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tc.wantError)
			}
		})
	}
}

func TestTodoBulk_OpenVariant(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)

	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodPost, "/todo", "", map[string]any{"title": "task"})
		if rec.Code != http.StatusOK {
			t.Fatalf("create: status %d", rec.Code)
		}
	}

	rec := env.do(t, http.MethodPut, "/todo", "", map[string]any{
		"title":     "all done",
		"completed": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk update: status %d, body %s", rec.Code, rec.Body.String())
	}
	var bulkUpdate struct {
		Message string `json:"message"`
		Updated int64  `json:"updated"`
	}
	decodeBody(t, rec, &bulkUpdate)
	if bulkUpdate.Message != "All todos updated!" || bulkUpdate.Updated != 3 {
		t.Errorf("bulk update response %+v", bulkUpdate)
	}

	rec = env.do(t, http.MethodDelete, "/todo", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk delete: status %d", rec.Code)
	}
	var bulkDelete struct {
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}
	decodeBody(t, rec, &bulkDelete)
	if bulkDelete.Message != "All todos deleted!" || bulkDelete.Deleted != 3 {
		t.Errorf("bulk delete response %+v", bulkDelete)
	}

	rec = env.do(t, http.MethodGet, "/todo", "", nil)
	var todos []*model.Todo
	decodeBody(t, rec, &todos)
	if len(todos) != 0 {
		t.Errorf("list after bulk delete = %d todos, want 0", len(todos))
	}
}

func TestTodoAuthVariant_RequiresToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, true)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodPost, "/todo"},
		{http.MethodGet, "/todo"},
		{http.MethodGet, "/todo/01HV0000000000000000000000"},
		{http.MethodPut, "/todo/01HV0000000000000000000000"},
		{http.MethodDelete, "/todo/01HV0000000000000000000000"},
	} {
		rec := env.do(t, tc.method, tc.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status %d, want 401", tc.method, tc.path, rec.Code)
		}
	}

	// Forged token fails too.
	rec := env.do(t, http.MethodGet, "/todo", "not.a.token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("forged token: status %d, want 401", rec.Code)
	}
}

func TestTodoAuthVariant_NoBulkRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, true)
	token := env.registerAndLogin(t, "alice", "alice@example.com", "pw-alice-12345")

	// The collection-wide write routes are not registered.
	rec := env.do(t, http.MethodPut, "/todo", token, map[string]any{"title": "x"})
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT /todo: status %d, want 405", rec.Code)
	}
	rec = env.do(t, http.MethodDelete, "/todo", token, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /todo: status %d, want 405", rec.Code)
	}
}

func TestTodoAuthVariant_OwnerIsolation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, true)
	aliceToken := env.registerAndLogin(t, "alice", "alice@example.com", "pw-alice-12345")
	bobToken := env.registerAndLogin(t, "bob", "bob@example.com", "pw-bob-123456")

	rec := env.do(t, http.MethodPost, "/todo", aliceToken, map[string]any{"title": "alice's task"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	var created todoEnvelope
	decodeBody(t, rec, &created)

	// Alice sees her todo.
	rec = env.do(t, http.MethodGet, "/todo/"+created.Todo.ID, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("owner get: status %d, want 200", rec.Code)
	}

	// Bob cannot see, update or delete it.
	rec = env.do(t, http.MethodGet, "/todo/"+created.Todo.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-account get: status %d, want 404", rec.Code)
	}
	rec = env.do(t, http.MethodPut, "/todo/"+created.Todo.ID, bobToken, map[string]any{"title": "hijack"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-account update: status %d, want 404", rec.Code)
	}
	rec = env.do(t, http.MethodDelete, "/todo/"+created.Todo.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-account delete: status %d, want 404", rec.Code)
	}

	// Bob's list does not include Alice's todo.
	rec = env.do(t, http.MethodGet, "/todo", bobToken, nil)
	var bobTodos []*model.Todo
	decodeBody(t, rec, &bobTodos)
	if len(bobTodos) != 0 {
		t.Errorf("bob's list has %d todos, want 0", len(bobTodos))
	}
}

func TestTodoInvalidJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)

	req, rec := rawRequest(t, env, http.MethodPost, "/todo", "{not json")
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorBody
	decodeBody(t, rec, &resp)
	if resp.Error != "invalid request body" {
		t.Errorf("error = %q, want invalid request body", resp.Error)
	}
}
