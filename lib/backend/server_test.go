package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pthm/hxtodo/lib/api"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerCreateAssignsIDs(t *testing.T) {
	srv := NewServer(NewMemoryStore(), quietLogger())

	for i, content := range []string{"a", "b"} {
		rec := do(t, srv, http.MethodPost, "/todos", `{"content":"`+content+`","status":"pending"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		var got api.Todo
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		want := api.Todo{ID: i + 1, Content: content, Status: api.StatusPending}
		if got != want {
			t.Errorf("created = %+v, want %+v", got, want)
		}
	}

	rec := do(t, srv, http.MethodGet, "/todos", "")
	var list []api.Todo
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Errorf("list = %+v, want ids [1 2]", list)
	}
}

func TestServerListEmptyIsArray(t *testing.T) {
	srv := NewServer(NewMemoryStore(), quietLogger())
	rec := do(t, srv, http.MethodGet, "/todos", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestServerPatchMerges(t *testing.T) {
	store := NewMemoryStore(api.NewTodo{Content: "write docs", Status: api.StatusPending})
	srv := NewServer(store, quietLogger())

	rec := do(t, srv, http.MethodPatch, "/todos/1", `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got api.Todo
	json.Unmarshal(rec.Body.Bytes(), &got)
	want := api.Todo{ID: 1, Content: "write docs", Status: api.StatusCompleted}
	if got != want {
		t.Errorf("patched = %+v, want %+v", got, want)
	}
}

func TestServerUnknownIDs(t *testing.T) {
	srv := NewServer(NewMemoryStore(), quietLogger())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"patch missing", http.MethodPatch, "/todos/9", `{"content":"x"}`},
		{"delete missing", http.MethodDelete, "/todos/9", ""},
		{"non-numeric id", http.MethodDelete, "/todos/abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
			if strings.TrimSpace(rec.Body.String()) != "{}" {
				t.Errorf("body = %q, want {}", rec.Body.String())
			}
		})
	}
}

func TestServerDelete(t *testing.T) {
	store := NewMemoryStore(
		api.NewTodo{Content: "a", Status: api.StatusPending},
		api.NewTodo{Content: "b", Status: api.StatusPending},
	)
	srv := NewServer(store, quietLogger())

	rec := do(t, srv, http.MethodDelete, "/todos/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	list, _ := store.List(context.Background())
	if len(list) != 1 || list[0].ID != 2 {
		t.Errorf("remaining = %+v, want only id 2", list)
	}
}

func TestServerBadBody(t *testing.T) {
	srv := NewServer(NewMemoryStore(), quietLogger())
	rec := do(t, srv, http.MethodPost, "/todos", `{"content":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMemoryStoreNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	first, _ := s.Create(ctx, api.NewTodo{Content: "a"})
	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	second, _ := s.Create(ctx, api.NewTodo{Content: "b"})
	if second.ID == first.ID {
		t.Errorf("id %d reused", second.ID)
	}
	if err := s.Delete(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	created, err := s.Create(ctx, api.NewTodo{Content: "ship it", Status: api.StatusPending})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}

	updated, err := s.Update(ctx, created.ID, api.StatusPatch(api.StatusCompleted))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Content != "ship it" || updated.Status != api.StatusCompleted {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := s.Update(ctx, created.ID+100, api.ContentPatch("x")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0] != updated {
		t.Errorf("list = %+v, want [%+v]", list, updated)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}
