package hxtodoecho

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pthm/hxtodo"
	"github.com/pthm/hxtodo/lib/api"
	"github.com/pthm/hxtodo/lib/encoding"
)

type stubAPI struct {
	todos []api.Todo
}

func (s *stubAPI) CreateTodo(_ context.Context, n api.NewTodo) (api.Todo, error) {
	t := api.Todo{ID: len(s.todos) + 1, Content: n.Content, Status: n.Status}
	s.todos = append(s.todos, t)
	return t, nil
}

func (s *stubAPI) DeleteTodo(context.Context, int) (json.RawMessage, error) {
	return json.RawMessage("{}"), nil
}

func (s *stubAPI) UpdateTodo(context.Context, int, api.Patch) (api.Todo, error) {
	return api.Todo{}, nil
}

func (s *stubAPI) GetTodos(context.Context) ([]api.Todo, error) {
	return s.todos, nil
}

func newTestEcho(t *testing.T, opts ...Option) (*echo.Echo, *hxtodo.Actions) {
	t.Helper()
	enc, err := encoding.NewEncoder([]byte("echo-test-key"), encoding.Signed)
	if err != nil {
		t.Fatal(err)
	}
	actions := hxtodo.NewActions("", enc)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := hxtodo.NewController(
		&stubAPI{todos: []api.Todo{{ID: 1, Content: "seeded", Status: api.StatusPending}}},
		hxtodo.NewView(hxtodo.NewDocument(nil), actions),
		actions,
		logger,
	)
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	Mount(e, c, opts...)
	return e, actions
}

func TestMountServesPage(t *testing.T) {
	e, _ := newTestEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<span>seeded</span>") {
		t.Error("page should list the seeded record")
	}
}

func TestMountWithPagePath(t *testing.T) {
	e, _ := newTestEcho(t, WithPagePath("/app"))

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMountServesActions(t *testing.T) {
	e, actions := newTestEcho(t)

	attrs, err := actions.Attrs(hxtodo.Payload{Kind: hxtodo.ActionCreate}, ".input")
	if err != nil {
		t.Fatal(err)
	}
	var vals map[string]string
	json.Unmarshal([]byte(attrs["hx-vals"].(string)), &vals)

	form := url.Values{"p": {vals["p"]}, "content": {"from echo"}}
	req := httptest.NewRequest(http.MethodPost, attrs["hx-post"].(string), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "<span>from echo</span>") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCSRFProtection(t *testing.T) {
	e, _ := newTestEcho(t)

	req := httptest.NewRequest(http.MethodPost, "/_c/todos/create", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for POST without HX-Request, got %d", rec.Code)
	}
}

func TestMountWithLive(t *testing.T) {
	live := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSwitchingProtocols)
	})
	e, _ := newTestEcho(t, WithLive("/live", live))

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusSwitchingProtocols {
		t.Errorf("status = %d, want the live handler to run", rec.Code)
	}
}

func TestWithoutLive(t *testing.T) {
	e, _ := newTestEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a live handler", rec.Code)
	}
}
