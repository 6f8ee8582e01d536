// Package api exposes the four todo operations of the REST backend.
//
// Every operation is a direct pass-through of one fetch request. Responses
// are decoded leniently into the record types: unknown fields are ignored,
// missing fields stay zero, and no shape validation takes place.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// DefaultBaseURL is the backend root used when none is configured.
const DefaultBaseURL = "http://localhost:3000"

// Status is the completion status of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Todo is a todo record as stored by the backend.
//
// Editing is a client-only flag for inline editing; it is never written to
// or read from the backend.
type Todo struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Status  Status `json:"status"`
	Editing bool   `json:"-"`
}

// NewTodo is the body of a create request: a record without id.
type NewTodo struct {
	Content string `json:"content"`
	Status  Status `json:"status"`
}

// Patch is a partial update. Nil fields are not sent.
type Patch struct {
	Content *string `json:"content,omitempty"`
	Status  *Status `json:"status,omitempty"`
}

// ContentPatch returns a patch that only changes the content.
func ContentPatch(content string) Patch {
	return Patch{Content: &content}
}

// StatusPatch returns a patch that only changes the status.
func StatusPatch(status Status) Patch {
	return Patch{Status: &status}
}

// Requester is implemented by *fetch.Client.
type Requester interface {
	Request(ctx context.Context, url, method string, body any) (json.RawMessage, error)
}

// Client performs todo operations against one backend.
type Client struct {
	fetch   Requester
	baseURL string
}

// New creates a Client for the backend at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(f Requester, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		fetch:   f,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) collection() string {
	return c.baseURL + "/todos"
}

func (c *Client) item(id int) string {
	return c.collection() + "/" + strconv.Itoa(id)
}

// CreateTodo creates a todo and returns the record echoed by the backend.
func (c *Client) CreateTodo(ctx context.Context, newTodo NewTodo) (Todo, error) {
	var todo Todo
	err := c.do(ctx, c.collection(), http.MethodPost, newTodo, &todo)
	return todo, err
}

// DeleteTodo deletes a todo. The backend's response body is returned as-is.
func (c *Client) DeleteTodo(ctx context.Context, id int) (json.RawMessage, error) {
	return c.fetch.Request(ctx, c.item(id), http.MethodDelete, nil)
}

// UpdateTodo applies patch to a todo and returns the record echoed by the
// backend. For an unknown id this is typically the zero Todo.
func (c *Client) UpdateTodo(ctx context.Context, id int, patch Patch) (Todo, error) {
	var todo Todo
	err := c.do(ctx, c.item(id), http.MethodPatch, patch, &todo)
	return todo, err
}

// GetTodos lists all todos in backend order.
func (c *Client) GetTodos(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	err := c.do(ctx, c.collection(), http.MethodGet, nil, &todos)
	return todos, err
}

func (c *Client) do(ctx context.Context, url, method string, body, out any) error {
	raw, err := c.fetch.Request(ctx, url, method, body)
	if err != nil {
		return err
	}
	// Shape mismatches leave out at its zero value.
	_ = json.Unmarshal(raw, out)
	return nil
}
