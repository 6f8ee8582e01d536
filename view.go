package hxtodo

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"
	"github.com/pthm/hxtodo/lib/api"
)

// Selectors of the page elements the view writes to.
const (
	SelectorPending   = ".pending-list"
	SelectorCompleted = ".completed-list"
	SelectorInput     = ".input"
	SelectorSubmit    = ".submit-btn"
)

// View renders todos onto a Surface.
type View struct {
	surface  Surface
	actions  *Actions
	livePath string
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithLivePath makes rendered pages connect to the websocket at path.
func WithLivePath(path string) ViewOption {
	return func(v *View) {
		v.livePath = path
	}
}

// NewView creates a view writing to surface. Buttons post through actions.
func NewView(surface Surface, actions *Actions, opts ...ViewOption) *View {
	v := &View{surface: surface, actions: actions}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// partition splits todos by status, keeping relative order. Records with
// any other status are dropped.
func partition(todos []api.Todo) (pending, completed []api.Todo) {
	for _, t := range todos {
		switch t.Status {
		case api.StatusPending:
			pending = append(pending, t)
		case api.StatusCompleted:
			completed = append(completed, t)
		}
	}
	return pending, completed
}

// RenderTodos replaces the contents of both containers. Nothing is
// written if either list fails to render.
func (v *View) RenderTodos(ctx context.Context, todos []api.Todo) error {
	pending, completed := partition(todos)

	pendingHTML, err := renderString(ctx, todoList(v.actions, ListPending, pending))
	if err != nil {
		return fmt.Errorf("render pending list: %w", err)
	}
	completedHTML, err := renderString(ctx, todoList(v.actions, ListCompleted, completed))
	if err != nil {
		return fmt.Errorf("render completed list: %w", err)
	}

	v.surface.SetInnerHTML(ctx, SelectorPending, pendingHTML)
	v.surface.SetInnerHTML(ctx, SelectorCompleted, completedHTML)
	return nil
}

// ClearInput resets the text input to an empty value.
func (v *View) ClearInput(ctx context.Context) error {
	html, err := renderString(ctx, inputField())
	if err != nil {
		return err
	}
	v.surface.ReplaceElement(ctx, SelectorInput, html)
	return nil
}

// Page returns the full page showing todos.
func (v *View) Page(todos []api.Todo) templ.Component {
	pending, completed := partition(todos)
	return page(v.actions, v.livePath, pending, completed)
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
