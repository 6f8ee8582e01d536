package hxtodo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pthm/hxtodo/lib/api"
)

// TodoAPI is the backend the controller talks to. *api.Client satisfies it.
type TodoAPI interface {
	CreateTodo(ctx context.Context, newTodo api.NewTodo) (api.Todo, error)
	DeleteTodo(ctx context.Context, id int) (json.RawMessage, error)
	UpdateTodo(ctx context.Context, id int, patch api.Patch) (api.Todo, error)
	GetTodos(ctx context.Context) ([]api.Todo, error)
}

// actionHandler handles one kind of action. Visible changes go through the
// State; the Result only carries flashes, events and headers.
type actionHandler func(ctx context.Context, p Payload, r *http.Request) Result

// failureMessages are shown to the user when the backend call of an
// action fails.
var failureMessages = map[ActionKind]string{
	ActionCreate:       "Could not add the task.",
	ActionSaveEdit:     "Could not save the task.",
	ActionDelete:       "Could not delete the task.",
	ActionToggleStatus: "Could not move the task.",
}

// Controller owns the State, keeps the View subscribed to it and turns
// page actions into backend calls and state changes.
type Controller struct {
	todos    TodoAPI
	view     *View
	actions  *Actions
	state    *State
	logger   *slog.Logger
	handlers map[ActionKind]actionHandler

	// OnError writes the response for requests that never reach a handler:
	// unknown actions, bad payloads and requests without HX-Request.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// NewController creates a controller. Call Bootstrap before serving.
func NewController(todos TodoAPI, view *View, actions *Actions, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		todos:   todos,
		view:    view,
		actions: actions,
		state:   NewState(),
		logger:  logger,
	}
	c.OnError = c.defaultOnError
	return c
}

// State returns the controller's state.
func (c *Controller) State() *State {
	return c.state
}

// Bootstrap subscribes the view to the state, installs the action
// handlers and loads the list. A failed load leaves the list empty and is
// returned; the controller is usable either way.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.state.Subscribe(c.render)
	c.handlers = map[ActionKind]actionHandler{
		ActionCreate:       c.create,
		ActionStartEdit:    c.startEdit,
		ActionSaveEdit:     c.saveEdit,
		ActionDelete:       c.delete,
		ActionToggleStatus: c.toggleStatus,
	}
	return c.Init(ctx)
}

// Init fetches every record and shows them newest first.
func (c *Controller) Init(ctx context.Context) error {
	todos, err := c.todos.GetTodos(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load todos", "err", err)
		return fmt.Errorf("load todos: %w", err)
	}
	c.state.Set(ctx, reversed(todos))
	return nil
}

func (c *Controller) render(ctx context.Context, todos []api.Todo) {
	if err := c.view.RenderTodos(ctx, todos); err != nil {
		c.logger.ErrorContext(ctx, "failed to render todos", "err", err)
	}
}

func (c *Controller) create(ctx context.Context, p Payload, r *http.Request) Result {
	todo, err := c.todos.CreateTodo(ctx, api.NewTodo{
		Content: r.FormValue("content"),
		Status:  api.StatusPending,
	})
	if err != nil {
		return c.fail(ctx, p, err)
	}
	c.state.Update(ctx, func(cur []api.Todo) []api.Todo {
		return prepend(todo, cur)
	})
	if err := c.view.ClearInput(ctx); err != nil {
		c.logger.ErrorContext(ctx, "failed to clear input", "err", err)
	}
	return OK().Trigger("todo:created", map[string]any{"id": todo.ID})
}

func (c *Controller) startEdit(ctx context.Context, p Payload, _ *http.Request) Result {
	c.state.Update(ctx, func(cur []api.Todo) []api.Todo {
		return editing(p.ID, cur)
	})
	return OK()
}

func (c *Controller) saveEdit(ctx context.Context, p Payload, r *http.Request) Result {
	todo, err := c.todos.UpdateTodo(ctx, p.ID, api.ContentPatch(r.FormValue("content")))
	if err != nil {
		return c.fail(ctx, p, err)
	}
	c.state.Update(ctx, func(cur []api.Todo) []api.Todo {
		return replaced(todo, cur)
	})
	return OK().Trigger("todo:updated", map[string]any{"id": todo.ID})
}

func (c *Controller) delete(ctx context.Context, p Payload, _ *http.Request) Result {
	if _, err := c.todos.DeleteTodo(ctx, p.ID); err != nil {
		return c.fail(ctx, p, err)
	}
	c.state.Update(ctx, func(cur []api.Todo) []api.Todo {
		return without(p.ID, cur)
	})
	return OK().Trigger("todo:deleted", map[string]any{"id": p.ID})
}

// toggleStatus moves a record to the other list. The direction follows
// the list the button was rendered in, not the record's current status.
func (c *Controller) toggleStatus(ctx context.Context, p Payload, _ *http.Request) Result {
	status := api.StatusCompleted
	if p.List == ListCompleted {
		status = api.StatusPending
	}
	todo, err := c.todos.UpdateTodo(ctx, p.ID, api.StatusPatch(status))
	if err != nil {
		return c.fail(ctx, p, err)
	}
	c.state.Update(ctx, func(cur []api.Todo) []api.Todo {
		return replaced(todo, cur)
	})
	return OK().Trigger("todo:updated", map[string]any{"id": todo.ID})
}

// fail leaves the state untouched and reports err to the user.
func (c *Controller) fail(ctx context.Context, p Payload, err error) Result {
	c.logger.ErrorContext(ctx, "action failed", "action", p.Kind, "id", p.ID, "err", err)
	msg, ok := failureMessages[p.Kind]
	if !ok {
		msg = "Something went wrong."
	}
	return Err(err).Flash(FlashError, msg)
}

// Handler returns the HTTP handler for action routes,
// POST <prefix>/{action}.
//
// Mutating requests must carry HX-Request: true.
func (c *Controller) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+c.actions.Prefix()+"/{action}", c.serveAction)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead && !IsHTMX(r) {
			c.OnError(w, r, ErrHTMXRequired)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (c *Controller) serveAction(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseActionKind(r.PathValue("action"))
	if err != nil {
		c.OnError(w, r, err)
		return
	}
	h, ok := c.handlers[kind]
	if !ok {
		c.OnError(w, r, fmt.Errorf("%w: %s", ErrUnknownAction, kind))
		return
	}
	if err := r.ParseForm(); err != nil {
		c.OnError(w, r, fmt.Errorf("%w: %v", ErrInvalidFormat, err))
		return
	}
	p, err := c.actions.Decode(kind, r.PostFormValue("p"))
	if err != nil {
		c.OnError(w, r, err)
		return
	}

	ctx, rec := WithRecorder(r.Context())
	c.logger.DebugContext(ctx, "action", "action", kind, "list", p.List, "id", p.ID, "trigger", TriggerID(r))
	c.writeResult(w, rec, h(ctx, p, r))
}

// writeResult writes the recorded patches and flashes as out-of-band
// swaps. Failed actions still answer 200 so htmx applies the toast.
func (c *Controller) writeResult(w http.ResponseWriter, rec *Recorder, res Result) {
	if trigger := BuildTriggerHeader(res.GetTrigger(), res.GetTriggerData()); trigger != "" {
		w.Header().Set("HX-Trigger", trigger)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write([]byte(rec.Render() + RenderFlashesOOB(res.GetFlashes())))
}

// Prefix returns the URL prefix the action routes are served under.
func (c *Controller) Prefix() string {
	return c.actions.Prefix()
}

// Page reloads the list from the backend and returns the full page. When
// the backend is unreachable the last known list is shown.
func (c *Controller) Page(ctx context.Context) templ.Component {
	if err := c.Init(ctx); err != nil {
		c.logger.WarnContext(ctx, "serving last known todos", "count", len(c.state.Todos()), "err", err)
	}
	return c.view.Page(c.state.Todos())
}

// ServePage writes Page to w.
func (c *Controller) ServePage(w http.ResponseWriter, r *http.Request) {
	if err := Render(w, r, c.Page(r.Context())); err != nil {
		c.logger.ErrorContext(r.Context(), "failed to render page", "err", err)
	}
}

func (c *Controller) defaultOnError(w http.ResponseWriter, r *http.Request, err error) {
	c.logger.WarnContext(r.Context(), "rejected action request", "path", r.URL.Path, "err", err)
	switch {
	case errors.Is(err, ErrHTMXRequired):
		http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
	case IsNotFound(err):
		http.Error(w, "Not found", http.StatusNotFound)
	case IsBadPayload(err):
		http.Error(w, "Bad request", http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
