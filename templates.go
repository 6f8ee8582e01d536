package hxtodo

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxtodo/lib/api"
)

// emptyList is shown in a container without records.
const emptyList = `<h4>no task to display!</h4>`

const (
	htmxScript   = "https://unpkg.com/htmx.org@1.9.12"
	htmxWSScript = "https://unpkg.com/htmx.org@1.9.12/dist/ext/ws.js"
)

// dismissScript removes toasts once their data-auto-dismiss delay passes.
const dismissScript = `document.body.addEventListener("htmx:oobAfterSwap", function () {
  document.querySelectorAll("[data-auto-dismiss]").forEach(function (el) {
    var ms = parseInt(el.dataset.autoDismiss, 10);
    el.removeAttribute("data-auto-dismiss");
    setTimeout(function () { el.remove(); }, ms);
  });
});`

// htmlWriter accumulates the first write error so templates read linearly.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// attrs writes attributes in key order so output is deterministic.
func (hw *htmlWriter) attrs(a templ.Attributes) {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := a[k].(type) {
		case bool:
			if v {
				hw.raw(" " + templ.EscapeString(k))
			}
		case string:
			hw.raw(" " + templ.EscapeString(k) + `="` + templ.EscapeString(v) + `"`)
		}
	}
}

// actionButton renders a button posting a payload for record id.
func (hw *htmlWriter) actionButton(a *Actions, class, label string, p Payload, include string) {
	if hw.err != nil {
		return
	}
	wire, err := a.Attrs(p, include)
	if err != nil {
		hw.err = err
		return
	}
	hw.raw(`<button class="` + class + `" id="` + strconv.Itoa(p.ID) + `"`)
	hw.attrs(wire)
	hw.raw(">")
	hw.text(label)
	hw.raw("</button>")
}

// todoItem renders one record for the container named by list.
//
// Pending records read content, edit, delete, toggle; completed records
// put the toggle first.
func todoItem(a *Actions, list List, t api.Todo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		payload := func(k ActionKind) Payload { return Payload{Kind: k, List: list, ID: t.ID} }

		toggle := func() {
			label := "->"
			if list == ListCompleted {
				label = "<-"
			}
			hw.actionButton(a, "status-btn", label, payload(ActionToggleStatus), "")
		}

		hw.raw("<li>")
		if list == ListCompleted {
			toggle()
		}
		if t.Editing {
			hw.raw(`<input type="text" name="content" value="`)
			hw.text(t.Content)
			hw.raw(`">`)
			hw.actionButton(a, "save-edit-btn", "save", payload(ActionSaveEdit), "closest li")
		} else {
			hw.raw("<span>")
			hw.text(t.Content)
			hw.raw("</span>")
			hw.actionButton(a, "start-edit-btn", "edit", payload(ActionStartEdit), "")
		}
		hw.actionButton(a, "delete-btn", "delete", payload(ActionDelete), "")
		if list == ListPending {
			toggle()
		}
		hw.raw("</li>")
		return hw.err
	})
}

// todoList renders the contents of one container.
func todoList(a *Actions, list List, todos []api.Todo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(todos) == 0 {
			_, err := io.WriteString(w, emptyList)
			return err
		}
		for _, t := range todos {
			if err := todoItem(a, list, t).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// inputField renders the text input new records are typed into.
func inputField() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<input class="input" name="content" type="text" placeholder="what needs doing?" value="">`)
		return err
	})
}

// page renders the full document around both containers.
func page(a *Actions, livePath string, pending, completed []api.Todo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>todos</title>`)
		hw.raw(`<script src="` + htmxScript + `"></script>`)
		if livePath != "" {
			hw.raw(`<script src="` + htmxWSScript + `"></script>`)
		}
		hw.raw(`</head>`)

		if livePath != "" {
			hw.raw(`<body hx-ext="ws"`)
			hw.attrs(templ.Attributes{"ws-connect": livePath})
			hw.raw(`>`)
		} else {
			hw.raw(`<body>`)
		}

		hw.raw(`<main><h1>todos</h1><div class="form">`)
		if hw.err == nil {
			hw.err = inputField().Render(ctx, w)
		}
		if hw.err == nil {
			wire, err := a.Attrs(Payload{Kind: ActionCreate}, ".input")
			hw.err = err
			hw.raw(`<button class="` + strings.TrimPrefix(SelectorSubmit, ".") + `"`)
			hw.attrs(wire)
			hw.raw(`>add</button>`)
		}
		hw.raw(`</div>`)

		hw.raw(`<section><h2>pending</h2><ul class="pending-list">`)
		if hw.err == nil {
			hw.err = todoList(a, ListPending, pending).Render(ctx, w)
		}
		hw.raw(`</ul></section><section><h2>completed</h2><ul class="completed-list">`)
		if hw.err == nil {
			hw.err = todoList(a, ListCompleted, completed).Render(ctx, w)
		}
		hw.raw(`</ul></section></main>`)

		if hw.err == nil {
			hw.err = ToastContainer().Render(ctx, w)
		}
		hw.raw(`<script>` + dismissScript + `</script></body></html>`)
		return hw.err
	})
}
