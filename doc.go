// Package hxtodo is a server-rendered todo list built with Go, templ
// templates and HTMX.
//
// The page is split the classic way:
//   - State holds the ordered list and notifies one subscriber on change
//   - View renders the list into the two containers of the page
//   - Controller loads the list, turns button clicks into backend calls
//     and replaces the State with the result
//
// The browser keeps no state of its own. Every change is rendered on the
// server and sent back as out-of-band swaps into .pending-list and
// .completed-list; the text input is reset the same way after a create.
//
// # Wiring
//
//	client := api.New(fetch.New(), cfg.BackendURL)
//	actions := hxtodo.NewActions("", encoder)
//	doc := hxtodo.NewDocument(hub)
//	c := hxtodo.NewController(client, hxtodo.NewView(doc, actions), actions, logger)
//	if err := c.Bootstrap(ctx); err != nil {
//	    logger.Warn("starting with an empty list", "err", err)
//	}
//	http.Handle("/_c/todos/", c.Handler())
//	http.HandleFunc("GET /{$}", c.ServePage)
//
// # Actions
//
// Buttons post a Payload naming the action, the list the button was
// rendered in and the record id. Payloads are msgpack-encoded and either
// signed (default) or encrypted, so clients cannot forge actions for
// records they were never shown.
//
// Mutating requests must carry the HX-Request: true header that HTMX sends,
// which cross-site forms cannot set.
//
// # Failures
//
// A failed backend call leaves the State untouched. The error is logged
// and the user sees an error toast; nothing else on the page changes.
//
// # Live updates
//
// A Document given a Publisher pushes every list update to all open pages,
// so several tabs stay in sync through the htmx ws extension.
package hxtodo
