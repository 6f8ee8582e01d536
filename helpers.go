package hxtodo

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    hxtodo.Render(w, r, view.Page(todos))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
//
// HTMX sends HX-Request: true on all requests. Cross-site forms cannot set
// the header, so action handlers reject state changes without it.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// TriggerID returns the id attribute of the element that triggered the
// request. For action buttons this is the record id.
//
// Returns empty string if not present.
func TriggerID(r *http.Request) string {
	return r.Header.Get("HX-Trigger")
}

// BuildTriggerHeader builds an HX-Trigger header value.
//
//  1. Simple event name: "todo:deleted" -> "todo:deleted"
//  2. Event with data: "todo:created" + {"id": 3} -> {"todo:created":{"id":3}}
func BuildTriggerHeader(trigger string, triggerData map[string]any) string {
	if trigger == "" {
		return ""
	}
	if triggerData == nil {
		return trigger
	}

	data, _ := json.Marshal(map[string]any{trigger: triggerData})
	return string(data)
}
