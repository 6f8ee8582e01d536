package hxtodo

import (
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
)

// TestResult holds the response to a simulated request.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	TriggeredEvents []string
	Flashes         []Flash
}

// TestAction posts an action to c the way a page button would: the payload
// is encoded with the controller's codec and sent with HX-Request set.
//
//	result, err := hxtodo.TestAction(c, hxtodo.Payload{Kind: hxtodo.ActionCreate}, map[string]string{
//	    "content": "buy milk",
//	})
//	if !result.IsOK() {
//	    t.Fatal("expected success")
//	}
func TestAction(c *Controller, p Payload, formData map[string]string) (*TestResult, error) {
	token, err := c.actions.enc.Encode(p)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("p", token)
	for k, v := range formData {
		form.Set(k, v)
	}

	req := httptest.NewRequest(http.MethodPost, c.actions.Path(p.Kind), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	return serveTest(c.Handler(), req), nil
}

// TestPage loads the full page from c.
func TestPage(c *Controller) *TestResult {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return serveTest(http.HandlerFunc(c.ServePage), req)
}

func serveTest(h http.Handler, req *http.Request) *TestResult {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
	if trigger := rec.Header().Get("HX-Trigger"); trigger != "" {
		result.TriggeredEvents = parseTriggerHeader(trigger)
	}
	result.Flashes = parseFlashesFromHTML(result.HTML)
	return result
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// Patched returns the contents swapped into selector out of band, and
// whether such a swap is present.
func (r *TestResult) Patched(selector string) (string, bool) {
	marker := `hx-swap-oob="` + string(SwapInner) + ":" + html.EscapeString(selector) + `">`
	start := strings.Index(r.HTML, marker)
	if start == -1 {
		return "", false
	}
	start += len(marker)
	end := strings.Index(r.HTML[start:], "</div>")
	if end == -1 {
		return "", false
	}
	return r.HTML[start : start+end], true
}

// Replaced reports whether the element matching selector is replaced
// out of band.
func (r *TestResult) Replaced(selector string) bool {
	return strings.Contains(r.HTML, `hx-swap-oob="`+string(SwapOuter)+":"+html.EscapeString(selector)+`"`)
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if e == event {
			return true
		}
	}
	return false
}

// HasFlash checks if a flash message was set with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasFlashLevel checks if any flash message was set with the given level.
func (r *TestResult) HasFlashLevel(level string) bool {
	for _, f := range r.Flashes {
		if f.Level == level {
			return true
		}
	}
	return false
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// parseTriggerHeader returns the event names in an HX-Trigger value, which
// is either a JSON object keyed by event or a comma-separated list.
func parseTriggerHeader(trigger string) []string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil
	}

	if strings.HasPrefix(trigger, "{") {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trigger), &obj); err != nil {
			return nil
		}
		events := make([]string, 0, len(obj))
		for k := range obj {
			events = append(events, k)
		}
		sort.Strings(events)
		return events
	}

	parts := strings.Split(trigger, ",")
	events := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			events = append(events, p)
		}
	}
	return events
}

// parseFlashesFromHTML extracts flash messages rendered by RenderFlashesOOB.
func parseFlashesFromHTML(body string) []Flash {
	var flashes []Flash

	const prefix = `<div class="toast toast-`
	rest := body
	for {
		start := strings.Index(rest, prefix)
		if start == -1 {
			break
		}
		rest = rest[start+len(prefix):]

		levelEnd := strings.Index(rest, `"`)
		tagEnd := strings.Index(rest, ">")
		if levelEnd == -1 || tagEnd == -1 {
			break
		}
		level := rest[:levelEnd]
		rest = rest[tagEnd+1:]

		msgEnd := strings.Index(rest, "</div>")
		if msgEnd == -1 {
			break
		}
		flashes = append(flashes, Flash{
			Level:   html.UnescapeString(level),
			Message: html.UnescapeString(rest[:msgEnd]),
		})
		rest = rest[msgEnd:]
	}

	return flashes
}
