package hxtodo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxtodo/lib/encoding"
)

// DefaultPrefix is the URL prefix actions are served under.
const DefaultPrefix = "/_c/todos"

// ActionKind identifies a user action on the page.
type ActionKind uint8

const (
	ActionCreate ActionKind = iota + 1
	ActionStartEdit
	ActionSaveEdit
	ActionDelete
	ActionToggleStatus
)

var actionNames = [...]string{
	ActionCreate:       "create",
	ActionStartEdit:    "start-edit",
	ActionSaveEdit:     "save-edit",
	ActionDelete:       "delete",
	ActionToggleStatus: "status",
}

// String returns the stable name used in action URLs.
func (k ActionKind) String() string {
	if k > 0 && int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// ParseActionKind returns the kind named s, or ErrUnknownAction.
func ParseActionKind(s string) (ActionKind, error) {
	for k, name := range actionNames {
		if name != "" && name == s {
			return ActionKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// List names one of the two containers a record is rendered in.
type List string

const (
	ListPending   List = "pending"
	ListCompleted List = "completed"
)

// Selector returns the CSS selector of the container element.
func (l List) Selector() string {
	return "." + string(l) + "-list"
}

// Payload is the signed state carried by an action button.
type Payload struct {
	Kind ActionKind `msgpack:"k"`
	List List       `msgpack:"l,omitempty"`
	ID   int        `msgpack:"id,omitempty"`
}

// Actions turns payloads into HTMX attributes and back.
type Actions struct {
	prefix string
	enc    *encoding.Encoder
}

// NewActions creates an action codec serving under prefix.
// An empty prefix means DefaultPrefix.
func NewActions(prefix string, enc *encoding.Encoder) *Actions {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Actions{prefix: strings.TrimRight(prefix, "/"), enc: enc}
}

// Prefix returns the URL prefix.
func (a *Actions) Prefix() string {
	return a.prefix
}

// Path returns the URL an action of kind k is posted to.
func (a *Actions) Path(k ActionKind) string {
	return a.prefix + "/" + k.String()
}

// Attrs encodes p and returns the attributes that post it.
// include is an optional hx-include selector.
func (a *Actions) Attrs(p Payload, include string) (templ.Attributes, error) {
	encoded, err := a.enc.Encode(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Kind, err)
	}
	return WireAttrs(a.Path(p.Kind), encoded, include), nil
}

// Decode verifies token and checks that it was issued for kind.
func (a *Actions) Decode(kind ActionKind, token string) (Payload, error) {
	var p Payload
	if token == "" {
		return p, ErrInvalidFormat
	}
	if err := a.enc.Decode(token, &p); err != nil {
		return p, wrapEncodingError(err)
	}
	if p.Kind != kind {
		return p, fmt.Errorf("%w: got %s, want %s", ErrActionMismatch, p.Kind, kind)
	}
	return p, nil
}

// WireAttrs builds the HTMX attributes that post encoded to path.
//
// Actions never swap their own response: every visible change arrives
// as an out-of-band swap, so hx-swap is always "none".
func WireAttrs(path, encoded, include string) templ.Attributes {
	attrs := templ.Attributes{
		"hx-post": path,
		"hx-swap": string(SwapNone),
	}
	if encoded != "" {
		data, _ := json.Marshal(map[string]string{"p": encoded})
		attrs["hx-vals"] = string(data)
	}
	if include != "" {
		attrs["hx-include"] = include
	}
	return attrs
}
